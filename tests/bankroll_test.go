package tests

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/playhouse-labs/bankroll-contract/common"
	"github.com/stretchr/testify/require"
)

func TestBankroll_Version(t *testing.T) {
	s := newVaultSetup(t)
	s.bankroll.Invoke(t, common.Version, "version")
}

func TestBankroll_Deposit(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	game := s.newGame(t)
	id := uuid.New()

	stranger := e.NewAccount(t)
	strangerInv := e.NewInvoker(s.bankrollHash, stranger)
	strangerInv.InvokeFail(t, "caller lacks settlement capability",
		"deposit", s.gasHash, stranger.ScriptHash(), 100, id[:])

	gameInv := e.NewInvoker(s.bankrollHash, game)

	s.bankroll.Invoke(t, stackitem.Null{}, "addToBlacklist", game.ScriptHash())
	gameInv.InvokeFail(t, "account is blacklisted",
		"deposit", s.gasHash, game.ScriptHash(), 100, id[:])
	s.bankroll.Invoke(t, stackitem.Null{}, "removeFromBlacklist", game.ScriptHash())

	neoHash := neoHash(t, e)
	gameInv.InvokeFail(t, "asset is not allowed",
		"deposit", neoHash, game.ScriptHash(), 100, id[:])

	gameInv.InvokeFail(t, "invalid amount",
		"deposit", s.gasHash, game.ScriptHash(), 0, id[:])

	gameInv.Invoke(t, stackitem.Null{}, "deposit", s.gasHash, game.ScriptHash(), 1000, id[:])

	s.bankroll.Invoke(t, 1000, "getBalance", s.gasHash)
	require.Equal(t, big.NewInt(1000), gasBalance(t, e, s.bankrollHash))
}

func TestBankroll_RequestPayout(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	game := s.newGame(t)
	s.depositProfit(t, game, s.gasHash, 1000)

	settlementHash := deploySettlementContract(t, e)
	s.bankroll.Invoke(t, stackitem.Null{}, "addSettlement", settlementHash)

	settlement := e.CommitteeInvoker(settlementHash)

	user := e.NewAccount(t)
	id := uuid.New()

	// the capability is bound to the calling contract, a signing account
	// holding it is not enough
	gameInv := e.NewInvoker(s.bankrollHash, game)
	gameInv.InvokeFail(t, "caller lacks settlement capability",
		"requestPayout", user.ScriptHash(), 100, s.gasHash, id[:])

	s.bankroll.Invoke(t, stackitem.Null{}, "setWithdrawFee", 100)

	userBefore := gasBalance(t, e, user.ScriptHash())
	feeBefore := gasBalance(t, e, s.feeRecipient.ScriptHash())

	settlement.Invoke(t, stackitem.Null{}, "payout",
		s.bankrollHash, user.ScriptHash(), 600, s.gasHash, id[:])

	s.bankroll.Invoke(t, 400, "getBalance", s.gasHash)

	userAfter := gasBalance(t, e, user.ScriptHash())
	feeAfter := gasBalance(t, e, s.feeRecipient.ScriptHash())
	require.Equal(t, int64(594), new(big.Int).Sub(userAfter, userBefore).Int64())
	require.Equal(t, int64(6), new(big.Int).Sub(feeAfter, feeBefore).Int64())

	settlement.InvokeFail(t, "insufficient bankroll balance", "payout",
		s.bankrollHash, user.ScriptHash(), 1000, s.gasHash, id[:])

	s.bankroll.Invoke(t, stackitem.Null{}, "addToBlacklist", user.ScriptHash())
	settlement.InvokeFail(t, "account is blacklisted", "payout",
		s.bankrollHash, user.ScriptHash(), 100, s.gasHash, id[:])
	s.bankroll.Invoke(t, stackitem.Null{}, "removeFromBlacklist", user.ScriptHash())
}

func TestBankroll_FreezeWithdrawals(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	game := s.newGame(t)
	s.depositProfit(t, game, s.gasHash, 1000)

	settlementHash := deploySettlementContract(t, e)
	s.bankroll.Invoke(t, stackitem.Null{}, "addSettlement", settlementHash)
	settlement := e.CommitteeInvoker(settlementHash)

	user := e.NewAccount(t)
	id := uuid.New()

	s.bankroll.Invoke(t, false, "withdrawalsFrozen")
	s.bankroll.Invoke(t, stackitem.Null{}, "freezeWithdrawals")
	s.bankroll.Invoke(t, true, "withdrawalsFrozen")

	settlement.InvokeFail(t, "withdrawals are frozen", "payout",
		s.bankrollHash, user.ScriptHash(), 100, s.gasHash, id[:])

	s.bankroll.Invoke(t, stackitem.Null{}, "unfreezeWithdrawals")

	before := gasBalance(t, e, user.ScriptHash())
	settlement.Invoke(t, stackitem.Null{}, "payout",
		s.bankrollHash, user.ScriptHash(), 100, s.gasHash, id[:])
	after := gasBalance(t, e, user.ScriptHash())
	require.Equal(t, int64(100), new(big.Int).Sub(after, before).Int64())
}

func TestBankroll_Admin(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	stranger := e.NewAccount(t)
	strangerInv := e.NewInvoker(s.bankrollHash, stranger)

	strangerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "addSettlement", stranger.ScriptHash())
	strangerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "allowAsset", s.gasHash)
	strangerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "freezeWithdrawals")
	strangerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "setWithdrawFee", 50)
	strangerInv.InvokeFail(t, common.ErrCommitteeWitnessFailed, "setFeeRecipient", stranger.ScriptHash())

	s.bankroll.InvokeFail(t, "invalid fee", "setWithdrawFee", 10001)
	s.bankroll.InvokeFail(t, "invalid fee", "setWithdrawFee", -1)
	s.bankroll.Invoke(t, stackitem.Null{}, "setWithdrawFee", 250)
	s.bankroll.Invoke(t, 250, "withdrawFee")

	s.bankroll.Invoke(t, true, "isSettlement", s.vaultHash)
	s.bankroll.Invoke(t, stackitem.Null{}, "removeSettlement", s.vaultHash)
	s.bankroll.Invoke(t, false, "isSettlement", s.vaultHash)

	s.bankroll.Invoke(t, true, "isAssetAllowed", s.gasHash)
	s.bankroll.Invoke(t, stackitem.Null{}, "disallowAsset", s.gasHash)
	s.bankroll.Invoke(t, false, "isAssetAllowed", s.gasHash)
}
