package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/playhouse-labs/bankroll-contract/common"
	"github.com/stretchr/testify/require"
)

func TestClaimToken_Version(t *testing.T) {
	s := newVaultSetup(t)
	s.claimToken.Invoke(t, common.Version, "version")
}

func TestClaimToken_TokenInfo(t *testing.T) {
	s := newVaultSetup(t)

	s.claimToken.Invoke(t, "CLAIM", "symbol")
	s.claimToken.Invoke(t, 12, "decimals")

	unknown := util.Uint160{1, 2, 3}.BytesLE()
	s.claimToken.InvokeFail(t, "unknown token class", "totalSupply", unknown)
	s.claimToken.InvokeFail(t, "unknown token class", "balanceOf", unknown, s.executor.CommitteeHash)

	s.createVault(t, s.gasHash)
	s.claimToken.Invoke(t, 0, "totalSupply", s.gasHash.BytesLE())
}

func TestClaimToken_ManagerGating(t *testing.T) {
	s := newVaultSetup(t)

	// even the committee cannot bypass the vault manager
	s.claimToken.InvokeFail(t, "only vault manager can invoke this method",
		"createToken", s.gasHash)

	s.createVault(t, s.gasHash)
	id := s.gasHash.BytesLE()

	s.claimToken.InvokeFail(t, "only vault manager can invoke this method",
		"mint", id, s.executor.CommitteeHash, 100)
	s.claimToken.InvokeFail(t, "only vault manager can invoke this method",
		"burn", id, s.executor.CommitteeHash, 100)
}

func TestClaimToken_Transfer(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	s.createVault(t, s.gasHash)
	id := s.gasHash.BytesLE()

	alice := e.NewAccount(t)
	bob := e.NewAccount(t)

	s.addLiquidity(t, bob, s.gasHash, 300, 0, 300)
	s.addLiquidity(t, alice, s.gasHash, 700, 0, 700)

	game := s.newGame(t)
	s.depositProfit(t, game, s.gasHash, 1000)
	require.EqualValues(t, 2*scale, s.currentPrice(t, s.gasHash))

	aliceInv := e.NewInvoker(s.claimTokenHash, alice)
	bobInv := e.NewInvoker(s.claimTokenHash, bob)

	// only the token owner moves its tokens
	bobInv.Invoke(t, false, "transfer", id, alice.ScriptHash(), bob.ScriptHash(), 200, nil)
	aliceInv.Invoke(t, false, "transfer", id, alice.ScriptHash(), bob.ScriptHash(), 10_000, nil)
	aliceInv.InvokeFail(t, "unknown token class", "transfer",
		util.Uint160{1, 2, 3}.BytesLE(), alice.ScriptHash(), bob.ScriptHash(), 1, nil)
	aliceInv.InvokeFail(t, "invalid amount",
		"transfer", id, alice.ScriptHash(), bob.ScriptHash(), 0, nil)

	aliceInv.Invoke(t, true, "transfer", id, alice.ScriptHash(), bob.ScriptHash(), 200, nil)

	require.EqualValues(t, 500, s.claimBalance(t, id, alice.ScriptHash()))
	require.EqualValues(t, 500, s.claimBalance(t, id, bob.ScriptHash()))
	s.claimToken.Invoke(t, 1000, "totalSupply", id)

	// the sender keeps its rate, the receiver buys in at the current
	// price blended over what it already held
	claims, avgRate := s.position(t, s.gasHash, alice.ScriptHash())
	require.EqualValues(t, 500, claims)
	require.EqualValues(t, scale, avgRate)

	claims, avgRate = s.position(t, s.gasHash, bob.ScriptHash())
	require.EqualValues(t, 500, claims)
	require.EqualValues(t, scale*7/5, avgRate)

	s.checkInvariant(t, s.gasHash, alice.ScriptHash(), bob.ScriptHash())
}

func TestClaimToken_Staking(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	s.createVault(t, s.gasHash)
	id := s.gasHash.BytesLE()

	alice := e.NewAccount(t)
	s.addLiquidity(t, alice, s.gasHash, 1000, 0, 1000)

	sink := e.NewAccount(t)
	s.vault.Invoke(t, stackitem.Null{}, "addSink", sink.ScriptHash())

	aliceInv := e.NewInvoker(s.claimTokenHash, alice)
	sinkInv := e.NewInvoker(s.claimTokenHash, sink)

	aliceInv.Invoke(t, true, "transfer", id, alice.ScriptHash(), sink.ScriptHash(), 400, nil)

	require.EqualValues(t, 400, s.stakingInfo(t, s.gasHash, alice.ScriptHash(), sink.ScriptHash()))
	require.EqualValues(t, 600, s.claimBalance(t, id, alice.ScriptHash()))
	require.EqualValues(t, 400, s.claimBalance(t, id, sink.ScriptHash()))

	// staking does not touch the position, the cost basis survives
	claims, avgRate := s.position(t, s.gasHash, alice.ScriptHash())
	require.EqualValues(t, 1000, claims)
	require.EqualValues(t, scale, avgRate)

	sinkInv.Invoke(t, true, "transfer", id, sink.ScriptHash(), alice.ScriptHash(), 150, nil)
	require.EqualValues(t, 250, s.stakingInfo(t, s.gasHash, alice.ScriptHash(), sink.ScriptHash()))

	sinkInv.InvokeFail(t, "insufficient staked amount",
		"transfer", id, sink.ScriptHash(), alice.ScriptHash(), 300, nil)

	// the sink can only give back what the holder staked itself
	bob := e.NewAccount(t)
	sinkInv.InvokeFail(t, "insufficient staked amount",
		"transfer", id, sink.ScriptHash(), bob.ScriptHash(), 100, nil)

	// position weight alone is not enough to exit while tokens sit in
	// the sink
	vaultInv := e.NewInvoker(s.vaultHash, alice)
	vaultInv.InvokeFail(t, "insufficient claim token balance",
		"removeLiquidity", s.gasHash, alice.ScriptHash(), 800)
}

func TestClaimToken_SinkToSink(t *testing.T) {
	s := newVaultSetup(t)
	e := s.executor

	s.createVault(t, s.gasHash)
	id := s.gasHash.BytesLE()

	alice := e.NewAccount(t)
	s.addLiquidity(t, alice, s.gasHash, 1000, 0, 1000)

	sink := e.NewAccount(t)
	sink2 := e.NewAccount(t)
	s.vault.Invoke(t, stackitem.Null{}, "addSink", sink.ScriptHash())
	s.vault.Invoke(t, stackitem.Null{}, "addSink", sink2.ScriptHash())

	aliceInv := e.NewInvoker(s.claimTokenHash, alice)
	aliceInv.Invoke(t, true, "transfer", id, alice.ScriptHash(), sink.ScriptHash(), 400, nil)

	// the receiving sink wins, the sender is bookkept as a staking holder
	sinkInv := e.NewInvoker(s.claimTokenHash, sink)
	sinkInv.Invoke(t, true, "transfer", id, sink.ScriptHash(), sink2.ScriptHash(), 50, nil)

	require.EqualValues(t, 400, s.stakingInfo(t, s.gasHash, alice.ScriptHash(), sink.ScriptHash()))
	require.EqualValues(t, 50, s.stakingInfo(t, s.gasHash, sink.ScriptHash(), sink2.ScriptHash()))
}
