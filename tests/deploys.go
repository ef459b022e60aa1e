package tests

import (
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	bankrollPath   = "../bankroll"
	claimTokenPath = "../claimtoken"
	vaultPath      = "../vault"
	settlementPath = "../internal/testcontracts/settlement"
	reentryPath    = "../internal/testcontracts/reentry"
)

// vaultSetup wires the three contracts the way a production deployment
// does: the claim token knows the vault manager, the vault manager knows
// the bankroll and the claim token, the bankroll grants the vault manager
// the settlement capability and whitelists GAS.
type vaultSetup struct {
	executor *neotest.Executor

	gasHash util.Uint160

	bankrollHash   util.Uint160
	claimTokenHash util.Uint160
	vaultHash      util.Uint160

	// committee-signed invokers
	bankroll   *neotest.ContractInvoker
	claimToken *neotest.ContractInvoker
	vault      *neotest.ContractInvoker

	feeRecipient neotest.Signer
}

func newVaultSetup(t *testing.T) *vaultSetup {
	e := newExecutor(t)

	ctrBankroll := neotest.CompileFile(t, e.CommitteeHash, bankrollPath, path.Join(bankrollPath, "config.yml"))
	ctrClaimToken := neotest.CompileFile(t, e.CommitteeHash, claimTokenPath, path.Join(claimTokenPath, "config.yml"))
	ctrVault := neotest.CompileFile(t, e.CommitteeHash, vaultPath, path.Join(vaultPath, "config.yml"))

	feeRecipient := e.NewAccount(t)

	e.DeployContract(t, ctrBankroll, []interface{}{feeRecipient.ScriptHash()})
	// the vault manager hash is known before deployment, which breaks the
	// circular wiring between the claim token and the manager
	e.DeployContract(t, ctrClaimToken, []interface{}{ctrVault.Hash})
	e.DeployContract(t, ctrVault, []interface{}{ctrBankroll.Hash, ctrClaimToken.Hash})

	s := &vaultSetup{
		executor:       e,
		gasHash:        e.NativeHash(t, nativenames.Gas),
		bankrollHash:   ctrBankroll.Hash,
		claimTokenHash: ctrClaimToken.Hash,
		vaultHash:      ctrVault.Hash,
		bankroll:       e.CommitteeInvoker(ctrBankroll.Hash),
		claimToken:     e.CommitteeInvoker(ctrClaimToken.Hash),
		vault:          e.CommitteeInvoker(ctrVault.Hash),
		feeRecipient:   feeRecipient,
	}

	s.bankroll.Invoke(t, stackitem.Null{}, "allowAsset", s.gasHash)
	s.bankroll.Invoke(t, stackitem.Null{}, "addSettlement", s.vaultHash)

	return s
}

func deploySettlementContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, settlementPath, path.Join(settlementPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func deployReentryContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, reentryPath, path.Join(reentryPath, "config.yml"))
	e.DeployContract(t, c, nil)
	return c.Hash
}

func (s *vaultSetup) createVault(t *testing.T, asset util.Uint160) {
	tx := s.vault.PrepareInvoke(t, "createVault", asset)
	s.executor.AddNewBlock(t, tx)
	s.executor.CheckHalt(t, tx.Hash())
}

// newGame creates an account holding the settlement capability, standing in
// for a wager game operator.
func (s *vaultSetup) newGame(t *testing.T) neotest.Signer {
	game := s.executor.NewAccount(t)
	s.bankroll.Invoke(t, stackitem.Null{}, "addSettlement", game.ScriptHash())
	return game
}

// depositProfit moves settlement proceeds into the bankroll outside of any
// vault operation, the way game losses reach the pool.
func (s *vaultSetup) depositProfit(t *testing.T, game neotest.Signer, asset util.Uint160, amount int64) {
	id := uuid.New()
	inv := s.executor.NewInvoker(s.bankrollHash, game)
	inv.Invoke(t, stackitem.Null{}, "deposit", asset, game.ScriptHash(), amount, id[:])
}

func (s *vaultSetup) addLiquidity(t *testing.T, owner neotest.Signer, asset util.Uint160, amount, minOut, expectedClaims int64) {
	inv := s.executor.NewInvoker(s.vaultHash, owner)
	inv.Invoke(t, expectedClaims, "addLiquidity", asset, owner.ScriptHash(), amount, minOut)
}

func (s *vaultSetup) removeLiquidity(t *testing.T, owner neotest.Signer, asset util.Uint160, claimTokens, expectedPayout int64) {
	inv := s.executor.NewInvoker(s.vaultHash, owner)
	inv.Invoke(t, expectedPayout, "removeLiquidity", asset, owner.ScriptHash(), claimTokens)
}

// vaultState returns the claim token id and the vault's cost-basis ledger
// totals.
func (s *vaultSetup) vaultState(t *testing.T, asset util.Uint160) (id []byte, totalBalance, totalClaims int64) {
	res, err := s.vault.TestInvoke(t, "getVault", asset)
	require.NoError(t, err)

	fields := res.Pop().Array()
	require.Len(t, fields, 4)

	id, err = fields[1].TryBytes()
	require.NoError(t, err)

	balance, err := fields[2].TryInteger()
	require.NoError(t, err)

	claims, err := fields[3].TryInteger()
	require.NoError(t, err)

	return id, balance.Int64(), claims.Int64()
}

func (s *vaultSetup) position(t *testing.T, asset, holder util.Uint160) (claims, avgRate int64) {
	res, err := s.vault.TestInvoke(t, "getPosition", asset, holder)
	require.NoError(t, err)

	fields := res.Pop().Array()
	require.Len(t, fields, 2)

	c, err := fields[0].TryInteger()
	require.NoError(t, err)

	r, err := fields[1].TryInteger()
	require.NoError(t, err)

	return c.Int64(), r.Int64()
}

func (s *vaultSetup) currentPrice(t *testing.T, asset util.Uint160) int64 {
	res, err := s.vault.TestInvoke(t, "currentPrice", asset)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

func (s *vaultSetup) bankrollBalance(t *testing.T, asset util.Uint160) int64 {
	res, err := s.bankroll.TestInvoke(t, "getBalance", asset)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

func (s *vaultSetup) claimBalance(t *testing.T, id []byte, holder util.Uint160) int64 {
	res, err := s.claimToken.TestInvoke(t, "balanceOf", id, holder)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

func (s *vaultSetup) stakingInfo(t *testing.T, asset, holder, sink util.Uint160) int64 {
	res, err := s.vault.TestInvoke(t, "getStakingInfo", asset, holder, sink)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

// checkInvariant asserts that the claim tokens of all holders that ever
// touched the vault sum up exactly to the outstanding supply.
func (s *vaultSetup) checkInvariant(t *testing.T, asset util.Uint160, holders ...util.Uint160) {
	_, _, totalClaims := s.vaultState(t, asset)

	var sum int64
	for _, h := range holders {
		claims, _ := s.position(t, asset, h)
		sum += claims
	}

	require.Equal(t, totalClaims, sum)
}
