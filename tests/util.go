package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

// scale is the protocol-wide fixed-point scale of prices and exchange
// rates, 10^18.
const scale = 1_000_000_000_000_000_000

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func neoHash(t *testing.T, e *neotest.Executor) util.Uint160 {
	return e.NativeHash(t, nativenames.Neo)
}

func gasBalance(t *testing.T, e *neotest.Executor, acc util.Uint160) *big.Int {
	gasInv := e.CommitteeInvoker(e.NativeHash(t, nativenames.Gas))

	res, err := gasInv.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)

	return res.Top().BigInt()
}
