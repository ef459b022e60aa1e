package reentry

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	vaultKey = 'v'
	assetKey = 'a'
)

// Exit withdraws the contract's own claim tokens from the vault. The payout
// arrives through OnNEP17Payment while the withdrawal is still in flight.
func Exit(vault, asset interop.Hash160, claimTokens int) {
	ctx := storage.GetContext()
	storage.Put(ctx, vaultKey, vault)
	storage.Put(ctx, assetKey, asset)

	self := runtime.GetExecutingScriptHash()
	contract.Call(vault, "removeLiquidity", contract.All, asset, self, claimTokens)
}

// OnNEP17Payment tries to withdraw again from inside the payout transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	vault := storage.Get(ctx, vaultKey).(interop.Hash160)
	asset := storage.Get(ctx, assetKey).(interop.Hash160)

	self := runtime.GetExecutingScriptHash()
	contract.Call(vault, "removeLiquidity", contract.All, asset, self, 1)
}
