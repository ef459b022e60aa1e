package claimtoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/playhouse-labs/bankroll-contract/common"
)

const (
	symbol   = "CLAIM"
	decimals = 12

	managerKey = 'm'

	supplyPrefix  = 't'
	balancePrefix = 'b'
)

// nolint:unused
func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrVaultManager interop.Hash160
	})

	if len(args.addrVaultManager) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	storage.Put(ctx, managerKey, args.addrVaultManager)

	runtime.Log("claim token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("claim token contract updated")
}

// Symbol returns the common ticker prefix of all claim token classes.
func Symbol() string {
	return symbol
}

// Decimals returns precision of claim token balances.
func Decimals() int {
	return decimals
}

// CreateToken issues a new claim token class bound to the vault of the given
// asset and returns its id. It can be invoked only by the vault manager.
func CreateToken(asset interop.Hash160) []byte {
	ctx := storage.GetContext()
	checkManager(ctx)

	if len(asset) != interop.Hash160Len {
		panic("incorrect length of asset script hash")
	}

	id := tokenID(asset)
	if storage.Get(ctx, supplyKey(id)) != nil {
		panic("token class already exists")
	}

	storage.Put(ctx, supplyKey(id), 0)
	runtime.Log("claim token class created")

	return id
}

// TotalSupply returns the amount of claim tokens of the class in
// circulation. It panics on an unknown token class.
func TotalSupply(id []byte) int {
	ctx := storage.GetReadOnlyContext()
	requireClass(ctx, id)
	return common.GetInt(ctx, supplyKey(id))
}

// BalanceOf returns the claim token balance of the holder in the class.
func BalanceOf(id []byte, holder interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	requireClass(ctx, id)
	return common.GetInt(ctx, balanceKey(id, holder))
}

// Mint creates amount of claim tokens of the class on the to account. It can
// be invoked only by the vault manager and does not trigger the transfer
// hook.
//
// Produces Transfer notification with empty from field.
func Mint(id []byte, to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkManager(ctx)
	requireClass(ctx, id)

	if len(to) != interop.Hash160Len {
		panic("incorrect length of script hash")
	}

	if amount <= 0 {
		panic("invalid amount")
	}

	key := balanceKey(id, to)
	storage.Put(ctx, key, common.GetInt(ctx, key)+amount)
	storage.Put(ctx, supplyKey(id), common.GetInt(ctx, supplyKey(id))+amount)

	runtime.Notify("Transfer", id, interop.Hash160(nil), to, amount)
}

// Burn destroys amount of claim tokens of the class on the from account. It
// can be invoked only by the vault manager and does not trigger the transfer
// hook.
//
// Produces Transfer notification with empty to field.
func Burn(id []byte, from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkManager(ctx)
	requireClass(ctx, id)

	if amount <= 0 {
		panic("invalid amount")
	}

	key := balanceKey(id, from)
	balance := common.GetInt(ctx, key)
	if balance < amount {
		panic("insufficient claim token balance")
	}

	if balance == amount {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance-amount)
	}

	supply := common.GetInt(ctx, supplyKey(id))
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, supplyKey(id), supply-amount)

	runtime.Notify("Transfer", id, from, interop.Hash160(nil), amount)
}

// Transfer moves amount of claim tokens of the class from one account to
// another. It can be invoked only by the from account owner. Unless either
// party is the vault manager itself, the vault manager is notified through
// onClaimTokenTransfer after the balances are updated; a failing hook faults
// the whole transfer.
//
// Produces Transfer notification.
func Transfer(id []byte, from, to interop.Hash160, amount int, data interface{}) bool {
	ctx := storage.GetContext()
	requireClass(ctx, id)

	if len(to) != interop.Hash160Len || !isUsableAddress(from) {
		runtime.Log("bad script hashes")
		return false
	}

	if amount <= 0 {
		panic("invalid amount")
	}

	fromKey := balanceKey(id, from)
	fromBalance := common.GetInt(ctx, fromKey)
	if fromBalance < amount {
		runtime.Log("not enough claim tokens")
		return false
	}

	if fromBalance == amount {
		storage.Delete(ctx, fromKey)
	} else {
		storage.Put(ctx, fromKey, fromBalance-amount)
	}

	toKey := balanceKey(id, to)
	storage.Put(ctx, toKey, common.GetInt(ctx, toKey)+amount)

	manager := storage.Get(ctx, managerKey).(interop.Hash160)
	if !common.BytesEqual(from, manager) && !common.BytesEqual(to, manager) {
		contract.Call(manager, "onClaimTokenTransfer", contract.All, from, to, amount, assetOf(id))
	}

	runtime.Notify("Transfer", id, from, to, amount)

	return true
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

// isUsableAddress checks if the sender is either a signer of the transaction
// or the calling contract itself.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		callingScriptHash := runtime.GetCallingScriptHash()
		if common.BytesEqual(callingScriptHash, addr) {
			return true
		}
	}

	return false
}

func checkManager(ctx storage.Context) {
	manager := storage.Get(ctx, managerKey).(interop.Hash160)
	if !common.BytesEqual(runtime.GetCallingScriptHash(), manager) {
		panic("only vault manager can invoke this method")
	}
}

func requireClass(ctx storage.Context, id []byte) {
	if storage.Get(ctx, supplyKey(id)) == nil {
		panic("unknown token class")
	}
}

// tokenID derives the class id from the vault asset. The manager is a
// singleton, so the asset hash alone identifies the class.
func tokenID(asset interop.Hash160) []byte {
	return asset
}

func assetOf(id []byte) interop.Hash160 {
	return interop.Hash160(id)
}

func supplyKey(id []byte) []byte {
	return append([]byte{supplyPrefix}, id...)
}

func balanceKey(id []byte, holder interop.Hash160) []byte {
	return append(append([]byte{balancePrefix}, id...), holder...)
}
