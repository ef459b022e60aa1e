package bankroll

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/playhouse-labs/bankroll-contract/common"
)

const (
	balancePrefix    = 'b'
	settlementPrefix = 's'
	blacklistPrefix  = 'x'
	assetPrefix      = 'a'

	feeKey          = 'f'
	feeRecipientKey = 'r'
	frozenKey       = 'z'

	// Fee is expressed in basis points, 10000 bps == 100%.
	feeDenominator = 10000
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
		feeRecipient interop.Hash160
	})

	if len(args.feeRecipient) != interop.Hash160Len {
		panic("incorrect length of fee recipient script hash")
	}

	storage.Put(ctx, feeRecipientKey, args.feeRecipient)

	runtime.Log("bankroll contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bankroll contract updated")
}

// Deposit accepts amount of asset from the from account and credits it to
// the custodied balance of the asset. The caller must hold the settlement
// capability: either the calling contract was registered with AddSettlement,
// or from itself holds the capability and signed the transaction. The funds
// are pulled with a NEP-17 transfer which must succeed for the deposit to
// take effect.
//
// Produces Deposit notification.
func Deposit(asset, from interop.Hash160, amount int, details []byte) {
	ctx := storage.GetContext()

	if len(asset) != interop.Hash160Len || len(from) != interop.Hash160Len {
		panic("incorrect length of script hash")
	}

	checkSettlement(ctx, from)

	if isBlacklisted(ctx, from) {
		panic("account is blacklisted")
	}

	if !isAssetAllowed(ctx, asset) {
		panic("asset is not allowed")
	}

	if amount <= 0 {
		panic("invalid amount")
	}

	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(asset, "transfer", contract.All, from, self, amount, nil).(bool)
	if !ok {
		panic("asset transfer failed")
	}

	key := balanceKey(asset)
	storage.Put(ctx, key, common.GetInt(ctx, key)+amount)

	runtime.Notify("Deposit", asset, from, amount, details)
}

// RequestPayout debits amount from the custodied balance of the asset and
// transfers it to the user net of the withdrawal fee; the fee goes to the
// fee recipient. It can be invoked only by a contract holding the settlement
// capability. Both transfers must succeed, otherwise the whole payout is
// aborted.
//
// Produces Payout notification.
func RequestPayout(user interop.Hash160, amount int, asset interop.Hash160, details []byte) {
	ctx := storage.GetContext()

	if len(asset) != interop.Hash160Len || len(user) != interop.Hash160Len {
		panic("incorrect length of script hash")
	}

	caller := runtime.GetCallingScriptHash()
	if !isSettlement(ctx, caller) {
		panic("caller lacks settlement capability")
	}

	if isBlacklisted(ctx, user) {
		panic("account is blacklisted")
	}

	if common.GetFlag(ctx, frozenKey) {
		panic("withdrawals are frozen")
	}

	if amount <= 0 {
		panic("invalid amount")
	}

	key := balanceKey(asset)
	balance := common.GetInt(ctx, key)
	if balance < amount {
		panic("insufficient bankroll balance")
	}

	fee := amount * common.GetInt(ctx, feeKey) / feeDenominator
	storage.Put(ctx, key, balance-amount)

	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(asset, "transfer", contract.All, self, user, amount-fee, nil).(bool)
	if !ok {
		panic("payout transfer failed")
	}

	if fee > 0 {
		recipient := storage.Get(ctx, feeRecipientKey).(interop.Hash160)
		ok = contract.Call(asset, "transfer", contract.All, self, recipient, fee, nil).(bool)
		if !ok {
			panic("fee transfer failed")
		}
	}

	runtime.Notify("Payout", asset, user, amount, fee, details)
}

// GetBalance returns the custodied balance of the asset.
func GetBalance(asset interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, balanceKey(asset))
}

// AddSettlement grants the deposit-and-payout capability to the account or
// contract. It can be invoked only by committee.
func AddSettlement(addr interop.Hash160) {
	setFlag(settlementPrefix, addr, true)
	runtime.Log("settlement capability granted")
}

// RemoveSettlement revokes the deposit-and-payout capability. It can be
// invoked only by committee.
func RemoveSettlement(addr interop.Hash160) {
	setFlag(settlementPrefix, addr, false)
	runtime.Log("settlement capability revoked")
}

// IsSettlement returns true if the account or contract holds the
// deposit-and-payout capability.
func IsSettlement(addr interop.Hash160) bool {
	return isSettlement(storage.GetReadOnlyContext(), addr)
}

// AddToBlacklist blocks the account from depositing and receiving payouts.
// It can be invoked only by committee.
func AddToBlacklist(user interop.Hash160) {
	setFlag(blacklistPrefix, user, true)
	runtime.Log("account blacklisted")
}

// RemoveFromBlacklist unblocks the account. It can be invoked only by
// committee.
func RemoveFromBlacklist(user interop.Hash160) {
	setFlag(blacklistPrefix, user, false)
	runtime.Log("account removed from blacklist")
}

// IsBlacklisted returns true if the account is blacklisted.
func IsBlacklisted(user interop.Hash160) bool {
	return isBlacklisted(storage.GetReadOnlyContext(), user)
}

// AllowAsset adds the asset to the whitelist of custodied assets. It can be
// invoked only by committee.
func AllowAsset(asset interop.Hash160) {
	setFlag(assetPrefix, asset, true)
	runtime.Log("asset allowed")
}

// DisallowAsset removes the asset from the whitelist. It can be invoked only
// by committee. Already custodied balances are kept and can still be paid
// out.
func DisallowAsset(asset interop.Hash160) {
	setFlag(assetPrefix, asset, false)
	runtime.Log("asset disallowed")
}

// IsAssetAllowed returns true if the asset is whitelisted.
func IsAssetAllowed(asset interop.Hash160) bool {
	return isAssetAllowed(storage.GetReadOnlyContext(), asset)
}

// FreezeWithdrawals suspends all payouts. It can be invoked only by
// committee.
func FreezeWithdrawals() {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()
	storage.Put(ctx, frozenKey, 1)
	runtime.Log("withdrawals frozen")
}

// UnfreezeWithdrawals resumes payouts. It can be invoked only by committee.
func UnfreezeWithdrawals() {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()
	storage.Delete(ctx, frozenKey)
	runtime.Log("withdrawals unfrozen")
}

// WithdrawalsFrozen returns true if payouts are suspended.
func WithdrawalsFrozen() bool {
	return common.GetFlag(storage.GetReadOnlyContext(), frozenKey)
}

// SetWithdrawFee sets the payout fee in basis points, bounded to 100%. It
// can be invoked only by committee.
func SetWithdrawFee(bps int) {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	if bps < 0 || bps > feeDenominator {
		panic("invalid fee")
	}

	storage.Put(ctx, feeKey, bps)
}

// WithdrawFee returns the payout fee in basis points.
func WithdrawFee() int {
	return common.GetInt(storage.GetReadOnlyContext(), feeKey)
}

// SetFeeRecipient sets the account receiving payout fees. It can be invoked
// only by committee.
func SetFeeRecipient(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	if len(addr) != interop.Hash160Len {
		panic("incorrect length of fee recipient script hash")
	}

	storage.Put(ctx, feeRecipientKey, addr)
}

// FeeRecipient returns the account receiving payout fees.
func FeeRecipient() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, feeRecipientKey).(interop.Hash160)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

// checkSettlement authorizes a mutating call: either the calling contract
// holds the settlement capability, or acc holds it and witnessed the
// transaction.
func checkSettlement(ctx storage.Context, acc interop.Hash160) {
	caller := runtime.GetCallingScriptHash()
	if isSettlement(ctx, caller) {
		return
	}

	if isSettlement(ctx, acc) && runtime.CheckWitness(acc) {
		return
	}

	panic("caller lacks settlement capability")
}

func isSettlement(ctx storage.Context, addr interop.Hash160) bool {
	return common.GetFlag(ctx, append([]byte{settlementPrefix}, addr...))
}

func isBlacklisted(ctx storage.Context, user interop.Hash160) bool {
	return common.GetFlag(ctx, append([]byte{blacklistPrefix}, user...))
}

func isAssetAllowed(ctx storage.Context, asset interop.Hash160) bool {
	return common.GetFlag(ctx, append([]byte{assetPrefix}, asset...))
}

func setFlag(prefix byte, addr interop.Hash160, value bool) {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	if len(addr) != interop.Hash160Len {
		panic("incorrect length of script hash")
	}

	key := append([]byte{prefix}, addr...)
	if value {
		storage.Put(ctx, key, 1)
	} else {
		storage.Delete(ctx, key)
	}
}

func balanceKey(asset interop.Hash160) []byte {
	return append([]byte{balancePrefix}, asset...)
}
