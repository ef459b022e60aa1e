package vault

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/playhouse-labs/bankroll-contract/common"
)

type (
	// Vault pairs the cost-basis ledger of an asset pool with its
	// outstanding claim token supply. TotalBalance is the vault's own
	// accounting and diverges from the bankroll balance of the asset
	// whenever settlement clients win or lose.
	Vault struct {
		Asset            interop.Hash160
		ClaimTokenID     []byte
		TotalBalance     int
		TotalClaimTokens int
	}

	// Position is the per-holder claim token record of one vault.
	// AvgExchangeRate is the average price paid per claim token, scaled
	// by Scale; it is internal accounting only, decoupled from the
	// current price.
	Position struct {
		ClaimTokens     int
		AvgExchangeRate int
	}
)

const (
	// Scale is the protocol-wide fixed-point scale of prices and
	// exchange rates.
	Scale = 1_000_000_000_000_000_000

	// minPrice is returned when claim tokens are outstanding but the
	// bankroll holds nothing of the asset. One minimal unit keeps the
	// price arithmetic defined while signaling a near-worthless claim
	// token.
	minPrice = 1

	vaultPrefix    = 'v'
	positionPrefix = 'p'
	stakingPrefix  = 's'
	sinkPrefix     = 'k'

	bankrollContractKey   = 'B'
	claimTokenContractKey = 'C'
	guardKey              = 'G'
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
		addrBankroll   interop.Hash160
		addrClaimToken interop.Hash160
	})

	if len(args.addrBankroll) != interop.Hash160Len || len(args.addrClaimToken) != interop.Hash160Len {
		panic("incorrect length of contract script hash")
	}

	storage.Put(ctx, bankrollContractKey, args.addrBankroll)
	storage.Put(ctx, claimTokenContractKey, args.addrClaimToken)

	runtime.Log("vault contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("vault contract updated")
}

// CreateVault creates a vault for the asset and issues its claim token
// class, returning the class id. The asset must be whitelisted in the
// bankroll and must not have a vault yet. It can be invoked only by
// committee.
//
// Produces VaultCreated notification.
func CreateVault(asset interop.Hash160) []byte {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	if len(asset) != interop.Hash160Len {
		panic("incorrect length of asset script hash")
	}

	if storage.Get(ctx, vaultKey(asset)) != nil {
		panic("vault already exists")
	}

	bankroll := contractHash(ctx, bankrollContractKey)
	allowed := contract.Call(bankroll, "isAssetAllowed", contract.ReadOnly, asset).(bool)
	if !allowed {
		panic("asset is not allowed")
	}

	claimToken := contractHash(ctx, claimTokenContractKey)
	id := contract.Call(claimToken, "createToken", contract.All, asset).([]byte)

	common.SetSerialized(ctx, vaultKey(asset), Vault{
		Asset:        asset,
		ClaimTokenID: id,
	})

	runtime.Log("vault created")
	runtime.Notify("VaultCreated", asset, id)

	return id
}

// AddLiquidity accepts amount of asset from the owner, forwards it to the
// bankroll and mints claim tokens of the vault in return. An empty vault
// mints one claim token per asset unit, otherwise the amount is priced at
// the current claim token price. The call fails if fewer than
// minClaimTokensOut claim tokens would be minted. It can be invoked only by
// the owner. Returns the amount of claim tokens minted.
//
// Produces LiquidityAdded notification.
func AddLiquidity(asset, owner interop.Hash160, amount, minClaimTokensOut int) int {
	ctx := storage.GetContext()
	acquireGuard(ctx)

	common.CheckOwnerWitness(owner)

	if amount <= 0 {
		panic("invalid amount")
	}

	v := getVault(ctx, asset)
	price := currentPrice(ctx, v)

	claimTokens := amount
	if v.TotalClaimTokens != 0 {
		claimTokens = amount * Scale / price
	}

	if claimTokens <= 0 {
		panic("invalid amount")
	}

	if claimTokens < minClaimTokensOut {
		panic("minimum claim tokens not reached")
	}

	bankroll := contractHash(ctx, bankrollContractKey)
	contract.Call(bankroll, "deposit", contract.All, asset, owner, amount, []byte{})

	p := getPosition(ctx, asset, owner)
	if p.ClaimTokens == 0 {
		p.ClaimTokens = claimTokens
		p.AvgExchangeRate = price
	} else {
		priorCostBasis := p.ClaimTokens * p.AvgExchangeRate / Scale
		total := p.ClaimTokens + claimTokens
		p.AvgExchangeRate = (priorCostBasis + amount) * Scale / total
		p.ClaimTokens = total
	}
	putPosition(ctx, asset, owner, p)

	v.TotalBalance += amount
	v.TotalClaimTokens += claimTokens
	common.SetSerialized(ctx, vaultKey(asset), v)

	claimToken := contractHash(ctx, claimTokenContractKey)
	contract.Call(claimToken, "mint", contract.All, v.ClaimTokenID, owner, claimTokens)

	runtime.Notify("LiquidityAdded", asset, owner, amount, claimTokens)

	releaseGuard(ctx)
	return claimTokens
}

// RemoveLiquidity burns claimTokensIn claim tokens of the owner and requests
// a payout of their value at the current price from the bankroll. The
// vault's own cost-basis ledger is reduced by the withdrawn share of the
// owner's cost basis; the difference between the two amounts is the realized
// gain or loss of the provider. It can be invoked only by the owner. Returns
// the payout amount.
//
// Produces LiquidityRemoved notification.
func RemoveLiquidity(asset, owner interop.Hash160, claimTokensIn int) int {
	ctx := storage.GetContext()
	acquireGuard(ctx)

	common.CheckOwnerWitness(owner)

	if claimTokensIn <= 0 {
		panic("invalid amount")
	}

	v := getVault(ctx, asset)

	p := getPosition(ctx, asset, owner)
	if p.ClaimTokens < claimTokensIn {
		panic("insufficient claim tokens")
	}

	if v.TotalClaimTokens < claimTokensIn {
		panic("insufficient pool claim tokens")
	}

	price := currentPrice(ctx, v)

	withdrawShare := claimTokensIn * Scale / p.ClaimTokens
	costBasis := p.ClaimTokens * p.AvgExchangeRate / Scale
	amountFromCostBasis := costBasis * withdrawShare / Scale

	if amountFromCostBasis > v.TotalBalance {
		panic("insufficient vault balance")
	}

	payout := claimTokensIn * price / Scale

	claimToken := contractHash(ctx, claimTokenContractKey)
	contract.Call(claimToken, "burn", contract.All, v.ClaimTokenID, owner, claimTokensIn)

	p.ClaimTokens -= claimTokensIn
	putPosition(ctx, asset, owner, p)

	v.TotalClaimTokens -= claimTokensIn
	v.TotalBalance -= amountFromCostBasis
	if v.TotalClaimTokens == 0 {
		// dust from integer division must not survive an empty vault
		v.TotalBalance = 0
	}
	common.SetSerialized(ctx, vaultKey(asset), v)

	if payout > 0 {
		bankroll := contractHash(ctx, bankrollContractKey)
		contract.Call(bankroll, "requestPayout", contract.All, owner, payout, asset, []byte{})
	}

	runtime.Notify("LiquidityRemoved", asset, owner, claimTokensIn, amountFromCostBasis, payout)

	releaseGuard(ctx)
	return payout
}

// CurrentPrice returns the price of one claim token of the vault in asset
// units, scaled by Scale. An empty vault is priced at Scale; a vault whose
// bankroll balance was gambled away is priced at one minimal unit.
func CurrentPrice(asset interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return currentPrice(ctx, getVault(ctx, asset))
}

// OnClaimTokenTransfer is invoked by the claim token contract on every
// ownership-changing transfer. A transfer to a registered sink is bookkept
// as a stake, a transfer from a sink as an unstake; neither touches
// positions, so a staking holder keeps their cost basis while the tokens sit
// in the sink. Any other transfer moves position weight from sender to
// receiver, with the incoming tokens valued at the current price for the
// receiver.
//
// Produces Stake, Unstake or ClaimTransfer notification.
func OnClaimTokenTransfer(from, to interop.Hash160, amount int, asset interop.Hash160) {
	ctx := storage.GetContext()

	claimToken := contractHash(ctx, claimTokenContractKey)
	if !common.BytesEqual(runtime.GetCallingScriptHash(), claimToken) {
		panic("only claim token can notify transfers")
	}

	acquireGuard(ctx)

	if amount <= 0 {
		panic("invalid amount")
	}

	v := getVault(ctx, asset)

	switch {
	case isSink(ctx, to):
		key := stakingKey(asset, from, to)
		storage.Put(ctx, key, common.GetInt(ctx, key)+amount)

		runtime.Notify("Stake", asset, from, to, amount)
	case isSink(ctx, from):
		key := stakingKey(asset, to, from)
		staked := common.GetInt(ctx, key)
		if staked < amount {
			panic("insufficient staked amount")
		}

		if staked == amount {
			storage.Delete(ctx, key)
		} else {
			storage.Put(ctx, key, staked-amount)
		}

		runtime.Notify("Unstake", asset, to, from, amount)
	default:
		sender := getPosition(ctx, asset, from)
		if sender.ClaimTokens < amount {
			panic("insufficient claim tokens")
		}

		// the sender's rate is untouched, only its weight shrinks
		sender.ClaimTokens -= amount
		putPosition(ctx, asset, from, sender)

		price := currentPrice(ctx, v)

		receiver := getPosition(ctx, asset, to)
		if receiver.ClaimTokens == 0 {
			receiver.ClaimTokens = amount
			receiver.AvgExchangeRate = price
		} else {
			priorCost := receiver.ClaimTokens * receiver.AvgExchangeRate / Scale
			incomingCost := amount * price / Scale
			total := receiver.ClaimTokens + amount
			receiver.AvgExchangeRate = (priorCost + incomingCost) * Scale / total
			receiver.ClaimTokens = total
		}
		putPosition(ctx, asset, to, receiver)

		runtime.Notify("ClaimTransfer", asset, from, to, amount)
	}

	releaseGuard(ctx)
}

// GetVault returns the vault of the asset.
func GetVault(asset interop.Hash160) Vault {
	ctx := storage.GetReadOnlyContext()
	return getVault(ctx, asset)
}

// GetAllVaults returns all created vaults.
func GetAllVaults() []Vault {
	ctx := storage.GetReadOnlyContext()

	result := []Vault{}

	it := storage.Find(ctx, []byte{vaultPrefix}, storage.ValuesOnly)
	for iterator.Next(it) {
		data := iterator.Value(it).([]byte)
		result = append(result, std.Deserialize(data).(Vault))
	}

	return result
}

// GetPosition returns the claim token position of the holder in the vault
// of the asset. A holder that never deposited has a zero position.
func GetPosition(asset, holder interop.Hash160) Position {
	ctx := storage.GetReadOnlyContext()
	return getPosition(ctx, asset, holder)
}

// GetStakingInfo returns the amount of claim tokens the holder has routed
// into the sink for the asset.
func GetStakingInfo(asset, holder, sink interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, stakingKey(asset, holder, sink))
}

// AddSink registers the address as a staking sink: claim token transfers to
// and from it receive stake/unstake bookkeeping instead of ordinary transfer
// treatment. It can be invoked only by committee.
func AddSink(sink interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	if len(sink) != interop.Hash160Len {
		panic("incorrect length of sink script hash")
	}

	storage.Put(ctx, sinkKey(sink), 1)
	runtime.Log("staking sink registered")
}

// RemoveSink removes the address from the sink registry. It can be invoked
// only by committee.
func RemoveSink(sink interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckCommitteeWitness()

	storage.Delete(ctx, sinkKey(sink))
	runtime.Log("staking sink removed")
}

// IsSink returns true if the address is a registered staking sink.
func IsSink(sink interop.Hash160) bool {
	return isSink(storage.GetReadOnlyContext(), sink)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func currentPrice(ctx storage.Context, v Vault) int {
	if v.TotalClaimTokens == 0 {
		return Scale
	}

	bankroll := contractHash(ctx, bankrollContractKey)
	balance := contract.Call(bankroll, "getBalance", contract.ReadOnly, v.Asset).(int)
	if balance == 0 {
		return minPrice
	}

	return balance * Scale / v.TotalClaimTokens
}

func getVault(ctx storage.Context, asset interop.Hash160) Vault {
	data := storage.Get(ctx, vaultKey(asset))
	if data == nil {
		panic("vault not found")
	}

	return std.Deserialize(data.([]byte)).(Vault)
}

func getPosition(ctx storage.Context, asset, holder interop.Hash160) Position {
	data := storage.Get(ctx, positionKey(asset, holder))
	if data == nil {
		return Position{}
	}

	return std.Deserialize(data.([]byte)).(Position)
}

func putPosition(ctx storage.Context, asset, holder interop.Hash160, p Position) {
	common.SetSerialized(ctx, positionKey(asset, holder), p)
}

func isSink(ctx storage.Context, addr interop.Hash160) bool {
	return common.GetFlag(ctx, sinkKey(addr))
}

// acquireGuard rejects a mutating entry point invoked while another one is
// in flight. A fault anywhere in the operation reverts the flag together
// with the rest of the state, so the guard is released on every exit path.
func acquireGuard(ctx storage.Context) {
	if storage.Get(ctx, guardKey) != nil {
		panic("reentrant call")
	}

	storage.Put(ctx, guardKey, 1)
}

func releaseGuard(ctx storage.Context) {
	storage.Delete(ctx, guardKey)
}

func contractHash(ctx storage.Context, key byte) interop.Hash160 {
	return storage.Get(ctx, key).(interop.Hash160)
}

func vaultKey(asset interop.Hash160) []byte {
	return append([]byte{vaultPrefix}, asset...)
}

func positionKey(asset, holder interop.Hash160) []byte {
	return append(append([]byte{positionPrefix}, asset...), holder...)
}

func stakingKey(asset, holder, sink interop.Hash160) []byte {
	return append(append(append([]byte{stakingPrefix}, asset...), holder...), sink...)
}

func sinkKey(sink interop.Hash160) []byte {
	return append([]byte{sinkPrefix}, sink...)
}
