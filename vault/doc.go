/*
Vault contract is the accounting engine of the house liquidity pools. It
creates one vault per asset, prices vault entries and exits against the live
bankroll balance, mints and burns claim tokens through the claim token
contract and keeps a per-holder cost-basis ledger consistent across
arbitrary claim token transfer graphs.

The vault's TotalBalance tracks the cost basis of deposited liquidity only.
Settlement clients move the bankroll balance of the same asset independently
(game wins and losses), and that divergence is exactly how liquidity
providers earn or lose: exits are paid at the current price
bankrollBalance*Scale/totalClaimTokens, while the vault ledger is reduced by
the withdrawn share of the holder's cost basis.

Claim token transfers re-enter this contract through OnClaimTokenTransfer.
Transfers to or from registered staking sinks are bookkept separately and
leave positions untouched; ordinary transfers move position weight and value
incoming tokens at the current price for the receiver, like a market
purchase.

# Contract notifications

VaultCreated notification. Produced once per asset.

	VaultCreated:
	  - name: asset
	    type: Hash160
	  - name: claimTokenId
	    type: ByteArray

LiquidityAdded notification.

	LiquidityAdded:
	  - name: asset
	    type: Hash160
	  - name: owner
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: claimTokens
	    type: Integer

LiquidityRemoved notification.

	LiquidityRemoved:
	  - name: asset
	    type: Hash160
	  - name: owner
	    type: Hash160
	  - name: claimTokens
	    type: Integer
	  - name: fromCostBasis
	    type: Integer
	  - name: payout
	    type: Integer

Stake and Unstake notifications. Produced on claim token transfers to and
from registered sinks.

	Stake:
	  - name: asset
	    type: Hash160
	  - name: owner
	    type: Hash160
	  - name: sink
	    type: Hash160
	  - name: amount
	    type: Integer

	Unstake:
	  - name: asset
	    type: Hash160
	  - name: owner
	    type: Hash160
	  - name: sink
	    type: Hash160
	  - name: amount
	    type: Integer

ClaimTransfer notification. Produced on ordinary claim token transfers.

	ClaimTransfer:
	  - name: asset
	    type: Hash160
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package vault
