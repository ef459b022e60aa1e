/*
Bankroll contract is a custodial ledger holding the actual asset balances on
behalf of the vaults and of collaborating settlement clients (wager games,
lotteries). Assets are NEP-17 contracts identified by script hash; the native
GAS contract is the base currency and is treated the same way.

Mutation is gated by a capability list managed by committee: the vault
manager and settlement clients are registered with AddSettlement and are the
only callers of Deposit and RequestPayout. Payouts are charged a fee in
basis points which goes to a configured fee recipient, and can be suspended
globally with FreezeWithdrawals.

# Contract notifications

Deposit notification. Produced when funds are credited to the custodied
balance of an asset.

	Deposit:
	  - name: asset
	    type: Hash160
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: details
	    type: ByteArray

Payout notification. Produced when funds are debited and paid out to a user.
The amount field is gross, fee has already been deducted from what the user
received.

	Payout:
	  - name: asset
	    type: Hash160
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: fee
	    type: Integer
	  - name: details
	    type: ByteArray
*/
package bankroll
