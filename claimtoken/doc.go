/*
Claim token contract is a registry of fungible claim token classes, one class
per vault. A claim token represents proportional ownership of the pooled
value of its vault. Classes are identified by the hash of the vault asset.

Mint and Burn are gated to the vault manager contract and happen only on
addLiquidity/removeLiquidity. Every other ownership-changing transfer
notifies the vault manager through its onClaimTokenTransfer hook after the
balance update, so that per-holder cost-basis accounting stays consistent;
the transfer faults as a whole if the hook faults.

# Contract notifications

Transfer notification. Produced on every balance change. Mint leaves the
from field empty, burn leaves the to field empty.

	Transfer:
	  - name: id
	    type: ByteArray
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package claimtoken
