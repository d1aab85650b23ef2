/*
Package token implements the settlement currency contract of the BountyForge
chain.

It is a custodial NEP-17-like balance service: the committee emits and
withdraws currency, account owners move their own funds with Transfer, and
the Bounty contract (the custodian registered at deploy time) moves funds
between custodial balances with TransferX after doing its own authorization.
Unlike plain NEP-17 tokens, accounts are explicitly allocated records: escrow
sub-accounts are provisioned with CreateAccount before they ever hold funds,
and an allocated account survives being drained to zero.

# Contract notifications

Transfer notification:

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

TransferX notification:

	TransferX:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: details
	    type: ByteArray

AccountCreated notification:

	AccountCreated:
	  - name: account
	    type: Hash160
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'a' + [20]byte account script hash -> std.Serialize(Account)
   balance record of the account, present from allocation on
 - 'ForgeUSDSupply' -> int
   the token circulation value
 - 'custodianScriptHash' -> interop.Hash160
   script hash of the Bounty contract allowed to make custodial transfers
*/
