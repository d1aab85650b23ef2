/*
Package bounty implements the Bounty contract of the BountyForge chain, the
core of the bounty marketplace.

A bounty is a reward-bearing task posted by a creator, funded into a
dedicated escrow sub-account the moment it is created. Independent agents
commit to candidate solutions through the Attestation contract, then bind one
of those commitments to an open bounty with SubmitSolution, which also
credits the agent's reputation record. The creator finishes the lifecycle
with SettleBounty, releasing the escrow to the winning agent and finalizing
both records. Statuses move strictly forward, Open -> Submitted -> Settled,
and every operation either commits all of its effects or faults the whole
transaction.

Escrow custody lives in the Token contract: escrow addresses are derived
deterministically from the bounty id and the token contract identity, the
caller allocates them, the Bounty contract only verifies the derivation and
moves funds as the token's registered custodian.

# Contract notifications

BountyCreated notification:

	BountyCreated:
	  - name: bountyID
	    type: Integer
	  - name: creator
	    type: Hash160
	  - name: reward
	    type: Integer

SolutionSubmitted notification:

	SolutionSubmitted:
	  - name: bountyID
	    type: Integer
	  - name: agent
	    type: Hash160
	  - name: solutionHash
	    type: ByteArray

BountySettled notification:

	BountySettled:
	  - name: bountyID
	    type: Integer
	  - name: agent
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package bounty

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'b' + little-endian bounty id -> std.Serialize(Bounty)
   bounty record, kept forever
 - 'r' + [20]byte agent script hash -> std.Serialize(Reputation)
   reputation record of the agent, created on first submission
 - 'o' + [20]byte oracle script hash -> int
   last heartbeat time of the oracle reference, milliseconds
 - 'tokenScriptHash' -> interop.Hash160
   script hash of the settlement currency contract
 - 'attestationScriptHash' -> interop.Hash160
   script hash of the Attestation contract
 - 'oracleFreshnessWindow' -> int
   heartbeat age in milliseconds beyond which oracle data counts as stale
*/
