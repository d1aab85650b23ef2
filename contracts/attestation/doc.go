/*
Package attestation implements the Attestation contract of the BountyForge
chain.

Agents commit to solutions before submitting them to bounties: an attestation
binds a solution id to the committing agent and a 32-byte solution hash,
timestamped at the block that recorded it. The Bounty contract reads these
records to reject submissions of hashes the submitting agent never attested
to. Commitments are write-once; only the verified flag can change later, and
only by the committee.

# Contract notifications

Attested notification:

	Attested:
	  - name: solutionID
	    type: Integer
	  - name: agent
	    type: Hash160
	  - name: solutionHash
	    type: ByteArray

AttestationVerified notification:

	AttestationVerified:
	  - name: solutionID
	    type: Integer
*/
package attestation

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'a' + little-endian solution id -> std.Serialize(Attestation)
   attestation record of the solution id
*/
