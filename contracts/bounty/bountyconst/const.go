package bountyconst

// Bounty lifecycle statuses. Transitions are strictly forward:
// Open -> Submitted -> Settled.
const (
	StatusOpen      = 1
	StatusSubmitted = 2
	StatusSettled   = 3
)

// Fault messages thrown by the Bounty contract. Any of them aborts the whole
// transaction, no partial state is retained.
const (
	// ErrBountyNotOpen is thrown by SubmitSolution when the bounty has left
	// the Open status.
	ErrBountyNotOpen = "bounty is not in open status"
	// ErrBountyAlreadySubmitted is thrown by SubmitSolution when the bounty
	// already carries a solution hash.
	ErrBountyAlreadySubmitted = "bounty already has a submitted solution"
	// ErrBountyNotSubmitted is thrown by SettleBounty unless the bounty is in
	// the Submitted status, including repeated settlement of a settled one.
	ErrBountyNotSubmitted = "bounty is not in submitted status"
	// ErrSolutionHashMismatch is thrown by SubmitSolution when the presented
	// hash differs from the attested commitment.
	ErrSolutionHashMismatch = "solution hash does not match attestation"
	// ErrAttestationOwnerMismatch is thrown by SubmitSolution when the
	// attestation belongs to another agent.
	ErrAttestationOwnerMismatch = "attestation does not belong to submitting agent"
	// ErrReputationOwnerMismatch is thrown when a reputation record is about
	// to be credited on behalf of an agent that does not own it.
	ErrReputationOwnerMismatch = "reputation does not belong to the agent"
	// ErrUnauthorizedSettlement is thrown by SettleBounty when the transaction
	// is not witnessed by the bounty creator.
	ErrUnauthorizedSettlement = "only the bounty creator can settle the bounty"
	// ErrReputationScoreOverflow is thrown by SubmitSolution when the score
	// counter hits its ceiling.
	ErrReputationScoreOverflow = "reputation score overflow"
	// ErrReputationOverflow is thrown by SettleBounty when a success counter
	// or cumulative earnings hit their ceiling.
	ErrReputationOverflow = "reputation arithmetic overflow"
	// ErrOracleVerificationFailed is thrown by SubmitSolution when a
	// price-sensitive bounty is submitted without a usable oracle reference.
	ErrOracleVerificationFailed = "oracle verification failed"
	// ErrOracleDataStale is thrown by SubmitSolution when the referenced
	// oracle reported a heartbeat outside the freshness window.
	ErrOracleDataStale = "oracle data is stale"
)
