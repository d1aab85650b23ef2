package bounty

import (
	"github.com/bountyforge/bountyforge-contract/common"
	cst "github.com/bountyforge/bountyforge-contract/contracts/bounty/bountyconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Bounty is a reward-bearing task record. SolutionHash, Agent and
	// SolutionID stay empty while the bounty is open and are written together
	// by SubmitSolution. The record is never removed, a settled bounty stays
	// as an audit trail.
	Bounty struct {
		ID           int
		Category     string
		Description  string
		Reward       int
		SolutionHash []byte
		Status       int
		Creator      interop.Hash160
		Agent        interop.Hash160
		SolutionID   int
	}

	// Reputation is the running participation tally of a single agent,
	// created lazily on the agent's first submission.
	Reputation struct {
		Agent              interop.Hash160
		Score              int
		SuccessfulBounties int
		FailedBounties     int
		TotalEarned        int
	}
)

// attestationRecord is a copy of
// github.com/bountyforge/bountyforge-contract/contracts/attestation.Attestation
// to prevent cross-contract imports that may fail due to internal `_deploy` calls.
type attestationRecord struct {
	SolutionID int
	Agent      interop.Hash160
	Hash       []byte
	Timestamp  int
	Verified   bool
}

const (
	bountyPrefix     = 'b'
	reputationPrefix = 'r'
	heartbeatPrefix  = 'o'

	tokenContractKey       = "tokenScriptHash"
	attestationContractKey = "attestationScriptHash"
	oracleWindowKey        = "oracleFreshnessWindow"

	// escrowNamespace tags escrow sub-account derivation so the addresses
	// cannot collide with any other derivation over the same keys.
	escrowNamespace = 'e'

	maxCategoryLen    = 32
	maxDescriptionLen = 50

	solutionHashLen = 32

	// counterCeiling caps reputation counters at the range of the original
	// 64-bit record layout, VM integers are wider.
	counterCeiling = 1<<63 - 1

	// defaultOracleWindow is the oracle heartbeat freshness window in
	// milliseconds used when the deploy data carries none.
	defaultOracleWindow = 3600 * 1000
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)
	if isUpdate {
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	addrToken := args[0].(interop.Hash160)
	if len(addrToken) != interop.Hash160Len {
		panic("invalid token contract script hash")
	}

	addrAttestation := args[1].(interop.Hash160)
	if len(addrAttestation) != interop.Hash160Len {
		panic("invalid attestation contract script hash")
	}

	window := defaultOracleWindow
	if len(args) >= 3 && args[2].(int) > 0 {
		window = args[2].(int)
	}

	storage.Put(ctx, tokenContractKey, addrToken)
	storage.Put(ctx, attestationContractKey, addrAttestation)
	storage.Put(ctx, oracleWindowKey, window)

	runtime.Log("bounty contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bounty contract updated")
}

// CreateBounty opens a new bounty and funds its escrow within the same
// transaction. It can be invoked only by the creator.
//
// The escrow argument must be exactly the address derived from the bounty id
// and the settlement currency contract, see EscrowAddress. The escrow account
// must have been allocated in the token contract beforehand, CreateBounty
// does not allocate it. The reward moves from the creator balance into escrow
// atomically with the record write, a bounty never exists unfunded.
//
// It produces BountyCreated notification.
func CreateBounty(creator interop.Hash160, bountyID int, category, description string, reward int, escrow interop.Hash160) {
	if len(creator) != interop.Hash160Len {
		panic("invalid creator script hash")
	}
	if len(category) == 0 || len(category) > maxCategoryLen {
		panic("invalid category")
	}
	if len(description) > maxDescriptionLen {
		panic("description too long")
	}
	if reward <= 0 {
		panic("reward must be positive")
	}

	common.CheckOwnerWitness(creator)

	ctx := storage.GetContext()
	key := bountyKey(bountyID)
	if storage.Get(ctx, key) != nil {
		panic("bounty already exists")
	}

	addrToken := tokenContract(ctx)

	if !escrow.Equals(escrowAddress(bountyID, addrToken)) {
		panic("escrow address mismatch")
	}

	allocated := contract.Call(addrToken, "accountExists", contract.ReadOnly, escrow).(bool)
	if !allocated {
		panic("escrow account not initialized")
	}

	ok := contract.Call(addrToken, "transferX", contract.All,
		creator, escrow, reward, common.FundTransferDetails(bountyID)).(bool)
	if !ok {
		panic("can't fund escrow")
	}

	b := Bounty{
		ID:           bountyID,
		Category:     category,
		Description:  description,
		Reward:       reward,
		SolutionHash: nil,
		Status:       cst.StatusOpen,
		Creator:      creator,
		Agent:        nil,
		SolutionID:   0,
	}

	common.SetSerialized(ctx, key, b)
	runtime.Notify("BountyCreated", bountyID, creator, reward)
}

// SubmitSolution binds a previously attested solution hash to an open bounty
// and credits the agent's reputation. It can be invoked only by the agent
// that owns the attestation of the given solution id.
//
// For price-sensitive bounties (description mentions oracle, price or feed,
// case-insensitive) a non-empty oracle reference must be supplied: the
// address of a deployed contract. This is a presence check, genuine oracle
// data verification is delegated to the off-chain gateway. If the referenced
// oracle reported a heartbeat and it fell out of the freshness window, the
// submission is rejected as stale.
//
// It produces SolutionSubmitted notification.
func SubmitSolution(agent interop.Hash160, bountyID, solutionID int, solutionHash []byte, oracle interop.Hash160) {
	if len(agent) != interop.Hash160Len {
		panic("invalid agent script hash")
	}
	if len(solutionHash) != solutionHashLen {
		panic("invalid solution hash length")
	}

	common.CheckOwnerWitness(agent)

	ctx := storage.GetContext()
	key := bountyKey(bountyID)
	b := getBounty(ctx, key)

	if b.Status != cst.StatusOpen {
		panic(cst.ErrBountyNotOpen)
	}
	if b.SolutionHash != nil {
		panic(cst.ErrBountyAlreadySubmitted)
	}

	att := contract.Call(attestationContract(ctx), "get", contract.ReadOnly,
		solutionID).(attestationRecord)
	if !att.Agent.Equals(agent) {
		panic(cst.ErrAttestationOwnerMismatch)
	}
	if !common.BytesEqual(att.Hash, solutionHash) {
		panic(cst.ErrSolutionHashMismatch)
	}

	if requiresOracle(b.Description) {
		checkOracle(ctx, oracle)
	}

	b.SolutionHash = solutionHash
	b.Status = cst.StatusSubmitted
	b.Agent = agent
	b.SolutionID = solutionID
	common.SetSerialized(ctx, key, b)

	creditSubmission(ctx, agent)

	runtime.Notify("SolutionSubmitted", bountyID, agent, solutionHash)
}

// SettleBounty releases the escrow of a submitted bounty to the agent that
// submitted its solution and finalizes the records. It can be invoked only by
// the bounty creator. Settled bounties accept no further mutation, repeated
// settlement is rejected.
//
// It produces BountySettled notification.
func SettleBounty(bountyID int) {
	ctx := storage.GetContext()
	key := bountyKey(bountyID)
	b := getBounty(ctx, key)

	if b.Status != cst.StatusSubmitted {
		panic(cst.ErrBountyNotSubmitted)
	}
	if !runtime.CheckWitness(b.Creator) {
		panic(cst.ErrUnauthorizedSettlement)
	}

	repKey := reputationKey(b.Agent)
	data := storage.Get(ctx, repKey)
	if data == nil {
		panic(cst.ErrReputationOwnerMismatch)
	}
	rep := std.Deserialize(data.([]byte)).(Reputation)
	if !rep.Agent.Equals(b.Agent) {
		panic(cst.ErrReputationOwnerMismatch)
	}

	addrToken := tokenContract(ctx)
	escrow := escrowAddress(bountyID, addrToken)
	amount := contract.Call(addrToken, "balanceOf", contract.ReadOnly, escrow).(int)

	ok := contract.Call(addrToken, "transferX", contract.All,
		escrow, b.Agent, amount, common.PayoutTransferDetails(bountyID)).(bool)
	if !ok {
		panic("can't release escrow")
	}

	if rep.SuccessfulBounties >= counterCeiling {
		panic(cst.ErrReputationOverflow)
	}
	rep.SuccessfulBounties += 1
	if rep.TotalEarned > counterCeiling-amount {
		panic(cst.ErrReputationOverflow)
	}
	rep.TotalEarned += amount
	common.SetSerialized(ctx, repKey, rep)

	b.Status = cst.StatusSettled
	common.SetSerialized(ctx, key, b)

	runtime.Notify("BountySettled", bountyID, b.Agent, amount)
}

// OracleHeartbeat records a liveness report of the given oracle reference.
// It can be invoked by the oracle contract itself or by the committee.
// SubmitSolution treats a heartbeat older than the freshness window as stale
// oracle data.
func OracleHeartbeat(oracle interop.Hash160) {
	if len(oracle) != interop.Hash160Len {
		panic("invalid oracle script hash")
	}

	if !runtime.GetCallingScriptHash().Equals(oracle) {
		common.CheckCommitteeWitness()
	}

	ctx := storage.GetContext()
	storage.Put(ctx, heartbeatKey(oracle), runtime.GetTime())
}

// GetBounty returns the bounty record stored under the given id.
func GetBounty(bountyID int) Bounty {
	ctx := storage.GetReadOnlyContext()
	return getBounty(ctx, bountyKey(bountyID))
}

// GetReputation returns the reputation record of the given agent.
func GetReputation(agent interop.Hash160) Reputation {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, reputationKey(agent))
	if data == nil {
		panic("reputation record not found")
	}

	return std.Deserialize(data.([]byte)).(Reputation)
}

// EscrowAddress returns the deterministic escrow sub-account address of the
// given bounty id. The address is derived from the bounty identity and the
// settlement currency identity, callers allocate it in the token contract
// before CreateBounty and the contract only ever verifies the equality.
func EscrowAddress(bountyID int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return escrowAddress(bountyID, tokenContract(ctx))
}

// ListBounties returns an iterator over all bounty records.
func ListBounties() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(),
		[]byte{bountyPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// creditSubmission bumps the agent's score, creating the record with score 1
// on first submission. Mutating a record stored for another agent is
// rejected.
func creditSubmission(ctx storage.Context, agent interop.Hash160) {
	key := reputationKey(agent)

	data := storage.Get(ctx, key)
	if data == nil {
		common.SetSerialized(ctx, key, Reputation{
			Agent:              agent,
			Score:              1,
			SuccessfulBounties: 0,
			FailedBounties:     0,
			TotalEarned:        0,
		})
		return
	}

	rep := std.Deserialize(data.([]byte)).(Reputation)
	if !rep.Agent.Equals(agent) {
		panic(cst.ErrReputationOwnerMismatch)
	}
	if rep.Score >= counterCeiling {
		panic(cst.ErrReputationScoreOverflow)
	}

	rep.Score += 1
	common.SetSerialized(ctx, key, rep)
}

// checkOracle implements the oracle presence gate and the optional heartbeat
// freshness gate.
func checkOracle(ctx storage.Context, oracle interop.Hash160) {
	if len(oracle) != interop.Hash160Len {
		panic(cst.ErrOracleVerificationFailed)
	}
	if management.GetContract(oracle) == nil {
		panic(cst.ErrOracleVerificationFailed)
	}

	hb := storage.Get(ctx, heartbeatKey(oracle))
	if hb == nil {
		return
	}

	window := storage.Get(ctx, oracleWindowKey).(int)
	if runtime.GetTime()-hb.(int) > window {
		panic(cst.ErrOracleDataStale)
	}
}

func requiresOracle(description string) bool {
	lowered := lowerASCII([]byte(description))
	return std.MemorySearch(lowered, []byte("oracle")) >= 0 ||
		std.MemorySearch(lowered, []byte("price")) >= 0 ||
		std.MemorySearch(lowered, []byte("feed")) >= 0
}

func lowerASCII(s []byte) []byte {
	res := []byte{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		res = append(res, c)
	}
	return res
}

func escrowAddress(bountyID int, addrToken interop.Hash160) interop.Hash160 {
	data := append([]byte{escrowNamespace}, convert.ToBytes(bountyID)...)
	data = append(data, addrToken...)
	return crypto.Ripemd160(crypto.Sha256(data))
}

func getBounty(ctx storage.Context, key []byte) Bounty {
	data := storage.Get(ctx, key)
	if data == nil {
		panic("bounty not found")
	}

	return std.Deserialize(data.([]byte)).(Bounty)
}

func tokenContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenContractKey).(interop.Hash160)
}

func attestationContract(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, attestationContractKey).(interop.Hash160)
}

func bountyKey(bountyID int) []byte {
	return append([]byte{bountyPrefix}, convert.ToBytes(bountyID)...)
}

func reputationKey(agent interop.Hash160) []byte {
	return append([]byte{reputationPrefix}, agent...)
}

func heartbeatKey(oracle interop.Hash160) []byte {
	return append([]byte{heartbeatPrefix}, oracle...)
}
