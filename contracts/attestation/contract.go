package attestation

import (
	"github.com/bountyforge/bountyforge-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Attestation is a commitment of an agent to a solution hash, recorded
// before the solution is bound to any bounty. Once written, the
// (Agent, Hash) pair of a solution id never changes.
type Attestation struct {
	SolutionID int
	Agent      interop.Hash160
	Hash       []byte
	Timestamp  int
	Verified   bool
}

const (
	attestationPrefix = 'a'

	solutionHashLen = 32
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	runtime.Log("attestation contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("attestation contract updated")
}

// Attest records a commitment of the given agent to the given solution hash.
// It can be invoked only by the agent. Repeated attestation for the same
// solution id is rejected: commitments are immutable once created.
//
// It produces Attested notification.
func Attest(agent interop.Hash160, solutionID int, solutionHash []byte) {
	if len(agent) != interop.Hash160Len {
		panic("invalid agent script hash")
	}
	if len(solutionHash) != solutionHashLen {
		panic("invalid solution hash length")
	}

	common.CheckOwnerWitness(agent)

	ctx := storage.GetContext()
	key := attestationKey(solutionID)
	if storage.Get(ctx, key) != nil {
		panic("solution already attested")
	}

	att := Attestation{
		SolutionID: solutionID,
		Agent:      agent,
		Hash:       solutionHash,
		Timestamp:  runtime.GetTime(),
		Verified:   false,
	}

	common.SetSerialized(ctx, key, att)
	runtime.Notify("Attested", solutionID, agent, solutionHash)
}

// Get returns the attestation recorded for the given solution id.
func Get(solutionID int) Attestation {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, attestationKey(solutionID))
	if data == nil {
		panic("attestation not found")
	}

	return std.Deserialize(data.([]byte)).(Attestation)
}

// MarkVerified sets the verified flag of the given attestation. It can be
// invoked only by the committee, which acts as the on-chain identity of the
// off-chain verification gateway. The commitment itself stays immutable.
//
// It produces AttestationVerified notification.
func MarkVerified(solutionID int) {
	common.CheckCommitteeWitness()

	ctx := storage.GetContext()
	key := attestationKey(solutionID)

	data := storage.Get(ctx, key)
	if data == nil {
		panic("attestation not found")
	}

	att := std.Deserialize(data.([]byte)).(Attestation)
	att.Verified = true

	common.SetSerialized(ctx, key, att)
	runtime.Notify("AttestationVerified", solutionID)
}

// List returns an iterator over all recorded attestations.
func List() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(),
		[]byte{attestationPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func attestationKey(solutionID int) []byte {
	return append([]byte{attestationPrefix}, convert.ToBytes(solutionID)...)
}
