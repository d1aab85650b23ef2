// Package attestation contains RPC wrappers for BountyForge Attestation contract.
package attestation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Attestation is a contract-specific attestation.Attestation type used by its methods.
type Attestation struct {
	SolutionID *big.Int
	Agent      util.Uint160
	Hash       []byte
	Timestamp  *big.Int
	Verified   bool
}

// AttestedEvent represents "Attested" event emitted by the contract.
type AttestedEvent struct {
	SolutionID *big.Int
	Agent      util.Uint160
	Hash       []byte
}

// AttestationVerifiedEvent represents "AttestationVerified" event emitted by the contract.
type AttestationVerifiedEvent struct {
	SolutionID *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Get invokes `get` method of contract.
func (c *ContractReader) Get(solutionID *big.Int) (*Attestation, error) {
	return itemToAttestation(unwrap.Item(c.invoker.Call(c.hash, "get", solutionID)))
}

// List invokes `list` method of contract.
func (c *ContractReader) List() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "list"))
}

// ListExpanded is similar to List (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "list", _numOfIteratorItems))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Attest creates a transaction invoking `attest` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Attest(agent util.Uint160, solutionID *big.Int, solutionHash []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "attest", agent, solutionID, solutionHash)
}

// AttestTransaction creates a transaction invoking `attest` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AttestTransaction(agent util.Uint160, solutionID *big.Int, solutionHash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "attest", agent, solutionID, solutionHash)
}

// AttestUnsigned creates a transaction invoking `attest` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AttestUnsigned(agent util.Uint160, solutionID *big.Int, solutionHash []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "attest", nil, agent, solutionID, solutionHash)
}

// MarkVerified creates a transaction invoking `markVerified` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) MarkVerified(solutionID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "markVerified", solutionID)
}

// MarkVerifiedTransaction creates a transaction invoking `markVerified` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MarkVerifiedTransaction(solutionID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "markVerified", solutionID)
}

// MarkVerifiedUnsigned creates a transaction invoking `markVerified` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MarkVerifiedUnsigned(solutionID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "markVerified", nil, solutionID)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToAttestation converts stack item into *Attestation.
func itemToAttestation(item stackitem.Item, err error) (*Attestation, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Attestation)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Attestation from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Attestation) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 5 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.SolutionID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SolutionID: %w", err)
	}

	index++
	res.Agent, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		return util.Uint160DecodeBytesBE(b)
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Agent: %w", err)
	}

	index++
	res.Hash, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	index++
	res.Verified, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Verified: %w", err)
	}

	return nil
}
