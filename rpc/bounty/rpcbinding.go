// Package bounty contains RPC wrappers for BountyForge Bounty contract.
package bounty

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Bounty is a contract-specific bounty.Bounty type used by its methods.
type Bounty struct {
	ID           *big.Int
	Category     string
	Description  string
	Reward       *big.Int
	SolutionHash []byte
	Status       *big.Int
	Creator      util.Uint160
	Agent        util.Uint160
	SolutionID   *big.Int
}

// Reputation is a contract-specific bounty.Reputation type used by its methods.
type Reputation struct {
	Agent              util.Uint160
	Score              *big.Int
	SuccessfulBounties *big.Int
	FailedBounties     *big.Int
	TotalEarned        *big.Int
}

// BountyCreatedEvent represents "BountyCreated" event emitted by the contract.
type BountyCreatedEvent struct {
	BountyID *big.Int
	Creator  util.Uint160
	Reward   *big.Int
}

// SolutionSubmittedEvent represents "SolutionSubmitted" event emitted by the contract.
type SolutionSubmittedEvent struct {
	BountyID     *big.Int
	Agent        util.Uint160
	SolutionHash []byte
}

// BountySettledEvent represents "BountySettled" event emitted by the contract.
type BountySettledEvent struct {
	BountyID *big.Int
	Agent    util.Uint160
	Amount   *big.Int
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

// EscrowAddress invokes `escrowAddress` method of contract.
func (c *ContractReader) EscrowAddress(bountyID *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "escrowAddress", bountyID))
}

// GetBounty invokes `getBounty` method of contract.
func (c *ContractReader) GetBounty(bountyID *big.Int) (*Bounty, error) {
	return itemToBounty(unwrap.Item(c.invoker.Call(c.hash, "getBounty", bountyID)))
}

// GetReputation invokes `getReputation` method of contract.
func (c *ContractReader) GetReputation(agent util.Uint160) (*Reputation, error) {
	return itemToReputation(unwrap.Item(c.invoker.Call(c.hash, "getReputation", agent)))
}

// ListBounties invokes `listBounties` method of contract.
func (c *ContractReader) ListBounties() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listBounties"))
}

// ListBountiesExpanded is similar to ListBounties (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListBountiesExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listBounties", _numOfIteratorItems))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateBounty creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateBounty(creator util.Uint160, bountyID *big.Int, category string, description string, reward *big.Int, escrow util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createBounty", creator, bountyID, category, description, reward, escrow)
}

// CreateBountyTransaction creates a transaction invoking `createBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateBountyTransaction(creator util.Uint160, bountyID *big.Int, category string, description string, reward *big.Int, escrow util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createBounty", creator, bountyID, category, description, reward, escrow)
}

// CreateBountyUnsigned creates a transaction invoking `createBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateBountyUnsigned(creator util.Uint160, bountyID *big.Int, category string, description string, reward *big.Int, escrow util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createBounty", nil, creator, bountyID, category, description, reward, escrow)
}

// SubmitSolution creates a transaction invoking `submitSolution` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SubmitSolution(agent util.Uint160, bountyID *big.Int, solutionID *big.Int, solutionHash []byte, oracle util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submitSolution", agent, bountyID, solutionID, solutionHash, oracle)
}

// SubmitSolutionTransaction creates a transaction invoking `submitSolution` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitSolutionTransaction(agent util.Uint160, bountyID *big.Int, solutionID *big.Int, solutionHash []byte, oracle util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submitSolution", agent, bountyID, solutionID, solutionHash, oracle)
}

// SubmitSolutionUnsigned creates a transaction invoking `submitSolution` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubmitSolutionUnsigned(agent util.Uint160, bountyID *big.Int, solutionID *big.Int, solutionHash []byte, oracle util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "submitSolution", nil, agent, bountyID, solutionID, solutionHash, oracle)
}

// SettleBounty creates a transaction invoking `settleBounty` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SettleBounty(bountyID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "settleBounty", bountyID)
}

// SettleBountyTransaction creates a transaction invoking `settleBounty` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SettleBountyTransaction(bountyID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "settleBounty", bountyID)
}

// SettleBountyUnsigned creates a transaction invoking `settleBounty` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SettleBountyUnsigned(bountyID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "settleBounty", nil, bountyID)
}

// OracleHeartbeat creates a transaction invoking `oracleHeartbeat` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) OracleHeartbeat(oracle util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "oracleHeartbeat", oracle)
}

// OracleHeartbeatTransaction creates a transaction invoking `oracleHeartbeat` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) OracleHeartbeatTransaction(oracle util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "oracleHeartbeat", oracle)
}

// OracleHeartbeatUnsigned creates a transaction invoking `oracleHeartbeat` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) OracleHeartbeatUnsigned(oracle util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "oracleHeartbeat", nil, oracle)
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

// itemToBounty converts stack item into *Bounty.
func itemToBounty(item stackitem.Item, err error) (*Bounty, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Bounty)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Bounty from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Bounty) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 9 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Category, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Category: %w", err)
	}

	index++
	res.Description, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Reward, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Reward: %w", err)
	}

	index++
	res.SolutionHash, err = itemToNullableBytes(arr[index])
	if err != nil {
		return fmt.Errorf("field SolutionHash: %w", err)
	}

	index++
	res.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	index++
	res.Creator, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}

	index++
	res.Agent, err = itemToNullableUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Agent: %w", err)
	}

	index++
	res.SolutionID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SolutionID: %w", err)
	}

	return nil
}

// itemToReputation converts stack item into *Reputation.
func itemToReputation(item stackitem.Item, err error) (*Reputation, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Reputation)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Reputation from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Reputation) FromStackItem(item stackitem.Item) error {
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
	res.Agent, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Agent: %w", err)
	}

	index++
	res.Score, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	index++
	res.SuccessfulBounties, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SuccessfulBounties: %w", err)
	}

	index++
	res.FailedBounties, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field FailedBounties: %w", err)
	}

	index++
	res.TotalEarned, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field TotalEarned: %w", err)
	}

	return nil
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

// itemToNullableBytes is like TryBytes but maps Null to a nil slice, open
// bounties carry no solution hash.
func itemToNullableBytes(item stackitem.Item) ([]byte, error) {
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return item.TryBytes()
}

// itemToNullableUint160 maps Null to a zero script hash, open bounties carry
// no agent yet.
func itemToNullableUint160(item stackitem.Item) (util.Uint160, error) {
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, nil
	}
	return itemToUint160(item)
}
