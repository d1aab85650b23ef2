package tests

import (
	"math/big"
	"testing"

	"github.com/bountyforge/bountyforge-contract/common"
	"github.com/bountyforge/bountyforge-contract/contracts/bounty/bountyconst"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const startBalance = 10_000

type bountyRecord struct {
	id           int64
	category     string
	description  string
	reward       int64
	solutionHash []byte
	status       int64
	creator      []byte
	agent        []byte
	solutionID   int64
}

type reputationRecord struct {
	agent              []byte
	score              int64
	successfulBounties int64
	failedBounties     int64
	totalEarned        int64
}

// marketEnv is a deployed contract suite together with funded creator and
// agent accounts.
type marketEnv struct {
	e         *neotest.Executor
	contracts marketContracts

	creator neotest.Signer
	agent   neotest.Signer

	bounty      *neotest.ContractInvoker // signed by creator
	agentBounty *neotest.ContractInvoker // signed by agent
	attestation *neotest.ContractInvoker // signed by agent
	token       *neotest.ContractInvoker // signed by committee
}

func newMarketEnv(t *testing.T, oracleWindow int64) *marketEnv {
	e := newExecutor(t)
	ctr := deployMarketContracts(t, e, oracleWindow)

	creator := e.NewAccount(t)
	agent := e.NewAccount(t)

	env := &marketEnv{
		e:           e,
		contracts:   ctr,
		creator:     creator,
		agent:       agent,
		bounty:      e.NewInvoker(ctr.bounty, creator),
		agentBounty: e.NewInvoker(ctr.bounty, agent),
		attestation: e.NewInvoker(ctr.attestation, agent),
		token:       e.CommitteeInvoker(ctr.token),
	}

	env.token.Invoke(t, stackitem.Null{}, "mint",
		creator.ScriptHash(), int64(startBalance), []byte{})

	return env
}

// escrowOf queries the derived escrow address of the given bounty id.
func (env *marketEnv) escrowOf(t *testing.T, bountyID int64) []byte {
	s, err := env.bounty.TestInvoke(t, "escrowAddress", bountyID)
	require.NoError(t, err)

	addr, err := s.Top().Item().TryBytes()
	require.NoError(t, err)
	require.Len(t, addr, 20)
	return addr
}

func (env *marketEnv) balanceOf(t *testing.T, account any) int64 {
	s, err := env.token.TestInvoke(t, "balanceOf", account)
	require.NoError(t, err)
	return s.Top().Item().Value().(*big.Int).Int64()
}

// openBounty allocates the escrow account and creates a bounty on behalf of
// the creator.
func (env *marketEnv) openBounty(t *testing.T, bountyID int64, description string, reward int64) []byte {
	escrow := env.escrowOf(t, bountyID)
	env.token.Invoke(t, stackitem.Null{}, "createAccount", escrow)
	env.bounty.Invoke(t, stackitem.Null{}, "createBounty",
		env.creator.ScriptHash(), bountyID, "data", description, reward, escrow)
	return escrow
}

// attest records the agent's commitment for the given solution id.
func (env *marketEnv) attest(t *testing.T, solutionID int64, solutionHash []byte) {
	env.attestation.Invoke(t, stackitem.Null{}, "attest",
		env.agent.ScriptHash(), solutionID, solutionHash)
}

func (env *marketEnv) getBounty(t *testing.T, bountyID int64) bountyRecord {
	s, err := env.bounty.TestInvoke(t, "getBounty", bountyID)
	require.NoError(t, err)
	return parseBounty(t, s.Top().Item())
}

func (env *marketEnv) getReputation(t *testing.T, agent neotest.Signer) reputationRecord {
	s, err := env.bounty.TestInvoke(t, "getReputation", agent.ScriptHash())
	require.NoError(t, err)
	return parseReputation(t, s.Top().Item())
}

func parseBounty(t *testing.T, item stackitem.Item) bountyRecord {
	arr, ok := item.Value().([]stackitem.Item)
	require.True(t, ok, "bounty is expected to be a struct")
	require.Len(t, arr, 9)

	return bountyRecord{
		id:           toInt64(t, arr[0]),
		category:     string(toBytes(t, arr[1])),
		description:  string(toBytes(t, arr[2])),
		reward:       toInt64(t, arr[3]),
		solutionHash: toBytes(t, arr[4]),
		status:       toInt64(t, arr[5]),
		creator:      toBytes(t, arr[6]),
		agent:        toBytes(t, arr[7]),
		solutionID:   toInt64(t, arr[8]),
	}
}

func parseReputation(t *testing.T, item stackitem.Item) reputationRecord {
	arr, ok := item.Value().([]stackitem.Item)
	require.True(t, ok, "reputation is expected to be a struct")
	require.Len(t, arr, 5)

	return reputationRecord{
		agent:              toBytes(t, arr[0]),
		score:              toInt64(t, arr[1]),
		successfulBounties: toInt64(t, arr[2]),
		failedBounties:     toInt64(t, arr[3]),
		totalEarned:        toInt64(t, arr[4]),
	}
}

func toInt64(t *testing.T, item stackitem.Item) int64 {
	v, ok := item.Value().(*big.Int)
	require.True(t, ok)
	return v.Int64()
}

func toBytes(t *testing.T, item stackitem.Item) []byte {
	if _, ok := item.(stackitem.Null); ok {
		return nil
	}
	b, err := item.TryBytes()
	require.NoError(t, err)
	return b
}

func TestCreateBounty(t *testing.T) {
	env := newMarketEnv(t, 0)
	creatorHash := env.creator.ScriptHash()

	escrow := env.escrowOf(t, 1)

	env.bounty.InvokeFail(t, "escrow address mismatch", "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(1000), creatorHash)

	env.bounty.InvokeFail(t, "escrow account not initialized", "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(1000), escrow)

	env.token.Invoke(t, stackitem.Null{}, "createAccount", escrow)

	env.bounty.InvokeFail(t, "reward must be positive", "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(0), escrow)

	env.bounty.InvokeFail(t, "description too long", "createBounty",
		creatorHash, int64(1), "data", string(randomBytes(51)), int64(1000), escrow)

	env.bounty.InvokeFail(t, "invalid category", "createBounty",
		creatorHash, int64(1), "", "index the chain", int64(1000), escrow)

	committeeBounty := env.e.CommitteeInvoker(env.contracts.bounty)
	committeeBounty.InvokeFail(t, common.ErrOwnerWitnessFailed, "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(1000), escrow)

	env.bounty.Invoke(t, stackitem.Null{}, "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(1000), escrow)

	require.EqualValues(t, 1000, env.balanceOf(t, escrow))
	require.EqualValues(t, startBalance-1000, env.balanceOf(t, creatorHash))

	b := env.getBounty(t, 1)
	require.EqualValues(t, 1, b.id)
	require.Equal(t, "data", b.category)
	require.Equal(t, "index the chain", b.description)
	require.EqualValues(t, 1000, b.reward)
	require.Nil(t, b.solutionHash)
	require.EqualValues(t, bountyconst.StatusOpen, b.status)
	require.Nil(t, b.agent)

	env.bounty.InvokeFail(t, "bounty already exists", "createBounty",
		creatorHash, int64(1), "data", "index the chain", int64(1000), escrow)

	t.Run("insufficient creator balance", func(t *testing.T) {
		escrow2 := env.escrowOf(t, 2)
		env.token.Invoke(t, stackitem.Null{}, "createAccount", escrow2)
		env.bounty.InvokeFail(t, "can't fund escrow", "createBounty",
			creatorHash, int64(2), "data", "index the chain", int64(startBalance*10), escrow2)
		_, err := env.bounty.TestInvoke(t, "getBounty", int64(2))
		require.Error(t, err)
	})

	t.Run("distinct escrow per bounty", func(t *testing.T) {
		require.NotEqual(t, escrow, env.escrowOf(t, 2))
	})
}

func TestSubmitSolution(t *testing.T) {
	env := newMarketEnv(t, 0)
	agentHash := env.agent.ScriptHash()

	escrow := env.openBounty(t, 7, "index the chain", 1000)

	solutionHash := randomBytes(32)
	env.attest(t, 1, solutionHash)

	t.Run("hash mismatch", func(t *testing.T) {
		env.agentBounty.InvokeFail(t, bountyconst.ErrSolutionHashMismatch, "submitSolution",
			agentHash, int64(7), int64(1), randomBytes(32), []byte{})

		b := env.getBounty(t, 7)
		require.EqualValues(t, bountyconst.StatusOpen, b.status)
		require.Nil(t, b.solutionHash)

		_, err := env.bounty.TestInvoke(t, "getReputation", agentHash)
		require.Error(t, err)
	})

	t.Run("foreign attestation", func(t *testing.T) {
		other := env.e.NewAccount(t)
		otherBounty := env.e.NewInvoker(env.contracts.bounty, other)
		otherBounty.InvokeFail(t, bountyconst.ErrAttestationOwnerMismatch, "submitSolution",
			other.ScriptHash(), int64(7), int64(1), solutionHash, []byte{})
	})

	t.Run("agent witness required", func(t *testing.T) {
		env.bounty.InvokeFail(t, common.ErrOwnerWitnessFailed, "submitSolution",
			agentHash, int64(7), int64(1), solutionHash, []byte{})
	})

	t.Run("unknown attestation", func(t *testing.T) {
		env.agentBounty.InvokeFail(t, "attestation not found", "submitSolution",
			agentHash, int64(7), int64(42), solutionHash, []byte{})
	})

	env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
		agentHash, int64(7), int64(1), solutionHash, []byte{})

	b := env.getBounty(t, 7)
	require.EqualValues(t, bountyconst.StatusSubmitted, b.status)
	require.Equal(t, solutionHash, b.solutionHash)
	require.Equal(t, agentHash.BytesBE(), b.agent)
	require.EqualValues(t, 1, b.solutionID)

	rep := env.getReputation(t, env.agent)
	require.EqualValues(t, 1, rep.score)
	require.EqualValues(t, 0, rep.successfulBounties)
	require.EqualValues(t, 0, rep.totalEarned)

	// escrow is untouched by submission
	require.EqualValues(t, 1000, env.balanceOf(t, escrow))

	t.Run("no double submission", func(t *testing.T) {
		env.attest(t, 2, randomBytes(32))
		env.agentBounty.InvokeFail(t, bountyconst.ErrBountyNotOpen, "submitSolution",
			agentHash, int64(7), int64(2), solutionHash, []byte{})
	})

	t.Run("score accrual", func(t *testing.T) {
		env.openBounty(t, 8, "write a parser", 500)
		hash2 := randomBytes(32)
		env.attest(t, 3, hash2)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, int64(8), int64(3), hash2, []byte{})

		rep := env.getReputation(t, env.agent)
		require.EqualValues(t, 2, rep.score)
	})
}

func TestSubmitSolutionOracleGate(t *testing.T) {
	env := newMarketEnv(t, 0)
	agentHash := env.agent.ScriptHash()

	env.openBounty(t, 1, "track the gold PRICE", 1000)

	solutionHash := randomBytes(32)
	env.attest(t, 1, solutionHash)

	env.agentBounty.InvokeFail(t, bountyconst.ErrOracleVerificationFailed, "submitSolution",
		agentHash, int64(1), int64(1), solutionHash, []byte{})

	env.agentBounty.InvokeFail(t, bountyconst.ErrOracleVerificationFailed, "submitSolution",
		agentHash, int64(1), int64(1), solutionHash, randomBytes(20))

	// any deployed contract passes the presence check, verification depth is
	// delegated off-chain
	env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
		agentHash, int64(1), int64(1), solutionHash, env.contracts.token)

	b := env.getBounty(t, 1)
	require.EqualValues(t, bountyconst.StatusSubmitted, b.status)

	t.Run("plain bounty needs no oracle", func(t *testing.T) {
		env.openBounty(t, 2, "write a parser", 500)
		hash2 := randomBytes(32)
		env.attest(t, 2, hash2)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, int64(2), int64(2), hash2, []byte{})
	})

	t.Run("fresh heartbeat", func(t *testing.T) {
		env.openBounty(t, 3, "oracle backed task", 500)
		committeeBounty := env.e.CommitteeInvoker(env.contracts.bounty)
		committeeBounty.Invoke(t, stackitem.Null{}, "oracleHeartbeat", env.contracts.token)

		hash3 := randomBytes(32)
		env.attest(t, 3, hash3)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, int64(3), int64(3), hash3, env.contracts.token)
	})
}

func TestSubmitSolutionOracleStale(t *testing.T) {
	// 1ms freshness window, any block in between outdates the heartbeat
	env := newMarketEnv(t, 1)
	agentHash := env.agent.ScriptHash()

	env.openBounty(t, 1, "follow the FX feed", 1000)

	committeeBounty := env.e.CommitteeInvoker(env.contracts.bounty)
	committeeBounty.Invoke(t, stackitem.Null{}, "oracleHeartbeat", env.contracts.token)

	solutionHash := randomBytes(32)
	env.attest(t, 1, solutionHash)

	env.agentBounty.InvokeFail(t, bountyconst.ErrOracleDataStale, "submitSolution",
		agentHash, int64(1), int64(1), solutionHash, env.contracts.token)

	b := env.getBounty(t, 1)
	require.EqualValues(t, bountyconst.StatusOpen, b.status)
}

func TestSettleBounty(t *testing.T) {
	env := newMarketEnv(t, 0)
	agentHash := env.agent.ScriptHash()

	escrow := env.openBounty(t, 7, "index the chain", 1000)

	solutionHash := randomBytes(32)
	env.attest(t, 1, solutionHash)

	t.Run("not submitted yet", func(t *testing.T) {
		env.bounty.InvokeFail(t, bountyconst.ErrBountyNotSubmitted, "settleBounty", int64(7))
	})

	env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
		agentHash, int64(7), int64(1), solutionHash, []byte{})

	t.Run("creator only", func(t *testing.T) {
		env.agentBounty.InvokeFail(t, bountyconst.ErrUnauthorizedSettlement,
			"settleBounty", int64(7))
	})

	env.bounty.Invoke(t, stackitem.Null{}, "settleBounty", int64(7))

	require.EqualValues(t, 0, env.balanceOf(t, escrow))
	require.EqualValues(t, 1000, env.balanceOf(t, agentHash))

	b := env.getBounty(t, 7)
	require.EqualValues(t, bountyconst.StatusSettled, b.status)
	require.Equal(t, solutionHash, b.solutionHash)

	rep := env.getReputation(t, env.agent)
	require.EqualValues(t, 1, rep.score)
	require.EqualValues(t, 1, rep.successfulBounties)
	require.EqualValues(t, 0, rep.failedBounties)
	require.EqualValues(t, 1000, rep.totalEarned)

	t.Run("settlement is terminal", func(t *testing.T) {
		env.bounty.InvokeFail(t, bountyconst.ErrBountyNotSubmitted, "settleBounty", int64(7))

		env.attest(t, 2, randomBytes(32))
		env.agentBounty.InvokeFail(t, bountyconst.ErrBountyNotOpen, "submitSolution",
			agentHash, int64(7), int64(2), solutionHash, []byte{})
	})

	t.Run("earnings accumulate", func(t *testing.T) {
		env.openBounty(t, 8, "write a parser", 500)
		hash2 := randomBytes(32)
		env.attest(t, 3, hash2)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, int64(8), int64(3), hash2, []byte{})
		env.bounty.Invoke(t, stackitem.Null{}, "settleBounty", int64(8))

		rep := env.getReputation(t, env.agent)
		require.EqualValues(t, 2, rep.score)
		require.EqualValues(t, 2, rep.successfulBounties)
		require.EqualValues(t, 1500, rep.totalEarned)
		require.EqualValues(t, 1500, env.balanceOf(t, agentHash))
	})

	t.Run("full escrow balance is released", func(t *testing.T) {
		escrow := env.openBounty(t, 9, "sort the backlog", 500)

		// anyone may top up an escrow before settlement, the agent gets it all
		creatorToken := env.e.NewInvoker(env.contracts.token, env.creator)
		creatorToken.Invoke(t, stackitem.NewBool(true), "transfer",
			env.creator.ScriptHash(), escrow, int64(250), nil)

		hash3 := randomBytes(32)
		env.attest(t, 4, hash3)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, int64(9), int64(4), hash3, []byte{})
		env.bounty.Invoke(t, stackitem.Null{}, "settleBounty", int64(9))

		require.EqualValues(t, 0, env.balanceOf(t, escrow))
		require.EqualValues(t, 2250, env.balanceOf(t, agentHash))

		rep := env.getReputation(t, env.agent)
		require.EqualValues(t, 2250, rep.totalEarned)
	})
}

func TestSettleBountyEarningsOverflow(t *testing.T) {
	env := newMarketEnv(t, 0)
	agentHash := env.agent.ScriptHash()

	// two rewards of 2^62 push cumulative earnings past the 64-bit ceiling on
	// the second settlement; the score counter has the same ceiling but would
	// need 2^63-1 submissions to reach it
	const half = int64(1) << 62
	env.token.Invoke(t, stackitem.Null{}, "mint", env.creator.ScriptHash(), half, []byte{})
	env.token.Invoke(t, stackitem.Null{}, "mint", env.creator.ScriptHash(), half, []byte{})

	for _, id := range []int64{1, 2} {
		env.openBounty(t, id, "index the chain", half)
		hash := randomBytes(32)
		env.attest(t, id, hash)
		env.agentBounty.Invoke(t, stackitem.Null{}, "submitSolution",
			agentHash, id, id, hash, []byte{})
	}

	env.bounty.Invoke(t, stackitem.Null{}, "settleBounty", int64(1))
	env.bounty.InvokeFail(t, bountyconst.ErrReputationOverflow, "settleBounty", int64(2))

	// the faulted settlement left no trace
	b := env.getBounty(t, 2)
	require.EqualValues(t, bountyconst.StatusSubmitted, b.status)
	require.EqualValues(t, half, env.balanceOf(t, env.escrowOf(t, 2)))

	rep := env.getReputation(t, env.agent)
	require.EqualValues(t, 1, rep.successfulBounties)
	require.EqualValues(t, half, rep.totalEarned)
}

func TestBountyLifecycleAtomicity(t *testing.T) {
	env := newMarketEnv(t, 0)
	agentHash := env.agent.ScriptHash()

	env.openBounty(t, 1, "index the chain", 1000)
	solutionHash := randomBytes(32)
	env.attest(t, 1, solutionHash)

	// two submissions race within one block, only the first can observe an
	// absent solution hash
	env.attest(t, 2, solutionHash)
	tx1 := env.agentBounty.PrepareInvoke(t, "submitSolution",
		agentHash, int64(1), int64(1), solutionHash, []byte{})
	tx2 := env.agentBounty.PrepareInvoke(t, "submitSolution",
		agentHash, int64(1), int64(2), solutionHash, []byte{})

	env.agentBounty.AddNewBlock(t, tx1, tx2)
	env.agentBounty.CheckHalt(t, tx1.Hash(), stackitem.Null{})
	env.agentBounty.CheckFault(t, tx2.Hash(), bountyconst.ErrBountyNotOpen)

	b := env.getBounty(t, 1)
	require.EqualValues(t, bountyconst.StatusSubmitted, b.status)
	require.EqualValues(t, 1, b.solutionID)

	// the losing transaction left no reputation trace
	rep := env.getReputation(t, env.agent)
	require.EqualValues(t, 1, rep.score)
}

func TestGetBountyMissing(t *testing.T) {
	env := newMarketEnv(t, 0)

	_, err := env.bounty.TestInvoke(t, "getBounty", int64(99))
	require.Error(t, err)
	require.Contains(t, err.Error(), "bounty not found")

	_, err = env.bounty.TestInvoke(t, "getReputation", env.agent.ScriptHash())
	require.Error(t, err)
	require.Contains(t, err.Error(), "reputation record not found")
}

func TestListBounties(t *testing.T) {
	env := newMarketEnv(t, 0)

	env.openBounty(t, 1, "index the chain", 1000)
	env.openBounty(t, 2, "write a parser", 500)

	s, err := env.bounty.TestInvoke(t, "listBounties")
	require.NoError(t, err)

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	var ids []int64
	for iter.Next() {
		b := parseBounty(t, iter.Value())
		ids = append(ids, b.id)
	}
	require.ElementsMatch(t, []int64{1, 2}, ids)
}
