package tests

import (
	"testing"

	"github.com/bountyforge/bountyforge-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type attestationRecord struct {
	solutionID int64
	agent      []byte
	hash       []byte
	timestamp  int64
	verified   bool
}

func newAttestationInvoker(t *testing.T) (*neotest.Executor, util.Uint160) {
	e := newExecutor(t)
	c := compileContract(t, e, attestationPath)
	e.DeployContract(t, c, nil)
	return e, c.Hash
}

func parseAttestation(t *testing.T, item stackitem.Item) attestationRecord {
	arr, ok := item.Value().([]stackitem.Item)
	require.True(t, ok, "attestation is expected to be a struct")
	require.Len(t, arr, 5)

	verified, err := arr[4].TryBool()
	require.NoError(t, err)

	return attestationRecord{
		solutionID: toInt64(t, arr[0]),
		agent:      toBytes(t, arr[1]),
		hash:       toBytes(t, arr[2]),
		timestamp:  toInt64(t, arr[3]),
		verified:   verified,
	}
}

func getAttestation(t *testing.T, c *neotest.ContractInvoker, solutionID int64) attestationRecord {
	s, err := c.TestInvoke(t, "get", solutionID)
	require.NoError(t, err)
	return parseAttestation(t, s.Top().Item())
}

func TestAttest(t *testing.T) {
	e, h := newAttestationInvoker(t)

	agent := e.NewAccount(t)
	agentHash := agent.ScriptHash()
	c := e.NewInvoker(h, agent)

	solutionHash := randomBytes(32)

	t.Run("agent witness required", func(t *testing.T) {
		committee := e.CommitteeInvoker(h)
		committee.InvokeFail(t, common.ErrOwnerWitnessFailed, "attest",
			agentHash, int64(1), solutionHash)
	})

	t.Run("hash must be 32 bytes", func(t *testing.T) {
		c.InvokeFail(t, "invalid solution hash length", "attest",
			agentHash, int64(1), randomBytes(31))
	})

	c.Invoke(t, stackitem.Null{}, "attest", agentHash, int64(1), solutionHash)

	att := getAttestation(t, c, 1)
	require.EqualValues(t, 1, att.solutionID)
	require.Equal(t, agentHash.BytesBE(), att.agent)
	require.Equal(t, solutionHash, att.hash)
	require.Positive(t, att.timestamp)
	require.False(t, att.verified)

	t.Run("commitments are immutable", func(t *testing.T) {
		c.InvokeFail(t, "solution already attested", "attest",
			agentHash, int64(1), randomBytes(32))

		att := getAttestation(t, c, 1)
		require.Equal(t, solutionHash, att.hash)
	})

	t.Run("unknown solution id", func(t *testing.T) {
		_, err := c.TestInvoke(t, "get", int64(42))
		require.Error(t, err)
		require.Contains(t, err.Error(), "attestation not found")
	})
}

func TestAttestMarkVerified(t *testing.T) {
	e, h := newAttestationInvoker(t)

	agent := e.NewAccount(t)
	c := e.NewInvoker(h, agent)
	committee := e.CommitteeInvoker(h)

	solutionHash := randomBytes(32)
	c.Invoke(t, stackitem.Null{}, "attest", agent.ScriptHash(), int64(1), solutionHash)

	c.InvokeFail(t, common.ErrCommitteeWitnessFailed, "markVerified", int64(1))
	committee.InvokeFail(t, "attestation not found", "markVerified", int64(2))

	committee.Invoke(t, stackitem.Null{}, "markVerified", int64(1))

	att := getAttestation(t, c, 1)
	require.True(t, att.verified)
	require.Equal(t, solutionHash, att.hash)
}

func TestAttestList(t *testing.T) {
	e, h := newAttestationInvoker(t)

	agent := e.NewAccount(t)
	c := e.NewInvoker(h, agent)

	c.Invoke(t, stackitem.Null{}, "attest", agent.ScriptHash(), int64(1), randomBytes(32))
	c.Invoke(t, stackitem.Null{}, "attest", agent.ScriptHash(), int64(2), randomBytes(32))

	s, err := c.TestInvoke(t, "list")
	require.NoError(t, err)

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	var ids []int64
	for iter.Next() {
		att := parseAttestation(t, iter.Value())
		ids = append(ids, att.solutionID)
	}
	require.ElementsMatch(t, []int64{1, 2}, ids)
}
