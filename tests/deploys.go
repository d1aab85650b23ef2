package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	bountyPath      = "../contracts/bounty"
	attestationPath = "../contracts/attestation"
	tokenPath       = "../contracts/token"
)

// marketContracts keeps hashes of the deployed contract suite.
type marketContracts struct {
	bounty      util.Uint160
	attestation util.Uint160
	token       util.Uint160
}

func compileContract(t *testing.T, e *neotest.Executor, ctrPath string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
}

// deployMarketContracts deploys the token, attestation and bounty contracts
// wired to each other: the token gets the bounty contract as custodian, the
// bounty contract gets both collaborator hashes. Passing oracleWindow <= 0
// keeps the contract default.
func deployMarketContracts(t *testing.T, e *neotest.Executor, oracleWindow int64) marketContracts {
	ctrBounty := compileContract(t, e, bountyPath)
	ctrAttestation := compileContract(t, e, attestationPath)
	ctrToken := compileContract(t, e, tokenPath)

	e.DeployContract(t, ctrToken, []any{ctrBounty.Hash})
	e.DeployContract(t, ctrAttestation, nil)

	args := []any{ctrToken.Hash, ctrAttestation.Hash}
	if oracleWindow > 0 {
		args = append(args, oracleWindow)
	}
	e.DeployContract(t, ctrBounty, args)

	return marketContracts{
		bounty:      ctrBounty.Hash,
		attestation: ctrAttestation.Hash,
		token:       ctrToken.Hash,
	}
}
