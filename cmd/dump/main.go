package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/bountyforge/bountyforge-contract/contracts/bounty/bountyconst"
	"github.com/bountyforge/bountyforge-contract/rpc/bounty"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	bountyHashLE := flag.String("bounty", "", "LE script hash of the Bounty contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *bountyHashLE == "":
		log.Fatal("missing Bounty contract hash")
	}

	bountyHash, err := util.Uint160DecodeStringLE(*bountyHashLE)
	if err != nil {
		log.Fatal(fmt.Errorf("decode Bounty contract hash: %w", err))
	}

	err = _dump(*neoRPCEndpoint, bountyHash)
	if err != nil {
		log.Fatal(err)
	}
}

func _dump(neoBlockchainRPCEndpoint string, bountyHash util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	log.Printf("Dumping bounty state at block #%d...\n", b.currentBlock)

	reader := bounty.NewReader(b.inv, bountyHash)

	sessionID, iter, err := reader.ListBounties()
	if err != nil {
		return fmt.Errorf("open bounty iterator: %w", err)
	}

	defer func() {
		_ = b.inv.TerminateSession(sessionID)
	}()

	for {
		items, err := b.inv.TraverseIterator(sessionID, &iter, 100)
		if err != nil {
			return fmt.Errorf("traverse bounty iterator: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		for i := range items {
			var rec bounty.Bounty

			err = rec.FromStackItem(items[i])
			if err != nil {
				return fmt.Errorf("decode bounty record: %w", err)
			}

			printBounty(reader, &rec)
		}
	}
}

func printBounty(reader *bounty.ContractReader, b *bounty.Bounty) {
	fmt.Printf("bounty %s [%s]: reward %s, creator %s, status %s\n",
		b.ID, b.Category, b.Reward, b.Creator.StringLE(), statusString(b.Status.Int64()))

	if b.Status.Int64() == bountyconst.StatusOpen {
		return
	}

	fmt.Printf("  solution %s by %s, hash %s\n",
		b.SolutionID, b.Agent.StringLE(), base58.Encode(b.SolutionHash))

	rep, err := reader.GetReputation(b.Agent)
	if err != nil {
		log.Printf("get reputation of %s: %v\n", b.Agent.StringLE(), err)
		return
	}

	fmt.Printf("  agent reputation: score %s, settled %s, earned %s\n",
		rep.Score, rep.SuccessfulBounties, rep.TotalEarned)
}

func statusString(s int64) string {
	switch s {
	case bountyconst.StatusOpen:
		return "open"
	case bountyconst.StatusSubmitted:
		return "submitted"
	case bountyconst.StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}
