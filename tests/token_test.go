package tests

import (
	"testing"

	"github.com/bountyforge/bountyforge-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func newTokenEnv(t *testing.T) *marketEnv {
	return newMarketEnv(t, 0)
}

func TestTokenInfo(t *testing.T) {
	env := newTokenEnv(t)

	env.token.Invoke(t, stackitem.Make("FUSD"), "symbol")
	env.token.Invoke(t, stackitem.Make(6), "decimals")
	env.token.Invoke(t, stackitem.Make(startBalance), "totalSupply")
}

func TestTokenMintBurn(t *testing.T) {
	env := newTokenEnv(t)

	acc := env.e.NewAccount(t)
	accHash := acc.ScriptHash()

	accToken := env.e.NewInvoker(env.contracts.token, acc)
	accToken.InvokeFail(t, common.ErrCommitteeWitnessFailed, "mint",
		accHash, int64(100), []byte{})

	env.token.Invoke(t, stackitem.Null{}, "mint", accHash, int64(100), []byte{})
	require.EqualValues(t, 100, env.balanceOf(t, accHash))
	env.token.Invoke(t, stackitem.Make(startBalance+100), "totalSupply")

	accToken.InvokeFail(t, common.ErrCommitteeWitnessFailed, "burn",
		accHash, int64(40), []byte{})

	env.token.Invoke(t, stackitem.Null{}, "burn", accHash, int64(40), []byte{})
	require.EqualValues(t, 60, env.balanceOf(t, accHash))
	env.token.Invoke(t, stackitem.Make(startBalance+60), "totalSupply")

	t.Run("can't burn more than balance", func(t *testing.T) {
		env.token.InvokeFail(t, "can't transfer assets", "burn",
			accHash, int64(1000), []byte{})
	})
}

func TestTokenTransfer(t *testing.T) {
	env := newTokenEnv(t)

	from := env.creator
	fromHash := from.ScriptHash()
	to := env.e.NewAccount(t)
	toHash := to.ScriptHash()

	fromToken := env.e.NewInvoker(env.contracts.token, from)
	fromToken.Invoke(t, stackitem.NewBool(true), "transfer",
		fromHash, toHash, int64(100), nil)

	require.EqualValues(t, startBalance-100, env.balanceOf(t, fromHash))
	require.EqualValues(t, 100, env.balanceOf(t, toHash))

	t.Run("owner witness required", func(t *testing.T) {
		toToken := env.e.NewInvoker(env.contracts.token, to)
		toToken.Invoke(t, stackitem.NewBool(false), "transfer",
			fromHash, toHash, int64(100), nil)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		fromToken.Invoke(t, stackitem.NewBool(false), "transfer",
			fromHash, toHash, int64(startBalance*10), nil)
	})

	t.Run("custodial transfer is gated", func(t *testing.T) {
		fromToken.InvokeFail(t, common.ErrCommitteeWitnessFailed, "transferX",
			fromHash, toHash, int64(1), []byte{})
	})
}

func TestTokenAccounts(t *testing.T) {
	env := newTokenEnv(t)

	addr := randomBytes(20)

	env.token.Invoke(t, stackitem.NewBool(false), "accountExists", addr)
	env.token.Invoke(t, stackitem.Null{}, "createAccount", addr)
	env.token.Invoke(t, stackitem.NewBool(true), "accountExists", addr)
	require.EqualValues(t, 0, env.balanceOf(t, addr))

	// allocation is idempotent
	env.token.Invoke(t, stackitem.Null{}, "createAccount", addr)

	t.Run("allocation survives a drain", func(t *testing.T) {
		env.token.Invoke(t, stackitem.Null{}, "mint", addr, int64(50), []byte{})
		env.token.Invoke(t, stackitem.Null{}, "burn", addr, int64(50), []byte{})
		require.EqualValues(t, 0, env.balanceOf(t, addr))
		env.token.Invoke(t, stackitem.NewBool(true), "accountExists", addr)
	})
}
