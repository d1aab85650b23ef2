package token

import (
	"github.com/bountyforge/bountyforge-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Token holds all token info.
	Token struct {
		// Ticker symbol
		Symbol string
		// Amount of decimals
		Decimals int
		// Storage key for circulation value
		CirculationKey string
	}

	// Account structure stores metadata of each settlement currency account.
	// An account record exists from the moment of allocation, even with zero
	// balance, which lets escrow targets be provisioned before funding.
	Account struct {
		// Active balance
		Balance int
	}
)

const (
	symbol      = "FUSD"
	decimals    = 6
	circulation = "ForgeUSDSupply"
	accPrefix   = 'a'

	custodianKey = "custodianScriptHash"
)

var token Token

func createToken() Token {
	return Token{
		Symbol:         symbol,
		Decimals:       decimals,
		CirculationKey: circulation,
	}
}

func init() {
	token = createToken()
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	args := data.([]any)
	custodian := args[0].(interop.Hash160)
	if len(custodian) != interop.Hash160Len {
		panic("invalid custodian script hash")
	}

	storage.Put(ctx, custodianKey, custodian)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// Symbol is a NEP-17 standard method that returns the settlement currency
// ticker.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of settlement
// currency balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of
// settlement currency in circulation.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return token.getSupply(ctx)
}

// BalanceOf is a NEP-17 standard method that returns the settlement currency
// balance of the specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return token.balanceOf(ctx, account)
}

// Transfer is a NEP-17 standard method that transfers settlement currency from
// one account to another. It can be invoked only by the account owner.
//
// It produces Transfer and TransferX notifications. TransferX notification
// will have empty details field.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	return token.transfer(ctx, from, to, amount, false, nil)
}

// TransferX is a method for settlement currency to be moved between custodial
// balances. It can be invoked by the custodian contract registered at deploy
// time or by the committee. Authorization of the original asset owner is the
// custodian's responsibility.
//
// It produces Transfer and TransferX notifications.
func TransferX(from, to interop.Hash160, amount int, details []byte) bool {
	ctx := storage.GetContext()

	checkCustodian(ctx)

	return token.transfer(ctx, from, to, amount, true, details)
}

// CreateAccount allocates a zero-balance account record for the given address
// if it does not exist yet. Allocation is permissionless: escrow sub-accounts
// have no key of their own, so whoever derives them does the provisioning.
func CreateAccount(account interop.Hash160) {
	if len(account) != interop.Hash160Len {
		panic("invalid account script hash")
	}

	ctx := storage.GetContext()
	key := append([]byte{accPrefix}, account...)
	if storage.Get(ctx, key) != nil {
		return
	}

	common.SetSerialized(ctx, key, Account{Balance: 0})
	runtime.Notify("AccountCreated", account)
}

// AccountExists returns true if an account record has been allocated for the
// given address.
func AccountExists(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{accPrefix}, account...)) != nil
}

// Mint is a method that transfers assets to a user account from an empty
// account. It can be invoked only by the committee.
//
// It produces Transfer and TransferX notifications.
//
// Mint increases total supply of the settlement currency.
func Mint(to interop.Hash160, amount int, txDetails []byte) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()

	details := common.MintTransferDetails(txDetails)

	ok := token.transfer(ctx, nil, to, amount, true, details)
	if !ok {
		panic("can't transfer assets")
	}

	supply := token.getSupply(ctx)
	supply = supply + amount
	storage.Put(ctx, token.CirculationKey, supply)
	runtime.Log("assets were minted")
}

// Burn is a method that transfers assets from a user account to an empty
// account. It can be invoked only by the committee.
//
// It produces Transfer and TransferX notifications.
//
// Burn decreases total supply of the settlement currency.
func Burn(from interop.Hash160, amount int, txDetails []byte) {
	ctx := storage.GetContext()

	common.CheckCommitteeWitness()

	details := common.BurnTransferDetails(txDetails)

	ok := token.transfer(ctx, from, nil, amount, true, details)
	if !ok {
		panic("can't transfer assets")
	}

	supply := token.getSupply(ctx)
	if supply < amount {
		panic("negative supply after burn")
	}

	supply = supply - amount
	storage.Put(ctx, token.CirculationKey, supply)
	runtime.Log("assets were burned")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// getSupply gets the token totalSupply value from VM storage.
func (t Token) getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, t.CirculationKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

// balanceOf gets the token balance of a specific address.
func (t Token) balanceOf(ctx storage.Context, holder interop.Hash160) int {
	acc := getAccount(ctx, holder)

	return acc.Balance
}

func (t Token) transfer(ctx storage.Context, from, to interop.Hash160, amount int, custodial bool, details []byte) bool {
	if amount < 0 {
		panic("negative amount")
	}

	amountFrom, ok := t.canTransfer(ctx, from, to, amount, custodial)
	if !ok {
		return false
	}

	if len(from) == interop.Hash160Len {
		var fromKey = append([]byte{accPrefix}, from...)

		amountFrom.Balance -= amount
		common.SetSerialized(ctx, fromKey, amountFrom)
	}

	if len(to) == interop.Hash160Len {
		var toKey = append([]byte{accPrefix}, to...)

		amountTo := getAccount(ctx, to)
		amountTo.Balance += amount
		common.SetSerialized(ctx, toKey, amountTo)
	}

	runtime.Notify("Transfer", from, to, amount)
	runtime.Notify("TransferX", from, to, amount, details)

	return true
}

// canTransfer returns the account record it can transfer from.
func (t Token) canTransfer(ctx storage.Context, from, to interop.Hash160, amount int, custodial bool) (Account, bool) {
	var (
		emptyAcc = Account{}
	)

	if !custodial {
		if len(to) != interop.Hash160Len || !isUsableAddress(from) {
			runtime.Log("bad script hashes")
			return emptyAcc, false
		}
	} else if len(from) == 0 {
		return emptyAcc, true
	}

	amountFrom := getAccount(ctx, from)
	if amountFrom.Balance < amount {
		runtime.Log("not enough assets")
		return emptyAcc, false
	}

	// return amountFrom value back to transfer, reduces extra Get
	return amountFrom, true
}

// isUsableAddress checks if the sender is either a correct NEO address or SC address.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}

// checkCustodian panics unless the caller is the custodian contract or the
// committee.
func checkCustodian(ctx storage.Context) {
	custodian := storage.Get(ctx, custodianKey).(interop.Hash160)
	if runtime.GetCallingScriptHash().Equals(custodian) {
		return
	}

	common.CheckCommitteeWitness()
}

func getAccount(ctx storage.Context, key interop.Hash160) Account {
	data := storage.Get(ctx, append([]byte{accPrefix}, key...))
	if data != nil {
		return std.Deserialize(data.([]byte)).(Account)
	}

	return Account{}
}
