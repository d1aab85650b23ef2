package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

var (
	mintPrefix   = []byte{0x01}
	burnPrefix   = []byte{0x02}
	fundPrefix   = []byte{0x03}
	payoutPrefix = []byte{0x04}
)

// MintTransferDetails marks a transfer made by committee emission.
func MintTransferDetails(txDetails []byte) []byte {
	return append(mintPrefix, txDetails...)
}

// BurnTransferDetails marks a transfer made by committee withdrawal.
func BurnTransferDetails(txDetails []byte) []byte {
	return append(burnPrefix, txDetails...)
}

// FundTransferDetails marks an escrow funding transfer of the given bounty.
func FundTransferDetails(bountyID int) []byte {
	return append(fundPrefix, convert.ToBytes(bountyID)...)
}

// PayoutTransferDetails marks an escrow release transfer of the given bounty.
func PayoutTransferDetails(bountyID int) []byte {
	return append(payoutPrefix, convert.ToBytes(bountyID)...)
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
