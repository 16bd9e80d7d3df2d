package types

import (
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

const (
	// ModuleName is the name of the escrow module
	ModuleName = "escrow"

	// StoreKey is the string store representation
	StoreKey = ModuleName
)

// ModuleKeycode is the kernel keycode the payment escrow occupies.
const ModuleKeycode = kerneltypes.Keycode("ESCRW")

// FeeDenominator is the basis-point denominator of the protocol fee.
const FeeDenominator = uint64(10_000)

// Keys for escrow store
// Items are stored with the following key: values
var (
	BalancesPrefix = []byte{0x11} // token -> accounted balance

	FeeNumeratorKey = []byte{0x21}
)
