package types

import (
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

const (
	// ModuleName is the name of the rental module
	ModuleName = "rental"

	// StoreKey is the string store representation
	StoreKey = ModuleName
)

// ModuleKeycode is the kernel keycode the rental storage module occupies.
const ModuleKeycode = kerneltypes.Keycode("STORE")

// RoleAdmin gates whitelist toggles and cap setters.
const RoleAdmin = kerneltypes.Role("ADMIN")

// Default caps, adjustable by the admin role.
const (
	// DefaultMaxRentDuration is 21 days in seconds.
	DefaultMaxRentDuration = uint64(21 * 24 * 60 * 60)

	// DefaultMaxOrderItems bounds the item list of a single order.
	DefaultMaxOrderItems = uint64(10)
)

// Keys for rental store
// Items are stored with the following key: values
var (
	RentalsPrefix          = []byte{0x11} // rental id -> encumbered amount
	OrderActivePrefix      = []byte{0x12} // order hash -> active
	OrderItemCountPrefix   = []byte{0x13} // order hash -> items not fully unwound
	AssetRentalCountPrefix = []byte{0x14} // (wallet, asset) -> active rental count
	OrderItemPrefix        = []byte{0x15} // (order hash, rental id) -> outstanding amount

	HookPathPrefix   = []byte{0x21} // target -> hook
	HookStatusPrefix = []byte{0x22} // hook -> status bitmap

	AssetWhitelistPrefix     = []byte{0x31} // asset -> enabled
	PaymentWhitelistPrefix   = []byte{0x32} // payment token -> enabled
	DelegateWhitelistPrefix  = []byte{0x33} // delegate-call target -> enabled
	ExtensionWhitelistPrefix = []byte{0x34} // wallet extension -> enabled

	MaxRentDurationKey = []byte{0x41}
	MaxOrderItemsKey   = []byte{0x42}
)
