package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Rental Errors
var (
	// ErrOrderAlreadyActive error raised when re-adding an active order
	ErrOrderAlreadyActive = errorsmod.Register(ModuleName, 2, "rental order already active")

	// ErrOrderNotFound error raised when removing an unknown order
	ErrOrderNotFound = errorsmod.Register(ModuleName, 3, "rental order does not exist")

	// ErrRentalNotFound error raised when decrementing an unknown rental
	ErrRentalNotFound = errorsmod.Register(ModuleName, 4, "rental does not exist")

	// ErrInvalidItem error raised when an order item fails validation
	ErrInvalidItem = errorsmod.Register(ModuleName, 5, "invalid order item")

	// ErrExcessRemoval error raised when removing more than is encumbered
	ErrExcessRemoval = errorsmod.Register(ModuleName, 6, "removal exceeds encumbered amount")

	// ErrInvalidHookStatus error raised when a status is outside the 3-bit range
	ErrInvalidHookStatus = errorsmod.Register(ModuleName, 7, "hook status out of range")

	// ErrNotContract error raised when an address is not a deployed contract
	ErrNotContract = errorsmod.Register(ModuleName, 8, "address is not a contract")

	// ErrWhitelistNoOp error raised when a whitelist toggle changes nothing
	ErrWhitelistNoOp = errorsmod.Register(ModuleName, 9, "whitelist entry unchanged")

	// ErrInvalidCap error raised when a cap setter receives a zero value
	ErrInvalidCap = errorsmod.Register(ModuleName, 10, "cap must be positive")

	// ErrInvalidOrder error raised when a rental order fails validation
	ErrInvalidOrder = errorsmod.Register(ModuleName, 11, "invalid rental order")
)
