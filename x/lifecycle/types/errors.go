package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Lifecycle Errors
var (
	// ErrInactive error raised when the lifecycle policy is not active
	ErrInactive = errorsmod.Register(ModuleName, 2, "lifecycle policy inactive")

	// ErrAssetNotWhitelisted error raised when renting a non-whitelisted asset
	ErrAssetNotWhitelisted = errorsmod.Register(ModuleName, 3, "asset not whitelisted")

	// ErrPaymentNotWhitelisted error raised for a non-whitelisted payment token
	ErrPaymentNotWhitelisted = errorsmod.Register(ModuleName, 4, "payment token not whitelisted")

	// ErrDurationExceedsCap error raised when an order outlasts the duration cap
	ErrDurationExceedsCap = errorsmod.Register(ModuleName, 5, "rent duration exceeds cap")

	// ErrTooManyItems error raised when an order exceeds the item cap
	ErrTooManyItems = errorsmod.Register(ModuleName, 6, "order exceeds item cap")

	// ErrStopNotAllowed error raised when stopping early without being the renter
	ErrStopNotAllowed = errorsmod.Register(ModuleName, 7, "only the renter may stop an unexpired rental")
)
