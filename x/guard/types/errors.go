package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Guard Errors. Denial reasons stay distinguishable so a wallet frontend
// can explain why a call was blocked.
var (
	// ErrGuardDeactivated error raised for every call once the guard policy is inactive
	ErrGuardDeactivated = errorsmod.Register(ModuleName, 2, "guard is deactivated")

	// ErrUnauthorizedDelegate error raised for delegate calls to non-whitelisted targets
	ErrUnauthorizedDelegate = errorsmod.Register(ModuleName, 3, "unauthorized delegate target")

	// ErrSelectorRequired error raised when calldata is shorter than a selector
	ErrSelectorRequired = errorsmod.Register(ModuleName, 4, "selector required")

	// ErrUnauthorizedSelector error raised when a restricted selector touches an encumbered asset
	ErrUnauthorizedSelector = errorsmod.Register(ModuleName, 5, "unauthorized selector")

	// ErrUnauthorizedExtension error raised for non-whitelisted wallet extensions
	ErrUnauthorizedExtension = errorsmod.Register(ModuleName, 6, "unauthorized extension")

	// ErrMalformedCalldata error raised when a restricted selector's arguments cannot be read
	ErrMalformedCalldata = errorsmod.Register(ModuleName, 7, "malformed calldata")

	// ErrHookReverted error raised when a hook fails with a string reason
	ErrHookReverted = errorsmod.Register(ModuleName, 8, "hook reverted")

	// ErrHookPanic error raised when a hook fails with a runtime panic
	ErrHookPanic = errorsmod.Register(ModuleName, 9, "hook panicked")

	// ErrHookNotRegistered error raised when a routed hook has no live instance
	ErrHookNotRegistered = errorsmod.Register(ModuleName, 10, "hook instance not registered")
)
