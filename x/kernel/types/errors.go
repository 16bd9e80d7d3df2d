package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Kernel Errors
var (
	// ErrUnauthorizedExecutor error raised when the caller is not the kernel executor
	ErrUnauthorizedExecutor = errorsmod.Register(ModuleName, 2, "caller is not the executor")

	// ErrUnauthorizedAdmin error raised when the caller is not the kernel admin
	ErrUnauthorizedAdmin = errorsmod.Register(ModuleName, 3, "caller is not the admin")

	// ErrInvalidKeycode error raised when a keycode fails validation
	ErrInvalidKeycode = errorsmod.Register(ModuleName, 4, "invalid keycode")

	// ErrKeycodeOccupied error raised when installing over an existing module
	ErrKeycodeOccupied = errorsmod.Register(ModuleName, 5, "keycode already occupied")

	// ErrKeycodeNotFound error raised when no module is bound to a keycode
	ErrKeycodeNotFound = errorsmod.Register(ModuleName, 6, "no module installed at keycode")

	// ErrInvalidUpgrade error raised when upgrading a module to its current address
	ErrInvalidUpgrade = errorsmod.Register(ModuleName, 7, "upgrade target equals installed module")

	// ErrPolicyAlreadyActive error raised when activating an active policy
	ErrPolicyAlreadyActive = errorsmod.Register(ModuleName, 8, "policy already active")

	// ErrPolicyNotActive error raised when deactivating an inactive policy
	ErrPolicyNotActive = errorsmod.Register(ModuleName, 9, "policy not active")

	// ErrPolicyNotAuthorized error raised when a policy lacks a module capability
	ErrPolicyNotAuthorized = errorsmod.Register(ModuleName, 10, "policy not authorized")

	// ErrRoleAlreadyGranted error raised when granting a role twice
	ErrRoleAlreadyGranted = errorsmod.Register(ModuleName, 11, "role already granted")

	// ErrRoleNotGranted error raised when revoking a role that was never granted
	ErrRoleNotGranted = errorsmod.Register(ModuleName, 12, "role not granted")

	// ErrInvalidRole error raised when a role tag fails validation
	ErrInvalidRole = errorsmod.Register(ModuleName, 13, "invalid role")

	// ErrKernelMigrated error raised when operating on a migrated kernel
	ErrKernelMigrated = errorsmod.Register(ModuleName, 14, "kernel has been migrated")

	// ErrInvalidAction error raised when executing an unknown action kind
	ErrInvalidAction = errorsmod.Register(ModuleName, 15, "invalid action")

	// ErrInvalidTarget error raised when an action target has the wrong shape
	ErrInvalidTarget = errorsmod.Register(ModuleName, 16, "invalid action target")

	// ErrModuleNotRegistered error raised when a live module instance is missing
	ErrModuleNotRegistered = errorsmod.Register(ModuleName, 17, "module instance not registered")
)
