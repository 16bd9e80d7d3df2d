package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Escrow Errors
var (
	// ErrZeroAmount error raised when depositing or settling nothing
	ErrZeroAmount = errorsmod.Register(ModuleName, 2, "amount must be positive")

	// ErrInsufficientDeposit error raised when decreasing below zero
	ErrInsufficientDeposit = errorsmod.Register(ModuleName, 3, "insufficient accounted deposit")

	// ErrUnbackedDeposit error raised when accounting would exceed the true balance
	ErrUnbackedDeposit = errorsmod.Register(ModuleName, 4, "accounted balance exceeds token balance")

	// ErrPaymentTransferFailed error raised when a token transfer reverts or returns false
	ErrPaymentTransferFailed = errorsmod.Register(ModuleName, 5, "payment transfer failed")

	// ErrInvalidFee error raised when the fee numerator exceeds 100%
	ErrInvalidFee = errorsmod.Register(ModuleName, 6, "fee numerator exceeds denominator")

	// ErrInvalidProRata error raised on out-of-range pro-rata inputs
	ErrInvalidProRata = errorsmod.Register(ModuleName, 7, "invalid pro-rata inputs")

	// ErrNothingToSkim error raised when no unaccounted balance exists
	ErrNothingToSkim = errorsmod.Register(ModuleName, 8, "no unaccounted balance")
)
