package keeper

import (
	"context"
	"errors"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/guard/types"
)

// forwardToHook hands the call to the target's middleware and re-raises
// its failure preserving the original shape: structured raw bytes pass
// through untouched, string reasons are wrapped, and panics become a
// readable denial.
func (k *Keeper) forwardToHook(ctx context.Context, hook common.Address, wallet, to common.Address, value math.Int, data []byte) (err error) {
	instance, ok := k.hooks[hook]
	if !ok {
		return errorsmod.Wrapf(types.ErrHookNotRegistered, "hook %s", hook)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = shapePanic(hook, recovered)
		}
	}()

	return shapeHookError(hook, instance.OnTransaction(ctx, wallet, to, value, data))
}

// DispatchOnStart invokes a hook's rental-start callback with the same
// failure shaping as transaction forwarding.
func (k *Keeper) DispatchOnStart(ctx context.Context, hook common.Address, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) (err error) {
	instance, ok := k.hooks[hook]
	if !ok {
		return errorsmod.Wrapf(types.ErrHookNotRegistered, "hook %s", hook)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = shapePanic(hook, recovered)
		}
	}()

	return shapeHookError(hook, instance.OnStart(ctx, wallet, asset, tokenID, amount, extra))
}

// DispatchOnStop invokes a hook's rental-stop callback.
func (k *Keeper) DispatchOnStop(ctx context.Context, hook common.Address, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) (err error) {
	instance, ok := k.hooks[hook]
	if !ok {
		return errorsmod.Wrapf(types.ErrHookNotRegistered, "hook %s", hook)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = shapePanic(hook, recovered)
		}
	}()

	return shapeHookError(hook, instance.OnStop(ctx, wallet, asset, tokenID, amount, extra))
}

func shapeHookError(hook common.Address, err error) error {
	if err == nil {
		return nil
	}

	var panicErr types.PanicError
	if errors.As(err, &panicErr) {
		return errorsmod.Wrapf(types.ErrHookPanic, "hook reverted: panic code %d", panicErr.Code)
	}

	var rawErr types.RawError
	if errors.As(err, &rawErr) {
		return rawErr
	}

	return errorsmod.Wrapf(types.ErrHookReverted, "hook %s: %s", hook, err)
}

func shapePanic(hook common.Address, recovered any) error {
	if panicErr, ok := recovered.(types.PanicError); ok {
		return errorsmod.Wrapf(types.ErrHookPanic, "hook reverted: panic code %d", panicErr.Code)
	}

	return errorsmod.Wrapf(types.ErrHookPanic, "hook %s: %v", hook, recovered)
}
