package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/rental/types"
)

// UpdateHookPath routes calls targeting a contract through a hook. At most
// one hook path exists per target at any time; routing to the zero address
// clears the path.
func (k *Keeper) UpdateHookPath(ctx context.Context, caller common.Address, target, hook common.Address) error {
	if err := k.assertPermission(ctx, caller, types.SelectorUpdateHookPath); err != nil {
		return err
	}

	if err := k.assertContract(ctx, target); err != nil {
		return err
	}

	if hook == (common.Address{}) {
		if err := k.HookPaths.Remove(ctx, target.Bytes()); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
	} else {
		if err := k.assertContract(ctx, hook); err != nil {
			return err
		}

		if err := k.HookPaths.Set(ctx, target.Bytes(), hook.Bytes()); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateHookPath,
		sdk.NewAttribute(types.AttributeKeyTarget, target.Hex()),
		sdk.NewAttribute(types.AttributeKeyHook, hook.Hex()),
	))

	return nil
}

// UpdateHookStatus sets a hook's event bitmap; values outside the valid
// 3-bit range are rejected.
func (k *Keeper) UpdateHookStatus(ctx context.Context, caller common.Address, hook common.Address, status uint8) error {
	if err := k.assertPermission(ctx, caller, types.SelectorUpdateHookStatus); err != nil {
		return err
	}

	if err := k.assertContract(ctx, hook); err != nil {
		return err
	}

	if status > types.MaxHookStatus {
		return errorsmod.Wrapf(types.ErrInvalidHookStatus, "status %d exceeds %d", status, types.MaxHookStatus)
	}

	if status == 0 {
		if err := k.HookStatuses.Remove(ctx, hook.Bytes()); err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
	} else {
		if err := k.HookStatuses.Set(ctx, hook.Bytes(), uint64(status)); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpdateHookStatus,
		sdk.NewAttribute(types.AttributeKeyHook, hook.Hex()),
		sdk.NewAttribute(types.AttributeKeyStatus, fmt.Sprintf("%d", status)),
	))

	return nil
}

// HookPathFor returns the hook routed for a target contract, or the zero
// address when none is registered.
func (k *Keeper) HookPathFor(ctx context.Context, target common.Address) (common.Address, error) {
	bz, err := k.HookPaths.Get(ctx, target.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return common.Address{}, nil
	} else if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(bz), nil
}

// HookStatusFor returns a hook's event bitmap; zero when unset.
func (k *Keeper) HookStatusFor(ctx context.Context, hook common.Address) (uint8, error) {
	status, err := k.HookStatuses.Get(ctx, hook.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	return uint8(status), nil
}

// HookEnabled reports whether a hook has the given event flag set.
func (k *Keeper) HookEnabled(ctx context.Context, hook common.Address, flag uint8) (bool, error) {
	status, err := k.HookStatusFor(ctx, hook)
	if err != nil {
		return false, err
	}

	return types.HookStatusEnabled(status, flag), nil
}

func (k *Keeper) assertContract(ctx context.Context, addr common.Address) error {
	if addr == (common.Address{}) {
		return errorsmod.Wrap(types.ErrNotContract, "zero address")
	}

	ok, err := k.verifier.IsContract(ctx, addr)
	if err != nil {
		return err
	}

	if !ok {
		return errorsmod.Wrapf(types.ErrNotContract, "address %s", addr)
	}

	return nil
}
