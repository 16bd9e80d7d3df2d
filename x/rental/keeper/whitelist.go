package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	"github.com/rentable-labs/rentable/x/rental/types"
)

// ToggleWhitelist enables or disables an address in one of the admin
// whitelists. Toggling to the current state fails so duplicate grants
// never pass silently.
func (k *Keeper) ToggleWhitelist(ctx context.Context, caller common.Address, whitelist types.Whitelist, addr common.Address, enabled bool) error {
	if err := k.assertAdminRole(ctx, caller); err != nil {
		return err
	}

	if err := whitelist.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrWhitelistNoOp, err.Error())
	}

	if addr == (common.Address{}) {
		return errorsmod.Wrapf(types.ErrWhitelistNoOp, "zero address in %s whitelist", whitelist)
	}

	current, err := k.IsWhitelisted(ctx, whitelist, addr)
	if err != nil {
		return err
	}

	if current == enabled {
		return errorsmod.Wrapf(types.ErrWhitelistNoOp, "%s already %v in %s whitelist", addr, enabled, whitelist)
	}

	store := k.whitelistStore(whitelist)
	if enabled {
		if err := store.Set(ctx, addr.Bytes(), true); err != nil {
			return err
		}
	} else {
		if err := store.Remove(ctx, addr.Bytes()); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeToggleWhitelist,
		sdk.NewAttribute(types.AttributeKeyWhitelist, whitelist.String()),
		sdk.NewAttribute(types.AttributeKeyAddress, addr.Hex()),
		sdk.NewAttribute(types.AttributeKeyEnabled, fmt.Sprintf("%v", enabled)),
	))

	return nil
}

// IsWhitelisted reports whether an address is enabled in a whitelist.
func (k *Keeper) IsWhitelisted(ctx context.Context, whitelist types.Whitelist, addr common.Address) (bool, error) {
	enabled, err := k.whitelistStore(whitelist).Get(ctx, addr.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return enabled, nil
}

// SetMaxRentDuration updates the rent duration cap in seconds.
func (k *Keeper) SetMaxRentDuration(ctx context.Context, caller common.Address, duration uint64) error {
	if err := k.assertAdminRole(ctx, caller); err != nil {
		return err
	}

	if duration == 0 {
		return errorsmod.Wrap(types.ErrInvalidCap, "max rent duration")
	}

	return k.MaxRentDuration.Set(ctx, duration)
}

// SetMaxOrderItems updates the per-order item count cap.
func (k *Keeper) SetMaxOrderItems(ctx context.Context, caller common.Address, count uint64) error {
	if err := k.assertAdminRole(ctx, caller); err != nil {
		return err
	}

	if count == 0 {
		return errorsmod.Wrap(types.ErrInvalidCap, "max order items")
	}

	return k.MaxOrderItems.Set(ctx, count)
}

func (k *Keeper) whitelistStore(whitelist types.Whitelist) collections.Map[[]byte, bool] {
	switch whitelist {
	case types.WhitelistAssets:
		return k.AssetWhitelist
	case types.WhitelistPayments:
		return k.PaymentWhitelist
	case types.WhitelistDelegates:
		return k.DelegateWhitelist
	default:
		return k.ExtensionWhitelist
	}
}

func (k *Keeper) assertAdminRole(ctx context.Context, caller common.Address) error {
	ok, err := k.kernel.HasRole(ctx, types.RoleAdmin, caller)
	if err != nil {
		return err
	}

	if !ok {
		return errorsmod.Wrapf(kerneltypes.ErrRoleNotGranted, "caller %s lacks role %s", caller, types.RoleAdmin)
	}

	return nil
}
