package keeper

import (
	"context"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/kernel/types"
)

// GrantRole gives an address an operator role; granting twice fails.
func (k *Keeper) GrantRole(ctx context.Context, caller common.Address, role types.Role, addr common.Address) error {
	if err := k.assertAdmin(ctx, caller); err != nil {
		return err
	}

	if err := role.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidRole, err.Error())
	}

	if granted, err := k.HasRole(ctx, role, addr); err != nil {
		return err
	} else if granted {
		return errorsmod.Wrapf(types.ErrRoleAlreadyGranted, "role %s for %s", role, addr)
	}

	if err := k.Roles.Set(ctx, collections.Join(role.String(), addr.Bytes()), true); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeGrantRole,
		sdk.NewAttribute(types.AttributeKeyRole, role.String()),
		sdk.NewAttribute(types.AttributeKeyAddress, addr.Hex()),
	))

	return nil
}

// RevokeRole removes an operator role; revoking an absent grant fails.
func (k *Keeper) RevokeRole(ctx context.Context, caller common.Address, role types.Role, addr common.Address) error {
	if err := k.assertAdmin(ctx, caller); err != nil {
		return err
	}

	if granted, err := k.HasRole(ctx, role, addr); err != nil {
		return err
	} else if !granted {
		return errorsmod.Wrapf(types.ErrRoleNotGranted, "role %s for %s", role, addr)
	}

	if err := k.Roles.Remove(ctx, collections.Join(role.String(), addr.Bytes())); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRevokeRole,
		sdk.NewAttribute(types.AttributeKeyRole, role.String()),
		sdk.NewAttribute(types.AttributeKeyAddress, addr.Hex()),
	))

	return nil
}

func (k *Keeper) assertAdmin(ctx context.Context, caller common.Address) error {
	if migrated, err := k.IsMigrated(ctx); err != nil {
		return err
	} else if migrated {
		return types.ErrKernelMigrated
	}

	admin, err := k.AdminAddress(ctx)
	if err != nil {
		return err
	}

	if caller != admin {
		return errorsmod.Wrapf(types.ErrUnauthorizedAdmin, "caller %s", caller)
	}

	return nil
}
