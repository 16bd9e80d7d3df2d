package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/rental/types"
)

// AddRentals marks an order active and increments encumbrance for every
// update. Fails if the order is already active.
func (k *Keeper) AddRentals(ctx context.Context, caller common.Address, orderHash common.Hash, updates []types.RentalUpdate) error {
	if err := k.assertPermission(ctx, caller, types.SelectorAddRentals); err != nil {
		return err
	}

	if ok, err := k.OrderActive.Has(ctx, orderHash.Bytes()); err != nil {
		return err
	} else if ok {
		return errorsmod.Wrapf(types.ErrOrderAlreadyActive, "order %s", orderHash)
	}

	if len(updates) == 0 {
		return errorsmod.Wrap(types.ErrInvalidItem, "no rental updates")
	}

	items := uint64(0)
	for _, update := range updates {
		if err := update.Validate(); err != nil {
			return errorsmod.Wrap(types.ErrInvalidItem, err.Error())
		}

		fresh, err := k.encumber(ctx, orderHash, update)
		if err != nil {
			return err
		}
		if fresh {
			items++
		}
	}

	if err := k.OrderActive.Set(ctx, orderHash.Bytes(), true); err != nil {
		return err
	}
	if err := k.OrderItemCounts.Set(ctx, orderHash.Bytes(), items); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeAddRentals,
		sdk.NewAttribute(types.AttributeKeyOrderHash, orderHash.Hex()),
	))

	return nil
}

// RemoveRentals decrements encumbrance for every update and flips the
// order inactive once all of its items have been unwound. Fails if the
// order does not exist.
func (k *Keeper) RemoveRentals(ctx context.Context, caller common.Address, orderHash common.Hash, updates []types.RentalUpdate) error {
	if err := k.assertPermission(ctx, caller, types.SelectorRemoveRentals); err != nil {
		return err
	}

	return k.removeRentals(ctx, orderHash, updates)
}

// RemoveRentalsBatch unwinds several orders atomically for multi-order
// settlement.
func (k *Keeper) RemoveRentalsBatch(ctx context.Context, caller common.Address, orderHashes []common.Hash, updates [][]types.RentalUpdate) error {
	if err := k.assertPermission(ctx, caller, types.SelectorRemoveRentalsBatch); err != nil {
		return err
	}

	if len(orderHashes) != len(updates) {
		return errorsmod.Wrapf(types.ErrInvalidItem, "order count %d does not match update count %d", len(orderHashes), len(updates))
	}

	for i, orderHash := range orderHashes {
		if err := k.removeRentals(ctx, orderHash, updates[i]); err != nil {
			return err
		}
	}

	return nil
}

func (k *Keeper) removeRentals(ctx context.Context, orderHash common.Hash, updates []types.RentalUpdate) error {
	active, err := k.OrderActive.Get(ctx, orderHash.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s", orderHash)
	} else if err != nil {
		return err
	} else if !active {
		return errorsmod.Wrapf(types.ErrOrderNotFound, "order %s already unwound", orderHash)
	}

	unwound := uint64(0)
	for _, update := range updates {
		if err := update.Validate(); err != nil {
			return errorsmod.Wrap(types.ErrInvalidItem, err.Error())
		}

		done, err := k.release(ctx, orderHash, update)
		if err != nil {
			return err
		}
		if done {
			unwound++
		}
	}

	remaining, err := k.OrderItemCounts.Get(ctx, orderHash.Bytes())
	if err != nil {
		return err
	}

	remaining -= unwound
	if remaining == 0 {
		if err := k.OrderActive.Set(ctx, orderHash.Bytes(), false); err != nil {
			return err
		}
		if err := k.OrderItemCounts.Remove(ctx, orderHash.Bytes()); err != nil {
			return err
		}
	} else {
		if err := k.OrderItemCounts.Set(ctx, orderHash.Bytes(), remaining); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRemoveRentals,
		sdk.NewAttribute(types.AttributeKeyOrderHash, orderHash.Hex()),
	))

	return nil
}

// encumber raises the global encumbrance and the order's own tracked
// amount for the rental. Reports whether the order saw this rental id
// for the first time.
func (k *Keeper) encumber(ctx context.Context, orderHash common.Hash, update types.RentalUpdate) (bool, error) {
	rentalID := update.RentalID().Bytes()

	amount, err := k.EncumberedAmount(ctx, update.Wallet, update.Asset, update.TokenID)
	if err != nil {
		return false, err
	}

	if err := k.Rentals.Set(ctx, rentalID, amount.Add(update.Amount)); err != nil {
		return false, err
	}

	itemKey := collections.Join(orderHash.Bytes(), rentalID)
	tracked, err := k.OrderItems.Get(ctx, itemKey)
	fresh := errors.Is(err, collections.ErrNotFound)
	if err != nil && !fresh {
		return false, err
	}
	if fresh {
		tracked = math.ZeroInt()
	}

	if err := k.OrderItems.Set(ctx, itemKey, tracked.Add(update.Amount)); err != nil {
		return false, err
	}

	if !fresh {
		return false, nil
	}

	countKey := collections.Join(update.Wallet.Bytes(), update.Asset.Bytes())
	count, err := k.AssetRentalCounts.Get(ctx, countKey)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return false, err
	}

	return true, k.AssetRentalCounts.Set(ctx, countKey, count+1)
}

// release lowers the order's tracked amount and the global encumbrance.
// Reports whether the order's item is now fully unwound; only then do the
// order's remaining-item count and the per-asset rental count drop, so
// partial decrements of a fungible rental keep both intact.
func (k *Keeper) release(ctx context.Context, orderHash common.Hash, update types.RentalUpdate) (bool, error) {
	rentalID := update.RentalID().Bytes()
	itemKey := collections.Join(orderHash.Bytes(), rentalID)

	tracked, err := k.OrderItems.Get(ctx, itemKey)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, errorsmod.Wrapf(types.ErrRentalNotFound, "order %s does not encumber rental %s", orderHash, update.RentalID())
	} else if err != nil {
		return false, err
	}

	if update.Amount.GT(tracked) {
		return false, errorsmod.Wrapf(types.ErrExcessRemoval, "order %s holds %s of rental %s, removing %s", orderHash, tracked, update.RentalID(), update.Amount)
	}

	amount, err := k.Rentals.Get(ctx, rentalID)
	if err != nil {
		return false, err
	}

	remainder := amount.Sub(update.Amount)
	if remainder.IsZero() {
		if err := k.Rentals.Remove(ctx, rentalID); err != nil {
			return false, err
		}
	} else {
		if err := k.Rentals.Set(ctx, rentalID, remainder); err != nil {
			return false, err
		}
	}

	outstanding := tracked.Sub(update.Amount)
	if outstanding.IsPositive() {
		return false, k.OrderItems.Set(ctx, itemKey, outstanding)
	}

	if err := k.OrderItems.Remove(ctx, itemKey); err != nil {
		return false, err
	}

	countKey := collections.Join(update.Wallet.Bytes(), update.Asset.Bytes())
	count, err := k.AssetRentalCounts.Get(ctx, countKey)
	if err != nil {
		return false, err
	}

	if count <= 1 {
		return true, k.AssetRentalCounts.Remove(ctx, countKey)
	}

	return true, k.AssetRentalCounts.Set(ctx, countKey, count-1)
}
