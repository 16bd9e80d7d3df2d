package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/lifecycle/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// StartRental begins an agreed rental: encumbrance is written and the
// payment escrowed before any hook runs, so re-entering middleware
// observes the rented state.
func (k *Keeper) StartRental(ctx context.Context, order rentaltypes.RentalOrder) error {
	if !k.active {
		return types.ErrInactive
	}

	if err := order.Validate(); err != nil {
		return errorsmod.Wrap(rentaltypes.ErrInvalidOrder, err.Error())
	}

	if err := k.validateCaps(ctx, order); err != nil {
		return err
	}

	if err := k.validateWhitelists(ctx, order); err != nil {
		return err
	}

	if err := k.store.AddRentals(ctx, k.addr, order.Hash, rentalUpdates(order)); err != nil {
		return err
	}

	for _, item := range order.PaymentItems() {
		if err := k.escrow.IncreaseDeposit(ctx, k.addr, item.Asset, item.Amount); err != nil {
			return err
		}
	}

	if err := k.dispatchHooks(ctx, order, rentaltypes.HookFlagOnStart, true); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRentalStarted,
		sdk.NewAttribute(types.AttributeKeyOrderHash, order.Hash.Hex()),
		sdk.NewAttribute(types.AttributeKeyWallet, order.Wallet.Hex()),
		sdk.NewAttribute(types.AttributeKeyLender, order.Lender.Hex()),
		sdk.NewAttribute(types.AttributeKeyRenter, order.Renter.Hex()),
	))

	return nil
}

// StopRental ends a rental: anyone may stop an expired order, only the
// renter may return early. Encumbrance and escrow unwind before the stop
// hooks run.
func (k *Keeper) StopRental(ctx context.Context, caller common.Address, order rentaltypes.RentalOrder) error {
	if !k.active {
		return types.ErrInactive
	}

	if err := k.validateStop(ctx, caller, order); err != nil {
		return err
	}

	if err := k.store.RemoveRentals(ctx, k.addr, order.Hash, rentalUpdates(order)); err != nil {
		return err
	}

	if err := k.escrow.SettlePayment(ctx, k.addr, order); err != nil {
		return err
	}

	if err := k.dispatchHooks(ctx, order, rentaltypes.HookFlagOnStop, false); err != nil {
		return err
	}

	k.emitStopped(ctx, order)
	return nil
}

// StopRentalBatch ends several rentals atomically.
func (k *Keeper) StopRentalBatch(ctx context.Context, caller common.Address, orders []rentaltypes.RentalOrder) error {
	if !k.active {
		return types.ErrInactive
	}

	orderHashes := make([]common.Hash, 0, len(orders))
	updates := make([][]rentaltypes.RentalUpdate, 0, len(orders))
	for _, order := range orders {
		if err := k.validateStop(ctx, caller, order); err != nil {
			return err
		}

		orderHashes = append(orderHashes, order.Hash)
		updates = append(updates, rentalUpdates(order))
	}

	if err := k.store.RemoveRentalsBatch(ctx, k.addr, orderHashes, updates); err != nil {
		return err
	}

	if err := k.escrow.SettlePaymentBatch(ctx, k.addr, orders); err != nil {
		return err
	}

	for _, order := range orders {
		if err := k.dispatchHooks(ctx, order, rentaltypes.HookFlagOnStop, false); err != nil {
			return err
		}

		k.emitStopped(ctx, order)
	}

	return nil
}

func (k *Keeper) validateCaps(ctx context.Context, order rentaltypes.RentalOrder) error {
	maxDuration, err := k.store.GetMaxRentDuration(ctx)
	if err != nil {
		return err
	}

	if order.End-order.Start > maxDuration {
		return errorsmod.Wrapf(types.ErrDurationExceedsCap, "duration %d exceeds %d", order.End-order.Start, maxDuration)
	}

	maxItems, err := k.store.GetMaxOrderItems(ctx)
	if err != nil {
		return err
	}

	if uint64(len(order.Items)) > maxItems {
		return errorsmod.Wrapf(types.ErrTooManyItems, "%d items exceed cap %d", len(order.Items), maxItems)
	}

	return nil
}

func (k *Keeper) validateWhitelists(ctx context.Context, order rentaltypes.RentalOrder) error {
	for _, item := range order.Items {
		if item.IsRental() {
			ok, err := k.store.IsWhitelisted(ctx, rentaltypes.WhitelistAssets, item.Asset)
			if err != nil {
				return err
			}

			if !ok {
				return errorsmod.Wrapf(types.ErrAssetNotWhitelisted, "asset %s", item.Asset)
			}

			continue
		}

		ok, err := k.store.IsWhitelisted(ctx, rentaltypes.WhitelistPayments, item.Asset)
		if err != nil {
			return err
		}

		if !ok {
			return errorsmod.Wrapf(types.ErrPaymentNotWhitelisted, "token %s", item.Asset)
		}
	}

	return nil
}

func (k *Keeper) validateStop(ctx context.Context, caller common.Address, order rentaltypes.RentalOrder) error {
	if err := order.Validate(); err != nil {
		return errorsmod.Wrap(rentaltypes.ErrInvalidOrder, err.Error())
	}

	now := uint64(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())
	if now < order.End && caller != order.Renter {
		return errorsmod.Wrapf(types.ErrStopNotAllowed, "order %s ends at %d, caller %s", order.Hash, order.End, caller)
	}

	return nil
}

// dispatchHooks notifies every hook the order names whose enablement bit
// is set; onStart failures abort the rental, onStop failures only log so
// a broken hook cannot pin assets forever.
func (k *Keeper) dispatchHooks(ctx context.Context, order rentaltypes.RentalOrder, flag uint8, abortOnError bool) error {
	for _, usage := range order.Hooks {
		enabled, err := k.store.HookEnabled(ctx, usage.Address, flag)
		if err != nil {
			return err
		}

		if !enabled {
			continue
		}

		item := order.Items[usage.ItemIndex]

		var dispatchErr error
		if flag == rentaltypes.HookFlagOnStart {
			dispatchErr = k.hooks.DispatchOnStart(ctx, usage.Address, order.Wallet, item.Asset, item.TokenID, item.Amount, usage.Extra)
		} else {
			dispatchErr = k.hooks.DispatchOnStop(ctx, usage.Address, order.Wallet, item.Asset, item.TokenID, item.Amount, usage.Extra)
		}

		if dispatchErr != nil {
			if abortOnError {
				return dispatchErr
			}

			k.Logger(ctx).Error("stop hook failed", "hook", usage.Address.Hex(), "order", order.Hash.Hex(), "err", dispatchErr)
		}
	}

	return nil
}

func (k *Keeper) emitStopped(ctx context.Context, order rentaltypes.RentalOrder) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeRentalStopped,
		sdk.NewAttribute(types.AttributeKeyOrderHash, order.Hash.Hex()),
		sdk.NewAttribute(types.AttributeKeyWallet, order.Wallet.Hex()),
	))
}

func rentalUpdates(order rentaltypes.RentalOrder) []rentaltypes.RentalUpdate {
	items := order.RentalItems()
	updates := make([]rentaltypes.RentalUpdate, 0, len(items))
	for _, item := range items {
		updates = append(updates, rentaltypes.RentalUpdate{
			Wallet:  order.Wallet,
			Asset:   item.Asset,
			TokenID: item.TokenID,
			Amount:  item.Amount,
		})
	}

	return updates
}
