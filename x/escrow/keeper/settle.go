package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/escrow/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// SettlePayment pays out every escrowed payment leg of an order: in full
// when the rental ran to its end time, pro-rata when it was stopped early.
func (k *Keeper) SettlePayment(ctx context.Context, caller common.Address, order rentaltypes.RentalOrder) error {
	if err := k.assertPermission(ctx, caller, types.SelectorSettlePayment); err != nil {
		return err
	}

	return k.settleOrder(ctx, order)
}

// SettlePaymentBatch settles several orders in one call.
func (k *Keeper) SettlePaymentBatch(ctx context.Context, caller common.Address, orders []rentaltypes.RentalOrder) error {
	if err := k.assertPermission(ctx, caller, types.SelectorSettlePaymentBatch); err != nil {
		return err
	}

	for _, order := range orders {
		if err := k.settleOrder(ctx, order); err != nil {
			return err
		}
	}

	return nil
}

func (k *Keeper) settleOrder(ctx context.Context, order rentaltypes.RentalOrder) error {
	if err := order.Validate(); err != nil {
		return errorsmod.Wrap(rentaltypes.ErrInvalidOrder, err.Error())
	}

	now := uint64(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())

	for _, item := range order.PaymentItems() {
		if err := k.settleItem(ctx, order, item, now); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSettlePayment,
		sdk.NewAttribute(types.AttributeKeyOrderHash, order.Hash.Hex()),
	))

	return nil
}

func (k *Keeper) settleItem(ctx context.Context, order rentaltypes.RentalOrder, item rentaltypes.Item, now uint64) error {
	// the accounted deposit shrinks before any token leaves the escrow,
	// so a re-entering token contract observes settled state
	if err := k.decreaseAccounted(ctx, item.Asset, item.Amount); err != nil {
		return err
	}

	numerator, err := k.GetFeeNumerator(ctx)
	if err != nil {
		return err
	}

	// the fee stays behind as unaccounted balance until skimmed
	amount := item.Amount.Sub(types.Fee(item.Amount, numerator))

	if now >= order.End {
		return k.settleInFull(ctx, item.Asset, amount, item.SettleTo, order.Lender, order.Renter)
	}

	elapsed := uint64(0)
	if now > order.Start {
		elapsed = now - order.Start
	}

	return k.settleProRata(ctx, item.Asset, amount, order.Type, order.Lender, order.Renter, elapsed, order.End-order.Start)
}

// settleInFull sends the whole amount to the designated party.
func (k *Keeper) settleInFull(ctx context.Context, token common.Address, amount math.Int, settleTo rentaltypes.SettleTo, lender, renter common.Address) error {
	recipient := lender
	if settleTo == rentaltypes.SettleToRenter {
		recipient = renter
	}

	if amount.IsPositive() {
		return k.safeTransfer(ctx, token, recipient, amount)
	}

	return nil
}

// settleProRata splits the amount by elapsed time. For BASE orders the
// lender earned the elapsed share and the renter is refunded the rest; PAY
// orders flow the other way.
func (k *Keeper) settleProRata(ctx context.Context, token common.Address, amount math.Int, orderType rentaltypes.OrderType, lender, renter common.Address, elapsed, total uint64) error {
	payeeAmount, payerRefund, err := types.CalculateProRata(amount, elapsed, total)
	if err != nil {
		return errorsmod.Wrap(types.ErrInvalidProRata, err.Error())
	}

	payee, payer := lender, renter
	if orderType == rentaltypes.OrderTypePay {
		payee, payer = renter, lender
	}

	if payeeAmount.IsPositive() {
		if err := k.safeTransfer(ctx, token, payee, payeeAmount); err != nil {
			return err
		}
	}

	if payerRefund.IsPositive() {
		if err := k.safeTransfer(ctx, token, payer, payerRefund); err != nil {
			return err
		}
	}

	return nil
}
