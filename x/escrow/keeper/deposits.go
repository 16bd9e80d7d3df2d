package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/escrow/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// IncreaseDeposit raises the accounted balance for a token. The funds must
// already sit at the escrow address; accounting above the true balance is
// rejected.
func (k *Keeper) IncreaseDeposit(ctx context.Context, caller common.Address, token common.Address, amount math.Int) error {
	if err := k.assertPermission(ctx, caller, types.SelectorIncreaseDeposit); err != nil {
		return err
	}

	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrZeroAmount, "deposit increase")
	}

	accounted, err := k.AccountedBalance(ctx, token)
	if err != nil {
		return err
	}

	trueBalance, err := k.tokens.BalanceOf(ctx, token, k.addr)
	if err != nil {
		return err
	}

	accounted = accounted.Add(amount)
	if accounted.GT(trueBalance) {
		return errorsmod.Wrapf(types.ErrUnbackedDeposit, "accounting %s of token %s, balance %s", accounted, token, trueBalance)
	}

	if err := k.Balances.Set(ctx, token.Bytes(), accounted); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeIncreaseDeposit,
		sdk.NewAttribute(types.AttributeKeyToken, token.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return nil
}

// DecreaseDeposit lowers the accounted balance for a token.
func (k *Keeper) DecreaseDeposit(ctx context.Context, caller common.Address, token common.Address, amount math.Int) error {
	if err := k.assertPermission(ctx, caller, types.SelectorDecreaseDeposit); err != nil {
		return err
	}

	if err := k.decreaseAccounted(ctx, token, amount); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDecreaseDeposit,
		sdk.NewAttribute(types.AttributeKeyToken, token.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
	))

	return nil
}

func (k *Keeper) decreaseAccounted(ctx context.Context, token common.Address, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrap(types.ErrZeroAmount, "deposit decrease")
	}

	accounted, err := k.AccountedBalance(ctx, token)
	if err != nil {
		return err
	}

	if amount.GT(accounted) {
		return errorsmod.Wrapf(types.ErrInsufficientDeposit, "token %s has %s accounted, decreasing %s", token, accounted, amount)
	}

	remainder := accounted.Sub(amount)
	if remainder.IsZero() {
		return k.Balances.Remove(ctx, token.Bytes())
	}

	return k.Balances.Set(ctx, token.Bytes(), remainder)
}

// SetFee updates the protocol fee numerator; values above 100% are
// rejected at set time.
func (k *Keeper) SetFee(ctx context.Context, caller common.Address, numerator uint64) error {
	if err := k.assertAdminRole(ctx, caller); err != nil {
		return err
	}

	if numerator > types.FeeDenominator {
		return errorsmod.Wrapf(types.ErrInvalidFee, "numerator %d", numerator)
	}

	if err := k.FeeNumerator.Set(ctx, numerator); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSetFee,
		sdk.NewAttribute(types.AttributeKeyFee, math.NewIntFromUint64(numerator).String()),
	))

	return nil
}

// Skim sweeps the difference between a token's true balance and its
// accounted balance to the recipient. This is the only path by which fee
// residue and donations leave the escrow, and it is never automatic.
func (k *Keeper) Skim(ctx context.Context, caller common.Address, token common.Address, to common.Address) error {
	if err := k.assertAdminRole(ctx, caller); err != nil {
		return err
	}

	accounted, err := k.AccountedBalance(ctx, token)
	if err != nil {
		return err
	}

	trueBalance, err := k.tokens.BalanceOf(ctx, token, k.addr)
	if err != nil {
		return err
	}

	unaccounted := trueBalance.Sub(accounted)
	if !unaccounted.IsPositive() {
		return errorsmod.Wrapf(types.ErrNothingToSkim, "token %s", token)
	}

	if err := k.safeTransfer(ctx, token, to, unaccounted); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeSkim,
		sdk.NewAttribute(types.AttributeKeyToken, token.Hex()),
		sdk.NewAttribute(types.AttributeKeyRecipient, to.Hex()),
		sdk.NewAttribute(types.AttributeKeyAmount, unaccounted.String()),
	))

	return nil
}

func (k *Keeper) assertAdminRole(ctx context.Context, caller common.Address) error {
	ok, err := k.kernel.HasRole(ctx, rentaltypes.RoleAdmin, caller)
	if err != nil {
		return err
	}

	if !ok {
		return errorsmod.Wrapf(kerneltypes.ErrRoleNotGranted, "caller %s lacks role %s", caller, rentaltypes.RoleAdmin)
	}

	return nil
}
