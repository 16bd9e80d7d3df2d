package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/guard/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// CheckTransaction decides whether a wallet-initiated call may proceed.
// It is invoked once per attempted call; returning an error fails the
// whole wallet call.
func (k *Keeper) CheckTransaction(ctx context.Context, wallet, to common.Address, value math.Int, data []byte, kind types.CallKind) error {
	if !k.active {
		return types.ErrGuardDeactivated
	}

	if kind == types.CallKindDelegate {
		ok, err := k.store.IsWhitelisted(ctx, rentaltypes.WhitelistDelegates, to)
		if err != nil {
			return err
		}

		if !ok {
			return errorsmod.Wrapf(types.ErrUnauthorizedDelegate, "target %s", to)
		}

		return nil
	}

	selector, ok := calldataSelector(data)
	if !ok {
		return types.ErrSelectorRequired
	}

	hook, err := k.store.HookPathFor(ctx, to)
	if err != nil {
		return err
	}

	if hook != (common.Address{}) {
		enabled, err := k.store.HookEnabled(ctx, hook, rentaltypes.HookFlagOnTransaction)
		if err != nil {
			return err
		}

		if enabled {
			return k.forwardToHook(ctx, hook, wallet, to, value, data)
		}
	}

	return k.checkBaseline(ctx, wallet, to, selector, data)
}

// checkBaseline applies the selector policy for targets without a hook.
func (k *Keeper) checkBaseline(ctx context.Context, wallet, to common.Address, selector kerneltypes.Selector, data []byte) error {
	switch selector {
	case types.SelectorTransferFrom, types.SelectorSafeTransferFrom, types.SelectorSafeTransferFromData:
		// (from, to, tokenId)
		tokenID, err := uintAt(data, 2)
		if err != nil {
			return err
		}

		return k.denyIfRented(ctx, wallet, to, tokenID, selector)

	case types.SelectorApprove:
		// (spender, tokenId)
		tokenID, err := uintAt(data, 1)
		if err != nil {
			return err
		}

		return k.denyIfRented(ctx, wallet, to, tokenID, selector)

	case types.SelectorBurn:
		// (tokenId)
		tokenID, err := uintAt(data, 0)
		if err != nil {
			return err
		}

		return k.denyIfRented(ctx, wallet, to, tokenID, selector)

	case types.SelectorBurn1155:
		// (account, tokenId, amount)
		tokenID, err := uintAt(data, 1)
		if err != nil {
			return err
		}

		amount, err := uintAt(data, 2)
		if err != nil {
			return err
		}

		return k.denyBeyondRemainder(ctx, wallet, to, tokenID, amount, selector)

	case types.SelectorSafeTransferFrom1155:
		// (from, to, tokenId, amount, data)
		tokenID, err := uintAt(data, 2)
		if err != nil {
			return err
		}

		amount, err := uintAt(data, 3)
		if err != nil {
			return err
		}

		return k.denyBeyondRemainder(ctx, wallet, to, tokenID, amount, selector)

	case types.SelectorSetApprovalForAll:
		// no token id to reason about; deny while any rental of the
		// asset is active in the wallet
		rented, err := k.store.HasAssetRentals(ctx, wallet, to)
		if err != nil {
			return err
		}

		if rented {
			return errorsmod.Wrapf(types.ErrUnauthorizedSelector, "%s on asset %s with active rentals", selector, to)
		}

		return nil

	case types.SelectorBurnBatch, types.SelectorSafeBatchTransferFrom:
		// a heterogeneous batch cannot be checked against a single
		// encumbrance record
		return errorsmod.Wrapf(types.ErrUnauthorizedSelector, "batch selector %s", selector)

	case types.SelectorSetGuard:
		return errorsmod.Wrap(types.ErrUnauthorizedSelector, "guard cannot be replaced")

	case types.SelectorEnableModule:
		extension, err := addressAt(data, 0)
		if err != nil {
			return err
		}

		return k.denyUnlessExtension(ctx, extension)

	case types.SelectorDisableModule:
		// (prevModule, module)
		extension, err := addressAt(data, 1)
		if err != nil {
			return err
		}

		return k.denyUnlessExtension(ctx, extension)
	}

	return nil
}

func (k *Keeper) denyIfRented(ctx context.Context, wallet, asset common.Address, tokenID math.Int, selector kerneltypes.Selector) error {
	rented, err := k.store.IsRentedOut(ctx, wallet, asset, tokenID)
	if err != nil {
		return err
	}

	if rented {
		return errorsmod.Wrapf(types.ErrUnauthorizedSelector, "%s on rented asset %s id %s", selector, asset, tokenID)
	}

	return nil
}

// denyBeyondRemainder applies the partial-amount rule for fungible
// assets: a mutating call may not cut the free remainder below the
// encumbered quantity.
func (k *Keeper) denyBeyondRemainder(ctx context.Context, wallet, asset common.Address, tokenID, amount math.Int, selector kerneltypes.Selector) error {
	encumbered, err := k.store.EncumberedAmount(ctx, wallet, asset, tokenID)
	if err != nil {
		return err
	}

	if encumbered.IsZero() {
		return nil
	}

	balance, err := k.tokens.BalanceOf(ctx, asset, wallet, tokenID)
	if err != nil {
		return err
	}

	if amount.GT(balance.Sub(encumbered)) {
		return errorsmod.Wrapf(
			types.ErrUnauthorizedSelector,
			"%s of %s exceeds free balance of asset %s id %s (%s held, %s encumbered)",
			selector, amount, asset, tokenID, balance, encumbered,
		)
	}

	return nil
}

func (k *Keeper) denyUnlessExtension(ctx context.Context, extension common.Address) error {
	ok, err := k.store.IsWhitelisted(ctx, rentaltypes.WhitelistExtensions, extension)
	if err != nil {
		return err
	}

	if !ok {
		return errorsmod.Wrapf(types.ErrUnauthorizedExtension, "extension %s", extension)
	}

	return nil
}
