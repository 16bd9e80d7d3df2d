package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestoretypes "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	"github.com/rentable-labs/rentable/x/rental/types"
)

// Keeper is the rental storage module: the single source of truth for
// active rentals, hook routing, and whitelists. It occupies the STORE
// keycode and its mutators are capability-gated through the kernel.
type Keeper struct {
	storeService corestoretypes.KVStoreService

	addr     common.Address
	kernel   kerneltypes.KernelService
	verifier types.ContractVerifier

	Schema collections.Schema

	// rental id -> encumbered amount
	Rentals collections.Map[[]byte, math.Int]
	// order hash -> still active
	OrderActive collections.Map[[]byte, bool]
	// order hash -> items not yet fully unwound
	OrderItemCounts collections.Map[[]byte, uint64]
	// (order hash, rental id) -> amount this order still encumbers, so a
	// fungible item unwound in partial steps keeps its order active until
	// the last unit is released
	OrderItems collections.Map[collections.Pair[[]byte, []byte], math.Int]
	// (wallet, asset) -> number of active rentals, kept for selectors
	// that reference an asset without a token id
	AssetRentalCounts collections.Map[collections.Pair[[]byte, []byte], uint64]

	// target contract -> hook
	HookPaths collections.Map[[]byte, []byte]
	// hook -> status bitmap
	HookStatuses collections.Map[[]byte, uint64]

	AssetWhitelist     collections.Map[[]byte, bool]
	PaymentWhitelist   collections.Map[[]byte, bool]
	DelegateWhitelist  collections.Map[[]byte, bool]
	ExtensionWhitelist collections.Map[[]byte, bool]

	MaxRentDuration collections.Item[uint64]
	MaxOrderItems   collections.Item[uint64]
}

func NewKeeper(
	storeService corestoretypes.KVStoreService,
	addr common.Address,
	kernel kerneltypes.KernelService,
	verifier types.ContractVerifier,
) *Keeper {
	if addr == (common.Address{}) {
		panic("rental module address must not be zero")
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService: storeService,
		addr:         addr,
		kernel:       kernel,
		verifier:     verifier,

		Rentals:         collections.NewMap(sb, types.RentalsPrefix, "rentals", collections.BytesKey, sdk.IntValue),
		OrderActive:     collections.NewMap(sb, types.OrderActivePrefix, "order_active", collections.BytesKey, collections.BoolValue),
		OrderItemCounts: collections.NewMap(sb, types.OrderItemCountPrefix, "order_item_counts", collections.BytesKey, collections.Uint64Value),
		OrderItems: collections.NewMap(
			sb, types.OrderItemPrefix, "order_items",
			collections.PairKeyCodec(collections.BytesKey, collections.BytesKey),
			sdk.IntValue,
		),
		AssetRentalCounts: collections.NewMap(
			sb, types.AssetRentalCountPrefix, "asset_rental_counts",
			collections.PairKeyCodec(collections.BytesKey, collections.BytesKey),
			collections.Uint64Value,
		),

		HookPaths:    collections.NewMap(sb, types.HookPathPrefix, "hook_paths", collections.BytesKey, collections.BytesValue),
		HookStatuses: collections.NewMap(sb, types.HookStatusPrefix, "hook_statuses", collections.BytesKey, collections.Uint64Value),

		AssetWhitelist:     collections.NewMap(sb, types.AssetWhitelistPrefix, "asset_whitelist", collections.BytesKey, collections.BoolValue),
		PaymentWhitelist:   collections.NewMap(sb, types.PaymentWhitelistPrefix, "payment_whitelist", collections.BytesKey, collections.BoolValue),
		DelegateWhitelist:  collections.NewMap(sb, types.DelegateWhitelistPrefix, "delegate_whitelist", collections.BytesKey, collections.BoolValue),
		ExtensionWhitelist: collections.NewMap(sb, types.ExtensionWhitelistPrefix, "extension_whitelist", collections.BytesKey, collections.BoolValue),

		MaxRentDuration: collections.NewItem(sb, types.MaxRentDurationKey, "max_rent_duration", collections.Uint64Value),
		MaxOrderItems:   collections.NewItem(sb, types.MaxOrderItemsKey, "max_order_items", collections.Uint64Value),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema
	return k
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// Address implements kerneltypes.Module.
func (k *Keeper) Address() common.Address {
	return k.addr
}

// Keycode implements kerneltypes.Module.
func (k *Keeper) Keycode() kerneltypes.Keycode {
	return types.ModuleKeycode
}

// InitializeModule implements kerneltypes.Module; seeds the caps on first
// installation and is a no-op on upgrade.
func (k *Keeper) InitializeModule(ctx context.Context) error {
	if ok, err := k.MaxRentDuration.Has(ctx); err != nil {
		return err
	} else if !ok {
		if err := k.MaxRentDuration.Set(ctx, types.DefaultMaxRentDuration); err != nil {
			return err
		}
	}

	if ok, err := k.MaxOrderItems.Has(ctx); err != nil {
		return err
	} else if !ok {
		if err := k.MaxOrderItems.Set(ctx, types.DefaultMaxOrderItems); err != nil {
			return err
		}
	}

	return nil
}

// ChangeKernel implements kerneltypes.Module.
func (k *Keeper) ChangeKernel(_ context.Context, kernel kerneltypes.KernelService) error {
	k.kernel = kernel
	return nil
}

func (k *Keeper) assertPermission(ctx context.Context, caller common.Address, selector kerneltypes.Selector) error {
	return k.kernel.AssertPermission(ctx, types.ModuleKeycode, caller, selector)
}

// EncumberedAmount returns the quantity of (wallet, asset, tokenID)
// currently reserved by active rentals; zero when none.
func (k *Keeper) EncumberedAmount(ctx context.Context, wallet, asset common.Address, tokenID math.Int) (math.Int, error) {
	amount, err := k.Rentals.Get(ctx, types.RentalID(wallet, asset, tokenID).Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	} else if err != nil {
		return math.Int{}, err
	}

	return amount, nil
}

// IsRentedOut reports whether any quantity of the asset id is encumbered.
func (k *Keeper) IsRentedOut(ctx context.Context, wallet, asset common.Address, tokenID math.Int) (bool, error) {
	amount, err := k.EncumberedAmount(ctx, wallet, asset, tokenID)
	if err != nil {
		return false, err
	}

	return amount.IsPositive(), nil
}

// HasAssetRentals reports whether the wallet holds any active rental of
// the asset contract, regardless of token id.
func (k *Keeper) HasAssetRentals(ctx context.Context, wallet, asset common.Address) (bool, error) {
	count, err := k.AssetRentalCounts.Get(ctx, collections.Join(wallet.Bytes(), asset.Bytes()))
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return count > 0, nil
}

// IsOrderActive reports whether an order still has items outstanding.
func (k *Keeper) IsOrderActive(ctx context.Context, orderHash common.Hash) (bool, error) {
	active, err := k.OrderActive.Get(ctx, orderHash.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return active, nil
}

// GetMaxRentDuration returns the rent duration cap in seconds.
func (k *Keeper) GetMaxRentDuration(ctx context.Context) (uint64, error) {
	duration, err := k.MaxRentDuration.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return types.DefaultMaxRentDuration, nil
	}

	return duration, err
}

// GetMaxOrderItems returns the per-order item count cap.
func (k *Keeper) GetMaxOrderItems(ctx context.Context) (uint64, error) {
	count, err := k.MaxOrderItems.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return types.DefaultMaxOrderItems, nil
	}

	return count, err
}
