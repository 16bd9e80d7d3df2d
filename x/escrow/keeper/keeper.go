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

	"github.com/rentable-labs/rentable/x/escrow/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

// Keeper is the payment escrow module: per-token accounted balances and
// pro-rata settlement. It occupies the ESCRW keycode; the tokens
// themselves are held at the module's own address on the substrate.
type Keeper struct {
	storeService corestoretypes.KVStoreService

	addr   common.Address
	kernel kerneltypes.KernelService
	tokens types.TokenClient

	Schema collections.Schema

	// token -> accounted balance; the token's true balance may exceed
	// this due to fee residue and donations, never the other way around
	Balances collections.Map[[]byte, math.Int]

	FeeNumerator collections.Item[uint64]
}

func NewKeeper(
	storeService corestoretypes.KVStoreService,
	addr common.Address,
	kernel kerneltypes.KernelService,
	tokens types.TokenClient,
) *Keeper {
	if addr == (common.Address{}) {
		panic("escrow module address must not be zero")
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService: storeService,
		addr:         addr,
		kernel:       kernel,
		tokens:       tokens,

		Balances:     collections.NewMap(sb, types.BalancesPrefix, "balances", collections.BytesKey, sdk.IntValue),
		FeeNumerator: collections.NewItem(sb, types.FeeNumeratorKey, "fee_numerator", collections.Uint64Value),
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

// InitializeModule implements kerneltypes.Module.
func (k *Keeper) InitializeModule(_ context.Context) error {
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

// AccountedBalance returns the tracked deposit for a token.
func (k *Keeper) AccountedBalance(ctx context.Context, token common.Address) (math.Int, error) {
	balance, err := k.Balances.Get(ctx, token.Bytes())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return math.ZeroInt(), nil
	} else if err != nil {
		return math.Int{}, err
	}

	return balance, nil
}

// GetFeeNumerator returns the protocol fee in basis points.
func (k *Keeper) GetFeeNumerator(ctx context.Context) (uint64, error) {
	numerator, err := k.FeeNumerator.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}

	return numerator, err
}
