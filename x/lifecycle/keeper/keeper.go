package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	escrowtypes "github.com/rentable-labs/rentable/x/escrow/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	"github.com/rentable-labs/rentable/x/lifecycle/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// Keeper is the lifecycle policy: it starts and stops rentals, writing
// encumbrance to the storage module, escrowing payments, and invoking
// hook callbacks. Order matching and signatures happen upstream.
type Keeper struct {
	addr   common.Address
	kernel kerneltypes.KernelService

	store  types.RentalKeeper
	escrow types.EscrowKeeper
	hooks  types.HookDispatcher

	active bool
}

func NewKeeper(
	addr common.Address,
	kernel kerneltypes.KernelService,
	hooks types.HookDispatcher,
) *Keeper {
	if addr == (common.Address{}) {
		panic("lifecycle policy address must not be zero")
	}

	return &Keeper{
		addr:   addr,
		kernel: kernel,
		hooks:  hooks,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", "x/"+types.ModuleName)
}

// Address implements kerneltypes.Policy.
func (k *Keeper) Address() common.Address {
	return k.addr
}

// RequestedPermissions implements kerneltypes.Policy.
func (k *Keeper) RequestedPermissions() []kerneltypes.Permission {
	return []kerneltypes.Permission{
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, k.addr, rentaltypes.SelectorAddRentals),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, k.addr, rentaltypes.SelectorRemoveRentals),
		kerneltypes.NewPermission(rentaltypes.ModuleKeycode, k.addr, rentaltypes.SelectorRemoveRentalsBatch),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, k.addr, escrowtypes.SelectorIncreaseDeposit),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, k.addr, escrowtypes.SelectorSettlePayment),
		kerneltypes.NewPermission(escrowtypes.ModuleKeycode, k.addr, escrowtypes.SelectorSettlePaymentBatch),
	}
}

// ConfigureDependencies implements kerneltypes.Policy.
func (k *Keeper) ConfigureDependencies(ctx context.Context) ([]kerneltypes.Keycode, error) {
	storeModule, err := k.kernel.ModuleAt(ctx, rentaltypes.ModuleKeycode)
	if err != nil {
		return nil, err
	}

	store, ok := storeModule.(types.RentalKeeper)
	if !ok {
		return nil, errorsmod.Wrapf(kerneltypes.ErrInvalidTarget, "module %s does not serve rental writes", rentaltypes.ModuleKeycode)
	}

	escrowModule, err := k.kernel.ModuleAt(ctx, escrowtypes.ModuleKeycode)
	if err != nil {
		return nil, err
	}

	escrow, ok := escrowModule.(types.EscrowKeeper)
	if !ok {
		return nil, errorsmod.Wrapf(kerneltypes.ErrInvalidTarget, "module %s does not serve settlement", escrowtypes.ModuleKeycode)
	}

	k.store = store
	k.escrow = escrow
	return []kerneltypes.Keycode{rentaltypes.ModuleKeycode, escrowtypes.ModuleKeycode}, nil
}

// SetActiveStatus implements kerneltypes.Policy.
func (k *Keeper) SetActiveStatus(_ context.Context, active bool) {
	k.active = active
}

// ChangeKernel implements kerneltypes.Policy.
func (k *Keeper) ChangeKernel(_ context.Context, kernel kerneltypes.KernelService) error {
	k.kernel = kernel
	return nil
}

// Active reports whether the lifecycle policy is serving requests.
func (k *Keeper) Active() bool {
	return k.active
}
