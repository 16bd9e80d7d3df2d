package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/guard/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// Keeper is the guard policy: the firewall every wallet call passes
// through. It owns no persisted state; rentals, hook routing, and
// whitelists are read from the storage module resolved via the kernel.
type Keeper struct {
	addr   common.Address
	kernel kerneltypes.KernelService
	tokens types.TokenReader

	// storage module handle, refreshed by ConfigureDependencies on every
	// activation and upgrade rather than cached across them
	store types.RentalChecker

	// live middleware instances keyed by hook address
	hooks map[common.Address]types.Hook

	active bool
}

func NewKeeper(
	addr common.Address,
	kernel kerneltypes.KernelService,
	tokens types.TokenReader,
) *Keeper {
	if addr == (common.Address{}) {
		panic("guard policy address must not be zero")
	}

	return &Keeper{
		addr:   addr,
		kernel: kernel,
		tokens: tokens,
		hooks:  make(map[common.Address]types.Hook),
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

// RequestedPermissions implements kerneltypes.Policy. The guard only
// reads module state, so it requests no mutator capabilities.
func (k *Keeper) RequestedPermissions() []kerneltypes.Permission {
	return nil
}

// ConfigureDependencies implements kerneltypes.Policy.
func (k *Keeper) ConfigureDependencies(ctx context.Context) ([]kerneltypes.Keycode, error) {
	module, err := k.kernel.ModuleAt(ctx, rentaltypes.ModuleKeycode)
	if err != nil {
		return nil, err
	}

	store, ok := module.(types.RentalChecker)
	if !ok {
		return nil, errorsmod.Wrapf(kerneltypes.ErrInvalidTarget, "module %s does not serve rental reads", rentaltypes.ModuleKeycode)
	}

	k.store = store
	return []kerneltypes.Keycode{rentaltypes.ModuleKeycode}, nil
}

// SetActiveStatus implements kerneltypes.Policy. A deactivated guard
// fails every wallet call closed rather than waving them through.
func (k *Keeper) SetActiveStatus(_ context.Context, active bool) {
	k.active = active
}

// ChangeKernel implements kerneltypes.Policy.
func (k *Keeper) ChangeKernel(_ context.Context, kernel kerneltypes.KernelService) error {
	k.kernel = kernel
	return nil
}

// Active reports whether the guard is serving checks.
func (k *Keeper) Active() bool {
	return k.active
}

// RegisterHook binds a live middleware instance to its address. Routing
// and enablement stay in the storage module; this only provides the
// dispatch target.
func (k *Keeper) RegisterHook(addr common.Address, hook types.Hook) {
	k.hooks[addr] = hook
}
