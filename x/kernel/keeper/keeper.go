package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestoretypes "cosmossdk.io/core/store"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/kernel/types"
)

// activeGroup is the single group key of the active-policy list.
const activeGroup = ""

type Keeper struct {
	storeService corestoretypes.KVStoreService

	defaultExecutor common.Address
	defaultAdmin    common.Address

	// live component instances; the persisted registry carries addresses
	// only, instances are re-registered through install/activate.
	modules  map[types.Keycode]types.Module
	policies map[common.Address]types.Policy

	Schema collections.Schema

	ModuleForKeycode collections.Map[string, []byte]
	KeycodeForModule collections.Map[[]byte, string]

	// (keycode, policy, selector) -> granted
	Permissions collections.Map[collections.Triple[string, []byte, []byte], bool]
	// (role, address) -> granted
	Roles collections.Map[collections.Pair[string, []byte], bool]

	// exact permission set granted to each policy, kept so deactivation
	// revokes what was granted rather than what the policy declares today
	GrantedPermissions     collections.Map[collections.Pair[[]byte, uint64], []byte]
	GrantedPermissionSizes collections.Map[[]byte, uint64]

	// keycodes each policy registered as upgrade dependencies
	PolicyDependencies     collections.Map[collections.Pair[[]byte, uint64], string]
	PolicyDependencySizes  collections.Map[[]byte, uint64]

	Executor collections.Item[[]byte]
	Admin    collections.Item[[]byte]
	Migrated collections.Item[bool]

	activePolicies indexedList[string]
	dependents     indexedList[string]
}

func NewKeeper(
	storeService corestoretypes.KVStoreService,
	executor common.Address,
	admin common.Address,
) *Keeper {
	if executor == (common.Address{}) || admin == (common.Address{}) {
		panic("executor and admin addresses must not be zero")
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := &Keeper{
		storeService:    storeService,
		defaultExecutor: executor,
		defaultAdmin:    admin,

		modules:  make(map[types.Keycode]types.Module),
		policies: make(map[common.Address]types.Policy),

		ModuleForKeycode: collections.NewMap(sb, types.ModuleForKeycodePrefix, "module_for_keycode", collections.StringKey, collections.BytesValue),
		KeycodeForModule: collections.NewMap(sb, types.KeycodeForModulePrefix, "keycode_for_module", collections.BytesKey, collections.StringValue),
		Permissions: collections.NewMap(
			sb, types.PermissionsPrefix, "permissions",
			collections.TripleKeyCodec(collections.StringKey, collections.BytesKey, collections.BytesKey),
			collections.BoolValue,
		),
		Roles: collections.NewMap(
			sb, types.RolesPrefix, "roles",
			collections.PairKeyCodec(collections.StringKey, collections.BytesKey),
			collections.BoolValue,
		),
		GrantedPermissions: collections.NewMap(
			sb, types.DeclaredPermissionsPrefix, "granted_permissions",
			collections.PairKeyCodec(collections.BytesKey, collections.Uint64Key),
			collections.BytesValue,
		),
		GrantedPermissionSizes: collections.NewMap(sb, types.DeclaredPermissionCount, "granted_permission_sizes", collections.BytesKey, collections.Uint64Value),
		PolicyDependencies: collections.NewMap(
			sb, types.PolicyDependenciesPrefix, "policy_dependencies",
			collections.PairKeyCodec(collections.BytesKey, collections.Uint64Key),
			collections.StringValue,
		),
		PolicyDependencySizes: collections.NewMap(sb, types.PolicyDependencySizesPrefix, "policy_dependency_sizes", collections.BytesKey, collections.Uint64Value),

		Executor: collections.NewItem(sb, types.ExecutorKey, "executor", collections.BytesValue),
		Admin:    collections.NewItem(sb, types.AdminKey, "admin", collections.BytesValue),
		Migrated: collections.NewItem(sb, types.MigratedKey, "migrated", collections.BoolValue),

		activePolicies: newIndexedList(
			sb, "active_policies",
			types.ActivePoliciesPrefix, types.ActivePolicyIndexPrefix, types.ActivePolicyCountKey,
			collections.StringKey,
		),
		dependents: newIndexedList(
			sb, "dependents",
			types.DependentsPrefix, types.DependentIndexPrefix, types.DependentCountPrefix,
			collections.StringKey,
		),
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

// ExecutorAddress returns the address authorized for executor actions.
func (k Keeper) ExecutorAddress(ctx context.Context) (common.Address, error) {
	bz, err := k.Executor.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return k.defaultExecutor, nil
	} else if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(bz), nil
}

// AdminAddress returns the address authorized for role management.
func (k Keeper) AdminAddress(ctx context.Context) (common.Address, error) {
	bz, err := k.Admin.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return k.defaultAdmin, nil
	} else if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(bz), nil
}

// IsMigrated reports whether this kernel has handed authority to another.
func (k Keeper) IsMigrated(ctx context.Context) (bool, error) {
	migrated, err := k.Migrated.Get(ctx)
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	}

	return migrated, err
}

// HasPermission implements types.KernelService.
func (k *Keeper) HasPermission(ctx context.Context, keycode types.Keycode, policy common.Address, selector types.Selector) (bool, error) {
	granted, err := k.Permissions.Get(ctx, collections.Join3(keycode.String(), policy.Bytes(), selector.Bytes()))
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return granted, nil
}

// AssertPermission implements types.KernelService. The returned error
// identifies the policy and the missing selector.
func (k *Keeper) AssertPermission(ctx context.Context, keycode types.Keycode, policy common.Address, selector types.Selector) error {
	granted, err := k.HasPermission(ctx, keycode, policy, selector)
	if err != nil {
		return err
	}

	if !granted {
		return errorsmod.Wrapf(
			types.ErrPolicyNotAuthorized,
			"policy %s lacks permission %s on module %s", policy, selector, keycode,
		)
	}

	return nil
}

// HasRole implements types.KernelService.
func (k *Keeper) HasRole(ctx context.Context, role types.Role, addr common.Address) (bool, error) {
	granted, err := k.Roles.Get(ctx, collections.Join(role.String(), addr.Bytes()))
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return granted, nil
}

// ModuleAddress implements types.KernelService.
func (k *Keeper) ModuleAddress(ctx context.Context, keycode types.Keycode) (common.Address, error) {
	bz, err := k.ModuleForKeycode.Get(ctx, keycode.String())
	if err != nil && errors.Is(err, collections.ErrNotFound) {
		return common.Address{}, errorsmod.Wrapf(types.ErrKeycodeNotFound, "keycode %s", keycode)
	} else if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(bz), nil
}

// ModuleAt implements types.KernelService. The live instance must match
// the address currently bound to the keycode.
func (k *Keeper) ModuleAt(ctx context.Context, keycode types.Keycode) (types.Module, error) {
	addr, err := k.ModuleAddress(ctx, keycode)
	if err != nil {
		return nil, err
	}

	module, ok := k.modules[keycode]
	if !ok || module.Address() != addr {
		return nil, errorsmod.Wrapf(types.ErrModuleNotRegistered, "keycode %s", keycode)
	}

	return module, nil
}

// IsPolicyActive reports whether the policy address is in the active list.
func (k *Keeper) IsPolicyActive(ctx context.Context, policy common.Address) (bool, error) {
	return k.activePolicies.Contains(ctx, activeGroup, policy.Bytes())
}

// ActivePolicyCount returns the number of active policies.
func (k *Keeper) ActivePolicyCount(ctx context.Context) (uint64, error) {
	return k.activePolicies.Len(ctx, activeGroup)
}

// Dependents returns the policies registered as dependents of a keycode.
func (k *Keeper) Dependents(ctx context.Context, keycode types.Keycode) ([]common.Address, error) {
	members, err := k.dependents.Members(ctx, keycode.String())
	if err != nil {
		return nil, err
	}

	addrs := make([]common.Address, 0, len(members))
	for _, member := range members {
		addrs = append(addrs, common.BytesToAddress(member))
	}

	return addrs, nil
}
