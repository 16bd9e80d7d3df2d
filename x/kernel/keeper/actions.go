package keeper

import (
	"context"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/kernel/types"
)

// ExecuteAction is the single executor-gated entry point for registry
// mutations. The target type depends on the action kind.
func (k *Keeper) ExecuteAction(ctx context.Context, caller common.Address, action types.Action, target any) error {
	if err := k.assertExecutor(ctx, caller); err != nil {
		return err
	}

	switch action {
	case types.ActionInstallModule:
		module, ok := target.(types.Module)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects a module target", action)
		}
		return k.InstallModule(ctx, module)
	case types.ActionUpgradeModule:
		module, ok := target.(types.Module)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects a module target", action)
		}
		return k.UpgradeModule(ctx, module)
	case types.ActionActivatePolicy:
		policy, ok := target.(types.Policy)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects a policy target", action)
		}
		return k.ActivatePolicy(ctx, policy)
	case types.ActionDeactivatePolicy:
		policy, ok := target.(types.Policy)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects a policy target", action)
		}
		return k.DeactivatePolicy(ctx, policy)
	case types.ActionMigrateKernel:
		newKernel, ok := target.(types.KernelService)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects a kernel target", action)
		}
		return k.MigrateKernel(ctx, newKernel)
	case types.ActionChangeExecutor:
		addr, ok := target.(common.Address)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects an address target", action)
		}
		return k.changeExecutor(ctx, addr)
	case types.ActionChangeAdmin:
		addr, ok := target.(common.Address)
		if !ok {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "%s expects an address target", action)
		}
		return k.changeAdmin(ctx, addr)
	default:
		return errorsmod.Wrapf(types.ErrInvalidAction, "action %d", uint8(action))
	}
}

// InstallModule binds a keycode to a fresh module and runs its initializer.
func (k *Keeper) InstallModule(ctx context.Context, module types.Module) error {
	keycode := module.Keycode()
	if err := keycode.Validate(); err != nil {
		return errorsmod.Wrap(types.ErrInvalidKeycode, err.Error())
	}

	if ok, err := k.ModuleForKeycode.Has(ctx, keycode.String()); err != nil {
		return err
	} else if ok {
		return errorsmod.Wrapf(types.ErrKeycodeOccupied, "keycode %s", keycode)
	}

	if module.Address() == (common.Address{}) {
		return errorsmod.Wrap(types.ErrInvalidTarget, "module address must not be zero")
	}

	if err := k.bindModule(ctx, keycode, module); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeInstallModule,
		sdk.NewAttribute(types.AttributeKeyKeycode, keycode.String()),
		sdk.NewAttribute(types.AttributeKeyModule, module.Address().Hex()),
	))

	return nil
}

// UpgradeModule rebinds an occupied keycode to a new module, re-initializes
// it, and notifies every dependent policy so none keeps a stale handle.
func (k *Keeper) UpgradeModule(ctx context.Context, module types.Module) error {
	keycode := module.Keycode()

	oldAddrBz, err := k.ModuleForKeycode.Get(ctx, keycode.String())
	if err != nil && errorsmod.IsOf(err, collections.ErrNotFound) {
		return errorsmod.Wrapf(types.ErrKeycodeNotFound, "keycode %s", keycode)
	} else if err != nil {
		return err
	}

	oldAddr := common.BytesToAddress(oldAddrBz)
	if oldAddr == module.Address() {
		return errorsmod.Wrapf(types.ErrInvalidUpgrade, "keycode %s already bound to %s", keycode, oldAddr)
	}

	if err := k.KeycodeForModule.Remove(ctx, oldAddr.Bytes()); err != nil {
		return err
	}

	if err := k.bindModule(ctx, keycode, module); err != nil {
		return err
	}

	// broadcast the new handle to dependents
	dependents, err := k.Dependents(ctx, keycode)
	if err != nil {
		return err
	}

	for _, dependent := range dependents {
		policy, ok := k.policies[dependent]
		if !ok {
			return errorsmod.Wrapf(types.ErrModuleNotRegistered, "dependent policy %s", dependent)
		}

		if _, err := policy.ConfigureDependencies(ctx); err != nil {
			return err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeUpgradeModule,
		sdk.NewAttribute(types.AttributeKeyKeycode, keycode.String()),
		sdk.NewAttribute(types.AttributeKeyModule, module.Address().Hex()),
	))

	return nil
}

func (k *Keeper) bindModule(ctx context.Context, keycode types.Keycode, module types.Module) error {
	if err := k.ModuleForKeycode.Set(ctx, keycode.String(), module.Address().Bytes()); err != nil {
		return err
	}
	if err := k.KeycodeForModule.Set(ctx, module.Address().Bytes(), keycode.String()); err != nil {
		return err
	}

	k.modules[keycode] = module
	return module.InitializeModule(ctx)
}

// ActivatePolicy grants the policy's declared permission set atomically,
// registers its module dependencies, and marks it active.
func (k *Keeper) ActivatePolicy(ctx context.Context, policy types.Policy) error {
	addr := policy.Address()
	if addr == (common.Address{}) {
		return errorsmod.Wrap(types.ErrInvalidTarget, "policy address must not be zero")
	}

	if active, err := k.IsPolicyActive(ctx, addr); err != nil {
		return err
	} else if active {
		return errorsmod.Wrapf(types.ErrPolicyAlreadyActive, "policy %s", addr)
	}

	if err := k.grantPermissions(ctx, addr, policy.RequestedPermissions()); err != nil {
		return err
	}

	if err := k.activePolicies.Add(ctx, activeGroup, addr.Bytes()); err != nil {
		return err
	}
	k.policies[addr] = policy

	keycodes, err := policy.ConfigureDependencies(ctx)
	if err != nil {
		return err
	}

	for i, keycode := range keycodes {
		if err := keycode.Validate(); err != nil {
			return errorsmod.Wrap(types.ErrInvalidKeycode, err.Error())
		}

		if err := k.dependents.Add(ctx, keycode.String(), addr.Bytes()); err != nil {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "duplicate dependency %s declared by policy %s", keycode, addr)
		}
		if err := k.PolicyDependencies.Set(ctx, collections.Join(addr.Bytes(), uint64(i)), keycode.String()); err != nil {
			return err
		}
	}
	if len(keycodes) > 0 {
		if err := k.PolicyDependencySizes.Set(ctx, addr.Bytes(), uint64(len(keycodes))); err != nil {
			return err
		}
	}

	policy.SetActiveStatus(ctx, true)

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeActivatePolicy,
		sdk.NewAttribute(types.AttributeKeyPolicy, addr.Hex()),
	))

	return nil
}

// DeactivatePolicy revokes exactly the permissions granted on activation
// and removes the policy from the active list and every dependent list.
func (k *Keeper) DeactivatePolicy(ctx context.Context, policy types.Policy) error {
	addr := policy.Address()

	if active, err := k.IsPolicyActive(ctx, addr); err != nil {
		return err
	} else if !active {
		return errorsmod.Wrapf(types.ErrPolicyNotActive, "policy %s", addr)
	}

	if err := k.retirePolicy(ctx, addr, policy); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeDeactivatePolicy,
		sdk.NewAttribute(types.AttributeKeyPolicy, addr.Hex()),
	))

	return nil
}

// retirePolicy unwinds all registry state for an active policy.
func (k *Keeper) retirePolicy(ctx context.Context, addr common.Address, policy types.Policy) error {
	if err := k.revokePermissions(ctx, addr); err != nil {
		return err
	}

	depCount, err := k.policyDependencyCount(ctx, addr)
	if err != nil {
		return err
	}

	for i := uint64(0); i < depCount; i++ {
		keycode, err := k.PolicyDependencies.Get(ctx, collections.Join(addr.Bytes(), i))
		if err != nil {
			return err
		}

		if err := k.dependents.Remove(ctx, keycode, addr.Bytes()); err != nil {
			return err
		}
		if err := k.PolicyDependencies.Remove(ctx, collections.Join(addr.Bytes(), i)); err != nil {
			return err
		}
	}
	if depCount > 0 {
		if err := k.PolicyDependencySizes.Remove(ctx, addr.Bytes()); err != nil {
			return err
		}
	}

	if err := k.activePolicies.Remove(ctx, activeGroup, addr.Bytes()); err != nil {
		return err
	}
	delete(k.policies, addr)

	policy.SetActiveStatus(ctx, false)
	return nil
}

// MigrateKernel irreversibly hands authority to a new kernel: every module
// and policy is redirected, every policy is deactivated, and this kernel
// enters its terminal state.
func (k *Keeper) MigrateKernel(ctx context.Context, newKernel types.KernelService) error {
	if err := k.Migrated.Set(ctx, true); err != nil {
		return err
	}

	if err := k.ModuleForKeycode.Walk(ctx, nil, func(keycode string, _ []byte) (bool, error) {
		module, ok := k.modules[types.Keycode(keycode)]
		if !ok {
			return true, errorsmod.Wrapf(types.ErrModuleNotRegistered, "keycode %s", keycode)
		}

		return false, module.ChangeKernel(ctx, newKernel)
	}); err != nil {
		return err
	}

	// snapshot the active list; retirement mutates it
	members, err := k.activePolicies.Members(ctx, activeGroup)
	if err != nil {
		return err
	}

	for _, member := range members {
		addr := common.BytesToAddress(member)
		policy, ok := k.policies[addr]
		if !ok {
			return errorsmod.Wrapf(types.ErrModuleNotRegistered, "policy %s", addr)
		}

		if err := policy.ChangeKernel(ctx, newKernel); err != nil {
			return err
		}

		if err := k.retirePolicy(ctx, addr, policy); err != nil {
			return err
		}
	}

	k.Logger(ctx).Info("kernel migrated, this instance is no longer authoritative")

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeMigrateKernel,
	))

	return nil
}

func (k *Keeper) changeExecutor(ctx context.Context, addr common.Address) error {
	if addr == (common.Address{}) {
		return errorsmod.Wrap(types.ErrInvalidTarget, "executor address must not be zero")
	}

	if err := k.Executor.Set(ctx, addr.Bytes()); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeChangeExecutor,
		sdk.NewAttribute(types.AttributeKeyAddress, addr.Hex()),
	))

	return nil
}

func (k *Keeper) changeAdmin(ctx context.Context, addr common.Address) error {
	if addr == (common.Address{}) {
		return errorsmod.Wrap(types.ErrInvalidTarget, "admin address must not be zero")
	}

	if err := k.Admin.Set(ctx, addr.Bytes()); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeChangeAdmin,
		sdk.NewAttribute(types.AttributeKeyAddress, addr.Hex()),
	))

	return nil
}

func (k *Keeper) assertExecutor(ctx context.Context, caller common.Address) error {
	if migrated, err := k.IsMigrated(ctx); err != nil {
		return err
	} else if migrated {
		return types.ErrKernelMigrated
	}

	executor, err := k.ExecutorAddress(ctx)
	if err != nil {
		return err
	}

	if caller != executor {
		return errorsmod.Wrapf(types.ErrUnauthorizedExecutor, "caller %s", caller)
	}

	return nil
}

func (k *Keeper) grantPermissions(ctx context.Context, addr common.Address, permissions []types.Permission) error {
	for i, permission := range permissions {
		if err := permission.Validate(); err != nil {
			return errorsmod.Wrap(types.ErrInvalidTarget, err.Error())
		}

		if permission.Policy != addr {
			return errorsmod.Wrapf(types.ErrInvalidTarget, "permission policy %s does not match %s", permission.Policy, addr)
		}

		key := collections.Join3(permission.Keycode.String(), addr.Bytes(), permission.Selector.Bytes())
		if err := k.Permissions.Set(ctx, key, true); err != nil {
			return err
		}
		if err := k.GrantedPermissions.Set(ctx, collections.Join(addr.Bytes(), uint64(i)), permission.EncodeRecord()); err != nil {
			return err
		}
	}

	if len(permissions) == 0 {
		return nil
	}

	return k.GrantedPermissionSizes.Set(ctx, addr.Bytes(), uint64(len(permissions)))
}

func (k *Keeper) revokePermissions(ctx context.Context, addr common.Address) error {
	count, err := k.grantedPermissionCount(ctx, addr)
	if err != nil {
		return err
	}

	for i := uint64(0); i < count; i++ {
		record, err := k.GrantedPermissions.Get(ctx, collections.Join(addr.Bytes(), i))
		if err != nil {
			return err
		}

		permission, err := types.DecodePermissionRecord(addr, record)
		if err != nil {
			return err
		}

		key := collections.Join3(permission.Keycode.String(), addr.Bytes(), permission.Selector.Bytes())
		if err := k.Permissions.Remove(ctx, key); err != nil {
			return err
		}
		if err := k.GrantedPermissions.Remove(ctx, collections.Join(addr.Bytes(), i)); err != nil {
			return err
		}
	}

	if count > 0 {
		return k.GrantedPermissionSizes.Remove(ctx, addr.Bytes())
	}

	return nil
}

func (k *Keeper) grantedPermissionCount(ctx context.Context, addr common.Address) (uint64, error) {
	count, err := k.GrantedPermissionSizes.Get(ctx, addr.Bytes())
	if err != nil && errorsmod.IsOf(err, collections.ErrNotFound) {
		return 0, nil
	}

	return count, err
}

func (k *Keeper) policyDependencyCount(ctx context.Context, addr common.Address) (uint64, error) {
	count, err := k.PolicyDependencySizes.Get(ctx, addr.Bytes())
	if err != nil && errorsmod.IsOf(err, collections.ErrNotFound) {
		return 0, nil
	}

	return count, err
}
