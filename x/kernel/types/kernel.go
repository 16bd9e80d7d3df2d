package types

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Action is a privileged kernel operation executed by the executor.
type Action uint8

const (
	ActionInstallModule Action = iota
	ActionUpgradeModule
	ActionActivatePolicy
	ActionDeactivatePolicy
	ActionMigrateKernel
	ActionChangeExecutor
	ActionChangeAdmin
)

func (a Action) String() string {
	switch a {
	case ActionInstallModule:
		return "install_module"
	case ActionUpgradeModule:
		return "upgrade_module"
	case ActionActivatePolicy:
		return "activate_policy"
	case ActionDeactivatePolicy:
		return "deactivate_policy"
	case ActionMigrateKernel:
		return "migrate_kernel"
	case ActionChangeExecutor:
		return "change_executor"
	case ActionChangeAdmin:
		return "change_admin"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// KernelService is the capability surface modules and policies hold
// instead of caching module addresses; every lookup resolves against the
// current registry so upgrades never leave stale references behind.
type KernelService interface {
	// HasPermission reports whether the policy holds the (keycode,
	// selector) capability.
	HasPermission(ctx context.Context, keycode Keycode, policy common.Address, selector Selector) (bool, error)

	// AssertPermission fails with ErrPolicyNotAuthorized, identifying the
	// policy and the missing selector, unless the capability is granted.
	AssertPermission(ctx context.Context, keycode Keycode, policy common.Address, selector Selector) error

	// HasRole reports whether the address holds the operator role.
	HasRole(ctx context.Context, role Role, addr common.Address) (bool, error)

	// ModuleAddress returns the address currently bound to the keycode.
	ModuleAddress(ctx context.Context, keycode Keycode) (common.Address, error)

	// ModuleAt returns the live module instance bound to the keycode.
	ModuleAt(ctx context.Context, keycode Keycode) (Module, error)
}

// Module is a passive state owner bound to a keycode; it is callable only
// through capabilities granted to policies by the kernel.
type Module interface {
	// Address is the module's registry identity.
	Address() common.Address

	// Keycode is the short code the module occupies.
	Keycode() Keycode

	// InitializeModule runs the module's one-time initializer. Invoked by
	// the kernel on install and on upgrade.
	InitializeModule(ctx context.Context) error

	// ChangeKernel redirects the module's kernel back-reference during
	// migration.
	ChangeKernel(ctx context.Context, kernel KernelService) error
}

// Policy is an active caller granted capabilities by the kernel.
type Policy interface {
	// Address is the policy's registry identity.
	Address() common.Address

	// RequestedPermissions declares the exact capability set the policy
	// needs; granted atomically on activation.
	RequestedPermissions() []Permission

	// ConfigureDependencies re-resolves the policy's module handles and
	// returns the keycodes it must be notified about on upgrade.
	ConfigureDependencies(ctx context.Context) ([]Keycode, error)

	// SetActiveStatus flips the policy's active flag; an inactive policy
	// must refuse to serve requests.
	SetActiveStatus(ctx context.Context, active bool)

	// ChangeKernel redirects the policy's kernel back-reference during
	// migration.
	ChangeKernel(ctx context.Context, kernel KernelService) error
}
