package types

// Kernel module event types
const (
	EventTypeInstallModule    = "install_module"
	EventTypeUpgradeModule    = "upgrade_module"
	EventTypeActivatePolicy   = "activate_policy"
	EventTypeDeactivatePolicy = "deactivate_policy"
	EventTypeMigrateKernel    = "migrate_kernel"
	EventTypeChangeExecutor   = "change_executor"
	EventTypeChangeAdmin      = "change_admin"
	EventTypeGrantRole        = "grant_role"
	EventTypeRevokeRole       = "revoke_role"

	AttributeKeyKeycode = "keycode"
	AttributeKeyModule  = "module"
	AttributeKeyPolicy  = "policy"
	AttributeKeyRole    = "role"
	AttributeKeyAddress = "address"
)
