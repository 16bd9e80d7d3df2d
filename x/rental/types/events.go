package types

// Rental module event types
const (
	EventTypeAddRentals       = "add_rentals"
	EventTypeRemoveRentals    = "remove_rentals"
	EventTypeUpdateHookPath   = "update_hook_path"
	EventTypeUpdateHookStatus = "update_hook_status"
	EventTypeToggleWhitelist  = "toggle_whitelist"

	AttributeKeyOrderHash = "order_hash"
	AttributeKeyWallet    = "wallet"
	AttributeKeyTarget    = "target"
	AttributeKeyHook      = "hook"
	AttributeKeyStatus    = "status"
	AttributeKeyWhitelist = "whitelist"
	AttributeKeyAddress   = "address"
	AttributeKeyEnabled   = "enabled"
)
