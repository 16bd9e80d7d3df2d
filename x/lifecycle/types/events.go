package types

// Lifecycle module event types
const (
	EventTypeRentalStarted = "rental_started"
	EventTypeRentalStopped = "rental_stopped"

	AttributeKeyOrderHash = "order_hash"
	AttributeKeyWallet    = "wallet"
	AttributeKeyLender    = "lender"
	AttributeKeyRenter    = "renter"
)
