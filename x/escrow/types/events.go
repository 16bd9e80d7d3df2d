package types

// Escrow module event types
const (
	EventTypeIncreaseDeposit = "increase_deposit"
	EventTypeDecreaseDeposit = "decrease_deposit"
	EventTypeSettlePayment   = "settle_payment"
	EventTypeSetFee          = "set_fee"
	EventTypeSkim            = "skim"

	AttributeKeyToken     = "token"
	AttributeKeyAmount    = "amount"
	AttributeKeyOrderHash = "order_hash"
	AttributeKeyRecipient = "recipient"
	AttributeKeyFee       = "fee"
)
