package types

import (
	"fmt"

	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// OrderType distinguishes who is paid for a rental.
type OrderType uint8

const (
	// OrderTypeBase is a rental paid for by the renter.
	OrderTypeBase OrderType = iota
	// OrderTypePay is a rental where the lender pays the renter.
	OrderTypePay
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeBase:
		return "BASE"
	case OrderTypePay:
		return "PAY"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ItemType is the token standard of an order item.
type ItemType uint8

const (
	ItemTypeERC721 ItemType = iota
	ItemTypeERC1155
	ItemTypeERC20
)

// SettleTo designates the payee of a payment item settled in full.
type SettleTo uint8

const (
	SettleToLender SettleTo = iota
	SettleToRenter
)

// Item is a single asset or payment leg of a rental order.
type Item struct {
	Type     ItemType
	SettleTo SettleTo
	Asset    common.Address
	TokenID  math.Int
	Amount   math.Int
}

// IsRental reports whether the item is a rented asset.
func (i Item) IsRental() bool {
	return i.Type == ItemTypeERC721 || i.Type == ItemTypeERC1155
}

// IsPayment reports whether the item is an escrowed payment.
func (i Item) IsPayment() bool {
	return i.Type == ItemTypeERC20
}

// Validate checks the item's shape.
func (i Item) Validate() error {
	if i.Asset == (common.Address{}) {
		return fmt.Errorf("item asset address must not be zero")
	}

	if i.Amount.IsNil() || !i.Amount.IsPositive() {
		return fmt.Errorf("item amount must be positive")
	}

	if i.IsRental() && (i.TokenID.IsNil() || i.TokenID.IsNegative()) {
		return fmt.Errorf("rental item token id must not be negative")
	}

	if i.Type == ItemTypeERC721 && !i.Amount.Equal(math.OneInt()) {
		return fmt.Errorf("erc721 item amount must be one")
	}

	return nil
}

// HookUsage binds an order item to a middleware hook with extra payload.
type HookUsage struct {
	Address   common.Address
	ItemIndex uint64
	Extra     []byte
}

// RentalOrder is the immutable description of an agreed rental. It is
// consumed by lifecycle processing and settlement; only its active flag
// and encumbrance records persist.
type RentalOrder struct {
	Hash   common.Hash
	Type   OrderType
	Lender common.Address
	Renter common.Address
	Wallet common.Address
	Items  []Item
	Hooks  []HookUsage
	Start  uint64
	End    uint64
}

// Validate checks the order's shape.
func (o RentalOrder) Validate() error {
	if o.Hash == (common.Hash{}) {
		return fmt.Errorf("order hash must not be zero")
	}

	if o.Lender == (common.Address{}) || o.Renter == (common.Address{}) || o.Wallet == (common.Address{}) {
		return fmt.Errorf("order parties and wallet must not be zero")
	}

	if o.End <= o.Start {
		return fmt.Errorf("order end time %d must be after start time %d", o.End, o.Start)
	}

	if len(o.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	for _, hook := range o.Hooks {
		if hook.Address == (common.Address{}) {
			return fmt.Errorf("order hook address must not be zero")
		}

		if hook.ItemIndex >= uint64(len(o.Items)) {
			return fmt.Errorf("order hook item index %d out of range", hook.ItemIndex)
		}
	}

	return nil
}

// RentalItems returns the order's rented-asset items.
func (o RentalOrder) RentalItems() []Item {
	items := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		if item.IsRental() {
			items = append(items, item)
		}
	}

	return items
}

// PaymentItems returns the order's escrowed payment items.
func (o RentalOrder) PaymentItems() []Item {
	items := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		if item.IsPayment() {
			items = append(items, item)
		}
	}

	return items
}

// RentalUpdate is a single encumbrance change applied through
// AddRentals/RemoveRentals.
type RentalUpdate struct {
	Wallet  common.Address
	Asset   common.Address
	TokenID math.Int
	Amount  math.Int
}

// Validate checks the update's shape.
func (u RentalUpdate) Validate() error {
	if u.Wallet == (common.Address{}) || u.Asset == (common.Address{}) {
		return fmt.Errorf("rental update wallet and asset must not be zero")
	}

	if u.TokenID.IsNil() || u.TokenID.IsNegative() {
		return fmt.Errorf("rental update token id must not be negative")
	}

	if u.Amount.IsNil() || !u.Amount.IsPositive() {
		return fmt.Errorf("rental update amount must be positive")
	}

	return nil
}

// RentalID returns the encumbrance key the update applies to.
func (u RentalUpdate) RentalID() common.Hash {
	return RentalID(u.Wallet, u.Asset, u.TokenID)
}

// RentalID derives the deterministic encumbrance key for a rented asset
// held by a wallet: keccak256(wallet ‖ asset ‖ tokenID).
func RentalID(wallet, asset common.Address, tokenID math.Int) common.Hash {
	bz := make([]byte, 0, 2*common.AddressLength+common.HashLength)
	bz = append(bz, wallet.Bytes()...)
	bz = append(bz, asset.Bytes()...)
	bz = append(bz, common.BigToHash(tokenID.BigInt()).Bytes()...)

	return common.BytesToHash(crypto.Keccak256(bz))
}
