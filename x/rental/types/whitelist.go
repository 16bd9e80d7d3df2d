package types

import (
	"fmt"
)

// Whitelist identifies one of the admin-managed address sets.
type Whitelist uint8

const (
	// WhitelistAssets holds rentable asset contracts.
	WhitelistAssets Whitelist = iota
	// WhitelistPayments holds accepted payment tokens.
	WhitelistPayments
	// WhitelistDelegates holds permitted delegate-call targets.
	WhitelistDelegates
	// WhitelistExtensions holds permitted wallet extension modules.
	WhitelistExtensions
)

func (w Whitelist) String() string {
	switch w {
	case WhitelistAssets:
		return "assets"
	case WhitelistPayments:
		return "payments"
	case WhitelistDelegates:
		return "delegates"
	case WhitelistExtensions:
		return "extensions"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(w))
	}
}

// Validate checks the whitelist kind.
func (w Whitelist) Validate() error {
	if w > WhitelistExtensions {
		return fmt.Errorf("unknown whitelist kind %d", uint8(w))
	}

	return nil
}
