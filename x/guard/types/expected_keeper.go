package types

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// RentalChecker is the read surface of the rental storage module the
// guard consults on every call; implemented by the rental keeper and
// re-resolved through the kernel after upgrades.
type RentalChecker interface {
	EncumberedAmount(ctx context.Context, wallet, asset common.Address, tokenID math.Int) (math.Int, error)
	IsRentedOut(ctx context.Context, wallet, asset common.Address, tokenID math.Int) (bool, error)
	HasAssetRentals(ctx context.Context, wallet, asset common.Address) (bool, error)
	HookPathFor(ctx context.Context, target common.Address) (common.Address, error)
	HookEnabled(ctx context.Context, hook common.Address, flag uint8) (bool, error)
	IsWhitelisted(ctx context.Context, whitelist rentaltypes.Whitelist, addr common.Address) (bool, error)
}

// TokenReader reads fungible token balances for the partial-amount rule.
type TokenReader interface {
	BalanceOf(ctx context.Context, token, holder common.Address, tokenID math.Int) (math.Int, error)
}
