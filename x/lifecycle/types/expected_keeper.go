package types

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	rentaltypes "github.com/rentable-labs/rentable/x/rental/types"
)

// RentalKeeper is the storage-module surface the lifecycle policy uses,
// resolved through the kernel.
type RentalKeeper interface {
	AddRentals(ctx context.Context, caller common.Address, orderHash common.Hash, updates []rentaltypes.RentalUpdate) error
	RemoveRentals(ctx context.Context, caller common.Address, orderHash common.Hash, updates []rentaltypes.RentalUpdate) error
	RemoveRentalsBatch(ctx context.Context, caller common.Address, orderHashes []common.Hash, updates [][]rentaltypes.RentalUpdate) error
	IsWhitelisted(ctx context.Context, whitelist rentaltypes.Whitelist, addr common.Address) (bool, error)
	HookEnabled(ctx context.Context, hook common.Address, flag uint8) (bool, error)
	GetMaxRentDuration(ctx context.Context) (uint64, error)
	GetMaxOrderItems(ctx context.Context) (uint64, error)
}

// EscrowKeeper is the escrow-module surface the lifecycle policy uses.
type EscrowKeeper interface {
	IncreaseDeposit(ctx context.Context, caller common.Address, token common.Address, amount math.Int) error
	SettlePayment(ctx context.Context, caller common.Address, order rentaltypes.RentalOrder) error
	SettlePaymentBatch(ctx context.Context, caller common.Address, orders []rentaltypes.RentalOrder) error
}

// HookDispatcher forwards lifecycle callbacks to live hook instances with
// failure shaping; implemented by the guard policy.
type HookDispatcher interface {
	DispatchOnStart(ctx context.Context, hook common.Address, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) error
	DispatchOnStop(ctx context.Context, hook common.Address, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) error
}
