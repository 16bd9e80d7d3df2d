package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hook is the middleware callback interface. OnTransaction runs inside the
// guard's decision path for ordinary wallet calls; OnStart and OnStop are
// invoked by the rental lifecycle, each gated by the hook's status bitmap.
type Hook interface {
	OnTransaction(ctx context.Context, wallet, target common.Address, value math.Int, data []byte) error
	OnStart(ctx context.Context, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) error
	OnStop(ctx context.Context, wallet, asset common.Address, tokenID, amount math.Int, extra []byte) error
}

// PanicError is the failure shape hooks use for arithmetic and other
// runtime faults; the guard translates it into a readable denial.
type PanicError struct {
	Code uint64
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic code %d", e.Code)
}

// RawError carries a hook's structured failure bytes across the dispatch
// boundary unmodified, so the caller can decode them.
type RawError struct {
	Hook common.Address
	Data []byte
}

func (e RawError) Error() string {
	return fmt.Sprintf("hook %s raw error: %s", e.Hook, hexutil.Encode(e.Data))
}
