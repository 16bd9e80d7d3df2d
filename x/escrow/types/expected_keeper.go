package types

import (
	"context"

	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"
)

// TokenClient is the substrate boundary for token contract interaction.
// Call executes calldata against a token contract and returns its raw
// return data; a revert surfaces as an error.
type TokenClient interface {
	Call(ctx context.Context, token common.Address, input []byte) ([]byte, error)
	BalanceOf(ctx context.Context, token, holder common.Address) (math.Int, error)
}
