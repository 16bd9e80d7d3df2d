package types

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// ContractVerifier is the substrate boundary used to check that hook and
// target addresses carry deployed code.
type ContractVerifier interface {
	IsContract(ctx context.Context, addr common.Address) (bool, error)
}
