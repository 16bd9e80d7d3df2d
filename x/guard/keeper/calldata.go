package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/guard/types"
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

// calldataSelector extracts the 4-byte selector from wallet calldata.
func calldataSelector(data []byte) (kerneltypes.Selector, bool) {
	if len(data) < kerneltypes.SelectorLength {
		return kerneltypes.Selector{}, false
	}

	var sel kerneltypes.Selector
	copy(sel[:], data[:kerneltypes.SelectorLength])
	return sel, true
}

// wordAt returns the 32-byte argument word at the given index.
func wordAt(data []byte, index int) ([]byte, error) {
	start := kerneltypes.SelectorLength + index*common.HashLength
	end := start + common.HashLength
	if len(data) < end {
		return nil, errorsmod.Wrapf(types.ErrMalformedCalldata, "argument %d out of range", index)
	}

	return data[start:end], nil
}

// addressAt decodes the address argument at the given index.
func addressAt(data []byte, index int) (common.Address, error) {
	word, err := wordAt(data, index)
	if err != nil {
		return common.Address{}, err
	}

	return common.BytesToAddress(word), nil
}

// uintAt decodes the uint256 argument at the given index.
func uintAt(data []byte, index int) (math.Int, error) {
	word, err := wordAt(data, index)
	if err != nil {
		return math.Int{}, err
	}

	return math.NewIntFromBigInt(common.BytesToHash(word).Big()), nil
}
