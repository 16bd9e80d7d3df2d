package keeper

import (
	"context"
	"math/big"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rentable-labs/rentable/x/escrow/types"
)

// safeTransfer moves tokens out of the escrow, tolerating non-standard
// erc20 implementations: a revert fails, return data decoding to false
// fails, and an empty return (legacy tokens) is success.
func (k *Keeper) safeTransfer(ctx context.Context, token, to common.Address, amount math.Int) error {
	ret, err := k.tokens.Call(ctx, token, transferInput(to, amount))
	if err != nil {
		return errorsmod.Wrapf(
			types.ErrPaymentTransferFailed,
			"token %s to %s amount %s: %s", token, to, amount, err,
		)
	}

	if len(ret) > 0 && new(big.Int).SetBytes(ret).Sign() == 0 {
		return errorsmod.Wrapf(
			types.ErrPaymentTransferFailed,
			"token %s to %s amount %s: transfer returned false", token, to, amount,
		)
	}

	return nil
}

// transferInput packs erc20 transfer calldata.
func transferInput(to common.Address, amount math.Int) []byte {
	input := make([]byte, 0, 4+2*common.HashLength)
	input = append(input, types.SelectorERC20Transfer.Bytes()...)
	input = append(input, common.LeftPadBytes(to.Bytes(), common.HashLength)...)
	input = append(input, common.BigToHash(amount.BigInt()).Bytes()...)
	return input
}
