package types

import (
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

// Capability selectors of the escrow module's gated mutators.
var (
	SelectorIncreaseDeposit    = kerneltypes.NewSelector("increaseDeposit(address,uint256)")
	SelectorDecreaseDeposit    = kerneltypes.NewSelector("decreaseDeposit(address,uint256)")
	SelectorSettlePayment      = kerneltypes.NewSelector("settlePayment(bytes32)")
	SelectorSettlePaymentBatch = kerneltypes.NewSelector("settlePaymentBatch(bytes32[])")
)

// SelectorERC20Transfer is the calldata selector of erc20 transfer.
var SelectorERC20Transfer = kerneltypes.NewSelector("transfer(address,uint256)")
