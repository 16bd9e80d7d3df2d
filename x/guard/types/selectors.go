package types

import (
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

// Restricted wallet-call selectors. Everything else passes the baseline
// policy untouched.
var (
	SelectorTransferFrom          = kerneltypes.NewSelector("transferFrom(address,address,uint256)")
	SelectorSafeTransferFrom      = kerneltypes.NewSelector("safeTransferFrom(address,address,uint256)")
	SelectorSafeTransferFromData  = kerneltypes.NewSelector("safeTransferFrom(address,address,uint256,bytes)")
	SelectorApprove               = kerneltypes.NewSelector("approve(address,uint256)")
	SelectorSetApprovalForAll     = kerneltypes.NewSelector("setApprovalForAll(address,bool)")
	SelectorBurn                  = kerneltypes.NewSelector("burn(uint256)")
	SelectorBurn1155              = kerneltypes.NewSelector("burn(address,uint256,uint256)")
	SelectorBurnBatch             = kerneltypes.NewSelector("burnBatch(address,uint256[],uint256[])")
	SelectorSafeTransferFrom1155  = kerneltypes.NewSelector("safeTransferFrom(address,address,uint256,uint256,bytes)")
	SelectorSafeBatchTransferFrom = kerneltypes.NewSelector("safeBatchTransferFrom(address,address,uint256[],uint256[],bytes)")

	SelectorSetGuard      = kerneltypes.NewSelector("setGuard(address)")
	SelectorEnableModule  = kerneltypes.NewSelector("enableModule(address)")
	SelectorDisableModule = kerneltypes.NewSelector("disableModule(address,address)")
)
