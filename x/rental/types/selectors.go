package types

import (
	kerneltypes "github.com/rentable-labs/rentable/x/kernel/types"
)

// Capability selectors of the rental storage module's gated mutators.
var (
	SelectorAddRentals         = kerneltypes.NewSelector("addRentals(bytes32,(uint8,uint8,address,uint256,uint256)[])")
	SelectorRemoveRentals      = kerneltypes.NewSelector("removeRentals(bytes32,(uint8,uint8,address,uint256,uint256)[])")
	SelectorRemoveRentalsBatch = kerneltypes.NewSelector("removeRentalsBatch(bytes32[],(uint8,uint8,address,uint256,uint256)[][])")
	SelectorUpdateHookPath     = kerneltypes.NewSelector("updateHookPath(address,address)")
	SelectorUpdateHookStatus   = kerneltypes.NewSelector("updateHookStatus(address,uint8)")
)
