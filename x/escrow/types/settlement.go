package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// CalculateProRata splits an escrowed amount proportionally to elapsed
// rental time. The payee receives floor(amount * elapsed / total) and the
// remainder refunds the payer, so the two legs always sum to the amount
// exactly.
func CalculateProRata(amount math.Int, elapsed, total uint64) (payeeAmount, payerRefund math.Int, err error) {
	if total == 0 {
		return math.Int{}, math.Int{}, fmt.Errorf("total duration must be positive")
	}

	if elapsed > total {
		return math.Int{}, math.Int{}, fmt.Errorf("elapsed %d exceeds total %d", elapsed, total)
	}

	if amount.IsNil() || amount.IsNegative() {
		return math.Int{}, math.Int{}, fmt.Errorf("amount must not be negative")
	}

	payeeAmount = amount.Mul(math.NewIntFromUint64(elapsed)).Quo(math.NewIntFromUint64(total))
	payerRefund = amount.Sub(payeeAmount)
	return payeeAmount, payerRefund, nil
}

// Fee returns the protocol fee withheld from an amount at the given
// basis-point numerator. A fee that rounds down to zero is skipped
// entirely.
func Fee(amount math.Int, numerator uint64) math.Int {
	if numerator == 0 {
		return math.ZeroInt()
	}

	return amount.Mul(math.NewIntFromUint64(numerator)).Quo(math.NewIntFromUint64(FeeDenominator))
}
