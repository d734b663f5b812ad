package loan

import "math/big"

// Chain tick cadence used to pro-rate annual interest over a loan term.
const (
	ticksPerDay = 144
	daysPerYear = 365
)

var interestDenominator = big.NewInt(100 * ticksPerDay * daysPerYear)

// totalRepayment computes principal plus simple interest pro-rated over the
// loan's nominal term:
//
//	total = principal + floor(principal * rate * duration / (100 * 144 * 365))
//
// The whole numerator is built before the single floor division; big.Int
// keeps the product exact for any uint64 inputs. The second return is false
// when the total does not fit uint64.
func totalRepayment(principal, annualRate, durationTicks uint64) (uint64, bool) {
	num := new(big.Int).SetUint64(principal)
	num.Mul(num, new(big.Int).SetUint64(annualRate))
	num.Mul(num, new(big.Int).SetUint64(durationTicks))
	interest := num.Quo(num, interestDenominator)

	total := interest.Add(interest, new(big.Int).SetUint64(principal))
	if !total.IsUint64() {
		return 0, false
	}
	return total.Uint64(), true
}

// collateralCovers checks the creation invariant
// collateral * multiplier >= principal * 100, with the multiplier in
// percentage points (100 = no haircut, 150 = valued at 1.5x nominal).
func collateralCovers(collateralAmount, multiplier, principal uint64) bool {
	lhs := new(big.Int).Mul(
		new(big.Int).SetUint64(collateralAmount),
		new(big.Int).SetUint64(multiplier),
	)
	rhs := new(big.Int).Mul(
		new(big.Int).SetUint64(principal),
		big.NewInt(100),
	)
	return lhs.Cmp(rhs) >= 0
}
