package engine

import "math"

// BarWeight is the unloaded implement weight in base units. Planned weights
// below this cannot be loaded on a bar.
const BarWeight = 45.0

// RoundToIncrement rounds x to the nearest multiple of inc. The operation
// is idempotent: rounding an already-rounded value returns it unchanged.
// A non-positive increment returns x as-is.
func RoundToIncrement(x, inc float64) float64 {
	if inc <= 0 {
		return x
	}
	return math.Round(x/inc) * inc
}

// LbsToKg converts pounds to kilograms.
func LbsToKg(lbs float64) float64 {
	return lbs * 0.453592
}

// KgToLbs converts kilograms to pounds.
func KgToLbs(kg float64) float64 {
	return kg / 0.453592
}
