package money

import "math"

// DefaultEpsilon is the tolerance, in currency units, under which two
// amounts are considered equal. Two-decimal amounts accumulate binary
// floating-point drift across many additions and subtractions, so
// comparisons must never require bit-exact equality.
const DefaultEpsilon = 0.05

// AreEqual reports whether a and b are equal within DefaultEpsilon.
func AreEqual(a, b float64) bool {
	return AreEqualWithin(a, b, DefaultEpsilon)
}

// AreEqualWithin reports whether |a-b| <= epsilon.
func AreEqualWithin(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Round rounds an amount to two decimal places.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}
