package common

// BasisPointsDenominator is the unit of the proportional rates used across
// the TimeLock contract: a rate of 10_000 basis points is the whole amount.
const BasisPointsDenominator = 10_000

// Proportional computes amount*rateBps/10_000 without losing small amounts
// to truncation and without overflowing on large ones. Amounts below the
// denominator are multiplied first, so a non-zero rate keeps producing a
// non-zero cut as long as amount*rateBps reaches the denominator. Amounts
// at or above the denominator are divided first, so the intermediate value
// never exceeds the final result scale.
//
// For any rateBps not greater than BasisPointsDenominator the result is
// not greater than amount. Rates above the denominator are not rejected
// here, callers decide whether to bound them.
func Proportional(amount, rateBps int) int {
	if amount < BasisPointsDenominator {
		return amount * rateBps / BasisPointsDenominator
	}
	return amount / BasisPointsDenominator * rateBps
}
