package externalapi

// MotesPerNereid is the number of motes (the smallest transferable unit)
// in one nereid coin.
const MotesPerNereid = 100_000_000

// Amount is a quantity of native currency, denominated in motes. Negative
// amounts are representable so that fee and coinbase sanity checks can
// reject them explicitly instead of silently wrapping.
type Amount int64

// IsNegative returns true if the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// Half returns the floor of half the amount and the remainder-inclusive
// other half, such that the two sum to the original amount.
func (a Amount) Half() (Amount, Amount) {
	lo := a / 2
	return lo, a - lo
}
