package utils

import "math/big"

// GetIntegerConstraints takes a given signed indicator and bit length for a prospective integer and determines the
// minimum/maximum value boundaries.
// Returns the minimum and maximum value for the provided integer properties. Minimums and maximums are inclusive.
func GetIntegerConstraints(signed bool, bitLength int) (*big.Int, *big.Int) {
	var min, max *big.Int
	if signed {
		// max = 2^(bitLength-1) - 1, min = -(2^(bitLength-1))
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength-1))
		max.Sub(max, big.NewInt(1))
		min = new(big.Int).Neg(max)
		min.Sub(min, big.NewInt(1))
	} else {
		// max = 2^bitLength - 1
		max = new(big.Int).Lsh(big.NewInt(1), uint(bitLength))
		max.Sub(max, big.NewInt(1))
		min = big.NewInt(0)
	}
	return min, max
}

// IsIntegerInBounds reports whether b fits an integer of the given signedness and bit length.
func IsIntegerInBounds(b *big.Int, signed bool, bitLength int) bool {
	min, max := GetIntegerConstraints(signed, bitLength)
	return b.Cmp(min) >= 0 && b.Cmp(max) <= 0
}
