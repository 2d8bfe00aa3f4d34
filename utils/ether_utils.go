package utils

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// etherDecimals is the number of decimal places between ether and wei.
const etherDecimals = 18

// ParseEther converts a decimal ether amount such as "10" or "0.5" to wei. Negative amounts and amounts with more
// precision than a wei are rejected.
func ParseEther(s string) (*big.Int, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ether amount '%s'", s)
	}
	if amount.IsNegative() {
		return nil, errors.Errorf("ether amount '%s' is negative", s)
	}

	wei := amount.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Errorf("ether amount '%s' has more than %d decimal places", s, etherDecimals)
	}
	return wei.BigInt(), nil
}

// FormatEther renders a wei amount in ether without trailing zeros.
func FormatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, -etherDecimals).String()
}
