package utils

import "github.com/shopspring/decimal"

// Round2 rounds a money amount to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FitsScale reports whether d has no more than places decimal digits.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}
