package domain

import "github.com/shopspring/decimal"

// NormalizeAmount rounds a legacy monetary or hour value to exactly two
// fractional digits, half up, through arbitrary-precision decimals so
// binary float drift cannot leak into the stored value. Idempotent on
// already-normalized values. Must run before status classification,
// which depends on the normalized sign.
func NormalizeAmount(value float64) float64 {
	normalized, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return normalized
}
