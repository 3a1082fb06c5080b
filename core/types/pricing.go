// Package types - Money arithmetic
package types

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round rounds a decimal amount half away from zero to a whole amount
func Round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// ClampPercent limits a percentage to 0..100
func ClampPercent(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// ApplyDiscount returns round(amount × (1 − pct/100)). pct is clamped to 0..100.
func ApplyDiscount(amount int64, pct float64) int64 {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(ClampPercent(pct)).Div(hundred))
	return Round(decimal.NewFromInt(amount).Mul(factor))
}

// PercentOf returns round(amount × pct/100) without clamping
func PercentOf(amount int64, pct float64) int64 {
	return Round(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(pct)).Div(hundred))
}

// Scale returns round(amount × multiplier)
func Scale(amount int64, multiplier float64) int64 {
	return Round(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(multiplier)))
}

// Prorate returns round(amount × num / den); den must be positive
func Prorate(amount, num, den int64) int64 {
	return Round(decimal.NewFromInt(amount).Mul(decimal.NewFromInt(num)).Div(decimal.NewFromInt(den)))
}
