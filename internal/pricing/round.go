package pricing

import "github.com/shopspring/decimal"

// Round rounds a yen amount half away from zero. Every money value the
// estimator produces goes through this function.
func Round(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}

// MulRate multiplies a yen amount by a rate and rounds the result.
func MulRate(amount int64, rate float64) int64 {
	return Round(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(rate)))
}

// DivRound divides a yen amount by n and rounds the result. It returns 0 when n <= 0.
func DivRound(amount int64, n int) int64 {
	if n <= 0 {
		return 0
	}
	return Round(decimal.NewFromInt(amount).Div(decimal.NewFromInt(int64(n))))
}
