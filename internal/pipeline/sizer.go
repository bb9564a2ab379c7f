package pipeline

import "github.com/shopspring/decimal"

var (
	sizeFloor = decimal.NewFromFloat(0.6)
	sizeSlope = decimal.NewFromFloat(0.4)
)

// Size maps confidence to an allocation amount in account currency:
//
//	weight = clamp((confidence - threshold) / (100 - threshold), 0, 1)
//	amount = round(capital * maxPositionPct * (0.6 + 0.4*weight), 2)
//
// A threshold of 100 would divide by zero; that case earns the floor
// allocation (weight 0), so a 100-threshold configuration still sizes
// maximally-confident signals instead of failing.
func Size(confidence int, capital decimal.Decimal, maxPositionPct float64, threshold int) decimal.Decimal {
	weight := decimal.Zero
	if threshold < 100 {
		num := decimal.NewFromInt(int64(confidence - threshold))
		den := decimal.NewFromInt(int64(100 - threshold))
		weight = num.Div(den)
		if weight.LessThan(decimal.Zero) {
			weight = decimal.Zero
		}
		if weight.GreaterThan(decimal.NewFromInt(1)) {
			weight = decimal.NewFromInt(1)
		}
	}
	scale := sizeFloor.Add(sizeSlope.Mul(weight))
	return capital.Mul(decimal.NewFromFloat(maxPositionPct)).Mul(scale).Round(2)
}
