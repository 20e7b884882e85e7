// Package mathutil provides decimal helpers shared by the analytics pipelines.
package mathutil

import (
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(constants.PercentageMultiplier)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(2)
}

// Sum adds all values. The result does not depend on their order.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Mean returns the arithmetic mean of values, or zero for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return Sum(values...).Div(decimal.NewFromInt(int64(len(values))))
}

// Ratio returns value/total, or zero when total is zero.
func Ratio(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total)
}

// CalculatePercentage calculates what percentage value is of total. A zero
// total yields zero rather than an undefined result.
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	return Ratio(value, total).Mul(hundred)
}

// Min returns the smaller of two values.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
