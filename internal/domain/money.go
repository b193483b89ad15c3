package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// SplitEvenly divides total into n parts of two decimal places.
// The integer-division remainder, if any, is added to the first part, so
// the parts always sum back to total.
func SplitEvenly(total decimal.Decimal, n int) []decimal.Decimal {
	base := total.Div(decimal.NewFromInt(int64(n))).RoundDown(2)

	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
	}

	remainder := total.Sub(base.Mul(decimal.NewFromInt(int64(n))))
	parts[0] = parts[0].Add(remainder)

	return parts
}

// PercentageShare computes amount x pct / 100 rounded half-to-even to two
// decimal places. Rounding remainders are not redistributed: the sum of
// shares over a member set may differ from amount by up to members-1
// minor units.
func PercentageShare(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred).RoundBank(2)
}

// SumAmounts adds a sequence of amounts.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}
