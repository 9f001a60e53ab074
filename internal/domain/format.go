package domain

import "github.com/shopspring/decimal"

// FormatAmount renders an amount as a dollar string with two decimals,
// e.g. "$20.00". Used for unsigned amounts (edge values, totals).
func FormatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatNet renders a net position with an explicit sign: "+$5.00",
// "-$20.00", "$0.00" when settled.
func FormatNet(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "-$" + d.Neg().StringFixed(2)
	case d.IsPositive():
		return "+$" + d.StringFixed(2)
	default:
		return "$0.00"
	}
}
