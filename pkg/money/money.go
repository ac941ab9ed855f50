package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round normalizes an amount to two decimal places, half away from zero.
// Every amount this service stores or compares passes through here.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// LineSubtotal computes round(unitPrice * quantity, 2).
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// TaxAmount computes round(subtotal * rate / 100, 2) for a percentage rate.
func TaxAmount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(rate).Div(hundred))
}
