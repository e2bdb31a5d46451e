package models

import "github.com/shopspring/decimal"

// MaxAmount is the largest value a NUMERIC(10,2) price column can hold.
var MaxAmount = decimal.RequireFromString("99999999.99")

// Round2 rounds to two decimal places, half away from zero. Prices are never
// negative, so this is round-half-up for every amount the cart produces.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal is the pricing rule for a cart line.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return Round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}
