// Package money formats decimal amounts in a currency's display convention.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders amount in the currency's template, e.g. "R$1.234,56" for BRL.
// Amounts are rounded to the currency's fraction digits. Unknown currency codes
// are rendered as a plain two-decimal number followed by the code.
func Format(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatFloat is Format for float64 amounts coming out of numeric models.
func FormatFloat(amount float64, currency string) string {
	return Format(decimal.NewFromFloat(amount), currency)
}

// Known reports whether currency is an ISO 4217 code with a display template.
func Known(currency string) bool {
	return money.GetCurrency(currency) != nil
}

// Symbol returns the currency's display symbol, or the code itself when unknown.
func Symbol(currency string) string {
	if cur := money.GetCurrency(currency); cur != nil {
		return cur.Grapheme
	}
	return currency
}
