package service

import "fmt"

// CurrencyFormatter renders minor-unit amounts with a currency symbol.
// It stands in for the storefront's locale-aware price helper.
type CurrencyFormatter struct {
	Symbol string
}

// NewCurrencyFormatter creates a formatter with the given symbol
func NewCurrencyFormatter(symbol string) *CurrencyFormatter {
	return &CurrencyFormatter{Symbol: symbol}
}

// FormatPrice formats a minor-unit amount, e.g. 1999 -> "$19.99"
func (f *CurrencyFormatter) FormatPrice(amount int64) string {
	return fmt.Sprintf("%s%d.%02d", f.Symbol, amount/100, amount%100)
}
