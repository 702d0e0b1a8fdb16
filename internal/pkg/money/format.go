// Package money formats rupiah amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount as "Rp 85,000"
func Format(amount int64) string {
	return "Rp " + printer.Sprintf("%d", amount)
}

// Number renders an amount with thousands separators and no prefix
func Number(amount int64) string {
	return printer.Sprintf("%d", amount)
}
