package price

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders amount as whole US dollars, e.g. "$1,235".
func FormatPrice(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return printer.Sprintf("-$%d", -rounded)
	}

	return printer.Sprintf("$%d", rounded)
}

// FormatPriceWithCents renders amount with two decimals, e.g. "$1,234.50".
func FormatPriceWithCents(amount float64) string {
	if amount < 0 {
		return printer.Sprintf("-$%.2f", -amount)
	}

	return printer.Sprintf("$%.2f", amount)
}
