// Package format renders dashboard figures for Brazilian Portuguese readers.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency formats v as BRL, e.g. "R$ 1.234,50".
func Currency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "R$ " + printer.Sprintf("%.2f", round(v, 2))
}

// Percent formats v with one decimal, e.g. "-50,0%".
func Percent(v float64) string {
	return printer.Sprintf("%.1f", round(v, 1)) + "%"
}

// IntPercent formats an integer share, e.g. "67%".
func IntPercent(v int) string {
	return printer.Sprintf("%d", v) + "%"
}

// Count formats an integer with thousands separators, e.g. "1.234".
func Count(v int) string {
	return printer.Sprintf("%d", v)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
