package currencyutils

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when a locale tag cannot be parsed.
const DefaultLocale = "en-US"

var currencySymbols = map[string]string{
	"XAF": "FCFA",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "C$",
	"JPY": "¥",
	"CHF": "CHF",
}

// CurrencySymbol maps a code to its display symbol. Codes without a symbol
// are returned as given.
func CurrencySymbol(code string) string {
	if code == "" {
		return ""
	}
	if symbol, ok := currencySymbols[strings.ToUpper(code)]; ok {
		return symbol
	}
	return code
}

func printerFor(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil || tag == language.Und {
		tag = language.Make(DefaultLocale)
	}
	return message.NewPrinter(tag)
}

func withSymbol(formatted, code string) string {
	if symbol := CurrencySymbol(code); symbol != "" {
		return formatted + " " + symbol
	}
	return formatted
}

// FormatCurrency renders amount with two fixed decimals and locale grouping,
// followed by the currency symbol: "1,234.56 $".
func FormatCurrency(amount float64, code, locale string) string {
	rounded := RoundCents(amount)
	p := printerFor(locale)
	formatted := p.Sprintf("%v", number.Decimal(rounded,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
	return withSymbol(formatted, code)
}

var compactUnits = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCompactCurrency renders amounts of 1000 and more in short compact
// notation ("1.23K $"); smaller amounts keep up to two decimals ("450 $").
func FormatCompactCurrency(amount float64, code, locale string) string {
	rounded := RoundCents(amount)
	p := printerFor(locale)

	for _, unit := range compactUnits {
		if math.Abs(rounded) >= unit.threshold {
			scaled := RoundCents(rounded / unit.threshold)
			formatted := p.Sprintf("%v", number.Decimal(scaled, number.MaxFractionDigits(2)))
			return withSymbol(formatted+unit.suffix, code)
		}
	}

	formatted := p.Sprintf("%v", number.Decimal(rounded, number.MaxFractionDigits(2)))
	return withSymbol(formatted, code)
}
