// Package currencyutils parses "<magnitude> <CCY>" amount strings, converts
// between currencies and formats amounts for display.
package currencyutils

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trakli/webui/internal/parsererror"
)

// DefaultCurrency is the code assumed when an amount carries none.
const DefaultCurrency = "USD"

var (
	currencyCodeRe  = regexp.MustCompile(`\b([A-Z]{3})\b\s*$`)
	trailingCodeRe  = regexp.MustCompile(`(?i)[A-Z]{3}\s*$`)
	nonNumericRe    = regexp.MustCompile(`[^\d.,-]`)
	leadingNumberRe = regexp.MustCompile(`^-?\d*\.?\d*`)

	errNoDigits = errors.New("no numeric part")
)

// Amount is a parsed amount string. Currency is empty when the input had no
// trailing three-letter code.
type Amount struct {
	Value    float64
	Currency string
}

// CurrencyOr returns the amount's currency, or fallback when it has none.
func (a Amount) CurrencyOr(fallback string) string {
	if a.Currency == "" {
		return fallback
	}
	return a.Currency
}

// ParseAmount parses strings such as "1,234.56 USD", "1.234,56 EUR" or
// "5000 XAF". It never fails: malformed input yields the zero Amount.
func ParseAmount(amountStr string) (result Amount) {
	defer func() {
		if r := recover(); r != nil {
			result = Amount{}
		}
	}()

	amount, err := ParseAmountStrict(amountStr)
	if err != nil {
		return Amount{}
	}
	return amount
}

// ParseAmountValue accepts either a bare number or an amount string.
func ParseAmountValue(v interface{}) Amount {
	switch val := v.(type) {
	case float64:
		return Amount{Value: val}
	case float32:
		return Amount{Value: float64(val)}
	case int:
		return Amount{Value: float64(val)}
	case int64:
		return Amount{Value: float64(val)}
	case decimal.Decimal:
		f, _ := val.Float64()
		return Amount{Value: f}
	case string:
		return ParseAmount(val)
	default:
		return Amount{}
	}
}

// ParseAmountStrict is ParseAmount reporting why a non-empty string could
// not be parsed. Empty input is not an error.
func ParseAmountStrict(amountStr string) (Amount, error) {
	if strings.TrimSpace(amountStr) == "" {
		return Amount{}, nil
	}

	currency := ""
	if m := currencyCodeRe.FindStringSubmatch(amountStr); m != nil {
		currency = m[1]
	}

	numeric := trailingCodeRe.ReplaceAllString(amountStr, "")
	numeric = strings.TrimSpace(nonNumericRe.ReplaceAllString(numeric, ""))
	if numeric == "" {
		return Amount{}, &parsererror.ParseError{
			Parser: "currency", Field: "amount", Value: amountStr, Err: errNoDigits,
		}
	}

	value, err := parseLeadingDecimal(StandardizeAmount(numeric))
	if err != nil {
		return Amount{}, &parsererror.ParseError{
			Parser: "currency", Field: "amount", Value: amountStr, Err: err,
		}
	}

	f, _ := value.Float64()
	return Amount{Value: f, Currency: currency}, nil
}

// StandardizeAmount rewrites the separators of a numeric string so that "."
// is the only decimal point:
//   - one separator followed by at most two digits is a decimal point;
//   - one separator followed by more digits is a thousands separator;
//   - with both "." and "," present the last one is the decimal point;
//   - a single kind repeated ("1,234,567") is always a thousands separator.
func StandardizeAmount(numeric string) string {
	dots := strings.Count(numeric, ".")
	commas := strings.Count(numeric, ",")

	switch {
	case dots == 0 && commas == 0:
		return numeric
	case dots == 0 && commas == 1:
		return singleSeparator(numeric, ",")
	case commas == 0 && dots == 1:
		return singleSeparator(numeric, ".")
	case dots == 0:
		return strings.ReplaceAll(numeric, ",", "")
	case commas == 0:
		return strings.ReplaceAll(numeric, ".", "")
	}

	if strings.LastIndex(numeric, ".") > strings.LastIndex(numeric, ",") {
		return strings.ReplaceAll(numeric, ",", "")
	}
	numeric = strings.ReplaceAll(numeric, ".", "")
	return strings.Replace(numeric, ",", ".", 1)
}

func singleSeparator(numeric, sep string) string {
	after := numeric[strings.LastIndex(numeric, sep)+1:]
	if len(after) <= 2 {
		return strings.Replace(numeric, sep, ".", 1)
	}
	return strings.Replace(numeric, sep, "", 1)
}

// parseLeadingDecimal parses the longest numeric prefix of s, so stray
// trailing characters ("12-3") are ignored the way a lenient float parser
// would.
func parseLeadingDecimal(s string) (decimal.Decimal, error) {
	m := strings.TrimSuffix(leadingNumberRe.FindString(s), ".")
	switch {
	case m == "" || m == "-":
		return decimal.Zero, errNoDigits
	case strings.HasPrefix(m, "-."):
		m = "-0" + m[1:]
	case strings.HasPrefix(m, "."):
		m = "0" + m
	}
	return decimal.NewFromString(m)
}

// RoundCents rounds to two decimal places as round(x*100)/100, so values
// such as 1.005 that sit just below the half in binary round down, as they
// do on the server.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
