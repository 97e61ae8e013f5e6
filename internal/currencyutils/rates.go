package currencyutils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider returns the number of units of a currency worth one USD.
// Unknown codes must return 1 so that they pass through conversion
// unchanged.
type RateProvider interface {
	RateOf(code string, asOf time.Time) float64
}

// StaticRates is a fixed rate table keyed by upper-case currency code.
type StaticRates map[string]float64

// DefaultRates is the built-in approximation used when no live feed is
// configured.
func DefaultRates() StaticRates {
	return StaticRates{
		"USD": 1.0,
		"EUR": 0.85,
		"XAF": 600.0,
		"GBP": 0.75,
		"CAD": 1.35,
	}
}

// RateOf implements RateProvider. The date is ignored.
func (r StaticRates) RateOf(code string, _ time.Time) float64 {
	if rate, ok := r[strings.ToUpper(code)]; ok && rate > 0 {
		return rate
	}
	return 1
}

// NormalizeCode upper-cases a currency code and maps the empty code to
// DefaultCurrency.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	return code
}

// Converter converts amounts between currencies through USD.
type Converter struct {
	rates RateProvider
}

// NewConverter returns a Converter backed by rates, or by DefaultRates when
// rates is nil.
func NewConverter(rates RateProvider) *Converter {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another using current rates.
func (c *Converter) Convert(amount float64, from, to string) float64 {
	return c.ConvertAt(amount, from, to, time.Time{})
}

// ConvertAt converts amount using the rates valid at asOf:
// amount / rate[from] * rate[to]. Equal codes are the identity, including
// codes the provider does not know.
func (c *Converter) ConvertAt(amount float64, from, to string, asOf time.Time) float64 {
	from, to = NormalizeCode(from), NormalizeCode(to)
	if from == to {
		return amount
	}

	fromRate := decimal.NewFromFloat(c.rates.RateOf(from, asOf))
	toRate := decimal.NewFromFloat(c.rates.RateOf(to, asOf))
	if fromRate.IsZero() {
		return 0
	}

	converted, _ := decimal.NewFromFloat(amount).Div(fromRate).Mul(toRate).Float64()
	return converted
}
