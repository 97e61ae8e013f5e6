package aggregator

import (
	"math"
	"time"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/models"
)

// Growth thresholds for the trend direction, in percent.
const (
	trendUpThreshold   = 5
	trendDownThreshold = -5
)

// Totals holds the scalar sums of a transaction set.
type Totals struct {
	Income       float64
	Expenses     float64
	IncomeCount  int
	ExpenseCount int
}

// Balance is Income - Expenses.
func (t Totals) Balance() float64 {
	return t.Income - t.Expenses
}

// Count is the number of transactions summed.
func (t Totals) Count() int {
	return t.IncomeCount + t.ExpenseCount
}

// Totals sums income and expenses. Every amount is rounded to cents before
// it is summed, after conversion into the reference currency in the
// all-wallets view (a missing code counts as USD). The sum itself is not
// rounded again.
func (a *Aggregator) Totals(entries []Entry, scope Scope) Totals {
	var t Totals
	for _, e := range entries {
		amount := e.Value.Value
		if scope.Converted() {
			from := e.Value.CurrencyOr(currencyutils.DefaultCurrency)
			amount = a.converter.Convert(amount, from, scope.ReferenceCurrency)
		}
		amount = currencyutils.RoundCents(amount)

		switch e.Type {
		case models.TypeIncome:
			t.Income += amount
			t.IncomeCount++
		case models.TypeExpense:
			t.Expenses += amount
			t.ExpenseCount++
		}
	}
	return t
}

// Growth compares current with previous income in whole percent. Without
// previous income it is 100 when there is current income and 0 otherwise.
func Growth(current, previous float64) float64 {
	switch {
	case previous > 0:
		return math.Round((current - previous) / previous * 100)
	case current > 0:
		return 100
	default:
		return 0
	}
}

// TrendDirection classifies a growth percentage.
func TrendDirection(growth float64) string {
	switch {
	case growth > trendUpThreshold:
		return models.TrendUp
	case growth < trendDownThreshold:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

// RiskLevel rates spending against income.
func RiskLevel(income, expenses float64) string {
	switch {
	case expenses > income:
		return models.RiskHigh
	case expenses > income*0.8:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Ratio returns part/whole, or 0 when whole is not positive.
func Ratio(part, whole float64) float64 {
	if whole > 0 {
		return part / whole
	}
	return 0
}

// UniqueParties counts distinct party names.
func UniqueParties(entries []Entry) int {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Party] = struct{}{}
	}
	return len(seen)
}

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// BusiestDay returns the weekday with the most transactions, the earlier
// day of the week on ties, or "" when there are none.
func BusiestDay(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}
	var counts [7]int
	for _, e := range entries {
		counts[e.Day.Weekday()]++
	}
	best := weekOrder[0]
	for _, day := range weekOrder[1:] {
		if counts[day] > counts[best] {
			best = day
		}
	}
	return best.String()
}

// PeakHour returns the hour of day with the most timed transactions, the
// earlier hour on ties, or nil when no transaction carries a time.
func PeakHour(entries []Entry) *int {
	var counts [24]int
	timed := 0
	for _, e := range entries {
		if !e.HasTime {
			continue
		}
		counts[e.At.Hour()]++
		timed++
	}
	if timed == 0 {
		return nil
	}
	best := 0
	for h := 1; h < len(counts); h++ {
		if counts[h] > counts[best] {
			best = h
		}
	}
	return &best
}
