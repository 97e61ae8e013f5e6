package models

import (
	"fmt"
	"slices"

	"github.com/trakli/webui/internal/parsererror"
)

// Period is a named date-range selector.
type Period string

const (
	PeriodAllTime      Period = "all_time"
	PeriodCurrentWeek  Period = "current_week"
	PeriodCurrentMonth Period = "current_month"
	Period90Days       Period = "90d"
	PeriodCustom       Period = "custom"
	PeriodCurrentYear  Period = "current_year"
)

var knownPeriods = []Period{
	PeriodAllTime,
	PeriodCurrentWeek,
	PeriodCurrentMonth,
	Period90Days,
	PeriodCustom,
	PeriodCurrentYear,
}

// ParsePeriod validates a period key. The empty string means all time.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return PeriodAllTime, nil
	}
	p := Period(s)
	if !p.Valid() {
		return "", &parsererror.ValidationError{
			Field:  "period",
			Reason: fmt.Sprintf("unknown value %q", s),
		}
	}
	return p, nil
}

// Valid reports whether p is one of the known period keys.
func (p Period) Valid() bool {
	return slices.Contains(knownPeriods, p)
}

// StatisticsPeriod is one entry of the period selector.
type StatisticsPeriod struct {
	Label string `json:"label" yaml:"label"`
	Value Period `json:"value" yaml:"value"`
	Days  int    `json:"days" yaml:"days"`
}

// AvailablePeriods returns the fixed list offered to the UI.
func AvailablePeriods() []StatisticsPeriod {
	return []StatisticsPeriod{
		{Label: "All time", Value: PeriodAllTime, Days: 0},
		{Label: "This week", Value: PeriodCurrentWeek, Days: 0},
		{Label: "This month", Value: PeriodCurrentMonth, Days: 0},
		{Label: "Last 3 months", Value: Period90Days, Days: 90},
		{Label: "This year", Value: PeriodCurrentYear, Days: 0},
		{Label: "Custom", Value: PeriodCustom, Days: 0},
	}
}

// CustomFilters narrows a custom period. Empty dates keep the period
// defaults; an empty WalletIDs list keeps every wallet.
type CustomFilters struct {
	StartDate string  `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	WalletIDs []int64 `json:"wallet_ids,omitempty" yaml:"wallet_ids,omitempty"`
}

// Equal compares two filters structurally. Two nil filters are equal; a nil
// and an empty filter are not.
func (c *CustomFilters) Equal(other *CustomFilters) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.StartDate == other.StartDate &&
		c.EndDate == other.EndDate &&
		slices.Equal(c.WalletIDs, other.WalletIDs)
}

// Clone returns a deep copy so callers cannot mutate engine state.
func (c *CustomFilters) Clone() *CustomFilters {
	if c == nil {
		return nil
	}
	out := *c
	out.WalletIDs = slices.Clone(c.WalletIDs)
	return &out
}
