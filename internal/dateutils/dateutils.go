// Package dateutils resolves statistics periods into local-time date windows
// and parses transaction dates as local calendar days.
package dateutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/parsererror"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutRFC3339  = time.RFC3339
	DateLayoutISOMilli = "2006-01-02T15:04:05.000Z07:00"
	MonthKeyLayout     = "2006-01"
	TimeLayout         = "15:04"
)

// allTimeStartYear is the lower bound of the all_time period.
const allTimeStartYear = 2000

// CommonFormats is the list of layouts tried by ParseLocalDate, most specific
// layouts first.
var CommonFormats = []string{
	DateLayoutISOMilli,
	DateLayoutRFC3339,
	DateLayoutFull,
	DateLayoutISO,
}

var (
	spacesRe = regexp.MustCompile(`\s+`)

	errEmptyDate         = errors.New("empty date")
	errUnsupportedLayout = errors.New("unsupported layout")
)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return spacesRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseLocalDate parses a transaction date and returns local midnight of its
// calendar day in loc. A bare "YYYY-MM-DD" is read as a local date rather
// than UTC midnight so that the day never shifts across time zones.
func ParseLocalDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, &parsererror.ParseError{
			Parser: "date", Field: "date", Value: dateStr, Err: errEmptyDate,
		}
	}

	if len(cleaned) >= len(DateLayoutISO) {
		if t, err := time.ParseInLocation(DateLayoutISO, cleaned[:len(DateLayoutISO)], loc); err == nil {
			return t, nil
		}
	}

	for _, layout := range CommonFormats {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return StartOfDay(t.In(loc)), nil
		}
	}

	return time.Time{}, &parsererror.ParseError{
		Parser: "date", Field: "date", Value: dateStr,
		Err: errUnsupportedLayout,
	}
}

// ParseLocalDateTime parses a date plus an optional "HH:MM" time of day.
func ParseLocalDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	day, err := ParseLocalDate(dateStr, loc)
	if err != nil {
		return time.Time{}, err
	}
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return day, nil
	}
	if len(timeStr) > len(TimeLayout) {
		timeStr = timeStr[:len(TimeLayout)]
	}
	clock, err := time.Parse(TimeLayout, timeStr)
	if err != nil {
		return day, nil
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// MonthKey returns the "YYYY-MM" key of t's calendar month.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// StartOfDay returns 00:00:00 of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's week. Sunday belongs to the week
// that started six days earlier.
func StartOfWeek(t time.Time) time.Time {
	daysToMonday := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		daysToMonday = 6
	}
	return StartOfDay(t).AddDate(0, 0, -daysToMonday)
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// StartOfYear returns January 1st of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// DateRange is an inclusive [Start, End] window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether Start <= t <= End.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Duration is End - Start.
func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Days is the fractional length of the window in days, never below 1.
func (r DateRange) Days() float64 {
	days := r.Duration().Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

// Previous returns the preceding window of equal length. Its End equals the
// current Start and callers treat it as exclusive; use ContainsBefore.
func (r DateRange) Previous() DateRange {
	return DateRange{Start: r.Start.Add(-r.Duration()), End: r.Start}
}

// ContainsBefore reports whether Start <= t < End.
func (r DateRange) ContainsBefore(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayoutFull), r.End.Format(DateLayoutFull))
}

// RangeForPeriod resolves period into local-time boundaries around now. End
// is today at 23:59:59. 90d starts exactly 90 x 24h before now, not at a
// midnight. For the custom period, non-empty StartDate and EndDate of custom
// replace the defaults.
func RangeForPeriod(now time.Time, period models.Period, custom *models.CustomFilters, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	r := DateRange{End: EndOfDay(now)}

	switch period {
	case models.PeriodCurrentWeek:
		r.Start = StartOfWeek(now)
	case models.PeriodCurrentMonth, models.PeriodCustom:
		r.Start = StartOfMonth(now)
	case models.Period90Days:
		r.Start = now.Add(-90 * 24 * time.Hour)
	case models.PeriodCurrentYear:
		r.Start = StartOfYear(now)
	default:
		r.Start = time.Date(allTimeStartYear, time.January, 1, 0, 0, 0, 0, loc)
	}

	if period != models.PeriodCustom || custom == nil {
		return r, nil
	}

	if custom.StartDate != "" {
		start, err := ParseLocalDate(custom.StartDate, loc)
		if err != nil {
			return DateRange{}, &parsererror.ValidationError{Field: "start date", Reason: err.Error()}
		}
		r.Start = start
	}
	if custom.EndDate != "" {
		end, err := ParseLocalDate(custom.EndDate, loc)
		if err != nil {
			return DateRange{}, &parsererror.ValidationError{Field: "end date", Reason: err.Error()}
		}
		r.End = EndOfDay(end)
	}
	if r.End.Before(r.Start) {
		return DateRange{}, &parsererror.ValidationError{
			Field: "custom range", Reason: fmt.Sprintf("end %s is before start %s", ToISODate(r.End), ToISODate(r.Start)),
		}
	}
	return r, nil
}
