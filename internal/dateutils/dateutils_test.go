package dateutils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/parsererror"
)

var douala = time.FixedZone("WAT", 3600)

func TestParseLocalDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"ISO date", "2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, douala), false},
		{"RFC3339 keeps calendar day", "2024-01-10T23:30:00Z", time.Date(2024, 1, 10, 0, 0, 0, 0, douala), false},
		{"Full timestamp", "2024-01-10 08:15:00", time.Date(2024, 1, 10, 0, 0, 0, 0, douala), false},
		{"Padded", "  2024-03-01 ", time.Date(2024, 3, 1, 0, 0, 0, 0, douala), false},
		{"Empty", "", time.Time{}, true},
		{"Garbage", "yesterday", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLocalDate(tc.input, douala)
			if tc.wantErr {
				require.Error(t, err)
				var parseErr *parsererror.ParseError
				assert.True(t, errors.As(err, &parseErr))
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestParseLocalDateTime(t *testing.T) {
	got, err := ParseLocalDateTime("2024-01-10", "14:35", douala)
	require.NoError(t, err)
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 35, got.Minute())

	got, err = ParseLocalDateTime("2024-01-10", "", douala)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-01", MonthKey(time.Date(2024, 1, 31, 23, 0, 0, 0, douala)))
	assert.Equal(t, "2023-12", MonthKey(time.Date(2023, 12, 1, 0, 0, 0, 0, douala)))
}

func TestStartOfWeek(t *testing.T) {
	monday := time.Date(2024, 1, 15, 0, 0, 0, 0, douala)
	for day := 15; day <= 21; day++ {
		got := StartOfWeek(time.Date(2024, 1, day, 18, 0, 0, 0, douala))
		assert.True(t, monday.Equal(got), "day %d: got %s", day, got)
	}
}

func TestRangeForPeriod(t *testing.T) {
	now := time.Date(2024, 1, 20, 10, 30, 0, 0, douala)
	end := time.Date(2024, 1, 20, 23, 59, 59, 0, douala)

	tests := []struct {
		period models.Period
		start  time.Time
	}{
		{models.PeriodAllTime, time.Date(2000, 1, 1, 0, 0, 0, 0, douala)},
		{models.PeriodCurrentWeek, time.Date(2024, 1, 15, 0, 0, 0, 0, douala)},
		{models.PeriodCurrentMonth, time.Date(2024, 1, 1, 0, 0, 0, 0, douala)},
		{models.Period90Days, time.Date(2023, 10, 22, 10, 30, 0, 0, douala)},
		{models.PeriodCustom, time.Date(2024, 1, 1, 0, 0, 0, 0, douala)},
		{models.PeriodCurrentYear, time.Date(2024, 1, 1, 0, 0, 0, 0, douala)},
	}

	for _, tc := range tests {
		t.Run(string(tc.period), func(t *testing.T) {
			r, err := RangeForPeriod(now, tc.period, nil, douala)
			require.NoError(t, err)
			assert.True(t, tc.start.Equal(r.Start), "start: want %s got %s", tc.start, r.Start)
			assert.True(t, end.Equal(r.End), "end: want %s got %s", end, r.End)
		})
	}
}

func TestRangeForPeriodBoundaries(t *testing.T) {
	now := time.Date(2024, 1, 20, 10, 30, 0, 0, douala)

	for _, period := range []models.Period{models.PeriodCurrentMonth, models.PeriodCurrentWeek} {
		t.Run(string(period), func(t *testing.T) {
			r, err := RangeForPeriod(now, period, nil, douala)
			require.NoError(t, err)

			onStart, err := ParseLocalDate(ToISODate(r.Start), douala)
			require.NoError(t, err)
			assert.True(t, r.Contains(onStart))

			dayBefore, err := ParseLocalDate(ToISODate(r.Start.AddDate(0, 0, -1)), douala)
			require.NoError(t, err)
			assert.False(t, r.Contains(dayBefore))

			today, err := ParseLocalDate(ToISODate(now), douala)
			require.NoError(t, err)
			assert.True(t, r.Contains(today))
		})
	}
}

func TestRangeForPeriod90Days(t *testing.T) {
	now := time.Date(2024, 4, 20, 15, 0, 0, 0, douala)

	r, err := RangeForPeriod(now, models.Period90Days, nil, douala)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 21, 15, 0, 0, 0, douala).Equal(r.Start))

	// A date-only transaction sits at midnight, before the window opens.
	ninetyDaysAgo, err := ParseLocalDate("2024-01-21", douala)
	require.NoError(t, err)
	assert.False(t, r.Contains(ninetyDaysAgo))

	eightyNineDaysAgo, err := ParseLocalDate("2024-01-22", douala)
	require.NoError(t, err)
	assert.True(t, r.Contains(eightyNineDaysAgo))

	assert.InDelta(t, 90+9.0/24-1.0/86400, r.Days(), 1e-9)
}

func TestRangeForPeriodCustomFilters(t *testing.T) {
	now := time.Date(2024, 1, 20, 10, 30, 0, 0, douala)

	t.Run("overrides start and end", func(t *testing.T) {
		r, err := RangeForPeriod(now, models.PeriodCustom, &models.CustomFilters{
			StartDate: "2023-11-05", EndDate: "2023-12-10",
		}, douala)
		require.NoError(t, err)
		assert.True(t, time.Date(2023, 11, 5, 0, 0, 0, 0, douala).Equal(r.Start))
		assert.True(t, time.Date(2023, 12, 10, 23, 59, 59, 0, douala).Equal(r.End))
	})

	t.Run("ignored for other periods", func(t *testing.T) {
		r, err := RangeForPeriod(now, models.PeriodCurrentMonth, &models.CustomFilters{
			StartDate: "2023-11-05",
		}, douala)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Start.Day())
		assert.Equal(t, time.January, r.Start.Month())
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := RangeForPeriod(now, models.PeriodCustom, &models.CustomFilters{StartDate: "soon"}, douala)
		var validationErr *parsererror.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "start date", validationErr.Field)
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := RangeForPeriod(now, models.PeriodCustom, &models.CustomFilters{
			StartDate: "2024-01-10", EndDate: "2024-01-01",
		}, douala)
		assert.Error(t, err)
	})
}

func TestDateRangePreviousAndDays(t *testing.T) {
	r := DateRange{
		Start: time.Date(2024, 1, 11, 0, 0, 0, 0, douala),
		End:   time.Date(2024, 1, 21, 0, 0, 0, 0, douala),
	}
	assert.InDelta(t, 10.0, r.Days(), 1e-9)

	prev := r.Previous()
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, douala).Equal(prev.Start))
	assert.True(t, prev.ContainsBefore(prev.Start))
	assert.False(t, prev.ContainsBefore(r.Start))

	short := DateRange{Start: r.Start, End: r.Start.Add(time.Hour)}
	assert.Equal(t, 1.0, short.Days())
}
