package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakli/webui/internal/api"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/models"
)

func TestStatsParamsFor(t *testing.T) {
	window := dateutils.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		End:   time.Date(2024, 1, 20, 23, 59, 59, 0, loc),
	}
	wallet := int64(7)
	custom := &models.CustomFilters{StartDate: "2024-01-01", EndDate: "2024-01-20", WalletIDs: []int64{1, 2}}

	tests := []struct {
		name     string
		walletID *int64
		period   models.Period
		custom   *models.CustomFilters
		want     api.StatsParams
	}{
		{"all time", nil, models.PeriodAllTime, nil, api.StatsParams{Preset: api.PresetAllTime}},
		{"week", nil, models.PeriodCurrentWeek, nil, api.StatsParams{Preset: api.PresetCurrentWeek}},
		{"90 days", nil, models.Period90Days, nil, api.StatsParams{Preset: api.PresetLast3Months}},
		{"month with wallet", &wallet, models.PeriodCurrentMonth, nil,
			api.StatsParams{Preset: api.PresetCurrentMonth, WalletIDs: []int64{7}}},
		{"year as range", nil, models.PeriodCurrentYear, nil,
			api.StatsParams{StartDate: "2024-01-01", EndDate: "2024-01-20"}},
		{"custom wallets", nil, models.PeriodCustom, custom,
			api.StatsParams{StartDate: "2024-01-01", EndDate: "2024-01-20", WalletIDs: []int64{1, 2}}},
		{"selected wallet wins", &wallet, models.PeriodCustom, custom,
			api.StatsParams{StartDate: "2024-01-01", EndDate: "2024-01-20", WalletIDs: []int64{7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatsParamsFor(tt.walletID, tt.period, tt.custom, window))
		})
	}
}

func TestMapRemote(t *testing.T) {
	window := dateutils.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		End:   time.Date(2024, 1, 11, 0, 0, 0, 0, loc),
	}
	payload := &api.StatsPayload{
		Overview:    api.StatsOverview{TotalIncome: 500, TotalExpenses: 600},
		Comparisons: api.StatsComparisons{PreviousPeriod: api.PreviousPeriodComparison{IncomeChangePercent: 12.4}},
		Charts: api.StatsCharts{
			IncomeSources: []api.NamedAmount{
				{Name: "Side gig", Amount: 100, Percentage: 20, TransactionCount: 1},
				{Name: "Acme", Amount: 400, Percentage: 80, TransactionCount: 2},
			},
			PartySpending: []api.NamedAmount{
				{Name: "Acme", Amount: 600, Percentage: 100, TransactionCount: 3},
			},
			CategorySpending: []api.NamedAmount{{Name: "Rent", Amount: 600, Percentage: 100, TransactionCount: 3}},
		},
	}

	stats := MapRemote(payload, nil, models.PeriodCurrentMonth, window)

	assert.Equal(t, models.SourceRemote, stats.Source)
	assert.Equal(t, -100.0, stats.TotalBalance)
	assert.Equal(t, 6, stats.TransactionCount)
	assert.Equal(t, 2, stats.UniqueParties)
	assert.Equal(t, 12.0, stats.Performance.GrowthPercentage)
	assert.Equal(t, models.TrendUp, stats.IncomeInsights.GrowthTrends.TrendDirection)

	require.NotNil(t, stats.IncomeInsights.BiggestSource)
	assert.Equal(t, "Acme", stats.IncomeInsights.BiggestSource.Party)
	// Counts come from the party rows: 500 over 1 + 2 income transactions.
	assert.InDelta(t, 500.0/3, stats.IncomeInsights.AverageTransaction, 1e-9)
	assert.InDelta(t, 200.0, stats.ExpenseInsights.AverageTransaction, 1e-9)
	assert.InDelta(t, 50.0, stats.IncomeInsights.FrequencyAnalysis.DailyAverage, 1e-9)

	require.Len(t, stats.CategoryBreakdown.ExpenseCategories, 1)
	assert.Equal(t, "Rent", stats.CategoryBreakdown.ExpenseCategories[0].Category)
	assert.Equal(t, models.TypeExpense, stats.CategoryBreakdown.ExpenseCategories[0].Type)
	assert.Equal(t, models.RiskHigh, stats.ExpenseInsights.BudgetAnalysis.RiskLevel)

	assert.Empty(t, stats.TimeAnalysis.BusiestDay)
	assert.Nil(t, stats.TimeAnalysis.PeakTransactionHour)
	assert.NotNil(t, stats.WalletDistribution)
	assert.Empty(t, stats.WalletDistribution)
}

func TestMapRemoteNilPayload(t *testing.T) {
	wallet := int64(3)
	stats := MapRemote(nil, &wallet, models.PeriodAllTime, dateutils.DateRange{})
	stats.Normalize()

	assert.Equal(t, 0.0, stats.TotalIncome)
	assert.Nil(t, stats.WalletDistribution)
	assert.NotNil(t, stats.TimeAnalysis.MonthlyTrends)
	assert.Nil(t, stats.IncomeInsights.BiggestSource)
}
