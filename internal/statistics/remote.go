package statistics

import (
	"cmp"
	"context"
	"math"
	"slices"
	"time"

	"github.com/trakli/webui/internal/aggregator"
	"github.com/trakli/webui/internal/api"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/models"
)

var presets = map[models.Period]string{
	models.PeriodAllTime:      api.PresetAllTime,
	models.PeriodCurrentWeek:  api.PresetCurrentWeek,
	models.PeriodCurrentMonth: api.PresetCurrentMonth,
	models.Period90Days:       api.PresetLast3Months,
}

// StatsParamsFor builds the remote request for a selection. Periods without
// a server preset are sent as an explicit date range.
func StatsParamsFor(walletID *int64, period models.Period, custom *models.CustomFilters, window dateutils.DateRange) api.StatsParams {
	var params api.StatsParams
	if preset, ok := presets[period]; ok {
		params.Preset = preset
	} else {
		params.StartDate = dateutils.ToISODate(window.Start)
		params.EndDate = dateutils.ToISODate(window.End)
	}

	switch {
	case walletID != nil:
		params.WalletIDs = []int64{*walletID}
	case custom != nil:
		params.WalletIDs = slices.Clone(custom.WalletIDs)
	}
	return params
}

func (e *Engine) computeRemote(ctx context.Context, walletID *int64, period models.Period, custom *models.CustomFilters, now time.Time) (*models.WalletStatistics, error) {
	window, err := dateutils.RangeForPeriod(now, period, custom, e.loc)
	if err != nil {
		return nil, err
	}

	payload, err := e.remote.FetchStatistics(ctx, StatsParamsFor(walletID, period, custom, window))
	if err != nil {
		return nil, err
	}

	wallets := e.shared.Wallets()
	stats := MapRemote(payload, walletID, period, window)
	stats.Currency = e.primaryCurrency(walletID, wallets)
	stats.LastUpdated = now
	if walletID != nil {
		if w := models.FindWallet(wallets, *walletID); w != nil {
			stats.WalletName = w.Name
		}
	}

	stats.Normalize()
	stats.Insights = GenerateInsights(stats)
	return stats, nil
}

func partiesFrom(items []api.NamedAmount) []models.PartyBreakdown {
	out := make([]models.PartyBreakdown, 0, len(items))
	for _, item := range items {
		out = append(out, models.PartyBreakdown{
			Party:            item.Name,
			Amount:           item.Amount.Float64(),
			Percentage:       item.Percentage.Float64(),
			TransactionCount: item.TransactionCount,
		})
	}
	slices.SortStableFunc(out, func(x, y models.PartyBreakdown) int {
		return cmp.Compare(y.Amount, x.Amount)
	})
	return out
}

func categoriesFrom(items []api.NamedAmount, txType models.TransactionType) []models.CategoryBreakdown {
	out := make([]models.CategoryBreakdown, 0, len(items))
	for _, item := range items {
		out = append(out, models.CategoryBreakdown{
			Category:         item.Name,
			Amount:           item.Amount.Float64(),
			Percentage:       item.Percentage.Float64(),
			TransactionCount: item.TransactionCount,
			Type:             txType,
		})
	}
	slices.SortStableFunc(out, func(x, y models.CategoryBreakdown) int {
		return cmp.Compare(y.Amount, x.Amount)
	})
	return out
}

func countOf[T any](items []T, count func(T) int) int {
	total := 0
	for _, item := range items {
		total += count(item)
	}
	return total
}

// MapRemote converts a server payload into WalletStatistics. Sections the
// server omitted become zero values and empty lists. The balance and the
// budget ratios are derived from the totals rather than read from the
// payload so that both paths agree on them.
func MapRemote(payload *api.StatsPayload, walletID *int64, period models.Period, window dateutils.DateRange) *models.WalletStatistics {
	if payload == nil {
		payload = &api.StatsPayload{}
	}

	income := payload.Overview.TotalIncome.Float64()
	expenses := payload.Overview.TotalExpenses.Float64()
	balance := income - expenses
	growth := math.Round(payload.Comparisons.PreviousPeriod.IncomeChangePercent.Float64())
	days := window.Days()

	incomeParties := partiesFrom(payload.Charts.IncomeSources)
	expenseParties := partiesFrom(payload.Charts.PartySpending)
	incomeCategories := categoriesFrom(payload.TopCategories.Income, models.TypeIncome)
	expenseSource := payload.TopCategories.Expenses
	if len(expenseSource) == 0 {
		expenseSource = payload.Charts.CategorySpending
	}
	expenseCategories := categoriesFrom(expenseSource, models.TypeExpense)

	partyCount := func(p models.PartyBreakdown) int { return p.TransactionCount }
	incomeCount := countOf(incomeParties, partyCount)
	expenseCount := countOf(expenseParties, partyCount)
	txCount := incomeCount + expenseCount

	names := make(map[string]struct{}, len(incomeParties)+len(expenseParties))
	for _, p := range slices.Concat(incomeParties, expenseParties) {
		names[p.Party] = struct{}{}
	}

	trends := make([]models.MonthlyTrend, 0, len(payload.Charts.MonthlyCashFlow))
	for _, point := range payload.Charts.MonthlyCashFlow {
		trends = append(trends, models.MonthlyTrend{
			Month:    point.Period,
			Income:   point.Income.Float64(),
			Expenses: point.Expense.Float64(),
			Net:      point.Net.Float64(),
		})
	}
	slices.SortStableFunc(trends, func(x, y models.MonthlyTrend) int {
		return cmp.Compare(x.Month, y.Month)
	})

	stats := &models.WalletStatistics{
		TotalBalance:     balance,
		TotalIncome:      income,
		TotalExpenses:    expenses,
		TransactionCount: txCount,
		UniqueParties:    len(names),
		Period:           period,
		WalletID:         cloneID(walletID),
		WalletName:       models.AllWalletsName,
		Source:           models.SourceRemote,

		IncomeInsights: models.IncomeInsights{
			Total:              income,
			BiggestSource:      first(incomeParties),
			TopSources:         aggregator.Top(incomeParties, topN),
			TopCategories:      aggregator.Top(incomeCategories, topN),
			AverageTransaction: perCount(income, incomeCount),
			FrequencyAnalysis:  frequency(income, days),
			GrowthTrends: models.GrowthTrends{
				CurrentVsPrevious: growth,
				TrendDirection:    aggregator.TrendDirection(growth),
				Momentum:          models.MomentumSteady,
			},
		},

		ExpenseInsights: models.ExpenseInsights{
			Total:              expenses,
			BiggestExpense:     first(expenseParties),
			TopDestinations:    aggregator.Top(expenseParties, topN),
			TopCategories:      aggregator.Top(expenseCategories, topN),
			AverageTransaction: perCount(expenses, expenseCount),
			SpendingPatterns:   frequency(expenses, days),
			BudgetAnalysis:     budget(income, expenses),
		},

		CategoryBreakdown: models.CategorySummary{
			IncomeCategories:  incomeCategories,
			ExpenseCategories: expenseCategories,
			MostUsedCategory:  aggregator.MostUsedCategory(incomeCategories, expenseCategories),
		},

		PartyBreakdown: models.PartySummary{
			IncomeSources:       incomeParties,
			ExpenseDestinations: expenseParties,
			MostFrequentParty:   aggregator.MostFrequentParty(incomeParties, expenseParties),
		},

		TimeAnalysis: models.TimeAnalysis{
			MonthlyTrends: trends,
			TransactionFrequency: models.TransactionFrequency{
				PerDay:   float64(txCount) / days,
				PerWeek:  float64(txCount) / (days / 7),
				PerMonth: float64(txCount) / (days / 30),
			},
		},

		Performance: models.Performance{
			GrowthPercentage: growth,
			Efficiency:       aggregator.Ratio(balance, income),
		},
	}

	if walletID != nil {
		stats.WalletName = ""
	} else {
		stats.WalletDistribution = []models.WalletBreakdown{}
	}
	return stats
}
