package statistics

import (
	"fmt"
	"time"

	"github.com/trakli/webui/internal/aggregator"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/models"
)

// topN is the length of the top sources, destinations and categories lists.
const topN = 5

func validateFilters(filters models.CustomFilters, loc *time.Location) error {
	_, err := dateutils.RangeForPeriod(time.Now().In(loc), models.PeriodCustom, &filters, loc)
	return err
}

// computeLocal aggregates the shared transactions. A panic while
// aggregating is reported as an error.
func (e *Engine) computeLocal(walletID *int64, period models.Period, custom *models.CustomFilters, now time.Time) (stats *models.WalletStatistics, err error) {
	defer func() {
		if r := recover(); r != nil {
			stats = nil
			err = fmt.Errorf("local statistics computation failed: %v", r)
		}
	}()

	window, err := dateutils.RangeForPeriod(now, period, custom, e.loc)
	if err != nil {
		return nil, err
	}

	wallets := e.shared.Wallets()
	entries := e.agg.Prepare(e.shared.Transactions())
	if custom != nil {
		entries = aggregator.FilterByWalletIDs(entries, custom.WalletIDs, wallets)
	}

	inWindow := aggregator.FilterByRange(entries, window)
	previous := aggregator.FilterBefore(entries, window.Previous())

	var wallet *models.Wallet
	scoped := inWindow
	if walletID != nil {
		wallet = models.FindWallet(wallets, *walletID)
		scoped = aggregator.FilterByWallet(inWindow, wallet)
		previous = aggregator.FilterByWallet(previous, wallet)
	}

	currency := e.primaryCurrency(walletID, wallets)
	scope := aggregator.Scope{ReferenceCurrency: currency, WalletID: walletID}

	totals := e.agg.Totals(scoped, scope)
	previousIncome := e.agg.Totals(previous, scope).Income
	growth := aggregator.Growth(totals.Income, previousIncome)
	days := window.Days()

	incomeParties := e.agg.PartyBreakdown(scoped, models.TypeIncome, scope)
	expenseParties := e.agg.PartyBreakdown(scoped, models.TypeExpense, scope)
	incomeCategories := e.agg.CategoryBreakdown(scoped, models.TypeIncome, scope)
	expenseCategories := e.agg.CategoryBreakdown(scoped, models.TypeExpense, scope)

	stats = &models.WalletStatistics{
		TotalBalance:     totals.Balance(),
		TotalIncome:      totals.Income,
		TotalExpenses:    totals.Expenses,
		TransactionCount: len(scoped),
		UniqueParties:    aggregator.UniqueParties(scoped),
		Period:           period,
		WalletID:         cloneID(walletID),
		WalletName:       models.AllWalletsName,
		Currency:         currency,
		Source:           models.SourceLocal,
		LastUpdated:      now,

		IncomeInsights: models.IncomeInsights{
			Total:              totals.Income,
			BiggestSource:      first(incomeParties),
			TopSources:         aggregator.Top(incomeParties, topN),
			TopCategories:      aggregator.Top(incomeCategories, topN),
			AverageTransaction: perCount(totals.Income, totals.IncomeCount),
			FrequencyAnalysis:  frequency(totals.Income, days),
			GrowthTrends: models.GrowthTrends{
				CurrentVsPrevious: growth,
				TrendDirection:    aggregator.TrendDirection(growth),
				Momentum:          models.MomentumSteady,
			},
		},

		ExpenseInsights: models.ExpenseInsights{
			Total:              totals.Expenses,
			BiggestExpense:     first(expenseParties),
			TopDestinations:    aggregator.Top(expenseParties, topN),
			TopCategories:      aggregator.Top(expenseCategories, topN),
			AverageTransaction: perCount(totals.Expenses, totals.ExpenseCount),
			SpendingPatterns:   frequency(totals.Expenses, days),
			BudgetAnalysis:     budget(totals.Income, totals.Expenses),
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
			MonthlyTrends:       e.agg.MonthlyTrends(scoped, scope),
			BusiestDay:          aggregator.BusiestDay(scoped),
			PeakTransactionHour: aggregator.PeakHour(scoped),
			TransactionFrequency: models.TransactionFrequency{
				PerDay:   float64(len(scoped)) / days,
				PerWeek:  float64(len(scoped)) / (days / 7),
				PerMonth: float64(len(scoped)) / (days / 30),
			},
		},

		Performance: models.Performance{
			GrowthPercentage: growth,
			Efficiency:       aggregator.Ratio(totals.Balance(), totals.Income),
		},
	}

	if walletID != nil {
		stats.WalletName = ""
		if wallet != nil {
			stats.WalletName = wallet.Name
		}
	} else {
		stats.WalletDistribution = e.agg.WalletDistribution(inWindow, wallets, currency)
	}

	stats.Normalize()
	stats.Insights = GenerateInsights(stats)
	return stats, nil
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	v := items[0]
	return &v
}

func perCount(total float64, count int) float64 {
	if count > 0 {
		return total / float64(count)
	}
	return 0
}

// frequency spreads total over a window of days (at least 1).
func frequency(total, days float64) models.FrequencyAnalysis {
	return models.FrequencyAnalysis{
		DailyAverage:   total / days,
		WeeklyAverage:  total / (days / 7),
		MonthlyAverage: total / (days / 30),
	}
}

func budget(income, expenses float64) models.BudgetAnalysis {
	return models.BudgetAnalysis{
		ExpenseRatio: aggregator.Ratio(expenses, income),
		SavingsRate:  aggregator.Ratio(income-expenses, income),
		RiskLevel:    aggregator.RiskLevel(income, expenses),
	}
}
