package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

var loc = time.FixedZone("WAT", 3600)

func newTestAggregator() (*Aggregator, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	return NewAggregator(currencyutils.NewConverter(nil), logger, loc), logger
}

func tx(id, date string, txType models.TransactionType, amount, party, category, wallet string) models.Transaction {
	return models.Transaction{
		ID: id, Date: date, Type: txType, Amount: amount,
		Party: party, Category: category, Wallet: wallet,
	}
}

var allWallets = Scope{ReferenceCurrency: "USD"}

func sampleTransactions() []models.Transaction {
	return []models.Transaction{
		tx("1", "2024-01-10", models.TypeIncome, "1000 USD", "Acme", "Salary", "Main"),
		tx("2", "2024-01-15", models.TypeExpense, "400 USD", "Landlord", "Rent", "Main"),
		tx("3", "2024-02-02", models.TypeExpense, "60000 XAF", "Market", "Food", "Cash"),
		tx("4", "2024-02-03", models.TypeExpense, "85 EUR", "Landlord", "Rent", "Euro"),
		tx("5", "2024-02-05", models.TypeIncome, "250 USD", "Freelance", "Side", "Main"),
	}
}

func TestPrepare(t *testing.T) {
	agg, logger := newTestAggregator()

	entries := agg.Prepare([]models.Transaction{
		tx("1", "2024-01-10", models.TypeIncome, "1,234.56 USD", "Acme", "Salary", "Main"),
		tx("2", "not a date", models.TypeIncome, "10 USD", "Acme", "Salary", "Main"),
		tx("3", "2024-01-11", models.TypeExpense, "garbage", "Shop", "Food", "Main"),
	})

	require.Len(t, entries, 2)
	assert.Equal(t, 1234.56, entries[0].Value.Value)
	assert.Equal(t, "USD", entries[0].Value.Currency)
	assert.True(t, time.Date(2024, 1, 10, 0, 0, 0, 0, loc).Equal(entries[0].Day))
	assert.Equal(t, currencyutils.Amount{}, entries[1].Value)

	assert.True(t, logger.HasEntry("WARN", "Some transactions were skipped"))
	assert.True(t, logger.HasEntry("DEBUG", "Treating malformed amount as zero"))
}

func TestFilters(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare(sampleTransactions())
	wallets := []models.Wallet{{ID: 1, Name: "Main", Currency: "USD"}, {ID: 2, Name: "Cash", Currency: "XAF"}}

	january := dateutils.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, loc),
	}
	assert.Len(t, FilterByRange(entries, january), 2)

	assert.Len(t, FilterByWallet(entries, &wallets[0]), 3)
	assert.Empty(t, FilterByWallet(entries, nil))

	assert.Len(t, FilterByWalletIDs(entries, []int64{2}, wallets), 1)
	assert.Len(t, FilterByWalletIDs(entries, nil, wallets), len(entries))
	assert.Empty(t, FilterByWalletIDs(entries, []int64{99}, wallets))

	assert.Len(t, OfType(entries, models.TypeIncome), 2)
}

func TestPartyBreakdown(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare(sampleTransactions())

	expenses := agg.PartyBreakdown(entries, models.TypeExpense, allWallets)
	require.Len(t, expenses, 2)

	// Landlord: 400 USD + 85 EUR (100 USD); Market: 60000 XAF (100 USD).
	assert.Equal(t, "Landlord", expenses[0].Party)
	assert.InDelta(t, 500.0, expenses[0].Amount, 1e-9)
	assert.Equal(t, 2, expenses[0].TransactionCount)
	assert.InDelta(t, 500.0/600.0*100, expenses[0].Percentage, 1e-9)
	assert.Equal(t, "Market", expenses[1].Party)
	assert.InDelta(t, 100.0, expenses[1].Amount, 1e-9)

	sum := 0.0
	for _, p := range expenses {
		sum += p.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestPartyBreakdownSingleWalletIsNotConverted(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare([]models.Transaction{
		tx("1", "2024-01-10", models.TypeExpense, "60000 XAF", "Market", "Food", "Cash"),
	})
	id := int64(2)

	out := agg.PartyBreakdown(entries, models.TypeExpense, Scope{ReferenceCurrency: "XAF", WalletID: &id})
	require.Len(t, out, 1)
	assert.Equal(t, 60000.0, out[0].Amount)
}

func TestPartyBreakdownZeroTotal(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare([]models.Transaction{
		tx("1", "2024-01-10", models.TypeIncome, "0 USD", "Nobody", "None", "Main"),
	})

	out := agg.PartyBreakdown(entries, models.TypeIncome, allWallets)
	require.Len(t, out, 1)
	assert.Equal(t, 0.0, out[0].Percentage)
	assert.Empty(t, agg.PartyBreakdown(entries, models.TypeExpense, allWallets))
}

func TestCategoryBreakdown(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare(sampleTransactions())

	income := agg.CategoryBreakdown(entries, models.TypeIncome, allWallets)
	require.Len(t, income, 2)
	assert.Equal(t, "Salary", income[0].Category)
	assert.Equal(t, models.TypeIncome, income[0].Type)
	assert.InDelta(t, 80.0, income[0].Percentage, 1e-9)
	assert.Equal(t, "Side", income[1].Category)
}

func TestMonthlyTrends(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare(sampleTransactions())

	trends := agg.MonthlyTrends(entries, allWallets)
	require.Len(t, trends, 2)

	assert.Equal(t, models.MonthlyTrend{Month: "2024-01", Income: 1000, Expenses: 400, Net: 600}, trends[0])
	assert.Equal(t, "2024-02", trends[1].Month)
	assert.InDelta(t, 250.0, trends[1].Income, 1e-9)
	assert.InDelta(t, 200.0, trends[1].Expenses, 1e-9)
	assert.InDelta(t, 50.0, trends[1].Net, 1e-9)

	for i := 1; i < len(trends); i++ {
		assert.LessOrEqual(t, trends[i-1].Month, trends[i].Month)
	}
}

func TestMonthlyTrendsUsesLocalMonth(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare([]models.Transaction{
		tx("1", "2024-02-01", models.TypeIncome, "10 USD", "Acme", "Salary", "Main"),
	})

	trends := agg.MonthlyTrends(entries, allWallets)
	require.Len(t, trends, 1)
	assert.Equal(t, "2024-02", trends[0].Month)
}

func TestWalletDistribution(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare(sampleTransactions())
	wallets := []models.Wallet{{ID: 1, Name: "Main", Currency: "USD"}, {ID: 2, Name: "Cash", Currency: "XAF"}}

	dist := agg.WalletDistribution(entries, wallets, "USD")
	require.Len(t, dist, 3)

	assert.Equal(t, "Main", dist[0].WalletName)
	assert.Equal(t, int64(1), dist[0].WalletID)
	assert.InDelta(t, 850.0, dist[0].Balance, 1e-9)
	assert.Equal(t, 3, dist[0].TransactionCount)

	// Cash and Euro both have -100; first seen stays first.
	assert.Equal(t, "Cash", dist[1].WalletName)
	assert.Equal(t, int64(2), dist[1].WalletID)
	assert.Equal(t, "Euro", dist[2].WalletName)
	assert.Equal(t, int64(0), dist[2].WalletID)

	total := 850.0 - 100 - 100
	assert.InDelta(t, 850.0/total*100, dist[0].PercentageOfTotal, 1e-9)
}

func TestWalletDistributionNonPositiveTotal(t *testing.T) {
	agg, _ := newTestAggregator()
	entries := agg.Prepare([]models.Transaction{
		tx("1", "2024-01-10", models.TypeExpense, "10 USD", "Shop", "Food", "Main"),
	})

	dist := agg.WalletDistribution(entries, nil, "USD")
	require.Len(t, dist, 1)
	assert.Equal(t, 0.0, dist[0].PercentageOfTotal)

	assert.NotNil(t, agg.WalletDistribution(nil, nil, "USD"))
}

func TestTotals(t *testing.T) {
	agg, _ := newTestAggregator()

	t.Run("all wallets converts to reference", func(t *testing.T) {
		entries := agg.Prepare(sampleTransactions())
		totals := agg.Totals(entries, allWallets)
		assert.InDelta(t, 1250.0, totals.Income, 1e-9)
		assert.InDelta(t, 600.0, totals.Expenses, 1e-9)
		assert.InDelta(t, 650.0, totals.Balance(), 1e-9)
		assert.Equal(t, 5, totals.Count())
	})

	t.Run("rounds each converted amount before summing", func(t *testing.T) {
		// 3 x 1.666... USD rounds to 3 x 1.67, where the unrounded sum is 5.00.
		entries := agg.Prepare([]models.Transaction{
			tx("1", "2024-01-10", models.TypeExpense, "1000 XAF", "A", "X", "Cash"),
			tx("2", "2024-01-11", models.TypeExpense, "1000 XAF", "A", "X", "Cash"),
			tx("3", "2024-01-12", models.TypeExpense, "1000 XAF", "A", "X", "Cash"),
		})
		totals := agg.Totals(entries, allWallets)
		assert.InDelta(t, 5.01, totals.Expenses, 1e-9)
		assert.Equal(t, 3, totals.ExpenseCount)
	})

	t.Run("rounds after conversion", func(t *testing.T) {
		entries := agg.Prepare([]models.Transaction{
			tx("1", "2024-01-10", models.TypeExpense, "1000 XAF", "A", "X", "Cash"),
		})
		totals := agg.Totals(entries, allWallets)
		assert.Equal(t, 1.67, totals.Expenses)
	})

	t.Run("missing code counts as USD", func(t *testing.T) {
		entries := agg.Prepare([]models.Transaction{
			tx("1", "2024-01-10", models.TypeIncome, "10", "A", "X", "Main"),
		})
		totals := agg.Totals(entries, Scope{ReferenceCurrency: "XAF"})
		assert.Equal(t, 6000.0, totals.Income)
	})

	t.Run("single wallet is not converted", func(t *testing.T) {
		id := int64(2)
		entries := agg.Prepare([]models.Transaction{
			tx("1", "2024-01-10", models.TypeExpense, "1000 XAF", "A", "X", "Cash"),
			tx("2", "2024-01-11", models.TypeExpense, "12.34 XAF", "A", "X", "Cash"),
		})
		totals := agg.Totals(entries, Scope{ReferenceCurrency: "XAF", WalletID: &id})
		assert.InDelta(t, 1012.34, totals.Expenses, 1e-9)
	})
}

func TestGrowthAndTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		growth   float64
		trend    string
	}{
		{"no history with income", 1000, 0, 100, models.TrendUp},
		{"nothing at all", 0, 0, 0, models.TrendStable},
		{"doubled", 200, 100, 100, models.TrendUp},
		{"small rise", 104, 100, 4, models.TrendStable},
		{"drop", 50, 100, -50, models.TrendDown},
		{"rounded", 100, 300, -67, models.TrendDown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := Growth(tc.current, tc.previous)
			assert.Equal(t, tc.growth, g)
			assert.Equal(t, tc.trend, TrendDirection(g))
		})
	}
}

func TestRiskLevelAndRatio(t *testing.T) {
	assert.Equal(t, models.RiskHigh, RiskLevel(100, 150))
	assert.Equal(t, models.RiskMedium, RiskLevel(100, 90))
	assert.Equal(t, models.RiskLow, RiskLevel(100, 50))
	assert.Equal(t, models.RiskLow, RiskLevel(0, 0))

	assert.Equal(t, 0.0, Ratio(10, 0))
	assert.Equal(t, 0.5, Ratio(5, 10))
}

func TestTimePatterns(t *testing.T) {
	agg, _ := newTestAggregator()
	txs := sampleTransactions()
	txs[0].Time = "09:15"
	txs[1].Time = "18:40"
	txs[2].Time = "18:05"
	entries := agg.Prepare(txs)

	// 2024-01-10 Wed, 2024-01-15 Mon, 2024-02-02 Fri, 2024-02-03 Sat, 2024-02-05 Mon
	assert.Equal(t, "Monday", BusiestDay(entries))
	assert.Equal(t, "", BusiestDay(nil))

	peak := PeakHour(entries)
	require.NotNil(t, peak)
	assert.Equal(t, 18, *peak)
	assert.Nil(t, PeakHour(agg.Prepare(sampleTransactions())))

	assert.Equal(t, 4, UniqueParties(entries))
}

func TestMostFrequent(t *testing.T) {
	income := []models.PartyBreakdown{{Party: "Acme", TransactionCount: 2}}
	expenses := []models.PartyBreakdown{{Party: "Shop", TransactionCount: 2}, {Party: "Bar", TransactionCount: 1}}

	got := MostFrequentParty(income, expenses)
	require.NotNil(t, got)
	assert.Equal(t, "Acme", got.Party)
	assert.Nil(t, MostFrequentParty(nil, nil))

	cats := MostUsedCategory(nil, []models.CategoryBreakdown{{Category: "Food", TransactionCount: 3}})
	require.NotNil(t, cats)
	assert.Equal(t, "Food", cats.Category)
}

func TestTop(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Top([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, Top([]int{1}, 5))
	assert.Empty(t, Top([]int(nil), 5))
}
