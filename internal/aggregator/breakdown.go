package aggregator

import (
	"cmp"
	"slices"

	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// bucket accumulates one group in first-seen order.
type bucket struct {
	key    string
	amount float64
	count  int
}

type buckets struct {
	index map[string]int
	list  []bucket
}

func newBuckets() *buckets {
	return &buckets{index: make(map[string]int)}
}

func (b *buckets) add(key string, amount float64) {
	i, ok := b.index[key]
	if !ok {
		i = len(b.list)
		b.index[key] = i
		b.list = append(b.list, bucket{key: key})
	}
	b.list[i].amount += amount
	b.list[i].count++
}

// groupByType sums entries of txType into buckets keyed by keyOf and
// returns them with the type's total.
func (a *Aggregator) groupByType(entries []Entry, txType models.TransactionType, scope Scope, keyOf func(Entry) string) ([]bucket, float64) {
	groups := newBuckets()
	total := 0.0
	for _, e := range entries {
		if e.Type != txType {
			continue
		}
		amount := a.amountIn(e, scope)
		total += amount
		groups.add(keyOf(e), amount)
	}
	return groups.list, total
}

func percentageOf(part, total float64) float64 {
	if total > 0 {
		return part / total * 100
	}
	return 0
}

// PartyBreakdown groups entries of txType by party, sorted by amount,
// largest first.
func (a *Aggregator) PartyBreakdown(entries []Entry, txType models.TransactionType, scope Scope) []models.PartyBreakdown {
	groups, total := a.groupByType(entries, txType, scope, func(e Entry) string { return e.Party })

	out := make([]models.PartyBreakdown, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.PartyBreakdown{
			Party:            g.key,
			Amount:           g.amount,
			Percentage:       percentageOf(g.amount, total),
			TransactionCount: g.count,
		})
	}
	slices.SortStableFunc(out, func(x, y models.PartyBreakdown) int {
		return cmp.Compare(y.Amount, x.Amount)
	})

	a.logger.Debug("Computed party breakdown",
		logging.F("type", string(txType)),
		logging.F(logging.FieldCount, len(out)))
	return out
}

// CategoryBreakdown groups entries of txType by category, sorted by amount,
// largest first.
func (a *Aggregator) CategoryBreakdown(entries []Entry, txType models.TransactionType, scope Scope) []models.CategoryBreakdown {
	groups, total := a.groupByType(entries, txType, scope, func(e Entry) string { return e.Category })

	out := make([]models.CategoryBreakdown, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.CategoryBreakdown{
			Category:         g.key,
			Amount:           g.amount,
			Percentage:       percentageOf(g.amount, total),
			TransactionCount: g.count,
			Type:             txType,
		})
	}
	slices.SortStableFunc(out, func(x, y models.CategoryBreakdown) int {
		return cmp.Compare(y.Amount, x.Amount)
	})
	return out
}

// MonthlyTrends sums income and expenses per local calendar month, oldest
// month first. Amounts follow the scope like every other breakdown.
func (a *Aggregator) MonthlyTrends(entries []Entry, scope Scope) []models.MonthlyTrend {
	byMonth := make(map[string]*models.MonthlyTrend)
	for _, e := range entries {
		key := dateutils.MonthKey(e.Day)
		trend, ok := byMonth[key]
		if !ok {
			trend = &models.MonthlyTrend{Month: key}
			byMonth[key] = trend
		}
		amount := a.amountIn(e, scope)
		if e.IsIncome() {
			trend.Income += amount
		} else {
			trend.Expenses += amount
		}
	}

	out := make([]models.MonthlyTrend, 0, len(byMonth))
	for _, trend := range byMonth {
		trend.Net = trend.Income - trend.Expenses
		out = append(out, *trend)
	}
	slices.SortFunc(out, func(x, y models.MonthlyTrend) int {
		return cmp.Compare(x.Month, y.Month)
	})
	return out
}

// WalletDistribution groups entries by wallet display name with amounts
// converted into target, sorted by balance, largest first. Wallet ids are
// resolved by name and are 0 for unknown wallets.
func (a *Aggregator) WalletDistribution(entries []Entry, wallets []models.Wallet, target string) []models.WalletBreakdown {
	scope := Scope{ReferenceCurrency: target}
	index := make(map[string]int)
	var out []models.WalletBreakdown

	for _, e := range entries {
		i, ok := index[e.Wallet]
		if !ok {
			i = len(out)
			index[e.Wallet] = i
			out = append(out, models.WalletBreakdown{WalletName: e.Wallet})
		}
		amount := a.amountIn(e, scope)
		if e.IsIncome() {
			out[i].Income += amount
		} else {
			out[i].Expenses += amount
		}
		out[i].TransactionCount++
	}

	total := 0.0
	for i := range out {
		out[i].Balance = out[i].Income - out[i].Expenses
		total += out[i].Balance
		if w := models.FindWalletByName(wallets, out[i].WalletName); w != nil {
			out[i].WalletID = w.ID
		}
	}
	for i := range out {
		out[i].PercentageOfTotal = percentageOf(out[i].Balance, total)
	}

	slices.SortStableFunc(out, func(x, y models.WalletBreakdown) int {
		return cmp.Compare(y.Balance, x.Balance)
	})
	if out == nil {
		out = []models.WalletBreakdown{}
	}
	return out
}

// MostFrequentParty returns the party with the most transactions across
// both lists, income first on ties, or nil when both are empty.
func MostFrequentParty(income, expenses []models.PartyBreakdown) *models.PartyBreakdown {
	return mostFrequent(slices.Concat(income, expenses), func(p models.PartyBreakdown) int {
		return p.TransactionCount
	})
}

// MostUsedCategory returns the category with the most transactions across
// both lists, income first on ties, or nil when both are empty.
func MostUsedCategory(income, expenses []models.CategoryBreakdown) *models.CategoryBreakdown {
	return mostFrequent(slices.Concat(income, expenses), func(c models.CategoryBreakdown) int {
		return c.TransactionCount
	})
}

func mostFrequent[T any](items []T, count func(T) int) *T {
	if len(items) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(items); i++ {
		if count(items[i]) > count(items[best]) {
			best = i
		}
	}
	found := items[best]
	return &found
}

// Top returns at most n leading items.
func Top[T any](items []T, n int) []T {
	if len(items) > n {
		return slices.Clone(items[:n])
	}
	return slices.Clone(items)
}
