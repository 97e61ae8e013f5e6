// Package report renders computed statistics for the CLI.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Sections of a CSV breakdown.
const (
	SectionIncomeSource       = "income_source"
	SectionExpenseDestination = "expense_destination"
	SectionIncomeCategory     = "income_category"
	SectionExpenseCategory    = "expense_category"
	SectionMonth              = "month"
	SectionWallet             = "wallet"
)

// BreakdownRow is one line of the CSV report. Monthly rows carry the net
// amount; wallet rows carry the balance and the share of all wallets.
type BreakdownRow struct {
	Section          string `csv:"section"`
	Name             string `csv:"name"`
	Amount           string `csv:"amount"`
	Percentage       string `csv:"percentage"`
	TransactionCount int    `csv:"transaction_count"`
	Currency         string `csv:"currency"`
}

// Generator renders WalletStatistics in the supported formats.
type Generator struct {
	logger    logging.Logger
	locale    string
	delimiter rune
}

// NewGenerator creates a generator. delimiter must be a single character;
// anything else falls back to a comma.
func NewGenerator(logger logging.Logger, locale, delimiter string) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if locale == "" {
		locale = currencyutils.DefaultLocale
	}
	comma := ','
	if runes := []rune(delimiter); len(runes) == 1 {
		comma = runes[0]
	}
	return &Generator{
		logger:    logger.WithField(logging.FieldComponent, "report"),
		locale:    locale,
		delimiter: comma,
	}
}

// GenerateReport renders stats in format (text, json, yaml or csv).
func (g *Generator) GenerateReport(stats *models.WalletStatistics, format string) ([]byte, error) {
	if stats == nil {
		return nil, fmt.Errorf("no statistics to render")
	}
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateText(stats)
	case FormatJSON:
		return g.generateJSON(stats)
	case FormatYAML:
		return g.generateYAML(stats)
	case FormatCSV:
		return g.generateCSV(stats)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(stats *models.WalletStatistics) ([]byte, error) {
	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(stats *models.WalletStatistics) ([]byte, error) {
	out, err := yaml.Marshal(stats)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

// Rows flattens the breakdown tables of stats into CSV rows.
func Rows(stats *models.WalletStatistics) []BreakdownRow {
	currency := stats.Currency
	var rows []BreakdownRow

	parties := func(section string, items []models.PartyBreakdown) {
		for _, p := range items {
			rows = append(rows, BreakdownRow{section, p.Party, money(p.Amount), percent(p.Percentage), p.TransactionCount, currency})
		}
	}
	categories := func(section string, items []models.CategoryBreakdown) {
		for _, c := range items {
			rows = append(rows, BreakdownRow{section, c.Category, money(c.Amount), percent(c.Percentage), c.TransactionCount, currency})
		}
	}

	parties(SectionIncomeSource, stats.PartyBreakdown.IncomeSources)
	parties(SectionExpenseDestination, stats.PartyBreakdown.ExpenseDestinations)
	categories(SectionIncomeCategory, stats.CategoryBreakdown.IncomeCategories)
	categories(SectionExpenseCategory, stats.CategoryBreakdown.ExpenseCategories)
	for _, m := range stats.TimeAnalysis.MonthlyTrends {
		rows = append(rows, BreakdownRow{Section: SectionMonth, Name: m.Month, Amount: money(m.Net), Currency: currency})
	}
	for _, w := range stats.WalletDistribution {
		rows = append(rows, BreakdownRow{SectionWallet, w.WalletName, money(w.Balance), percent(w.PercentageOfTotal), w.TransactionCount, currency})
	}
	return rows
}

func (g *Generator) generateCSV(stats *models.WalletStatistics) ([]byte, error) {
	rows := Rows(stats)

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = g.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}

	g.logger.Debug("Rendered CSV report", logging.F(logging.FieldCount, len(rows)))
	return buf.Bytes(), nil
}

func (g *Generator) generateText(stats *models.WalletStatistics) ([]byte, error) {
	code := currencyutils.NormalizeCode(stats.Currency)
	amount := func(v float64) string { return currencyutils.FormatCurrency(v, code, g.locale) }

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Wallet:\t%s\n", stats.WalletName)
	fmt.Fprintf(w, "Period:\t%s\n", stats.Period)
	fmt.Fprintf(w, "Source:\t%s\n", stats.Source)
	fmt.Fprintf(w, "Income:\t%s\n", amount(stats.TotalIncome))
	fmt.Fprintf(w, "Expenses:\t%s\n", amount(stats.TotalExpenses))
	fmt.Fprintf(w, "Balance:\t%s\n", amount(stats.TotalBalance))
	fmt.Fprintf(w, "Transactions:\t%d\n", stats.TransactionCount)
	fmt.Fprintf(w, "Parties:\t%d\n", stats.UniqueParties)
	fmt.Fprintf(w, "Savings rate:\t%s%%\n", percent(stats.ExpenseInsights.BudgetAnalysis.SavingsRate*100))
	fmt.Fprintf(w, "Risk level:\t%s\n", stats.ExpenseInsights.BudgetAnalysis.RiskLevel)
	fmt.Fprintf(w, "Growth:\t%s%% (%s)\n", percent(stats.Performance.GrowthPercentage), stats.IncomeInsights.GrowthTrends.TrendDirection)
	if stats.TimeAnalysis.BusiestDay != "" {
		fmt.Fprintf(w, "Busiest day:\t%s\n", stats.TimeAnalysis.BusiestDay)
	}

	section := func(title string, names []string, amounts []float64, shares []float64) {
		if len(names) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", title)
		for i, name := range names {
			fmt.Fprintf(w, "  %s\t%s\t%s%%\n", name, amount(amounts[i]), percent(shares[i]))
		}
	}

	names, amounts, shares := partyColumns(stats.IncomeInsights.TopSources)
	section("Top income sources", names, amounts, shares)
	names, amounts, shares = partyColumns(stats.ExpenseInsights.TopDestinations)
	section("Top expense destinations", names, amounts, shares)
	names, amounts, shares = walletColumns(stats.WalletDistribution)
	section("Wallets", names, amounts, shares)

	if len(stats.TimeAnalysis.MonthlyTrends) > 0 {
		fmt.Fprintf(w, "\nMonthly trends\n")
		for _, m := range stats.TimeAnalysis.MonthlyTrends {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", m.Month, amount(m.Income), amount(m.Expenses), amount(m.Net))
		}
	}

	lists := []struct {
		title string
		items []string
	}{
		{"Alerts", stats.Insights.Alerts},
		{"Observations", stats.Insights.KeyObservations},
		{"Recommendations", stats.Insights.Recommendations},
		{"Opportunities", stats.Insights.Opportunities},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", l.title)
		for _, item := range l.items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}

func partyColumns(items []models.PartyBreakdown) ([]string, []float64, []float64) {
	names := make([]string, 0, len(items))
	amounts := make([]float64, 0, len(items))
	shares := make([]float64, 0, len(items))
	for _, p := range items {
		names = append(names, p.Party)
		amounts = append(amounts, p.Amount)
		shares = append(shares, p.Percentage)
	}
	return names, amounts, shares
}

func walletColumns(items []models.WalletBreakdown) ([]string, []float64, []float64) {
	names := make([]string, 0, len(items))
	amounts := make([]float64, 0, len(items))
	shares := make([]float64, 0, len(items))
	for _, w := range items {
		names = append(names, w.WalletName)
		amounts = append(amounts, w.Balance)
		shares = append(shares, w.PercentageOfTotal)
	}
	return names, amounts, shares
}

func money(v float64) string {
	return strconv.FormatFloat(currencyutils.RoundCents(v), 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(currencyutils.RoundCents(v), 'f', -1, 64)
}
