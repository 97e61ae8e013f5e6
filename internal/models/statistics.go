package models

import "time"

// Trend directions and momentum labels used in growth insights.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	MomentumSteady = "steady"
)

// Risk levels of the budget analysis.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Statistics sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// PartyBreakdown is one ranked entry of a by-party breakdown.
type PartyBreakdown struct {
	Party            string  `json:"party" yaml:"party" csv:"party"`
	Amount           float64 `json:"amount" yaml:"amount" csv:"amount"`
	Percentage       float64 `json:"percentage" yaml:"percentage" csv:"percentage"`
	TransactionCount int     `json:"transaction_count" yaml:"transaction_count" csv:"transaction_count"`
}

// CategoryBreakdown is one ranked entry of a by-category breakdown.
type CategoryBreakdown struct {
	Category         string          `json:"category" yaml:"category" csv:"category"`
	Amount           float64         `json:"amount" yaml:"amount" csv:"amount"`
	Percentage       float64         `json:"percentage" yaml:"percentage" csv:"percentage"`
	TransactionCount int             `json:"transaction_count" yaml:"transaction_count" csv:"transaction_count"`
	Type             TransactionType `json:"type" yaml:"type" csv:"type"`
}

// MonthlyTrend holds income and expenses of one calendar month.
type MonthlyTrend struct {
	Month    string  `json:"month" yaml:"month" csv:"month"`
	Income   float64 `json:"income" yaml:"income" csv:"income"`
	Expenses float64 `json:"expenses" yaml:"expenses" csv:"expenses"`
	Net      float64 `json:"net" yaml:"net" csv:"net"`
}

// WalletBreakdown aggregates one wallet inside the all-wallets view.
type WalletBreakdown struct {
	WalletID          int64   `json:"wallet_id" yaml:"wallet_id" csv:"wallet_id"`
	WalletName        string  `json:"wallet_name" yaml:"wallet_name" csv:"wallet_name"`
	Balance           float64 `json:"balance" yaml:"balance" csv:"balance"`
	Income            float64 `json:"income" yaml:"income" csv:"income"`
	Expenses          float64 `json:"expenses" yaml:"expenses" csv:"expenses"`
	TransactionCount  int     `json:"transaction_count" yaml:"transaction_count" csv:"transaction_count"`
	PercentageOfTotal float64 `json:"percentage_of_total" yaml:"percentage_of_total" csv:"percentage_of_total"`
}

type FrequencyAnalysis struct {
	DailyAverage   float64 `json:"daily_average" yaml:"daily_average"`
	WeeklyAverage  float64 `json:"weekly_average" yaml:"weekly_average"`
	MonthlyAverage float64 `json:"monthly_average" yaml:"monthly_average"`
}

type GrowthTrends struct {
	CurrentVsPrevious float64 `json:"current_vs_previous" yaml:"current_vs_previous"`
	TrendDirection    string  `json:"trend_direction" yaml:"trend_direction"`
	Momentum          string  `json:"momentum" yaml:"momentum"`
}

type BudgetAnalysis struct {
	ExpenseRatio float64 `json:"expense_ratio" yaml:"expense_ratio"`
	SavingsRate  float64 `json:"savings_rate" yaml:"savings_rate"`
	RiskLevel    string  `json:"risk_level" yaml:"risk_level"`
}

type IncomeInsights struct {
	Total              float64             `json:"total" yaml:"total"`
	BiggestSource      *PartyBreakdown     `json:"biggest_source" yaml:"biggest_source"`
	TopSources         []PartyBreakdown    `json:"top_sources" yaml:"top_sources"`
	TopCategories      []CategoryBreakdown `json:"top_categories" yaml:"top_categories"`
	AverageTransaction float64             `json:"average_transaction" yaml:"average_transaction"`
	FrequencyAnalysis  FrequencyAnalysis   `json:"frequency_analysis" yaml:"frequency_analysis"`
	GrowthTrends       GrowthTrends        `json:"growth_trends" yaml:"growth_trends"`
}

type ExpenseInsights struct {
	Total              float64             `json:"total" yaml:"total"`
	BiggestExpense     *PartyBreakdown     `json:"biggest_expense" yaml:"biggest_expense"`
	TopDestinations    []PartyBreakdown    `json:"top_destinations" yaml:"top_destinations"`
	TopCategories      []CategoryBreakdown `json:"top_categories" yaml:"top_categories"`
	AverageTransaction float64             `json:"average_transaction" yaml:"average_transaction"`
	SpendingPatterns   FrequencyAnalysis   `json:"spending_patterns" yaml:"spending_patterns"`
	BudgetAnalysis     BudgetAnalysis      `json:"budget_analysis" yaml:"budget_analysis"`
}

type CategorySummary struct {
	IncomeCategories  []CategoryBreakdown `json:"income_categories" yaml:"income_categories"`
	ExpenseCategories []CategoryBreakdown `json:"expense_categories" yaml:"expense_categories"`
	MostUsedCategory  *CategoryBreakdown  `json:"most_used_category" yaml:"most_used_category"`
}

type PartySummary struct {
	IncomeSources       []PartyBreakdown `json:"income_sources" yaml:"income_sources"`
	ExpenseDestinations []PartyBreakdown `json:"expense_destinations" yaml:"expense_destinations"`
	MostFrequentParty   *PartyBreakdown  `json:"most_frequent_party" yaml:"most_frequent_party"`
}

type TransactionFrequency struct {
	PerDay   float64 `json:"per_day" yaml:"per_day"`
	PerWeek  float64 `json:"per_week" yaml:"per_week"`
	PerMonth float64 `json:"per_month" yaml:"per_month"`
}

type TimeAnalysis struct {
	MonthlyTrends        []MonthlyTrend       `json:"monthly_trends" yaml:"monthly_trends"`
	BusiestDay           string               `json:"busiest_day" yaml:"busiest_day"`
	PeakTransactionHour  *int                 `json:"peak_transaction_hour,omitempty" yaml:"peak_transaction_hour,omitempty"`
	TransactionFrequency TransactionFrequency `json:"transaction_frequency" yaml:"transaction_frequency"`
}

// Performance figures. Velocity and Consistency are not derived yet and
// stay at zero.
type Performance struct {
	GrowthPercentage float64 `json:"growth_percentage" yaml:"growth_percentage"`
	Velocity         float64 `json:"velocity" yaml:"velocity"`
	Efficiency       float64 `json:"efficiency" yaml:"efficiency"`
	Consistency      float64 `json:"consistency" yaml:"consistency"`
}

// Insights are free-text findings derived from the figures.
type Insights struct {
	KeyObservations []string `json:"key_observations" yaml:"key_observations"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	Alerts          []string `json:"alerts" yaml:"alerts"`
	Opportunities   []string `json:"opportunities" yaml:"opportunities"`
}

// WalletStatistics is the engine's output. A new value is built on every
// recompute; it is never mutated once published.
type WalletStatistics struct {
	TotalBalance     float64   `json:"total_balance" yaml:"total_balance"`
	TotalIncome      float64   `json:"total_income" yaml:"total_income"`
	TotalExpenses    float64   `json:"total_expenses" yaml:"total_expenses"`
	TransactionCount int       `json:"transaction_count" yaml:"transaction_count"`
	UniqueParties    int       `json:"unique_parties" yaml:"unique_parties"`
	Period           Period    `json:"period" yaml:"period"`
	WalletID         *int64    `json:"wallet_id" yaml:"wallet_id"`
	WalletName       string    `json:"wallet_name" yaml:"wallet_name"`
	Currency         string    `json:"currency" yaml:"currency"`
	Source           string    `json:"source" yaml:"source"`
	LastUpdated      time.Time `json:"last_updated" yaml:"last_updated"`

	IncomeInsights  IncomeInsights  `json:"income_insights" yaml:"income_insights"`
	ExpenseInsights ExpenseInsights `json:"expense_insights" yaml:"expense_insights"`

	CategoryBreakdown CategorySummary `json:"category_breakdown" yaml:"category_breakdown"`
	PartyBreakdown    PartySummary    `json:"party_breakdown" yaml:"party_breakdown"`

	// WalletDistribution is nil outside the all-wallets view.
	WalletDistribution []WalletBreakdown `json:"wallet_distribution,omitempty" yaml:"wallet_distribution,omitempty"`

	TimeAnalysis TimeAnalysis `json:"time_analysis" yaml:"time_analysis"`
	Performance  Performance  `json:"performance" yaml:"performance"`
	Insights     Insights     `json:"insights" yaml:"insights"`
}

// Normalize replaces nil slices with empty ones so that every list field
// serializes as [] rather than null. WalletDistribution is left alone since
// nil there means "not applicable".
func (s *WalletStatistics) Normalize() {
	s.IncomeInsights.TopSources = emptyIfNil(s.IncomeInsights.TopSources)
	s.IncomeInsights.TopCategories = emptyIfNil(s.IncomeInsights.TopCategories)
	s.ExpenseInsights.TopDestinations = emptyIfNil(s.ExpenseInsights.TopDestinations)
	s.ExpenseInsights.TopCategories = emptyIfNil(s.ExpenseInsights.TopCategories)
	s.CategoryBreakdown.IncomeCategories = emptyIfNil(s.CategoryBreakdown.IncomeCategories)
	s.CategoryBreakdown.ExpenseCategories = emptyIfNil(s.CategoryBreakdown.ExpenseCategories)
	s.PartyBreakdown.IncomeSources = emptyIfNil(s.PartyBreakdown.IncomeSources)
	s.PartyBreakdown.ExpenseDestinations = emptyIfNil(s.PartyBreakdown.ExpenseDestinations)
	s.TimeAnalysis.MonthlyTrends = emptyIfNil(s.TimeAnalysis.MonthlyTrends)
	s.Insights.KeyObservations = emptyIfNil(s.Insights.KeyObservations)
	s.Insights.Recommendations = emptyIfNil(s.Insights.Recommendations)
	s.Insights.Alerts = emptyIfNil(s.Insights.Alerts)
	s.Insights.Opportunities = emptyIfNil(s.Insights.Opportunities)
}

func emptyIfNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
