package statistics

import (
	"fmt"
	"strconv"

	"github.com/trakli/webui/internal/models"
)

// Insight thresholds.
const (
	lowSavingsRate         = 0.1
	concentrationThreshold = 70.0
	strongGrowthThreshold  = 10.0
)

// GenerateInsights derives free-text findings from assembled statistics. It
// never modifies stats.
func GenerateInsights(stats *models.WalletStatistics) models.Insights {
	insights := models.Insights{
		KeyObservations: []string{},
		Recommendations: []string{},
		Alerts:          []string{},
		Opportunities:   []string{},
	}
	if stats == nil {
		return insights
	}

	savingsRate := stats.ExpenseInsights.BudgetAnalysis.SavingsRate
	if savingsRate != 0 && savingsRate < lowSavingsRate {
		insights.Alerts = append(insights.Alerts, "Low savings rate detected - consider reducing expenses")
	}

	if source := stats.IncomeInsights.BiggestSource; source != nil && source.Percentage > concentrationThreshold {
		insights.Alerts = append(insights.Alerts, "High income concentration risk - consider diversifying income sources")
	}

	if growth := stats.Performance.GrowthPercentage; growth > strongGrowthThreshold {
		insights.KeyObservations = append(insights.KeyObservations,
			fmt.Sprintf("Strong income growth of %s%% this period", strconv.FormatFloat(growth, 'f', -1, 64)))
	}

	if stats.TotalExpenses > stats.TotalIncome && stats.TotalIncome > 0 {
		insights.Alerts = append(insights.Alerts, "Expenses exceed income for this period")
		insights.Recommendations = append(insights.Recommendations,
			"Review your largest expense categories to bring spending below income")
	}

	if stats.TransactionCount == 0 {
		insights.KeyObservations = append(insights.KeyObservations, "No transactions recorded for this period")
	}

	return insights
}
