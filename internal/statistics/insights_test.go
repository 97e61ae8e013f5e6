package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trakli/webui/internal/models"
)

func TestGenerateInsights(t *testing.T) {
	tests := []struct {
		name          string
		stats         models.WalletStatistics
		alerts        []string
		observations  []string
		recommendFail bool
	}{
		{
			name: "healthy",
			stats: models.WalletStatistics{
				TotalIncome: 1000, TotalExpenses: 400, TransactionCount: 4,
				ExpenseInsights: models.ExpenseInsights{BudgetAnalysis: models.BudgetAnalysis{SavingsRate: 0.6}},
				IncomeInsights:  models.IncomeInsights{BiggestSource: &models.PartyBreakdown{Party: "Acme", Percentage: 50}},
				Performance:     models.Performance{GrowthPercentage: 5},
			},
			alerts:       []string{},
			observations: []string{},
		},
		{
			name: "low savings and concentration",
			stats: models.WalletStatistics{
				TotalIncome: 1000, TotalExpenses: 950, TransactionCount: 2,
				ExpenseInsights: models.ExpenseInsights{BudgetAnalysis: models.BudgetAnalysis{SavingsRate: 0.05}},
				IncomeInsights:  models.IncomeInsights{BiggestSource: &models.PartyBreakdown{Party: "Acme", Percentage: 100}},
				Performance:     models.Performance{GrowthPercentage: 12.5},
			},
			alerts: []string{
				"Low savings rate detected - consider reducing expenses",
				"High income concentration risk - consider diversifying income sources",
			},
			observations: []string{"Strong income growth of 12.5% this period"},
		},
		{
			name: "overspending",
			stats: models.WalletStatistics{
				TotalIncome: 100, TotalExpenses: 300, TransactionCount: 2,
				ExpenseInsights: models.ExpenseInsights{BudgetAnalysis: models.BudgetAnalysis{SavingsRate: -2}},
			},
			alerts: []string{
				"Low savings rate detected - consider reducing expenses",
				"Expenses exceed income for this period",
			},
			observations:  []string{},
			recommendFail: true,
		},
		{
			name:         "empty",
			stats:        models.WalletStatistics{},
			alerts:       []string{},
			observations: []string{"No transactions recorded for this period"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateInsights(&tt.stats)
			assert.Equal(t, tt.alerts, got.Alerts)
			assert.Equal(t, tt.observations, got.KeyObservations)
			assert.Equal(t, tt.recommendFail, len(got.Recommendations) > 0)
			assert.NotNil(t, got.Opportunities)
		})
	}
}

func TestGenerateInsightsNil(t *testing.T) {
	got := GenerateInsights(nil)
	assert.Empty(t, got.Alerts)
	assert.NotNil(t, got.KeyObservations)
}
