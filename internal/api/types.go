package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/trakli/webui/internal/currencyutils"
)

// Number accepts JSON numbers as well as numeric strings such as "12.50",
// which the API uses for decimal columns.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(currencyutils.ParseAmount(s).Value)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	return float64(n)
}

// FlexID accepts numeric and string identifiers.
type FlexID string

func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	*id = FlexID(strings.TrimSpace(string(b)))
	return nil
}

// SyncState carries the client-generated id of a synced record.
type SyncState struct {
	ClientGeneratedID string `json:"client_generated_id"`
}

// ApiWallet is a wallet as returned by GET /wallets.
type ApiWallet struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Currency    string     `json:"currency"`
	Balance     Number     `json:"balance"`
	SyncState   *SyncState `json:"sync_state"`
}

// ApiParty is a counterparty as returned by GET /parties.
type ApiParty struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	SyncState *SyncState `json:"sync_state"`
}

// ApiCategory is the nested category of a transaction.
type ApiCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ApiTransaction is a transaction as returned by GET /transactions.
type ApiTransaction struct {
	ID                      int64         `json:"id"`
	Type                    string        `json:"type"`
	Amount                  Number        `json:"amount"`
	Description             string        `json:"description"`
	Datetime                string        `json:"datetime"`
	GroupID                 *int64        `json:"group_id"`
	Categories              []ApiCategory `json:"categories"`
	IsRecurring             bool          `json:"is_recurring"`
	TransferID              *int64        `json:"transfer_id"`
	Wallet                  *ApiWallet    `json:"wallet"`
	WalletClientGeneratedID string        `json:"wallet_client_generated_id"`
	Party                   *ApiParty     `json:"party"`
	PartyClientGeneratedID  string        `json:"party_client_generated_id"`
}

// ConfigurationItem is one user setting from GET /configurations.
type ConfigurationItem struct {
	ID    int64           `json:"id"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// StringValue returns the setting as a string. JSON strings are unquoted;
// other values are returned as raw JSON.
func (c ConfigurationItem) StringValue() string {
	var s string
	if err := json.Unmarshal(c.Value, &s); err == nil {
		return s
	}
	if isNull(c.Value) {
		return ""
	}
	return strings.TrimSpace(string(c.Value))
}

// StatsOverview holds the scalar figures of GET /stats.
type StatsOverview struct {
	TotalBalance       Number `json:"total_balance"`
	NetWorth           Number `json:"net_worth"`
	TotalIncome        Number `json:"total_income"`
	TotalExpenses      Number `json:"total_expenses"`
	NetCashFlow        Number `json:"net_cash_flow"`
	AvgMonthlyIncome   Number `json:"avg_monthly_income"`
	AvgMonthlyExpenses Number `json:"avg_monthly_expenses"`
	SavingsRate        Number `json:"savings_rate"`
}

// PreviousPeriodComparison compares the window with the preceding one.
type PreviousPeriodComparison struct {
	IncomeChangePercent  Number `json:"income_change_percent"`
	ExpenseChangePercent Number `json:"expense_change_percent"`
	SavingsRateChange    Number `json:"savings_rate_change"`
}

type StatsComparisons struct {
	PreviousPeriod PreviousPeriodComparison `json:"previous_period"`
}

// NamedAmount is a ranked category, party or income source.
type NamedAmount struct {
	ID               FlexID `json:"id"`
	Name             string `json:"name"`
	Amount           Number `json:"amount"`
	Percentage       Number `json:"percentage"`
	TransactionCount int    `json:"transaction_count"`
}

type TopCategories struct {
	Income   []NamedAmount `json:"income"`
	Expenses []NamedAmount `json:"expenses"`
}

type LargestTransaction struct {
	Amount      Number `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Category    string `json:"category"`
}

type LargestTransactions struct {
	Income  *LargestTransaction `json:"income"`
	Expense *LargestTransaction `json:"expense"`
}

// MonthlyCashFlow is one point of the monthly cash-flow chart.
type MonthlyCashFlow struct {
	Period  string `json:"period"`
	Income  Number `json:"income"`
	Expense Number `json:"expense"`
	Net     Number `json:"net"`
}

type StatsCharts struct {
	PartySpending    []NamedAmount     `json:"party_spending"`
	CategorySpending []NamedAmount     `json:"category_spending"`
	IncomeSources    []NamedAmount     `json:"income_sources"`
	MonthlyCashFlow  []MonthlyCashFlow `json:"monthly_cash_flow"`
}

// StatsPayload is the body of GET /stats. Absent sections decode to zero
// values.
type StatsPayload struct {
	Overview            StatsOverview       `json:"overview"`
	Comparisons         StatsComparisons    `json:"comparisons"`
	TopCategories       TopCategories       `json:"top_categories"`
	LargestTransactions LargestTransactions `json:"largest_transactions"`
	Charts              StatsCharts         `json:"charts"`
}
