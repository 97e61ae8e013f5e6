// Package models defines the data exchanged between the statistics engine,
// its data sources and the presentation layer.
package models

import (
	"fmt"
	"strings"

	"github.com/trakli/webui/internal/parsererror"
)

// TransactionType tags a transaction as money in or money out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// ParseTransactionType accepts the UI ("INCOME") and API ("income") spellings.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TypeIncome):
		return TypeIncome, nil
	case string(TypeExpense):
		return TypeExpense, nil
	default:
		return "", &parsererror.ValidationError{
			Field:  "transaction type",
			Reason: fmt.Sprintf("unknown value %q", s),
		}
	}
}

// Transaction is the display-ready transaction the engine aggregates over.
// Amount is formatted as "<magnitude> <CCY>", e.g. "5000.00 XAF".
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Time        string          `json:"time,omitempty" yaml:"time,omitempty"`
	Type        TransactionType `json:"type" yaml:"type"`
	Amount      string          `json:"amount" yaml:"amount"`
	Party       string          `json:"party" yaml:"party"`
	Category    string          `json:"category" yaml:"category"`
	Wallet      string          `json:"wallet" yaml:"wallet"`
	WalletID    string          `json:"wallet_id,omitempty" yaml:"wallet_id,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// IsIncome reports whether t is an income transaction.
func (t Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// IsExpense reports whether t is an expense transaction.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}
