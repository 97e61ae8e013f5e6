package store

import (
	"context"
	"slices"
	"sync"

	"github.com/trakli/webui/internal/models"
)

// MockDataSource is an in-memory DataSource for testing.
type MockDataSource struct {
	mu sync.Mutex

	TransactionList []models.Transaction
	WalletList      []models.Wallet
	Currency        string

	// Error flags for testing error conditions
	TransactionsError    error
	WalletsError         error
	DefaultCurrencyError error

	Calls int
}

// Transactions returns a copy of the mock transactions.
func (m *MockDataSource) Transactions(ctx context.Context) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.TransactionsError != nil {
		return nil, m.TransactionsError
	}
	return slices.Clone(m.TransactionList), nil
}

// Wallets returns a copy of the mock wallets.
func (m *MockDataSource) Wallets(ctx context.Context) ([]models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WalletsError != nil {
		return nil, m.WalletsError
	}
	return slices.Clone(m.WalletList), nil
}

// DefaultCurrency returns the mock currency.
func (m *MockDataSource) DefaultCurrency(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DefaultCurrencyError != nil {
		return "", m.DefaultCurrencyError
	}
	return m.Currency, nil
}

// LoadCount returns how many times transactions were fetched.
func (m *MockDataSource) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
