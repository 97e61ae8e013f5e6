package models

import "strings"

// AllWalletsName is the label of the aggregated all-wallets view.
const AllWalletsName = "All Wallets"

// Wallet is a user account holding money in a single currency.
type Wallet struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Currency    string  `json:"currency" yaml:"currency"`
	Type        string  `json:"type,omitempty" yaml:"type,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Balance     float64 `json:"balance,omitempty" yaml:"balance,omitempty"`
}

// WalletOption is one entry of the wallet selector. A nil ID is the
// all-wallets entry.
type WalletOption struct {
	ID       *int64 `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Currency string `json:"currency" yaml:"currency"`
}

// FindWallet returns the wallet with the given id, or nil.
func FindWallet(wallets []Wallet, id int64) *Wallet {
	for i := range wallets {
		if wallets[i].ID == id {
			return &wallets[i]
		}
	}
	return nil
}

// FindWalletByName returns the first wallet with the given display name, or nil.
func FindWalletByName(wallets []Wallet, name string) *Wallet {
	for i := range wallets {
		if wallets[i].Name == name {
			return &wallets[i]
		}
	}
	return nil
}

// DefaultWallet picks the wallet whose name contains "default", falling back
// to the first wallet. It returns nil when there are no wallets.
func DefaultWallet(wallets []Wallet) *Wallet {
	for i := range wallets {
		if strings.Contains(strings.ToLower(wallets[i].Name), "default") {
			return &wallets[i]
		}
	}
	if len(wallets) > 0 {
		return &wallets[0]
	}
	return nil
}
