package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

const (
	categoryTransfer      = "Transfer"
	categoryUncategorized = "Uncategorized"
)

var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	dateutils.DateLayoutFull,
}

// ToWallet converts an API wallet into the engine's wallet.
func (w ApiWallet) ToWallet() models.Wallet {
	return models.Wallet{
		ID:          w.ID,
		Name:        w.Name,
		Currency:    strings.ToUpper(w.Currency),
		Type:        w.Type,
		Description: w.Description,
		Balance:     w.Balance.Float64(),
	}
}

// DeduplicateWallets drops wallets whose id was already seen; the first
// occurrence wins.
func DeduplicateWallets(wallets []ApiWallet) []ApiWallet {
	seen := make(map[int64]bool, len(wallets))
	out := make([]ApiWallet, 0, len(wallets))
	for _, w := range wallets {
		if seen[w.ID] {
			continue
		}
		seen[w.ID] = true
		out = append(out, w)
	}
	return out
}

// Mapper turns API transactions into display-ready transactions.
type Mapper struct {
	walletsByClientID map[string]ApiWallet
	partiesByClientID map[string]ApiParty
	loc               *time.Location
	logger            logging.Logger

	// FallbackCurrency is used for transactions whose wallet is unknown.
	FallbackCurrency string
}

// NewMapper indexes wallets and parties by client-generated id.
func NewMapper(wallets []ApiWallet, parties []ApiParty, loc *time.Location, logger logging.Logger) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	m := &Mapper{
		walletsByClientID: make(map[string]ApiWallet, len(wallets)),
		partiesByClientID: make(map[string]ApiParty, len(parties)),
		loc:               loc,
		logger:            logger,
		FallbackCurrency:  currencyutils.DefaultCurrency,
	}
	for _, w := range wallets {
		if w.SyncState != nil && w.SyncState.ClientGeneratedID != "" {
			m.walletsByClientID[w.SyncState.ClientGeneratedID] = w
		}
	}
	for _, p := range parties {
		if p.SyncState != nil && p.SyncState.ClientGeneratedID != "" {
			m.partiesByClientID[p.SyncState.ClientGeneratedID] = p
		}
	}
	return m
}

func (m *Mapper) resolveWallet(tx ApiTransaction) *ApiWallet {
	if tx.Wallet != nil {
		return tx.Wallet
	}
	if w, ok := m.walletsByClientID[tx.WalletClientGeneratedID]; ok && tx.WalletClientGeneratedID != "" {
		return &w
	}
	return nil
}

func (m *Mapper) resolveParty(tx ApiTransaction) *ApiParty {
	if tx.Party != nil {
		return tx.Party
	}
	if p, ok := m.partiesByClientID[tx.PartyClientGeneratedID]; ok && tx.PartyClientGeneratedID != "" {
		return &p
	}
	return nil
}

// splitDatetime returns the local date and "HH:MM" time of an API
// timestamp.
func (m *Mapper) splitDatetime(datetime string) (string, string) {
	datetime = strings.TrimSpace(datetime)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, datetime); err == nil {
			local := t.In(m.loc)
			return local.Format(dateutils.DateLayoutISO), local.Format(dateutils.TimeLayout)
		}
	}
	if len(datetime) >= len(dateutils.DateLayoutISO) {
		return datetime[:len(dateutils.DateLayoutISO)], ""
	}
	return datetime, ""
}

// ToTransaction maps one API transaction. The amount is rendered as
// "<amount with 2 decimals> <wallet currency>".
func (m *Mapper) ToTransaction(tx ApiTransaction) models.Transaction {
	date, clock := m.splitDatetime(tx.Datetime)

	txType, err := models.ParseTransactionType(tx.Type)
	if err != nil {
		m.logger.Warn("Unknown transaction type",
			logging.F("transaction_id", tx.ID),
			logging.F(logging.FieldError, err.Error()))
		txType = models.TransactionType(strings.ToUpper(tx.Type))
	}

	out := models.Transaction{
		ID:          strconv.FormatInt(tx.ID, 10),
		Date:        date,
		Time:        clock,
		Type:        txType,
		Description: tx.Description,
	}

	currency := m.FallbackCurrency
	if wallet := m.resolveWallet(tx); wallet != nil {
		out.Wallet = wallet.Name
		out.WalletID = strconv.FormatInt(wallet.ID, 10)
		if wallet.Currency != "" {
			currency = strings.ToUpper(wallet.Currency)
		} else {
			m.logger.Warn("Wallet has no currency", logging.F("transaction_id", tx.ID))
		}
	} else {
		m.logger.Warn("No wallet found for transaction",
			logging.F("transaction_id", tx.ID),
			logging.F("wallet_client_generated_id", tx.WalletClientGeneratedID))
	}
	out.Amount = fmt.Sprintf("%.2f %s", tx.Amount.Float64(), currency)

	if party := m.resolveParty(tx); party != nil {
		out.Party = party.Name
	}

	names := make([]string, 0, len(tx.Categories))
	for _, c := range tx.Categories {
		names = append(names, c.Name)
	}
	switch {
	case len(names) > 0:
		out.Category = strings.Join(names, ", ")
	case tx.TransferID != nil && *tx.TransferID != 0:
		out.Category = categoryTransfer
	default:
		out.Category = categoryUncategorized
	}
	return out
}
