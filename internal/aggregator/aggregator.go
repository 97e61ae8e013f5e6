// Package aggregator computes breakdowns, trends and totals over an
// in-memory transaction list.
package aggregator

import (
	"strconv"
	"time"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/dateutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// Scope selects how amounts are aggregated. A nil WalletID is the
// all-wallets view: amounts are converted into ReferenceCurrency. With a
// WalletID set, amounts are taken as already in that wallet's currency.
type Scope struct {
	ReferenceCurrency string
	WalletID          *int64
}

// Converted reports whether amounts are converted in this scope.
func (s Scope) Converted() bool {
	return s.WalletID == nil
}

// Entry is a transaction with its date and amount parsed once.
type Entry struct {
	models.Transaction
	// Day is local midnight of the transaction date.
	Day time.Time
	// At is Day plus the time of day when known.
	At      time.Time
	HasTime bool
	Value   currencyutils.Amount
}

// Aggregator handles the aggregation of transactions into statistics.
type Aggregator struct {
	converter *currencyutils.Converter
	logger    logging.Logger
	loc       *time.Location
}

// NewAggregator creates a new Aggregator. A nil location means time.Local.
func NewAggregator(converter *currencyutils.Converter, logger logging.Logger, loc *time.Location) *Aggregator {
	if converter == nil {
		converter = currencyutils.NewConverter(nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{
		converter: converter,
		logger:    logger,
		loc:       loc,
	}
}

// Location returns the time zone used to read transaction dates.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Converter returns the converter used for the all-wallets view.
func (a *Aggregator) Converter() *currencyutils.Converter {
	return a.converter
}

// Prepare parses dates and amounts of transactions. Transactions whose date
// cannot be read are dropped since they cannot fall in any window; malformed
// amounts count as zero.
func (a *Aggregator) Prepare(transactions []models.Transaction) []Entry {
	entries := make([]Entry, 0, len(transactions))
	skipped := 0

	for _, tx := range transactions {
		day, err := dateutils.ParseLocalDate(tx.Date, a.loc)
		if err != nil {
			skipped++
			a.logger.Debug("Skipping transaction with unreadable date",
				logging.F(logging.FieldOperation, "prepare"),
				logging.F("transaction_id", tx.ID),
				logging.F(logging.FieldError, err.Error()))
			continue
		}

		amount, err := currencyutils.ParseAmountStrict(tx.Amount)
		if err != nil {
			a.logger.Debug("Treating malformed amount as zero",
				logging.F(logging.FieldOperation, "prepare"),
				logging.F("transaction_id", tx.ID),
				logging.F(logging.FieldError, err.Error()))
		}

		at, _ := dateutils.ParseLocalDateTime(tx.Date, tx.Time, a.loc)
		entries = append(entries, Entry{
			Transaction: tx,
			Day:         day,
			At:          at,
			HasTime:     tx.Time != "",
			Value:       amount,
		})
	}

	if skipped > 0 {
		a.logger.Warn("Some transactions were skipped",
			logging.F(logging.FieldCount, skipped),
			logging.F("total", len(transactions)))
	}
	return entries
}

// amountIn returns the entry's amount in the scope's currency.
func (a *Aggregator) amountIn(e Entry, scope Scope) float64 {
	if !scope.Converted() {
		return e.Value.Value
	}
	return a.converter.Convert(e.Value.Value, e.Value.Currency, scope.ReferenceCurrency)
}

// FilterByRange keeps entries whose day lies in r, bounds included.
func FilterByRange(entries []Entry, r dateutils.DateRange) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Day) {
			out = append(out, e)
		}
	}
	return out
}

// FilterBefore keeps entries in [r.Start, r.End).
func FilterBefore(entries []Entry, r dateutils.DateRange) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if r.ContainsBefore(e.Day) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByWallet keeps entries booked on wallet, matched by display name.
// A nil wallet matches nothing.
func FilterByWallet(entries []Entry, wallet *models.Wallet) []Entry {
	out := make([]Entry, 0, len(entries))
	if wallet == nil {
		return out
	}
	for _, e := range entries {
		if e.Wallet == wallet.Name {
			out = append(out, e)
		}
	}
	return out
}

// FilterByWalletIDs keeps entries booked on one of the given wallets, matched
// by wallet id or by display name. An empty id list keeps everything.
func FilterByWalletIDs(entries []Entry, ids []int64, wallets []models.Wallet) []Entry {
	if len(ids) == 0 {
		return entries
	}

	names := make(map[string]bool, len(ids))
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[strconv.FormatInt(id, 10)] = true
		if w := models.FindWallet(wallets, id); w != nil {
			names[w.Name] = true
		}
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if names[e.Wallet] || (e.WalletID != "" && idSet[e.WalletID]) {
			out = append(out, e)
		}
	}
	return out
}

// OfType keeps entries of the given transaction type.
func OfType(entries []Entry, txType models.TransactionType) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Type == txType {
			out = append(out, e)
		}
	}
	return out
}
