package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// ErrClosed is returned by a Shared store after Close.
var ErrClosed = errors.New("session store is closed")

// Shared holds the session's transactions, wallets and default currency and
// notifies subscribers whenever they change.
type Shared struct {
	source           DataSource
	logger           logging.Logger
	fallbackCurrency string

	mu              sync.RWMutex
	loaded          bool
	closed          bool
	transactions    []models.Transaction
	wallets         []models.Wallet
	defaultCurrency string

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

// NewShared creates a session store over source. fallbackCurrency is used
// when the source has no configured currency; when empty, USD is used.
func NewShared(source DataSource, fallbackCurrency string, logger logging.Logger) *Shared {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Shared{
		source:           source,
		logger:           logger.WithField(logging.FieldComponent, "shared"),
		fallbackCurrency: strings.ToUpper(strings.TrimSpace(fallbackCurrency)),
		subscribers:      make(map[int]func()),
	}
}

// Load fetches transactions, wallets and the default currency in parallel.
// Data already loaded is kept unless force is set. A failing currency lookup
// is logged and does not fail the load.
func (s *Shared) Load(ctx context.Context, force bool) error {
	s.mu.RLock()
	closed, loaded := s.closed, s.loaded
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if loaded && !force {
		return nil
	}
	if s.source == nil {
		return fmt.Errorf("no data source configured")
	}

	var (
		transactions []models.Transaction
		wallets      []models.Wallet
		currency     string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		transactions, err = s.source.Transactions(gctx)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		wallets, err = s.source.Wallets(gctx)
		if err != nil {
			return fmt.Errorf("failed to load wallets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		currency, err = s.source.DefaultCurrency(gctx)
		if err != nil {
			s.logger.WithError(err).Warn("Default currency unavailable, using fallback")
			currency = ""
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.transactions = transactions
	s.wallets = wallets
	s.defaultCurrency = strings.ToUpper(strings.TrimSpace(currency))
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Session data loaded",
		logging.F("transactions", len(transactions)),
		logging.F("wallets", len(wallets)),
		logging.F(logging.FieldCurrency, s.DefaultCurrency()))

	s.notify()
	return nil
}

// Loaded reports whether data has been loaded.
func (s *Shared) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Transactions returns a copy of the loaded transactions.
func (s *Shared) Transactions() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Wallets returns a copy of the loaded wallets.
func (s *Shared) Wallets() []models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wallets)
}

// SetTransactions replaces the transaction list and notifies subscribers.
func (s *Shared) SetTransactions(transactions []models.Transaction) {
	s.mu.Lock()
	s.transactions = slices.Clone(transactions)
	s.mu.Unlock()
	s.notify()
}

// SetWallets replaces the wallet list and notifies subscribers.
func (s *Shared) SetWallets(wallets []models.Wallet) {
	s.mu.Lock()
	s.wallets = slices.Clone(wallets)
	s.mu.Unlock()
	s.notify()
}

// DefaultCurrency returns the configured currency, then the fallback, then
// USD.
func (s *Shared) DefaultCurrency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.defaultCurrency != "":
		return s.defaultCurrency
	case s.fallbackCurrency != "":
		return s.fallbackCurrency
	default:
		return currencyutils.DefaultCurrency
	}
}

// DefaultWallet returns the wallet named like "default", else the first
// wallet, else nil.
func (s *Shared) DefaultWallet() *models.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := models.DefaultWallet(s.wallets)
	if w == nil {
		return nil
	}
	out := *w
	return &out
}

// Subscribe registers fn to run after every data change. The returned func
// removes the subscription.
func (s *Shared) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Shared) notify() {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subscribers[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Close drops the loaded data and all subscriptions.
func (s *Shared) Close() error {
	s.mu.Lock()
	s.closed = true
	s.transactions = nil
	s.wallets = nil
	s.mu.Unlock()

	s.subMu.Lock()
	s.subscribers = make(map[int]func())
	s.subMu.Unlock()

	s.logger.Debug("Session store closed")
	return nil
}
