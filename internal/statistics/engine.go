// Package statistics resolves the active wallet, period and filters into a
// WalletStatistics value, from the remote statistics endpoint or from a
// local recomputation, and republishes it whenever its inputs change.
package statistics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trakli/webui/internal/aggregator"
	"github.com/trakli/webui/internal/api"
	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/parsererror"
)

// LoadFailedMessage is published in State.Error when no statistics could be
// computed.
const LoadFailedMessage = "Failed to load statistics"

// Clock returns the current time.
type Clock func() time.Time

// RemoteSource serves server-computed statistics.
type RemoteSource interface {
	FetchStatistics(ctx context.Context, params api.StatsParams) (*api.StatsPayload, error)
}

// SharedData is the session data the engine aggregates over.
type SharedData interface {
	Transactions() []models.Transaction
	Wallets() []models.Wallet
	DefaultCurrency() string
	Subscribe(fn func()) func()
}

// Options configures an Engine. Shared is required; Remote is only used when
// Source is models.SourceRemote.
type Options struct {
	Source     string
	Aggregator *aggregator.Aggregator
	Remote     RemoteSource
	Shared     SharedData
	Clock      Clock
	Location   *time.Location
	Logger     logging.Logger
	Locale     string
}

// State is a snapshot of the engine's output slot. Statistics is nil until
// a computation succeeded, and again after a failed one.
type State struct {
	Statistics *models.WalletStatistics
	IsLoading  bool
	Error      string
	Seq        uint64
}

// Engine is the statistics orchestrator.
type Engine struct {
	source string
	agg    *aggregator.Aggregator
	remote RemoteSource
	shared SharedData
	clock  Clock
	loc    *time.Location
	logger logging.Logger
	locale string

	mu       sync.Mutex
	walletID *int64
	period   models.Period
	custom   *models.CustomFilters
	seq      uint64
	state    State

	watchMu   sync.Mutex
	watchers  map[int]func(State)
	nextWatch int

	unsubscribe func()
}

// NewEngine creates an engine and subscribes it to changes of the shared
// data. Call Close to unsubscribe.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Shared == nil {
		return nil, errors.New("statistics engine requires shared data")
	}

	source := strings.ToLower(strings.TrimSpace(opts.Source))
	switch source {
	case "":
		source = models.SourceLocal
	case models.SourceLocal, models.SourceRemote:
	default:
		return nil, &parsererror.ValidationError{Field: "statistics source", Reason: fmt.Sprintf("unknown value %q", opts.Source)}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	agg := opts.Aggregator
	if agg == nil {
		agg = aggregator.NewAggregator(nil, logger, loc)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	locale := opts.Locale
	if locale == "" {
		locale = currencyutils.DefaultLocale
	}

	e := &Engine{
		source:   source,
		agg:      agg,
		remote:   opts.Remote,
		shared:   opts.Shared,
		clock:    clock,
		loc:      loc,
		logger:   logger.WithField(logging.FieldComponent, "statistics"),
		locale:   locale,
		period:   models.PeriodAllTime,
		watchers: make(map[int]func(State)),
	}
	e.unsubscribe = opts.Shared.Subscribe(func() {
		_ = e.Refresh(context.Background())
	})
	return e, nil
}

// Close detaches the engine from the shared data.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// SelectedWallet returns the selected wallet id, nil for all wallets.
func (e *Engine) SelectedWallet() *int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneID(e.walletID)
}

// Period returns the active period.
func (e *Engine) Period() models.Period {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.period
}

// CustomFilters returns a copy of the active custom filters, or nil.
func (e *Engine) CustomFilters() *models.CustomFilters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.custom.Clone()
}

// SetSelectedWallet selects a wallet (nil for all wallets) and recomputes
// when the selection changed.
func (e *Engine) SetSelectedWallet(ctx context.Context, id *int64) {
	e.mu.Lock()
	changed := !sameID(e.walletID, id)
	e.walletID = cloneID(id)
	e.mu.Unlock()

	if changed {
		_ = e.Refresh(ctx)
	}
}

// SetPeriod selects a period and recomputes when it changed.
func (e *Engine) SetPeriod(ctx context.Context, key string) error {
	period, err := models.ParsePeriod(key)
	if err != nil {
		return err
	}
	e.logger.Debug("Setting period", logging.F(logging.FieldPeriod, string(period)))

	e.mu.Lock()
	changed := e.period != period
	e.period = period
	e.mu.Unlock()

	if changed {
		_ = e.Refresh(ctx)
	}
	return nil
}

// SetCustomFilters switches to the custom period narrowed by filters. The
// recompute is skipped when neither the period nor the filters changed.
func (e *Engine) SetCustomFilters(ctx context.Context, filters models.CustomFilters) error {
	if err := validateFilters(filters, e.loc); err != nil {
		return err
	}

	e.mu.Lock()
	changed := e.period != models.PeriodCustom || !e.custom.Equal(&filters)
	e.custom = filters.Clone()
	e.period = models.PeriodCustom
	e.mu.Unlock()

	if changed {
		_ = e.Refresh(ctx)
	}
	return nil
}

// Select replaces the wallet, the period and the custom filters in one step
// without recomputing. A non-nil custom switches the period to custom. The
// next Refresh, or the next change of the shared data, uses the selection.
func (e *Engine) Select(walletID *int64, periodKey string, custom *models.CustomFilters) error {
	period := models.PeriodCustom
	if custom != nil {
		if err := validateFilters(*custom, e.loc); err != nil {
			return err
		}
	} else {
		p, err := models.ParsePeriod(periodKey)
		if err != nil {
			return err
		}
		period = p
	}

	e.mu.Lock()
	e.walletID = cloneID(walletID)
	e.period = period
	e.custom = custom.Clone()
	e.mu.Unlock()
	return nil
}

// ClearCustomFilters drops the custom filters and recomputes when any were
// set.
func (e *Engine) ClearCustomFilters(ctx context.Context) {
	e.mu.Lock()
	changed := e.custom != nil
	e.custom = nil
	e.mu.Unlock()

	if changed {
		_ = e.Refresh(ctx)
	}
}

// State returns the current output slot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Watch registers fn to receive every published state. The returned func
// removes the watcher.
func (e *Engine) Watch(fn func(State)) func() {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	id := e.nextWatch
	e.nextWatch++
	e.watchers[id] = fn
	return func() {
		e.watchMu.Lock()
		defer e.watchMu.Unlock()
		delete(e.watchers, id)
	}
}

func (e *Engine) publish(s State) {
	e.watchMu.Lock()
	fns := make([]func(State), 0, len(e.watchers))
	for i := 0; i < e.nextWatch; i++ {
		if fn, ok := e.watchers[i]; ok {
			fns = append(fns, fn)
		}
	}
	e.watchMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Refresh recomputes the output slot from the current inputs. When another
// Refresh starts before this one finishes, this result is discarded so the
// latest trigger always wins. Failures are published in the state and also
// returned.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	walletID := cloneID(e.walletID)
	period := e.period
	custom := e.custom.Clone()
	e.state.IsLoading = true
	e.state.Error = ""
	loading := e.state
	e.mu.Unlock()
	e.publish(loading)

	runID := uuid.NewString()
	logger := e.logger.WithFields(
		logging.F(logging.FieldRunID, runID),
		logging.F(logging.FieldSeq, seq),
		logging.F(logging.FieldPeriod, string(period)))

	stats, err := e.compute(ctx, logger, walletID, period, custom)

	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		logger.Debug("Discarding superseded statistics")
		return nil
	}
	e.state.IsLoading = false
	e.state.Seq = seq
	if err != nil {
		e.state.Error = LoadFailedMessage
		e.state.Statistics = nil
	} else {
		e.state.Error = ""
		e.state.Statistics = stats
	}
	published := e.state
	e.mu.Unlock()

	if err != nil {
		logger.WithError(err).Error("Error loading current statistics")
	}
	e.publish(published)
	return err
}

// GetStatistics computes statistics for walletID (nil for all wallets) and
// period without touching the output slot. The engine's custom filters
// apply to the custom period.
func (e *Engine) GetStatistics(ctx context.Context, walletID *int64, period models.Period) (*models.WalletStatistics, error) {
	if !period.Valid() {
		return nil, &parsererror.ValidationError{Field: "period", Reason: fmt.Sprintf("unknown value %q", period)}
	}
	logger := e.logger.WithFields(
		logging.F(logging.FieldRunID, uuid.NewString()),
		logging.F(logging.FieldPeriod, string(period)))
	return e.compute(ctx, logger, walletID, period, e.CustomFilters())
}

// compute resolves statistics from the remote endpoint when enabled and
// falls back to the local computation on any remote failure.
func (e *Engine) compute(ctx context.Context, logger logging.Logger, walletID *int64, period models.Period, custom *models.CustomFilters) (*models.WalletStatistics, error) {
	if period != models.PeriodCustom {
		custom = nil
	}
	now := e.clock()

	if e.source == models.SourceRemote && e.remote != nil {
		stats, err := e.computeRemote(ctx, walletID, period, custom, now)
		if err == nil {
			logger.Debug("Statistics served remotely", logging.F(logging.FieldSource, models.SourceRemote))
			return stats, nil
		}
		logger.WithError(err).Warn("Remote statistics failed, computing locally")
	}

	stats, err := e.computeLocal(walletID, period, custom, now)
	if err != nil {
		return nil, err
	}
	logger.Debug("Statistics computed locally",
		logging.F(logging.FieldSource, models.SourceLocal),
		logging.F(logging.FieldCount, stats.TransactionCount))
	return stats, nil
}

// primaryCurrency is the selected wallet's currency, or the default currency
// for the all-wallets view.
func (e *Engine) primaryCurrency(walletID *int64, wallets []models.Wallet) string {
	if walletID != nil {
		if w := models.FindWallet(wallets, *walletID); w != nil && w.Currency != "" {
			return strings.ToUpper(w.Currency)
		}
		return currencyutils.DefaultCurrency
	}
	return e.shared.DefaultCurrency()
}

// AvailableWallets lists the all-wallets entry followed by every wallet.
func (e *Engine) AvailableWallets() []models.WalletOption {
	wallets := e.shared.Wallets()
	out := make([]models.WalletOption, 0, len(wallets)+1)
	out = append(out, models.WalletOption{Name: models.AllWalletsName, Currency: e.shared.DefaultCurrency()})
	for _, w := range wallets {
		id := w.ID
		out = append(out, models.WalletOption{ID: &id, Name: w.Name, Currency: w.Currency})
	}
	return out
}

// AvailablePeriods lists the selectable periods.
func (e *Engine) AvailablePeriods() []models.StatisticsPeriod {
	return models.AvailablePeriods()
}

// FormatCurrency renders amount with two decimals and the currency symbol;
// an empty code means USD.
func (e *Engine) FormatCurrency(amount float64, code string) string {
	return currencyutils.FormatCurrency(amount, currencyutils.NormalizeCode(code), e.locale)
}

// FormatCompactCurrency renders amount in compact notation.
func (e *Engine) FormatCompactCurrency(amount float64, code string) string {
	return currencyutils.FormatCompactCurrency(amount, currencyutils.NormalizeCode(code), e.locale)
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
