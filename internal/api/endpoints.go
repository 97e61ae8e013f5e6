package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// Endpoint paths relative to the API base URL.
const (
	PathTransactions   = "/transactions"
	PathWallets        = "/wallets"
	PathParties        = "/parties"
	PathConfigurations = "/configurations"
	PathStats          = "/stats"

	// ConfigKeyCurrency is the user setting holding the default currency.
	ConfigKeyCurrency = "default-currency"
)

// Statistics presets understood by GET /stats.
const (
	PresetAllTime      = "all_time"
	PresetCurrentWeek  = "current_week"
	PresetCurrentMonth = "current_month"
	PresetLast3Months  = "last_3_months"
)

// StatsParams selects the window and wallets of a statistics request.
// Either Preset or a StartDate/EndDate pair is set.
type StatsParams struct {
	Preset    string
	StartDate string
	EndDate   string
	WalletIDs []int64
}

// Query encodes the parameters, skipping empty ones.
func (p StatsParams) Query() url.Values {
	q := url.Values{}
	if p.Preset != "" {
		q.Set("preset", p.Preset)
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	if len(p.WalletIDs) > 0 {
		ids := make([]string, len(p.WalletIDs))
		for i, id := range p.WalletIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		q.Set("wallet_ids", strings.Join(ids, ","))
	}
	return q
}

func fetchList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	env, err := DecodeEnvelope[[]T](path, body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Fetched collection",
		logging.F(logging.FieldEndpoint, path),
		logging.F(logging.FieldCount, len(env.Data)),
		logging.F("wrapped", env.Wrapped))
	return env.Data, nil
}

// FetchTransactions returns the raw transaction list.
func (c *Client) FetchTransactions(ctx context.Context) ([]ApiTransaction, error) {
	return fetchList[ApiTransaction](ctx, c, PathTransactions)
}

// FetchWallets returns the raw wallet list with duplicates removed.
func (c *Client) FetchWallets(ctx context.Context) ([]ApiWallet, error) {
	wallets, err := fetchList[ApiWallet](ctx, c, PathWallets)
	if err != nil {
		return nil, err
	}
	return DeduplicateWallets(wallets), nil
}

// FetchParties returns the raw party list.
func (c *Client) FetchParties(ctx context.Context) ([]ApiParty, error) {
	return fetchList[ApiParty](ctx, c, PathParties)
}

// FetchConfigurations returns the user settings.
func (c *Client) FetchConfigurations(ctx context.Context) ([]ConfigurationItem, error) {
	return fetchList[ConfigurationItem](ctx, c, PathConfigurations)
}

// DefaultCurrency returns the configured default currency, or "" when the
// user has not set one.
func (c *Client) DefaultCurrency(ctx context.Context) (string, error) {
	items, err := c.FetchConfigurations(ctx)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.Key == ConfigKeyCurrency {
			return strings.ToUpper(strings.TrimSpace(item.StringValue())), nil
		}
	}
	return "", nil
}

// FetchStatistics requests server-computed statistics. Identical requests
// in flight at the same time share one HTTP call. The shared call outlives
// the caller that started it; each caller stops waiting when its own ctx is
// done.
func (c *Client) FetchStatistics(ctx context.Context, params StatsParams) (*StatsPayload, error) {
	query := params.Query()
	key := query.Encode()

	ch := c.stats.DoChan(key, func() (interface{}, error) {
		body, err := c.get(context.WithoutCancel(ctx), PathStats, query)
		if err != nil {
			return nil, err
		}
		env, err := DecodeEnvelope[StatsPayload](PathStats, body)
		if err != nil {
			return nil, err
		}
		return &env.Data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("Statistics request coalesced", logging.F("query", key))
		}
		return res.Val.(*StatsPayload), nil
	}
}

// Wallets returns the user's wallets.
func (c *Client) Wallets(ctx context.Context) ([]models.Wallet, error) {
	raw, err := c.FetchWallets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Wallet, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.ToWallet())
	}
	return out, nil
}

// Transactions returns display-ready transactions. Wallets and parties are
// fetched alongside to resolve references by client-generated id.
func (c *Client) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var (
		txs     []ApiTransaction
		wallets []ApiWallet
		parties []ApiParty
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = c.FetchTransactions(gctx)
		return err
	})
	g.Go(func() (err error) {
		wallets, err = c.FetchWallets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		parties, err = c.FetchParties(gctx)
		if err != nil {
			c.logger.WithError(err).Warn("Parties unavailable, party names fall back to nested objects")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mapper := NewMapper(wallets, parties, c.loc, c.logger)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, mapper.ToTransaction(tx))
	}
	return out, nil
}
