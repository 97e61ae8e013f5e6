// Package container provides dependency injection for the trakli statistics
// CLI. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"errors"
	"fmt"
	"time"

	"github.com/trakli/webui/internal/aggregator"
	"github.com/trakli/webui/internal/api"
	"github.com/trakli/webui/internal/config"
	"github.com/trakli/webui/internal/currencyutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/report"
	"github.com/trakli/webui/internal/statistics"
	"github.com/trakli/webui/internal/store"
)

// ErrNoDataSource is returned when neither an API base URL nor a snapshot
// file is configured.
var ErrNoDataSource = errors.New("no data source configured: set api.base_url or data.snapshot_file")

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	converter  *currencyutils.Converter
	aggregator *aggregator.Aggregator
	source     store.DataSource
	apiClient  *api.Client
	shared     *store.Shared
	engine     *statistics.Engine
	reports    *report.Generator
}

// Option customizes NewContainer.
type Option func(*options)

type options struct {
	logger   logging.Logger
	clock    statistics.Clock
	location *time.Location
	source   store.DataSource
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock injects the engine's notion of "now".
func WithClock(clock statistics.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithLocation sets the zone calendar windows are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

// WithDataSource replaces the API or snapshot data source.
func WithDataSource(source store.DataSource) Option {
	return func(o *options) { o.source = source }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	rates := currencyutils.DefaultRates()
	for code, rate := range cfg.Statistics.Rates {
		rates[currencyutils.NormalizeCode(code)] = rate
	}
	converter := currencyutils.NewConverter(rates)
	agg := aggregator.NewAggregator(converter, logger, o.location)

	var apiClient *api.Client
	source := o.source
	if source == nil {
		switch {
		case cfg.API.BaseURL != "":
			client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Token, logger,
				api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
				api.WithLocation(o.location))
			if err != nil {
				return nil, fmt.Errorf("failed to create API client: %w", err)
			}
			apiClient = client
			source = client
		case cfg.Data.SnapshotFile != "":
			source = store.NewSnapshotStore(cfg.Data.SnapshotFile, logger)
		default:
			return nil, ErrNoDataSource
		}
	}

	var remote statistics.RemoteSource
	if apiClient != nil {
		remote = apiClient
	} else if cfg.Statistics.Source == models.SourceRemote {
		logger.Warn("Remote statistics need api.base_url, computing locally")
	}

	shared := store.NewShared(source, cfg.Statistics.DefaultCurrency, logger)

	engine, err := statistics.NewEngine(statistics.Options{
		Source:     cfg.Statistics.Source,
		Aggregator: agg,
		Remote:     remote,
		Shared:     shared,
		Clock:      o.clock,
		Location:   o.location,
		Logger:     logger,
		Locale:     cfg.Statistics.Locale,
	})
	if err != nil {
		_ = shared.Close()
		return nil, fmt.Errorf("failed to create statistics engine: %w", err)
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldSource, cfg.Statistics.Source),
		logging.F("remote_enabled", remote != nil))

	return &Container{
		logger:     logger,
		config:     cfg,
		converter:  converter,
		aggregator: agg,
		source:     source,
		apiClient:  apiClient,
		shared:     shared,
		engine:     engine,
		reports:    report.NewGenerator(logger, cfg.Statistics.Locale, cfg.Output.Delimiter),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetConverter returns the currency converter built from statistics.rates.
func (c *Container) GetConverter() *currencyutils.Converter {
	return c.converter
}

func (c *Container) GetAggregator() *aggregator.Aggregator {
	return c.aggregator
}

// GetDataSource returns the API client or the snapshot store.
func (c *Container) GetDataSource() store.DataSource {
	return c.source
}

// GetAPIClient returns the REST client, or nil in snapshot mode.
func (c *Container) GetAPIClient() *api.Client {
	return c.apiClient
}

// GetShared returns the session store.
func (c *Container) GetShared() *store.Shared {
	return c.shared
}

// GetEngine returns the statistics engine.
func (c *Container) GetEngine() *statistics.Engine {
	return c.engine
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close detaches the engine and drops the session data.
func (c *Container) Close() error {
	c.engine.Close()
	if err := c.shared.Close(); err != nil && !errors.Is(err, store.ErrClosed) {
		return err
	}
	c.logger.Debug("Container closed")
	return nil
}
