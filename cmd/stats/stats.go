// Package stats implements the statistics command
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trakli/webui/cmd/root"
	"github.com/trakli/webui/internal/container"
	"github.com/trakli/webui/internal/fileutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/parsererror"
	"github.com/trakli/webui/internal/validation"
)

// Options are the flags of the stats command.
type Options struct {
	WalletID  *int64
	Period    string
	StartDate string
	EndDate   string
	WalletIDs []int64
	Format    string
	Output    string
}

// Custom reports whether any custom filter flag was given.
func (o Options) Custom() bool {
	return o.StartDate != "" || o.EndDate != "" || len(o.WalletIDs) > 0
}

var (
	opts   Options
	wallet int64

	// Cmd represents the stats command
	Cmd = &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for a wallet and period",
		Long: `Compute income, expense, party, category and wallet statistics for the
selected wallet (all wallets by default) over the selected period.

Passing --start, --end or --wallets switches to the custom period.`,
		RunE: statsFunc,
	}
)

func init() {
	Cmd.Flags().Int64VarP(&wallet, "wallet", "w", 0, "Wallet id (default all wallets)")
	Cmd.Flags().StringVarP(&opts.Period, "period", "p", string(models.PeriodAllTime), "Period: all_time, current_week, current_month, 90d, current_year or custom")
	Cmd.Flags().StringVar(&opts.StartDate, "start", "", "Custom period start date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&opts.EndDate, "end", "", "Custom period end date (YYYY-MM-DD)")
	Cmd.Flags().Int64SliceVar(&opts.WalletIDs, "wallets", nil, "Comma separated wallet ids for the custom period")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml or csv (default from config)")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to a file instead of stdout")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("wallet") {
		id := wallet
		opts.WalletID = &id
	}

	app, err := root.OpenContainer()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close application")
		}
	}()

	return Run(cmd.Context(), app, opts, cmd.OutOrStdout())
}

// Run loads the data, applies opts to the engine and writes the report to
// out, or to opts.Output when set.
func Run(ctx context.Context, app *container.Container, opts Options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := app.GetLogger()

	format := opts.Format
	if format == "" {
		format = app.GetConfig().Output.Format
	}
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}

	var custom *models.CustomFilters
	if opts.Custom() {
		custom = &models.CustomFilters{
			StartDate: opts.StartDate,
			EndDate:   opts.EndDate,
			WalletIDs: opts.WalletIDs,
		}
	}

	// Loading notifies the engine, which computes once with this selection.
	engine := app.GetEngine()
	if err := engine.Select(opts.WalletID, opts.Period, custom); err != nil {
		return err
	}

	before := engine.State().Seq
	if err := app.GetShared().Load(ctx, false); err != nil {
		if parsererror.IsUnauthorized(err) {
			return fmt.Errorf("the API rejected the token, check api.token: %w", err)
		}
		return fmt.Errorf("failed to load data: %w", err)
	}

	if engine.State().Seq == before {
		// Data was already loaded, so nothing triggered a computation.
		_ = engine.Refresh(ctx)
	}

	state := engine.State()
	if state.Statistics == nil {
		return fmt.Errorf("%w: %s", parsererror.ErrNoData, state.Error)
	}

	data, err := app.GetReportGenerator().GenerateReport(state.Statistics, format)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := fileutils.WriteFile(opts.Output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info("Report written",
			logging.F(logging.FieldFile, opts.Output),
			logging.F(logging.FieldFormat, format))
		return nil
	}

	_, err = out.Write(data)
	return err
}
