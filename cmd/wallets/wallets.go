// Package wallets implements the wallets command
package wallets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trakli/webui/cmd/root"
	"github.com/trakli/webui/internal/container"
)

var asJSON bool

// Cmd represents the wallets command
var Cmd = &cobra.Command{
	Use:   "wallets",
	Short: "List the wallets statistics can be scoped to",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.OpenContainer()
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				root.Log.WithError(err).Warn("Failed to close application")
			}
		}()
		return Run(cmd.Context(), app, asJSON, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
}

// Run loads the data and prints the wallet selector entries.
func Run(ctx context.Context, app *container.Container, asJSON bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.GetShared().Load(ctx, false); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}
	options := app.GetEngine().AvailableWallets()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(options)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCURRENCY")
	for _, o := range options {
		id := "-"
		if o.ID != nil {
			id = strconv.FormatInt(*o.ID, 10)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", id, o.Name, o.Currency)
	}
	return w.Flush()
}
