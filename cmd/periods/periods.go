// Package periods implements the periods command
package periods

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trakli/webui/internal/models"
)

// Cmd represents the periods command
var Cmd = &cobra.Command{
	Use:   "periods",
	Short: "List the selectable statistics periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout())
	},
}

// Run prints the period selector entries.
func Run(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tLABEL\tDAYS")
	for _, p := range models.AvailablePeriods() {
		days := "-"
		if p.Days > 0 {
			days = fmt.Sprint(p.Days)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Value, p.Label, days)
	}
	return w.Flush()
}
