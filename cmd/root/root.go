// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trakli/webui/internal/config"
	"github.com/trakli/webui/internal/container"
	"github.com/trakli/webui/internal/logging"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	Snapshot   string
	Source     string
	LogLevel   string
}

var (
	// Log is the shared logger instance for commands. It writes to stderr so
	// that reports on stdout stay machine readable.
	Log logging.Logger = logging.NewNopLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "trakli",
		Short: "Personal finance statistics from the trakli API or a local snapshot.",
		Long: `trakli computes income, expense and wallet statistics over a selectable
period, either from the trakli REST API or from a local YAML snapshot.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// SharedFlags holds the parsed persistent flags.
	SharedFlags = GlobalFlags{}

	cfg *config.Config
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.trakli, .trakli and .)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Snapshot, "snapshot", "s", "", "YAML snapshot to read instead of the API")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Source, "source", "", "Statistics source: local or remote")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(nil)

	loaded, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	ApplyFlags(loaded, SharedFlags)

	Log = logging.NewLogrusAdapterWithOutput(loaded.Log.Level, loaded.Log.Format, os.Stderr)
	cfg = loaded
	return nil
}

// ApplyFlags overrides configuration values with the flags that were set.
// A snapshot flag selects the snapshot even when an API URL is configured.
func ApplyFlags(c *config.Config, flags GlobalFlags) {
	if flags.Snapshot != "" {
		c.Data.SnapshotFile = flags.Snapshot
		c.API.BaseURL = ""
	}
	if flags.Source != "" {
		c.Statistics.Source = flags.Source
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
}

// Config returns the configuration loaded for the running command.
func Config() *config.Config {
	return cfg
}

// OpenContainer wires the application for the running command. The caller
// must Close it.
func OpenContainer() (*container.Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainer(cfg, container.WithLogger(Log))
}
