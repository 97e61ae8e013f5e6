// Package main provides the entry point for the trakli statistics CLI.
package main

import (
	"fmt"
	"os"

	"github.com/trakli/webui/cmd/periods"
	"github.com/trakli/webui/cmd/root"
	"github.com/trakli/webui/cmd/stats"
	"github.com/trakli/webui/cmd/wallets"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(wallets.Cmd)
	root.Cmd.AddCommand(periods.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
