package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// NewRootCmd creates the root command for the analyzer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leanix",
		Short: "Analyze LeanIX enterprise architecture exports",
		Long: `leanix analyzes LeanIX application portfolio spreadsheets and produces
data quality scores, business, security and performance aggregates,
reports in console, Markdown and JSON formats, and HTML charts.

The serve command starts an interactive dashboard with a REST API and
live updates over websocket.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: config.yaml, overridable via LEANIX_CONFIG_FILE)")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
