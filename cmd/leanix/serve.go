package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"leanixcli/internal/app"
)

//go:embed web
var webFS embed.FS

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the interactive dashboard server",
		Long: `Serve starts the HTTP server with the dashboard page, the REST API,
Prometheus metrics and websocket updates.

On startup the configured input file is analyzed once so the dashboard
has data to show. POST /api/analyze re-runs the analysis and notifies
connected clients over the websocket.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().IntP("port", "p", 0,
		"Listen port (overrides the configured server port)")

	return cmd
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if port, err := cmd.Flags().GetInt("port"); err == nil && port > 0 {
		cfg.Server.Port = port
	}

	frontend, err := fs.Sub(webFS, "web")
	if err != nil {
		return fmt.Errorf("failed to load embedded frontend: %w", err)
	}

	application, err := app.NewApplication(cfg, version, frontend)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	go application.RunInitialAnalysis(ctx)

	return application.Run(ctx)
}
