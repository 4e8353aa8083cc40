package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"leanixcli/internal/chart"
	"leanixcli/internal/config"
	"leanixcli/internal/infrastructure"
	"leanixcli/internal/report"
	"leanixcli/internal/services"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a portfolio spreadsheet and generate reports",
		Long: `Analyze loads a LeanIX export (.xlsx or .csv), scores its data
quality, computes business, security and performance aggregates, and
writes the report in the requested format.

Examples:
  # Analyze the configured input file, print the console report
  leanix analyze

  # Analyze a specific file
  leanix analyze exports/portfolio.xlsx

  # Write a Markdown report to a file
  leanix analyze -f markdown -o reports/portfolio.md

  # Skip HTML chart generation
  leanix analyze --charts=false`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().StringP("format", "f", string(report.FormatConsole),
		"Report format: console, markdown or json")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the given file instead of stdout (bare names go to the reports directory)")
	cmd.Flags().Bool("charts", true,
		"Generate HTML chart files in the configured charts directory")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	withCharts, err := cmd.Flags().GetBool("charts")
	if err != nil {
		return err
	}

	inputPath := ""
	if len(args) > 0 {
		inputPath = args[0]
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	service := services.NewAnalysisService(cfg, logger, nil, nil)
	snapshot, err := service.Analyze(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	output := os.Stdout
	if outputPath != "" {
		// Bare file names land in the configured reports directory.
		if filepath.Dir(outputPath) == "." && outputPath == filepath.Base(outputPath) {
			outputPath = cfg.ReportPath(outputPath)
		}
		dir := filepath.Dir(outputPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := report.NewWriter(report.Format(format), output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(snapshot); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if withCharts {
		generator := chart.NewGenerator(cfg.Paths.ChartsDir, logger)
		files, err := generator.Generate(ctx, snapshot)
		if err != nil {
			return fmt.Errorf("failed to generate charts: %w", err)
		}
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "chart written: %s\n", f)
		}
	}

	return nil
}

// loadConfig resolves the configuration file flag and loads the config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		configFile, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			configFile = ""
		}
	}

	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}
