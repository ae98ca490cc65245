package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/histdata/internal/logger"
	"github.com/rxtech-lab/histdata/internal/prompt"
	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/histdata"
	"github.com/rxtech-lab/histdata/pkg/histdata/provider"
)

// downloadAction is the core logic executed by the CLI command. It builds the
// immutable run configuration, wires the client and starts the download.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	// .env is optional; an explicit --env file must exist.
	if envFile := cmd.String("env"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	runConfig := histdata.DefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		runConfig, err = histdata.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	timeframe, err := histdata.ParseTimeframe(cmd.String("timeframe"))
	if err != nil {
		return err
	}

	defaultDuration := runConfig.DefaultDuration
	if cmd.String("duration") != "" {
		defaultDuration = cmd.String("duration")
	}

	duration, err := histdata.ParseDuration(defaultDuration)
	if err != nil {
		return err
	}

	session := types.SessionRegular
	if cmd.Bool("eth") {
		session = types.SessionExtended
	}

	window := histdata.RequestWindow{
		StartDate:       optionalString(cmd.String("start-date")),
		EndDate:         optionalString(cmd.String("end-date")),
		DefaultDuration: duration,
		Session:         session,
	}

	clientConfig := histdata.ClientConfig{
		ProviderType:   provider.ProviderType(cmd.String("provider")),
		Format:         histdata.OutputFormat(cmd.String("format")),
		PolygonApiKey:  os.Getenv("POLYGON_API_KEY"),
		Run:            runConfig,
		ConflictPolicy: histdata.Interactive(prompt.Run),
	}

	client, err := histdata.NewClient(clientConfig, log, nil)
	if err != nil {
		return err
	}

	params := histdata.DownloadParams{
		Symbol:     cmd.String("symbol"),
		Timeframe:  timeframe,
		Timezone:   histdata.TimezoneSelector(cmd.String("timezone")),
		Window:     window,
		OutputPath: cmd.String("output"),
		Overwrite:  cmd.Bool("overwrite"),
	}

	result, err := client.Download(ctx, params, func(resolved histdata.ResolvedRequest, warnings []string) {
		printResolved(params, resolved)
	})
	if err != nil {
		return err
	}

	switch {
	case result.Cancelled:
		log.Info("operation cancelled by user; no file was written")
	case !result.Written:
		log.Info("nothing to write")
	default:
		log.Info("done",
			zap.Int("rows", result.Rows),
			zap.String("output", result.OutputPath))
	}

	return nil
}

// printResolved echoes the resolved request before the fetch starts.
func printResolved(params histdata.DownloadParams, resolved histdata.ResolvedRequest) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Symbol", params.Symbol},
		{"Mode", string(resolved.Mode)},
		{"Timeframe", string(params.Timeframe)},
		{"Duration", resolved.DurationString()},
		{"End anchor", resolved.EndTimestamp},
		{"Timezone", string(params.Timezone)},
		{"Session", string(params.Window.Session)},
	})
	t.Render()
}

func optionalString(s string) optional.Option[string] {
	if s == "" {
		return optional.None[string]()
	}

	return optional.Some(s)
}

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:  "histdata",
		Usage: "Download historical OHLCV data for a symbol and save it as CSV or Parquet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Symbol to download",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timeframe",
				Aliases: []string{"t"},
				Usage:   "Bar size, e.g. \"1 min\", \"1 hour\", \"1 day\"",
				Value:   string(histdata.Timeframe1Day),
			},
			&cli.StringFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "History duration when no date range is given, e.g. \"30 D\", \"6 M\", \"1 Y\"",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output filename (auto-generated if not specified)",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Overwrite existing files without prompting",
			},
			&cli.StringFlag{
				Name:  "timezone",
				Usage: "Output timezone: UTC, market or local",
				Value: string(histdata.TimezoneMarket),
			},
			&cli.StringFlag{
				Name:    "start-date",
				Aliases: []string{"from"},
				Usage:   "Start date (YYYY-MM-DD or YYYY-MM-DD HH:MM[:SS])",
			},
			&cli.StringFlag{
				Name:    "end-date",
				Aliases: []string{"to"},
				Usage:   "End date (YYYY-MM-DD or YYYY-MM-DD HH:MM[:SS])",
			},
			&cli.BoolFlag{
				Name:  "eth",
				Usage: "Include extended trading hours (pre-market and after-hours)",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s, %s)", provider.ProviderPolygon, provider.ProviderBinance),
				Value:   string(provider.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: fmt.Sprintf("Output format (%s, %s)", histdata.FormatCSV, histdata.FormatDuckDB),
				Value: string(histdata.FormatCSV),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML run config (contract defaults, data type)",
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to a .env file with provider credentials",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
