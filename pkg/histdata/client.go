// Package histdata resolves partial historical-data requests into complete
// provider request envelopes and persists the returned bars as timezone-
// converted, conflict-safe output files.
package histdata

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rxtech-lab/histdata/internal/logger"
	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"
	"github.com/rxtech-lab/histdata/pkg/histdata/provider"
	"github.com/rxtech-lab/histdata/pkg/histdata/writer"
)

// OutputFormat defines the type of output sink.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatDuckDB OutputFormat = "duckdb"
)

// ClientConfig holds the configuration for the download client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	Format        OutputFormat          `validate:"required,oneof=csv duckdb"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
	Run           Config
	// ConflictPolicy decides what happens when the output path exists and
	// no overwrite was requested. Defaults to AutoCancel.
	ConflictPolicy ConflictPolicy
}

// DownloadParams holds the parameters for a single download run.
type DownloadParams struct {
	Symbol    string           `validate:"required"`
	Timeframe Timeframe        `validate:"required"`
	Timezone  TimezoneSelector `validate:"required,oneof=UTC market local"`
	Window    RequestWindow
	// OutputPath overrides the generated filename when non-empty.
	OutputPath string
	Overwrite  bool
}

// RunResult describes what a download run produced.
type RunResult struct {
	Resolved   ResolvedRequest
	Warnings   []string
	Rows       int
	OutputPath string
	// Written is false when no rows came back or the write was skipped.
	Written bool
	// Cancelled is true when the user declined the conflict prompt. The run
	// still counts as successful; the skip is deliberate.
	Cancelled bool
}

// OnResolved is called once the request window has been resolved, before the
// fetch starts.
type OnResolved func(resolved ResolvedRequest, warnings []string)

// Client executes historical-data downloads end to end: resolve the request
// window, fetch, convert timezones and persist. Every run is independent
// given its inputs and the filesystem state it observes.
type Client struct {
	config     ClientConfig
	provider   provider.Provider
	validate   *validator.Validate
	log        *logger.Logger
	conflicts  ConflictResolver
	now        func() time.Time
	onProgress provider.OnProgress
}

// NewClient creates a new download client with the given configuration.
func NewClient(config ClientConfig, log *logger.Logger, onProgress provider.OnProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	if err := config.Run.Validate(); err != nil {
		return nil, err
	}

	var providerConfig any
	if config.ProviderType == provider.ProviderPolygon {
		providerConfig = config.PolygonApiKey
	}

	dataProvider, err := provider.NewProvider(config.ProviderType, providerConfig)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeUnsupportedProvider, err, "failed to create %s client", config.ProviderType)
	}

	return newClient(config, dataProvider, log, onProgress), nil
}

// NewClientWithProvider creates a client around an existing provider.
// Intended for tests that stub the fetch.
func NewClientWithProvider(config ClientConfig, dataProvider provider.Provider, log *logger.Logger) *Client {
	return newClient(config, dataProvider, log, nil)
}

func newClient(config ClientConfig, dataProvider provider.Provider, log *logger.Logger, onProgress provider.OnProgress) *Client {
	policy := config.ConflictPolicy
	if policy == nil {
		policy = AutoCancel
	}

	return &Client{
		config:     config,
		provider:   dataProvider,
		validate:   validator.New(),
		log:        log,
		conflicts:  NewConflictResolver(policy),
		now:        time.Now,
		onProgress: onProgress,
	}
}

// Download executes a single run. onResolved, when non-nil, is invoked with
// the resolved request and availability warnings before any network call.
func (c *Client) Download(ctx context.Context, params DownloadParams, onResolved OnResolved) (RunResult, error) {
	if err := c.validate.Struct(params); err != nil {
		return RunResult{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if _, err := ParseTimeframe(string(params.Timeframe)); err != nil {
		return RunResult{}, err
	}

	resolved, err := ResolveWindow(params.Window, c.now())
	if err != nil {
		return RunResult{}, err
	}

	warnings := params.Timeframe.AvailabilityWarnings(resolved.Duration)
	for _, warning := range warnings {
		c.log.Warn(warning,
			zap.String("timeframe", string(params.Timeframe)),
			zap.String("duration", resolved.DurationString()))
	}

	result := RunResult{
		Resolved: resolved,
		Warnings: warnings,
	}

	zone, err := TargetZone(params.Timezone, params.Symbol)
	if err != nil {
		return result, err
	}

	if onResolved != nil {
		onResolved(resolved, warnings)
	}

	req := c.buildRequest(params, resolved)

	c.log.Info("requesting historical data",
		zap.String("symbol", params.Symbol),
		zap.String("mode", string(resolved.Mode)),
		zap.String("duration", resolved.DurationString()),
		zap.String("end", resolved.EndTimestamp),
		zap.String("bar_size", string(params.Timeframe)),
		zap.Bool("use_rth", req.UseRTH))

	bars, err := c.provider.Fetch(ctx, req, c.onProgress)
	if err != nil {
		return result, errors.Wrapf(errors.ErrCodeFetchFailed, err, "fetch failed for %s", params.Symbol)
	}

	if len(bars) == 0 {
		c.logEmptyResponse(params.Timeframe)

		return result, nil
	}

	result.Rows = len(bars)
	intraday := params.Timeframe.Intraday()
	rows := FormatBars(bars, zone, intraday, c.log)

	path := params.OutputPath
	if path == "" {
		path = c.generatePath(params, resolved)
	}

	finalPath, proceed, err := c.conflicts.Resolve(path, params.Overwrite)
	if err != nil {
		return result, err
	}

	result.OutputPath = finalPath

	if !proceed {
		// Deliberately skipped write; the fetch itself succeeded.
		c.log.Info("download succeeded but the file was not saved, cancelled at conflict prompt",
			zap.String("path", path))
		result.Cancelled = true

		return result, nil
	}

	header := []string{
		DateColumnName(intraday, zone, c.now()),
		"Open", "High", "Low", "Close", "Volume",
	}

	if err := c.write(finalPath, header, rows); err != nil {
		return result, err
	}

	result.Written = true
	c.log.Info("historical data saved",
		zap.String("path", finalPath),
		zap.Int("rows", len(rows)))

	return result, nil
}

// buildRequest assembles the provider request envelope from the resolved
// window. The wire fields carry the provider grammar; the window bounds carry
// the same span as instants for range-based APIs.
func (c *Client) buildRequest(params DownloadParams, resolved ResolvedRequest) provider.Request {
	return provider.Request{
		Symbol:         params.Symbol,
		SecurityType:   c.config.Run.Contract.SecurityType,
		EndDateTime:    resolved.EndTimestamp,
		DurationStr:    resolved.DurationString(),
		BarSizeSetting: string(params.Timeframe),
		WhatToShow:     c.config.Run.WhatToShow,
		UseRTH:         params.Window.Session != types.SessionExtended,
		WindowStart:    resolved.Duration.SubtractFrom(resolved.End),
		WindowEnd:      resolved.End,
		Multiplier:     params.Timeframe.Multiplier(),
		Timespan:       params.Timeframe.Timespan(),
	}
}

func (c *Client) generatePath(params DownloadParams, resolved ResolvedRequest) string {
	path := Filename(
		params.Symbol,
		c.config.Run.Contract.SecurityType,
		resolved.Duration,
		params.Timeframe,
		c.config.Run.Contract.FutureMonth,
		params.Window.Session == types.SessionExtended,
	)

	if c.config.Format == FormatDuckDB {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".parquet"
	}

	return path
}

func (c *Client) write(path string, header []string, rows []types.OutputRow) error {
	var sink writer.Writer

	switch c.config.Format {
	case FormatDuckDB:
		sink = writer.NewDuckDBWriter(path)
	default:
		sink = writer.NewCSVWriter(path)
	}

	if err := sink.Initialize(header); err != nil {
		return err
	}

	defer sink.Close()

	for _, row := range rows {
		if err := sink.WriteRow(row); err != nil {
			return err
		}
	}

	if _, err := sink.Finalize(); err != nil {
		return err
	}

	return nil
}

// logEmptyResponse explains an empty fetch; this is a diagnostic, not an
// error, and no file is written.
func (c *Client) logEmptyResponse(timeframe Timeframe) {
	c.log.Info("no historical data received; no file written",
		zap.String("bar_size", string(timeframe)))
	c.log.Info("possible causes: no data for the requested period, missing market data subscription, or incorrect contract details")

	if timeframe.SubMinuteRisk() {
		c.log.Info("bars 30 seconds or smaller older than 6 months are not available from the provider")
	}
}
