package histdata

import (
	"time"

	"github.com/rxtech-lab/histdata/internal/logger"
	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"

	"go.uber.org/zap"
)

// TimezoneSelector chooses the timezone output timestamps are rendered in.
type TimezoneSelector string

const (
	TimezoneUTC    TimezoneSelector = "UTC"
	TimezoneMarket TimezoneSelector = "market"
	TimezoneLocal  TimezoneSelector = "local"
)

// MarketZone is the exchange zone used for the "market" selector. The mapping
// deliberately ignores the symbol: US Eastern covers NYSE/NASDAQ listings,
// which is what this tool is pointed at today.
const MarketZone = "America/New_York"

// Timestamp layouts for rendered output rows.
const (
	intradayLayout = "2006-01-02 15:04:05"
	dailyLayout    = "2006-01-02"
)

// TargetZone resolves a timezone selector to a concrete zone. The symbol is
// accepted for future symbol-aware market mapping but is not consulted.
func TargetZone(selector TimezoneSelector, symbol string) (*time.Location, error) {
	switch selector {
	case TimezoneUTC:
		return time.UTC, nil
	case TimezoneLocal:
		return time.Local, nil
	case TimezoneMarket:
		zone, err := time.LoadLocation(MarketZone)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeUnknownTimezone, err, "failed to load market zone %s", MarketZone)
		}

		return zone, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownTimezone, "unknown timezone selector %q", selector)
	}
}

// ZoneAbbrev returns the zone abbreviation (e.g. EST, EDT) in effect at the
// given instant. Used once in the output column header, not per row.
func ZoneAbbrev(zone *time.Location, at time.Time) string {
	return at.In(zone).Format("MST")
}

// DateColumnName returns the header name of the timestamp column: plain
// "Date" for daily-and-above bars, "DateTime_<zone>" for intraday bars.
func DateColumnName(intraday bool, zone *time.Location, at time.Time) string {
	if !intraday {
		return "Date"
	}

	return "DateTime_" + ZoneAbbrev(zone, at)
}

// FormatBars converts each bar's UTC timestamp into the target zone and
// renders it as a date-time (intraday) or date-only (daily+) string. A bar
// whose timestamp could not be interpreted keeps its original raw value and
// produces a warning instead of aborting the batch. No rows are added or
// removed.
func FormatBars(bars []types.Bar, zone *time.Location, intraday bool, log *logger.Logger) []types.OutputRow {
	layout := dailyLayout
	if intraday {
		layout = intradayLayout
	}

	rows := make([]types.OutputRow, 0, len(bars))

	for _, bar := range bars {
		row := types.OutputRow{
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		}

		if bar.Time.IsZero() {
			row.Timestamp = bar.RawTime
			log.Warn("unparseable bar timestamp, leaving original value as is",
				zap.String("timestamp", bar.RawTime))
		} else {
			row.Timestamp = bar.Time.In(zone).Format(layout)
		}

		rows = append(rows, row)
	}

	return rows
}
