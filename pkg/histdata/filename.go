package histdata

import (
	"strings"

	"github.com/rxtech-lab/histdata/internal/types"
)

// Filename builds the deterministic output filename:
//
//	SYMBOL_SECURITYTYPE[_FUTUREMONTH]_DURATION_TIMEFRAME[_ETH]_OHLCV.csv
//
// Duration and timeframe tokens are despaced and unit-abbreviated. Collision
// avoidance is not handled here; that is the conflict resolver's job.
func Filename(symbol string, securityType types.SecurityType, duration Duration, timeframe Timeframe, futureMonth string, extended bool) string {
	parts := []string{
		strings.ToUpper(symbol),
		string(securityType),
	}

	if securityType == types.SecurityFuture && futureMonth != "" {
		parts = append(parts, futureMonth)
	}

	parts = append(parts, strings.ReplaceAll(duration.String(), " ", ""), timeframe.Abbrev())

	if extended {
		parts = append(parts, "ETH")
	}

	parts = append(parts, "OHLCV")

	return strings.Join(parts, "_") + ".csv"
}
