package histdata

import (
	"strconv"
	"strings"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/histdata/pkg/errors"
)

// Timeframe is a bar-size label from the fixed provider catalog.
type Timeframe string

const (
	Timeframe1Sec    Timeframe = "1 secs"
	Timeframe5Secs   Timeframe = "5 secs"
	Timeframe10Secs  Timeframe = "10 secs"
	Timeframe15Secs  Timeframe = "15 secs"
	Timeframe30Secs  Timeframe = "30 secs"
	Timeframe1Min    Timeframe = "1 min"
	Timeframe2Mins   Timeframe = "2 mins"
	Timeframe3Mins   Timeframe = "3 mins"
	Timeframe5Mins   Timeframe = "5 mins"
	Timeframe10Mins  Timeframe = "10 mins"
	Timeframe15Mins  Timeframe = "15 mins"
	Timeframe20Mins  Timeframe = "20 mins"
	Timeframe30Mins  Timeframe = "30 mins"
	Timeframe1Hour   Timeframe = "1 hour"
	Timeframe2Hours  Timeframe = "2 hours"
	Timeframe3Hours  Timeframe = "3 hours"
	Timeframe4Hours  Timeframe = "4 hours"
	Timeframe8Hours  Timeframe = "8 hours"
	Timeframe1Day    Timeframe = "1 day"
	Timeframe1Week   Timeframe = "1 week"
	Timeframe1Month  Timeframe = "1 month"
)

// TimeframeCategory groups the catalog by granularity.
type TimeframeCategory string

const (
	CategorySubMinute TimeframeCategory = "sub_minute"
	CategoryMinute    TimeframeCategory = "minute"
	CategoryHour      TimeframeCategory = "hour"
	CategoryDayPlus   TimeframeCategory = "day_plus"
)

// Timeframes returns the full catalog of supported bar sizes, smallest first.
func Timeframes() []Timeframe {
	return []Timeframe{
		Timeframe1Sec, Timeframe5Secs, Timeframe10Secs, Timeframe15Secs, Timeframe30Secs,
		Timeframe1Min, Timeframe2Mins, Timeframe3Mins, Timeframe5Mins, Timeframe10Mins,
		Timeframe15Mins, Timeframe20Mins, Timeframe30Mins,
		Timeframe1Hour, Timeframe2Hours, Timeframe3Hours, Timeframe4Hours, Timeframe8Hours,
		Timeframe1Day, Timeframe1Week, Timeframe1Month,
	}
}

// ParseTimeframe validates a bar-size label against the catalog.
func ParseTimeframe(label string) (Timeframe, error) {
	for _, tf := range Timeframes() {
		if string(tf) == label {
			return tf, nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unsupported timeframe %q", label)
}

// Category returns the granularity bucket of the timeframe.
func (t Timeframe) Category() TimeframeCategory {
	switch t {
	case Timeframe1Sec, Timeframe5Secs, Timeframe10Secs, Timeframe15Secs, Timeframe30Secs:
		return CategorySubMinute
	case Timeframe1Min, Timeframe2Mins, Timeframe3Mins, Timeframe5Mins, Timeframe10Mins,
		Timeframe15Mins, Timeframe20Mins, Timeframe30Mins:
		return CategoryMinute
	case Timeframe1Hour, Timeframe2Hours, Timeframe3Hours, Timeframe4Hours, Timeframe8Hours:
		return CategoryHour
	default:
		return CategoryDayPlus
	}
}

// Intraday reports whether bars of this size carry a time-of-day component.
// Daily, weekly and monthly bars are date-only.
func (t Timeframe) Intraday() bool {
	return t.Category() != CategoryDayPlus
}

// SubMinuteRisk reports whether the timeframe is subject to the provider's
// availability limit: bars of 30 seconds or smaller older than 6 months
// cannot be fetched.
func (t Timeframe) SubMinuteRisk() bool {
	return t.Category() == CategorySubMinute
}

// Multiplier returns the numeric magnitude of the label, e.g. 5 for "5 mins".
func (t Timeframe) Multiplier() int {
	fields := strings.Fields(string(t))
	if len(fields) != 2 {
		return 1
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 1
	}

	return n
}

// Timespan maps the label's unit onto the Polygon aggregate timespan.
func (t Timeframe) Timespan() models.Timespan {
	switch t.Category() {
	case CategorySubMinute:
		return models.Second
	case CategoryMinute:
		return models.Minute
	case CategoryHour:
		return models.Hour
	case CategoryDayPlus:
		switch t {
		case Timeframe1Week:
			return models.Week
		case Timeframe1Month:
			return models.Month
		default:
			return models.Day
		}
	default:
		return models.Day
	}
}

// Abbrev returns the despaced, unit-abbreviated filename token for the label,
// e.g. "5 mins" -> "5m", "1 month" -> "1M".
func (t Timeframe) Abbrev() string {
	s := strings.ReplaceAll(string(t), " ", "")
	s = strings.ReplaceAll(s, "secs", "s")
	s = strings.ReplaceAll(s, "mins", "m")
	s = strings.ReplaceAll(s, "min", "m")
	s = strings.ReplaceAll(s, "hour", "h")
	s = strings.ReplaceAll(s, "day", "d")
	s = strings.ReplaceAll(s, "week", "w")
	s = strings.ReplaceAll(s, "month", "M")

	return s
}

// AvailabilityWarnings returns human-readable warnings for timeframe/duration
// combinations the provider limits. These are advisory: the request still runs.
func (t Timeframe) AvailabilityWarnings(d Duration) []string {
	if !t.SubMinuteRisk() {
		return nil
	}

	warnings := []string{
		"timeframe " + string(t) + " with duration " + d.String() + " may hit provider pacing limits",
		"bars 30 seconds or smaller older than 6 months are not available from the provider",
	}

	if d.Unit == UnitYear {
		warnings = append(warnings, "small timeframes with yearly durations may result in very large datasets")
	}

	return warnings
}
