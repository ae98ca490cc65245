package histdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/histdata/pkg/errors"
)

// DurationUnit is a unit of the provider's duration grammar.
type DurationUnit string

const (
	UnitSecond DurationUnit = "S"
	UnitDay    DurationUnit = "D"
	UnitWeek   DurationUnit = "W"
	UnitMonth  DurationUnit = "M"
	UnitYear   DurationUnit = "Y"
)

// Duration is a backward-looking span measured from an end anchor.
// It models the provider's "<integer> <unit>" string grammar as a tagged
// value; String serializes back to the wire form at the boundary.
type Duration struct {
	Magnitude int
	Unit      DurationUnit
}

// String renders the duration in the provider grammar, e.g. "30 D".
func (d Duration) String() string {
	return fmt.Sprintf("%d %s", d.Magnitude, d.Unit)
}

// ParseDuration parses a provider-grammar duration string such as "30 D",
// "6 M" or "1 Y". The unit letter is case-insensitive.
func ParseDuration(s string) (Duration, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Duration{}, errors.Newf(errors.ErrCodeInvalidDuration,
			"invalid duration %q, expected \"<integer> <unit>\" with unit one of S, D, W, M, Y", s)
	}

	magnitude, err := strconv.Atoi(fields[0])
	if err != nil || magnitude <= 0 {
		return Duration{}, errors.Newf(errors.ErrCodeInvalidDuration,
			"invalid duration magnitude %q, expected a positive integer", fields[0])
	}

	unit := DurationUnit(strings.ToUpper(fields[1]))
	switch unit {
	case UnitSecond, UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return Duration{}, errors.Newf(errors.ErrCodeInvalidDuration,
			"invalid duration unit %q, expected one of S, D, W, M, Y", fields[1])
	}

	return Duration{Magnitude: magnitude, Unit: unit}, nil
}

// DurationForDays converts an inclusive day count into the provider grammar:
// day-denominated up to a year, whole years above that.
func DurationForDays(days int) Duration {
	if days <= 365 {
		return Duration{Magnitude: days, Unit: UnitDay}
	}

	return Duration{Magnitude: days / 365, Unit: UnitYear}
}

// SubtractFrom returns the start of the window ending at t.
// Calendar units use calendar arithmetic, not fixed 24h days.
func (d Duration) SubtractFrom(t time.Time) time.Time {
	switch d.Unit {
	case UnitSecond:
		return t.Add(-time.Duration(d.Magnitude) * time.Second)
	case UnitDay:
		return t.AddDate(0, 0, -d.Magnitude)
	case UnitWeek:
		return t.AddDate(0, 0, -7*d.Magnitude)
	case UnitMonth:
		return t.AddDate(0, -d.Magnitude, 0)
	case UnitYear:
		return t.AddDate(-d.Magnitude, 0, 0)
	default:
		return t
	}
}
