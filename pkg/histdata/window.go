package histdata

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/rxtech-lab/histdata/internal/types"
	"github.com/rxtech-lab/histdata/pkg/errors"
)

// Accepted input layouts for start/end dates, most specific first.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// EndTimestampLayout is the provider wire format for the end anchor.
const EndTimestampLayout = "20060102 15:04:05"

// ResolutionMode identifies which of the four request-window cases applied.
type ResolutionMode string

const (
	ModeDateRange       ResolutionMode = "date_range"
	ModeSingleDay       ResolutionMode = "single_day"
	ModeDurationWithEnd ResolutionMode = "duration_with_end"
	ModeDurationOnly    ResolutionMode = "duration_only"
)

// RequestWindow is the user's partial description of the request span.
// Built once from CLI input and never mutated.
type RequestWindow struct {
	StartDate       optional.Option[string]
	EndDate         optional.Option[string]
	DefaultDuration Duration
	Session         types.SessionMode
}

// ResolvedRequest is the canonical end-anchor + duration pair derived from a
// RequestWindow. EndTimestamp is never empty: an explicit anchor is always
// supplied so the provider cannot silently truncate the session at "now".
type ResolvedRequest struct {
	EndTimestamp string
	End          time.Time
	Duration     Duration
	Mode         ResolutionMode
}

// DurationString returns the duration in the provider grammar.
func (r ResolvedRequest) DurationString() string {
	return r.Duration.String()
}

// parsedDate is a parsed input date plus whether the input carried an
// explicit time-of-day component.
type parsedDate struct {
	t       time.Time
	hasTime bool
}

func parseInputDate(raw string) (parsedDate, error) {
	for i, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return parsedDate{t: t, hasTime: i < 2}, nil
		}
	}

	return parsedDate{}, errors.Newf(errors.ErrCodeInvalidDateFormat,
		"invalid date format %q, use YYYY-MM-DD, YYYY-MM-DD HH:MM or YYYY-MM-DD HH:MM:SS", raw)
}

// sessionCloseAnchor applies the end-anchor derivation rule: a date without an
// explicit time-of-day is moved to the session close. Regular hours close at
// 16:00 on the same calendar day; the extended post-market session runs until
// 02:00 on the following day. Dates that already carry a time are used verbatim.
func sessionCloseAnchor(d parsedDate, session types.SessionMode) time.Time {
	if d.hasTime {
		return d.t
	}

	if session == types.SessionExtended {
		next := d.t.AddDate(0, 0, 1)

		return time.Date(next.Year(), next.Month(), next.Day(), 2, 0, 0, 0, d.t.Location())
	}

	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), 16, 0, 0, 0, d.t.Location())
}

// ResolveWindow turns a RequestWindow into the canonical (end anchor, duration)
// pair. The four cases are selected by which of start/end are present:
//
//   - both:    duration is the inclusive day span (years above 365 days),
//     anchored at the end date
//   - start:   a single day ("1 D") anchored at the start date's session close
//   - end:     the default duration anchored at the end date
//   - neither: the default duration anchored at today's session close
//
// now supplies the current moment for the neither-date case so the resolver
// stays a pure function of its inputs.
func ResolveWindow(win RequestWindow, now time.Time) (ResolvedRequest, error) {
	var start, end *parsedDate

	if win.StartDate.IsSome() {
		d, err := parseInputDate(win.StartDate.Unwrap())
		if err != nil {
			return ResolvedRequest{}, err
		}

		start = &d
	}

	if win.EndDate.IsSome() {
		d, err := parseInputDate(win.EndDate.Unwrap())
		if err != nil {
			return ResolvedRequest{}, err
		}

		end = &d
	}

	if start != nil && end != nil && start.t.After(end.t) {
		return ResolvedRequest{}, errors.Newf(errors.ErrCodeInvalidDateRange,
			"start date %s is after end date %s", win.StartDate.Unwrap(), win.EndDate.Unwrap())
	}

	switch {
	case start != nil && end != nil:
		// Inclusive day count; the provider grammar caps day-denominated
		// spans at a year.
		days := int(end.t.Sub(start.t).Hours()/24) + 1
		anchor := sessionCloseAnchor(*end, win.Session)

		return ResolvedRequest{
			EndTimestamp: anchor.Format(EndTimestampLayout),
			End:          anchor,
			Duration:     DurationForDays(days),
			Mode:         ModeDateRange,
		}, nil

	case start != nil:
		// The fetch parameter is always an end anchor plus a backward-looking
		// duration, so a single-day request anchors at the start date's close.
		anchor := sessionCloseAnchor(*start, win.Session)

		return ResolvedRequest{
			EndTimestamp: anchor.Format(EndTimestampLayout),
			End:          anchor,
			Duration:     Duration{Magnitude: 1, Unit: UnitDay},
			Mode:         ModeSingleDay,
		}, nil

	case end != nil:
		anchor := sessionCloseAnchor(*end, win.Session)

		return ResolvedRequest{
			EndTimestamp: anchor.Format(EndTimestampLayout),
			End:          anchor,
			Duration:     win.DefaultDuration,
			Mode:         ModeDurationWithEnd,
		}, nil

	default:
		// Anchor at today's session close rather than sending an empty end
		// timestamp, which would truncate the session at the request instant.
		today := parsedDate{t: now, hasTime: false}
		anchor := sessionCloseAnchor(today, win.Session)

		return ResolvedRequest{
			EndTimestamp: anchor.Format(EndTimestampLayout),
			End:          anchor,
			Duration:     win.DefaultDuration,
			Mode:         ModeDurationOnly,
		}, nil
	}
}
