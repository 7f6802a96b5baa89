package calendar

import "time"

// DateRange is a possibly half-open selection. A zero Start or End is unset.
// When both are set, Start is not after End by day (see NormalizeRange).
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsEmpty reports whether neither end is set.
func (r DateRange) IsEmpty() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsComplete reports whether both ends are set.
func (r DateRange) IsComplete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// NormalizeRange swaps the ends when Start falls after End. Same-day ranges
// and half-open ranges are returned unchanged.
func NormalizeRange(r DateRange) DateRange {
	if r.IsComplete() && CompareDays(r.Start, r.End) > 0 {
		return DateRange{Start: r.End, End: r.Start}
	}
	return r
}

// IsBetweenInclusive reports whether d lies between a and b in either order.
func IsBetweenInclusive(d, a, b time.Time) bool {
	lo, hi := a, b
	if CompareDays(a, b) > 0 {
		lo, hi = b, a
	}
	return CompareDays(d, lo) >= 0 && CompareDays(d, hi) <= 0
}

// RangeState is the progress of a range selection.
type RangeState int

const (
	RangeEmpty RangeState = iota
	RangeStartOnly
	RangeComplete
)

func (s RangeState) String() string {
	switch s {
	case RangeStartOnly:
		return "start_only"
	case RangeComplete:
		return "complete"
	}
	return "empty"
}

// StateOf classifies r. A range with only End set counts as Empty, since a
// click can never produce it.
func StateOf(r DateRange) RangeState {
	switch {
	case r.IsComplete():
		return RangeComplete
	case !r.Start.IsZero():
		return RangeStartOnly
	}
	return RangeEmpty
}

// RangeSelector applies the two-click range policy within optional bounds.
type RangeSelector struct {
	Min, Max time.Time
	Range    DateRange
}

// State returns the current selection progress.
func (s *RangeSelector) State() RangeState {
	return StateOf(s.Range)
}

// Select feeds one clicked day. From Empty or Complete it starts a new range;
// from StartOnly it completes and normalizes the range. Days outside the
// bounds are rejected and leave the state untouched.
func (s *RangeSelector) Select(day time.Time) bool {
	if !IsWithinRange(day, s.Min, s.Max) {
		return false
	}
	switch s.State() {
	case RangeStartOnly:
		s.Range = NormalizeRange(DateRange{Start: s.Range.Start, End: day})
	default:
		s.Range = DateRange{Start: day}
	}
	return true
}

// Reset clears the selection.
func (s *RangeSelector) Reset() {
	s.Range = DateRange{}
}

// Preview returns the range a hover over day would display. Only a
// StartOnly selection previews; the preview is not normalized.
func (s *RangeSelector) Preview(hover time.Time) (DateRange, bool) {
	if s.State() != RangeStartOnly || hover.IsZero() {
		return s.Range, false
	}
	return DateRange{Start: s.Range.Start, End: hover}, true
}
