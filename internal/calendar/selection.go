package calendar

import (
	"slices"
	"time"
)

// Kind tags the shape of a Selection. It is fixed when the Selection is built.
type Kind int

const (
	KindSingle Kind = iota
	KindMultiple
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindMultiple:
		return "multiple"
	case KindRange:
		return "range"
	}
	return "single"
}

// Selection is the value held by a picker: one optional day, a set of days,
// or a range.
type Selection struct {
	kind   Kind
	single time.Time
	days   []time.Time
	rng    DateRange
}

// Single builds a single-day selection; a zero t means nothing is selected.
func Single(t time.Time) Selection {
	return Selection{kind: KindSingle, single: t}
}

// Multiple builds a set of days, de-duplicated by day and sorted ascending.
func Multiple(days ...time.Time) Selection {
	s := Selection{kind: KindMultiple}
	for _, d := range days {
		if !d.IsZero() && !s.Contains(d) {
			s.days = append(s.days, d)
		}
	}
	slices.SortFunc(s.days, CompareDays)
	return s
}

// Range builds a range selection, normalized.
func Range(r DateRange) Selection {
	return Selection{kind: KindRange, rng: NormalizeRange(r)}
}

// Kind returns the selection's tag.
func (s Selection) Kind() Kind { return s.kind }

// Single returns the selected day of a KindSingle selection.
func (s Selection) Single() (time.Time, bool) {
	return s.single, s.kind == KindSingle && !s.single.IsZero()
}

// Days returns the selected days of a KindMultiple selection.
func (s Selection) Days() []time.Time {
	if s.kind != KindMultiple {
		return nil
	}
	return slices.Clone(s.days)
}

// DateRange returns the range of a KindRange selection.
func (s Selection) DateRange() (DateRange, bool) {
	return s.rng, s.kind == KindRange
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	switch s.kind {
	case KindMultiple:
		return len(s.days) == 0
	case KindRange:
		return s.rng.IsEmpty()
	}
	return s.single.IsZero()
}

// Contains reports whether day is selected. For ranges only set ends and the
// days between two set ends count.
func (s Selection) Contains(day time.Time) bool {
	switch s.kind {
	case KindMultiple:
		return slices.ContainsFunc(s.days, func(d time.Time) bool { return IsSameDay(d, day) })
	case KindRange:
		if s.rng.IsComplete() {
			return IsBetweenInclusive(day, s.rng.Start, s.rng.End)
		}
		return !s.rng.Start.IsZero() && IsSameDay(day, s.rng.Start)
	}
	return !s.single.IsZero() && IsSameDay(s.single, day)
}

// Toggle adds day to a KindMultiple selection or removes it when present.
// Other kinds are returned unchanged.
func (s Selection) Toggle(day time.Time) Selection {
	if s.kind != KindMultiple {
		return s
	}
	kept := slices.DeleteFunc(slices.Clone(s.days), func(d time.Time) bool { return IsSameDay(d, day) })
	if len(kept) == len(s.days) {
		kept = append(kept, day)
	}
	return Multiple(kept...)
}

// Anchor returns the day a picker should open on: the single day, the first
// of several, or the range start.
func (s Selection) Anchor() (time.Time, bool) {
	switch s.kind {
	case KindMultiple:
		if len(s.days) > 0 {
			return s.days[0], true
		}
	case KindRange:
		if !s.rng.Start.IsZero() {
			return s.rng.Start, true
		}
		if !s.rng.End.IsZero() {
			return s.rng.End, true
		}
	default:
		if !s.single.IsZero() {
			return s.single, true
		}
	}
	return time.Time{}, false
}

// Map applies fn to every set instant, keeping the kind.
func (s Selection) Map(fn func(time.Time) time.Time) Selection {
	switch s.kind {
	case KindMultiple:
		out := make([]time.Time, len(s.days))
		for i, d := range s.days {
			out[i] = fn(d)
		}
		return Multiple(out...)
	case KindRange:
		r := s.rng
		if !r.Start.IsZero() {
			r.Start = fn(r.Start)
		}
		if !r.End.IsZero() {
			r.End = fn(r.End)
		}
		return Range(r)
	}
	if s.single.IsZero() {
		return s
	}
	return Single(fn(s.single))
}
