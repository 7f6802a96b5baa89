// Package calendar provides Jalali-aware day arithmetic, month grids, range
// handling and text parsing on top of an injected jalali.Converter.
//
// Values are Gregorian time.Time instants. Day identity is the local
// year/month/day of each instant; time-of-day is ignored by every comparison.
package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// Calendar is a stateless service bound to one conversion primitive.
// It is safe for concurrent use when its Converter is.
type Calendar struct {
	conv jalali.Converter
}

// New wraps conv. A nil conv selects jalali.NewCivil(time.Local).
func New(conv jalali.Converter) *Calendar {
	if conv == nil {
		conv = jalali.NewCivil(time.Local)
	}
	return &Calendar{conv: conv}
}

// ToJalaliParts returns the Jalali day of t.
func (c *Calendar) ToJalaliParts(t time.Time) jalali.Parts {
	return c.conv.ToJalali(t)
}

// FromJalaliParts returns local noon of the Jalali day p.
func (c *Calendar) FromJalaliParts(p jalali.Parts) (time.Time, error) {
	return c.conv.FromJalali(p)
}

// Format renders t as a Jalali YYYY/MM/DD string.
func (c *Calendar) Format(t time.Time) string {
	return FormatJalaliParts(c.conv.ToJalali(t), config.JalaliSeparator)
}

// FormatJalaliParts pads and joins parts; an empty sep selects "/".
func FormatJalaliParts(p jalali.Parts, sep string) string {
	if sep == "" {
		sep = config.JalaliSeparator
	}
	return jalali.Format(p, sep)
}

// dayStamp collapses a local calendar date onto a comparable UTC midnight.
func dayStamp(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompareDays returns -1, 0 or 1 comparing the local calendar dates of a and b.
func CompareDays(a, b time.Time) int {
	return dayStamp(a).Compare(dayStamp(b))
}

// IsSameDay reports whether a and b fall on the same local calendar date.
func IsSameDay(a, b time.Time) bool {
	return CompareDays(a, b) == 0
}

// IsWithinRange is inclusive on both bounds. A zero bound is unbounded.
func IsWithinRange(d, minDate, maxDate time.Time) bool {
	if !minDate.IsZero() && CompareDays(d, minDate) < 0 {
		return false
	}
	if !maxDate.IsZero() && CompareDays(d, maxDate) > 0 {
		return false
	}
	return true
}

// ClampToRange returns the violated bound, or d itself when within range.
func ClampToRange(d, minDate, maxDate time.Time) time.Time {
	if !minDate.IsZero() && CompareDays(d, minDate) < 0 {
		return minDate
	}
	if !maxDate.IsZero() && CompareDays(d, maxDate) > 0 {
		return maxDate
	}
	return d
}

// AddDays moves t by n local calendar days, keeping its wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween counts calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	return int(dayStamp(b).Sub(dayStamp(a)).Hours() / 24)
}

// MonthRef identifies a Jalali month.
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// AddMonths shifts ref by delta months with year carry. The modulo is kept
// positive so negative deltas cross year boundaries correctly.
func AddMonths(ref MonthRef, delta int) MonthRef {
	idx := ref.Year*config.MonthsPerYear + (ref.Month - 1) + delta
	year := idx / config.MonthsPerYear
	month := idx % config.MonthsPerYear
	if month < 0 {
		month += config.MonthsPerYear
		year--
	}
	return MonthRef{Year: year, Month: month + 1}
}

// Month returns the Jalali month containing t.
func (c *Calendar) Month(t time.Time) MonthRef {
	p := c.conv.ToJalali(t)
	return MonthRef{Year: p.Year, Month: p.Month}
}

// FirstOfMonth returns local noon of day 1 of the month.
func (c *Calendar) FirstOfMonth(ref MonthRef) (time.Time, error) {
	return c.conv.FromJalali(jalali.Parts{Year: ref.Year, Month: ref.Month, Day: 1})
}

// MonthLength derives the number of days in Jalali month jm of jy from two
// conversions, leaving leap-year handling entirely to the primitive.
func (c *Calendar) MonthLength(jy, jm int) (int, error) {
	ref := MonthRef{Year: jy, Month: jm}
	start, err := c.FirstOfMonth(ref)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrMonthLength, err)
	}
	next, err := c.FirstOfMonth(AddMonths(ref, 1))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrMonthLength, err)
	}
	return DaysBetween(start, next), nil
}

// AddJalaliMonths moves t by delta Jalali months, clamping the day of month
// to the target month's length (31 -> 30 rather than spilling forward).
// The result is local noon of the target day.
func (c *Calendar) AddJalaliMonths(t time.Time, delta int) (time.Time, error) {
	p := c.conv.ToJalali(t)
	target := AddMonths(MonthRef{Year: p.Year, Month: p.Month}, delta)

	maxDay, err := c.MonthLength(target.Year, target.Month)
	if err != nil {
		return time.Time{}, err
	}
	return c.conv.FromJalali(jalali.Parts{
		Year:  target.Year,
		Month: target.Month,
		Day:   min(p.Day, maxDay),
	})
}

// Span returns the first day of ref and the first day of the month n months later.
func (c *Calendar) Span(ref MonthRef, n int) (start, endExclusive time.Time, err error) {
	if start, err = c.FirstOfMonth(ref); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endExclusive, err = c.FirstOfMonth(AddMonths(ref, n)); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, endExclusive, nil
}

// MonthSpan is Span over a single month.
func (c *Calendar) MonthSpan(ref MonthRef) (start, endExclusive time.Time, err error) {
	return c.Span(ref, 1)
}

// YearSpan is Span from Farvardin 1 of jy to Farvardin 1 of jy+1.
func (c *Calendar) YearSpan(jy int) (start, endExclusive time.Time, err error) {
	return c.Span(MonthRef{Year: jy, Month: 1}, config.MonthsPerYear)
}

// IntersectsLimits reports whether [start, endExclusive) overlaps [minDate, maxDate].
func IntersectsLimits(start, endExclusive, minDate, maxDate time.Time) bool {
	if !minDate.IsZero() && CompareDays(endExclusive, minDate) <= 0 {
		return false
	}
	if !maxDate.IsZero() && CompareDays(start, maxDate) > 0 {
		return false
	}
	return true
}
