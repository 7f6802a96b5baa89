// Package timeofday handles the hour:minute:second part of picker values.
//
// Direct entry saturates (Normalize clamps 99 minutes to 59) while the
// stepper wraps (Step takes hour 23 + 1 to 0).
package timeofday

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// Field names one component of a TimeOfDay.
type Field int

const (
	Hour Field = iota
	Minute
	Second
)

func (f Field) String() string {
	switch f {
	case Minute:
		return "minute"
	case Second:
		return "second"
	}
	return "hour"
}

// Cardinality is the number of distinct values of the field.
func (f Field) Cardinality() int {
	if f == Hour {
		return config.HoursPerDay
	}
	return config.MinutesPerHour
}

func clampFloor(v float64, hi int) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(max(0, min(float64(hi), math.Floor(v))))
}

// Normalize floors and clamps each component into range independently. A
// missing second is 0.
func Normalize(hour, minute float64, second ...float64) TimeOfDay {
	tod := TimeOfDay{
		Hour:   clampFloor(hour, config.HoursPerDay-1),
		Minute: clampFloor(minute, config.MinutesPerHour-1),
	}
	if len(second) > 0 {
		tod.Second = clampFloor(second[0], config.SecondsPerMinute-1)
	}
	return tod
}

// Step moves current by delta*step, wrapping modulo the field's cardinality.
func Step(current, delta, step int, f Field) int {
	n := f.Cardinality()
	return ((current+delta*step)%n + n) % n
}

// Get returns the value of field f.
func (t TimeOfDay) Get(f Field) int {
	switch f {
	case Minute:
		return t.Minute
	case Second:
		return t.Second
	}
	return t.Hour
}

// With returns a copy with field f set to v, saturated into range.
func (t TimeOfDay) With(f Field, v int) TimeOfDay {
	switch f {
	case Minute:
		t.Minute = v
	case Second:
		t.Second = v
	default:
		t.Hour = v
	}
	return Normalize(float64(t.Hour), float64(t.Minute), float64(t.Second))
}

// Stepped returns a copy with field f stepped (wrapping) by delta*step.
func (t TimeOfDay) Stepped(f Field, delta, step int) TimeOfDay {
	return t.With(f, Step(t.Get(f), delta, step, f))
}

// Of extracts the time of day of t.
func Of(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Apply returns t's calendar day at the given time (nanoseconds cleared).
func Apply(t time.Time, tod TimeOfDay) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, tod.Hour, tod.Minute, tod.Second, 0, t.Location())
}

// Add shifts t by the given components, letting the date roll over.
func Add(t time.Time, hours, minutes, seconds int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour()+hours, t.Minute()+minutes, t.Second()+seconds, 0, t.Location())
}

// Format renders tod as HH:mm, or HH:mm:ss when layout asks for seconds.
func Format(tod TimeOfDay, layout string) string {
	if layout == config.TimeFormatHMS {
		return fmt.Sprintf("%02d:%02d:%02d", tod.Hour, tod.Minute, tod.Second)
	}
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)

// Parse accepts H:m or H:m:s with in-range components only.
func Parse(text string) (TimeOfDay, bool) {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return TimeOfDay{}, false
	}

	var tod TimeOfDay
	tod.Hour, _ = strconv.Atoi(m[1])
	tod.Minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		tod.Second, _ = strconv.Atoi(m[3])
	}

	if tod.Hour >= config.HoursPerDay || tod.Minute >= config.MinutesPerHour || tod.Second >= config.SecondsPerMinute {
		return TimeOfDay{}, false
	}
	return tod, true
}

// ParseField reads a digits-only entry for one field and saturates it.
// Text that is not a number yields false.
func ParseField(text string, f Field, current TimeOfDay) (TimeOfDay, bool) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return current, false
	}
	return current.With(f, v), true
}
