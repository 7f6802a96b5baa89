// Package jalali adapts the jalaali conversion library to the picker's
// calendar layer: instants carry a location and days are anchored at noon.
//
// Supported Jalali years are -61 through 3177.
package jalali

import (
	"errors"
	"fmt"
	"time"

	jalaali "github.com/jalaali/go-jalaali"
	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Parts is a Jalali calendar day. It is not self-validating: Day may exceed
// the length of Month until it is passed through a Converter.
type Parts struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the parts with the default separator.
func (p Parts) String() string {
	return Format(p, config.JalaliSeparator)
}

// ErrInvalidDate is matched by every InvalidDateError via errors.Is.
var ErrInvalidDate = errors.New(config.ErrInvalidJalali)

// InvalidDateError reports Jalali parts that do not name a real calendar day.
type InvalidDateError struct {
	Parts  Parts
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("%s %s: %s", config.ErrInvalidJalali, e.Parts, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDate) hold for any InvalidDateError.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// Converter is the conversion primitive the calendar layer is built on.
type Converter interface {
	// ToJalali returns the Jalali day of t's local calendar date.
	ToJalali(t time.Time) Parts
	// FromJalali returns local noon of the given Jalali day, or an
	// *InvalidDateError when p is not a real day.
	FromJalali(p Parts) (time.Time, error)
}

// Civil is the default Converter. It holds no mutable state and is safe for
// concurrent use.
type Civil struct {
	loc *time.Location
}

// NewCivil creates a converter that builds instants in loc (time.Local if nil).
func NewCivil(loc *time.Location) *Civil {
	if loc == nil {
		loc = time.Local
	}
	return &Civil{loc: loc}
}

// Location returns the zone new instants are constructed in.
func (c *Civil) Location() *time.Location {
	return c.loc
}

// ToJalali converts the calendar date of t, read in t's own location.
// Dates outside the supported range yield the zero Parts.
func (c *Civil) ToJalali(t time.Time) Parts {
	gy, gm, gd := t.Date()
	jy, jm, jd, err := jalaali.ToJalaali(gy, gm, gd)
	if err != nil {
		return Parts{}
	}
	return Parts{Year: jy, Month: int(jm), Day: jd}
}

// FromJalali validates p and returns noon of that day in the converter's location.
func (c *Civil) FromJalali(p Parts) (time.Time, error) {
	if err := Validate(p); err != nil {
		return time.Time{}, err
	}
	gy, gm, gd, err := jalaali.ToGregorian(p.Year, jalaali.Month(p.Month), p.Day)
	if err != nil {
		return time.Time{}, &InvalidDateError{Parts: p, Reason: err.Error()}
	}
	return time.Date(gy, gm, gd, config.NoonHour, 0, 0, 0, c.loc), nil
}

// Validate rejects parts that do not correspond to a real Jalali day.
// Values are never wrapped into an adjacent month or year.
func Validate(p Parts) error {
	if jalaali.IsValidDate(p.Year, p.Month, p.Day) {
		return nil
	}
	reason := config.ErrDayOutOfRange
	switch {
	case p.Month < 1 || p.Month > config.MonthsPerYear:
		reason = config.ErrMonthOutOfRange
	case MonthLength(p.Year, p.Month) == 0:
		reason = config.ErrYearOutOfRange
	}
	return &InvalidDateError{Parts: p, Reason: reason}
}

// IsLeapYear reports whether Esfand of jy has 30 days.
func IsLeapYear(jy int) bool {
	leap, err := jalaali.IsLeapYear(jy)
	return err == nil && leap
}

// MonthLength is the library's month table: 31 days for months 1-6, 30 for
// 7-11, and 29 or 30 for Esfand. It returns 0 for an unsupported year or
// month. Callers outside this package should prefer the calendar layer, which
// derives lengths from conversions.
func MonthLength(jy, jm int) int {
	if jm < 1 || jm > config.MonthsPerYear {
		return 0
	}
	n, err := jalaali.MonthLength(jy, jm)
	if err != nil {
		return 0
	}
	return n
}

// Format zero-pads the year to 4 digits and month/day to 2, joined by sep.
func Format(p Parts, sep string) string {
	return fmt.Sprintf(config.FormatJalaliDate,
		config.JalaliPadYear, p.Year, sep,
		config.JalaliPadMonthDay, p.Month, sep,
		config.JalaliPadMonthDay, p.Day)
}
