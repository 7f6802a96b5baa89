package calendar

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// DefaultWeekStart is the first grid column, as is customary in Iran.
const DefaultWeekStart = time.Saturday

// Cell is one day of a month grid.
type Cell struct {
	Gregorian      time.Time    `json:"gregorian"`
	Jalali         jalali.Parts `json:"jalali"`
	InCurrentMonth bool         `json:"in_current_month"`
}

// Grid is always 6 rows of 7 days, spilling into the adjacent months.
type Grid [config.GridRows][config.GridColumns]Cell

// Cells returns the grid in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, config.GridCells)
	for r := range g {
		out = append(out, g[r][:]...)
	}
	return out
}

// BuildMonthGrid lays out Jalali month jm of jy with weekStartsOn in column 0.
func (c *Calendar) BuildMonthGrid(jy, jm int, weekStartsOn time.Weekday) (Grid, error) {
	var grid Grid

	first, err := c.FirstOfMonth(MonthRef{Year: jy, Month: jm})
	if err != nil {
		return grid, fmt.Errorf("%s: %w", config.ErrGridMonth, err)
	}

	leading := (int(first.Weekday()) - int(weekStartsOn) + config.DaysPerWeek) % config.DaysPerWeek
	start := AddDays(first, -leading)

	for r := 0; r < config.GridRows; r++ {
		for col := 0; col < config.GridColumns; col++ {
			day := AddDays(start, r*config.GridColumns+col)
			parts := c.conv.ToJalali(day)
			grid[r][col] = Cell{
				Gregorian:      day,
				Jalali:         parts,
				InCurrentMonth: parts.Year == jy && parts.Month == jm,
			}
		}
	}
	return grid, nil
}

// WeekdayOrder lists the weekdays of the grid columns starting at weekStartsOn.
func WeekdayOrder(weekStartsOn time.Weekday) [config.DaysPerWeek]time.Weekday {
	var out [config.DaysPerWeek]time.Weekday
	for i := range out {
		out[i] = time.Weekday((int(weekStartsOn) + i) % config.DaysPerWeek)
	}
	return out
}

// ParseWeekStart maps a configuration name to a weekday, defaulting to Saturday.
func ParseWeekStart(name string) time.Weekday {
	switch name {
	case config.WeekStartSunday:
		return time.Sunday
	case config.WeekStartMonday:
		return time.Monday
	}
	return DefaultWeekStart
}
