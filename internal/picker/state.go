package picker

import (
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/calendar"
)

// DayState is the render state of one grid cell.
type DayState struct {
	Cell calendar.Cell

	Outside  bool
	Disabled bool
	Today    bool
	Focused  bool
	Holiday  bool
	Selected bool

	RangeStart bool
	RangeEnd   bool
	InRange    bool
}

// baseStates fills the flags shared by both pickers.
func baseStates(nav *Navigator, opts *Options) ([]DayState, error) {
	grid, err := nav.Grid()
	if err != nil {
		return nil, err
	}
	today := calendar.Today(opts.clock())

	cells := grid.Cells()
	out := make([]DayState, len(cells))
	for i, cell := range cells {
		out[i] = DayState{
			Cell:     cell,
			Outside:  !cell.InCurrentMonth,
			Disabled: opts.Disabled || !calendar.IsWithinRange(cell.Gregorian, opts.Min, opts.Max),
			Today:    calendar.IsSameDay(cell.Gregorian, today),
			Focused:  calendar.IsSameDay(cell.Gregorian, nav.Focused()),
			Holiday:  opts.IsHoliday != nil && opts.IsHoliday(cell.Jalali),
		}
	}
	return out, nil
}

// EditMode tells whether an input shows the committed value or a draft.
type EditMode int

const (
	Idle EditMode = iota
	Editing
)

// textState is an input's text, driven by the committed value while Idle and
// by keystrokes while Editing. External value changes never clobber a draft.
type textState struct {
	mode  EditMode
	draft string
	text  string
}

func (s *textState) begin() {
	if s.mode == Editing {
		return
	}
	s.mode = Editing
	s.draft = s.text
}

func (s *textState) setDraft(text string) {
	s.begin()
	s.draft = text
}

// end leaves Editing and returns the draft.
func (s *textState) end() string {
	d := s.draft
	s.mode = Idle
	s.draft = ""
	return d
}

// sync updates the committed text; it only shows once editing ends.
func (s *textState) sync(text string) {
	s.text = text
}

func (s *textState) current() string {
	if s.mode == Editing {
		return s.draft
	}
	return s.text
}

func validDay(t time.Time, opts *Options) bool {
	return !opts.Disabled && calendar.IsWithinRange(t, opts.Min, opts.Max)
}
