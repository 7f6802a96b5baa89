package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
)

// NumericalEntry is an Entry that only accepts digits. Persian and
// Arabic-Indic digits are typed as their ASCII equivalents.
type NumericalEntry struct {
	widget.Entry

	// OnFocusLost runs when the entry loses keyboard focus.
	OnFocusLost func()
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops everything but digits.
// Pasted text bypasses this filter; callers validate on commit.
func (e *NumericalEntry) TypedRune(r rune) {
	r = []rune(calendar.NormalizeDigits(string(r)))[0]
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// FocusLost commits like Enter does.
func (e *NumericalEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.OnFocusLost != nil {
		e.OnFocusLost()
	}
}

// Keyboard requests the numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

var _ fyne.Focusable = (*NumericalEntry)(nil)
