package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/timeofday"
)

// timeModel is the time-of-day part of a picker.
type timeModel interface {
	Time() timeofday.TimeOfDay
	StepTime(f timeofday.Field, delta, step int)
	SetTimeField(f timeofday.Field, text string) bool
}

// Steps are the increments of the stepper buttons per field.
type Steps struct {
	Hour, Minute, Second int
}

func (s Steps) of(f timeofday.Field) int {
	var v int
	switch f {
	case timeofday.Hour:
		v = s.Hour
	case timeofday.Minute:
		v = s.Minute
	default:
		v = s.Second
	}
	return max(v, 1)
}

// TimeStepper edits hour, minute and optionally second with typed digits or
// up/down buttons that repeat while held.
type TimeStepper struct {
	widget.BaseWidget

	model   timeModel
	steps   Steps
	fields  []timeofday.Field
	entries map[timeofday.Field]*NumericalEntry
	repeat  *timeofday.RepeatController
	content *fyne.Container

	// OnChanged runs after the time changed.
	OnChanged func()
}

// NewTimeStepper builds the stepper; withSeconds adds the third column.
func NewTimeStepper(model timeModel, steps Steps, withSeconds bool) *TimeStepper {
	s := &TimeStepper{
		model:   model,
		steps:   steps,
		fields:  []timeofday.Field{timeofday.Hour, timeofday.Minute},
		entries: make(map[timeofday.Field]*NumericalEntry),
	}
	if withSeconds {
		s.fields = append(s.fields, timeofday.Second)
	}
	s.ExtendBaseWidget(s)

	s.repeat = timeofday.NewRepeatController(nil, func(f timeofday.Field, delta int) {
		fyne.Do(func() { s.step(f, delta) })
	})

	row := container.NewHBox()
	for i, f := range s.fields {
		if i > 0 {
			row.Add(container.NewCenter(widget.NewLabel(config.TimeSepLabel)))
		}
		row.Add(s.column(f))
	}
	s.content = row
	s.Refresh()
	return s
}

func (s *TimeStepper) column(f timeofday.Field) fyne.CanvasObject {
	entry := NewNumericalEntry()
	entry.OnSubmitted = func(text string) { s.commit(f, text) }
	entry.OnFocusLost = func() { s.commit(f, entry.Text) }
	s.entries[f] = entry

	up := newHoldButton(config.IconUp, func() { s.repeat.Start(f, 1) }, s.repeat.Stop)
	down := newHoldButton(config.IconDown, func() { s.repeat.Start(f, -1) }, s.repeat.Stop)
	return container.NewVBox(up, entry, down)
}

func (s *TimeStepper) step(f timeofday.Field, delta int) {
	s.model.StepTime(f, delta, s.steps.of(f))
	s.changed()
}

func (s *TimeStepper) commit(f timeofday.Field, text string) {
	if text != "" && s.model.SetTimeField(f, text) {
		s.changed()
		return
	}
	s.Refresh()
}

func (s *TimeStepper) changed() {
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged()
	}
}

// Refresh shows the model's time in the entries.
func (s *TimeStepper) Refresh() {
	tod := s.model.Time()
	for f, e := range s.entries {
		e.SetText(fmt.Sprintf("%02d", tod.Get(f)))
	}
	s.BaseWidget.Refresh()
}

// Stop ends any hold in progress, for example when the popover closes.
func (s *TimeStepper) Stop() {
	s.repeat.Stop()
}

// Close releases the hold timers for good.
func (s *TimeStepper) Close() {
	s.repeat.Close()
}

func (s *TimeStepper) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.content)
}

// holdButton fires onPress on mouse down and onRelease on mouse up or when
// the pointer leaves. Taps without a mouse (touch, tests) press and release at once.
type holdButton struct {
	widget.Button

	onPress, onRelease func()
	held               bool
}

func newHoldButton(label string, onPress, onRelease func()) *holdButton {
	b := &holdButton{onPress: onPress, onRelease: onRelease}
	b.Text = label
	b.ExtendBaseWidget(b)
	return b
}

func (b *holdButton) MouseDown(*desktop.MouseEvent) {
	if b.Disabled() {
		return
	}
	b.held = true
	b.onPress()
}

func (b *holdButton) MouseUp(*desktop.MouseEvent) {
	b.release()
}

func (b *holdButton) MouseOut() {
	b.release()
	b.held = false
	b.Button.MouseOut()
}

// Tapped follows a MouseUp on desktop; only act when no hold was seen.
func (b *holdButton) Tapped(ev *fyne.PointEvent) {
	if b.held {
		b.held = false
		return
	}
	if b.Disabled() {
		return
	}
	b.onPress()
	b.onRelease()
	b.Button.Tapped(ev)
}

func (b *holdButton) release() {
	if b.held {
		b.onRelease()
	}
}

var (
	_ desktop.Mouseable = (*holdButton)(nil)
	_ desktop.Hoverable = (*holdButton)(nil)
)
