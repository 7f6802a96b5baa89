package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
	"github.com/tartampluch/go-jalali-picker/internal/popover"
)

var inputKeys = map[fyne.KeyName]picker.Key{
	fyne.KeyDown:   picker.KeyDown,
	fyne.KeyEscape: picker.KeyEscape,
	fyne.KeyReturn: picker.KeyEnter,
	fyne.KeyEnter:  picker.KeyEnter,
}

// pickerEntry is the text input of a picker. It hands Down, Escape and Enter
// to the picker before the Entry sees them.
type pickerEntry struct {
	widget.Entry

	onKey       func(picker.Key) bool
	onFocusLost func()
}

func newPickerEntry() *pickerEntry {
	e := &pickerEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *pickerEntry) TypedKey(ev *fyne.KeyEvent) {
	if k, ok := inputKeys[ev.Name]; ok && e.onKey != nil && e.onKey(k) {
		return
	}
	e.Entry.TypedKey(ev)
}

func (e *pickerEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocusLost != nil {
		e.onFocusLost()
	}
}

// FieldLabels are the localized texts of a picker field.
type FieldLabels struct {
	Placeholder string
	Today       string
	Clear       string
}

// DateField is a text input bound to a picker.DatePicker, with the calendar
// in a popover or, for inline pickers, right below the input.
type DateField struct {
	widget.BaseWidget

	Picker *picker.DatePicker

	entry   *pickerEntry
	toggle  *widget.Button
	view    *CalendarView
	stepper *TimeStepper
	host    *popoverHost
	content *fyne.Container

	syncing bool

	// OnChanged receives every committed selection.
	OnChanged func(calendar.Selection)
}

// NewDateField wires p to a new input. cfg places the popover; steps tune
// the time stepper when p edits a time of day.
func NewDateField(p *picker.DatePicker, labels FieldLabels, cfg popover.Config, steps Steps) *DateField {
	f := &DateField{Picker: p}
	f.ExtendBaseWidget(f)
	opts := p.Options()

	f.entry = newPickerEntry()
	f.entry.SetPlaceHolder(labels.Placeholder)
	f.entry.OnChanged = func(text string) {
		if !f.syncing {
			f.Picker.SetDraft(text)
		}
	}
	f.entry.onKey = func(k picker.Key) bool {
		used := f.Picker.HandleInputKey(k)
		f.sync()
		return used
	}
	f.entry.onFocusLost = func() {
		if f.Picker.Mode() == picker.Editing {
			f.Picker.CommitText()
			f.sync()
		}
	}

	p.OnChange = func(sel calendar.Selection) {
		// A click in the calendar wins over a half-typed draft.
		f.Picker.CancelEdit()
		if f.OnChanged != nil {
			f.OnChanged(sel)
		}
	}

	f.view = NewCalendarView(p)
	f.view.OnChanged = f.sync

	panel := container.NewVBox(f.view)
	if opts.WithTime() {
		f.stepper = NewTimeStepper(p, steps, opts.TimeFormat == config.TimeFormatHMS)
		f.stepper.OnChanged = f.sync
		panel.Add(container.NewCenter(f.stepper))
	}
	today := widget.NewButton(labels.Today, func() {
		f.Picker.SelectToday()
		f.sync()
	})
	clearBtn := widget.NewButton(labels.Clear, func() {
		f.Picker.Clear()
		f.sync()
	})
	panel.Add(container.NewGridWithColumns(2, today, clearBtn))

	if opts.Inline {
		f.content = container.NewVBox(f.entry, panel)
	} else {
		f.toggle = widget.NewButtonWithIcon("", theme.MenuDropDownIcon(), f.togglePopover)
		row := container.NewBorder(nil, nil, nil, f.toggle, f.entry)
		f.host = newPopoverHost(row, panel, cfg)
		f.host.OnDismiss = func() {
			f.Picker.Close()
			f.sync()
		}
		f.content = row
	}

	if opts.Disabled {
		f.entry.Disable()
		today.Disable()
		clearBtn.Disable()
		if f.toggle != nil {
			f.toggle.Disable()
		}
	}

	f.sync()
	return f
}

func (f *DateField) togglePopover() {
	if f.Picker.IsOpen() && f.host.visible() {
		f.Picker.Close()
	} else {
		f.Picker.Open()
	}
	f.sync()
	if f.Picker.IsOpen() {
		f.view.requestFocus()
	}
}

// Refresh re-reads the picker, for example after SetValue or SetOpen.
func (f *DateField) Refresh() {
	f.sync()
	f.BaseWidget.Refresh()
}

func (f *DateField) sync() {
	f.syncing = true
	if text := f.Picker.Text(); f.entry.Text != text {
		f.entry.SetText(text)
	}
	f.syncing = false

	f.view.Refresh()
	if f.stepper != nil {
		f.stepper.Refresh()
	}
	if f.host == nil {
		return
	}
	if f.Picker.IsOpen() {
		f.host.Show()
		f.host.Refresh()
		return
	}
	if f.stepper != nil {
		f.stepper.Stop()
	}
	f.host.Hide()
}

// Release closes the popover and stops the stepper before the field is discarded.
func (f *DateField) Release() {
	f.Picker.Close()
	f.sync()
	if f.stepper != nil {
		f.stepper.Close()
	}
}

func (f *DateField) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(f.content)
}
