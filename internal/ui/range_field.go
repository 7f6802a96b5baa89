package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
	"github.com/tartampluch/go-jalali-picker/internal/popover"
)

// RangeLabels are the localized texts of a range field.
type RangeLabels struct {
	Start string
	End   string
	Clear string
}

// RangeField shows the two ends of a picker.RangePicker in separate inputs
// sharing one calendar.
type RangeField struct {
	widget.BaseWidget

	Picker *picker.RangePicker

	entries map[picker.Field]*pickerEntry
	toggle  *widget.Button
	view    *CalendarView
	host    *popoverHost
	content *fyne.Container

	syncing bool

	// OnChanged receives every committed range.
	OnChanged func(calendar.DateRange)
}

// NewRangeField wires p to a pair of inputs.
func NewRangeField(p *picker.RangePicker, labels RangeLabels, cfg popover.Config) *RangeField {
	f := &RangeField{
		Picker:  p,
		entries: make(map[picker.Field]*pickerEntry),
	}
	f.ExtendBaseWidget(f)
	opts := p.Options()

	start := f.newEntry(picker.FieldStart, labels.Start)
	end := f.newEntry(picker.FieldEnd, labels.End)

	p.OnChange = func(r calendar.DateRange) {
		f.Picker.CancelEdit()
		if f.OnChanged != nil {
			f.OnChanged(r)
		}
	}

	f.view = NewCalendarView(p)
	f.view.OnChanged = f.sync

	clearBtn := widget.NewButton(labels.Clear, func() {
		f.Picker.Clear()
		f.sync()
	})
	panel := container.NewVBox(f.view, clearBtn)

	inputs := container.NewGridWithColumns(2, start, end)
	if opts.Inline {
		f.content = container.NewVBox(inputs, panel)
	} else {
		f.toggle = widget.NewButtonWithIcon("", theme.MenuDropDownIcon(), func() {
			f.togglePopover(f.Picker.ActiveField())
		})
		row := container.NewBorder(nil, nil, nil, f.toggle, inputs)
		f.host = newPopoverHost(row, panel, cfg)
		f.host.OnDismiss = func() {
			f.Picker.Close()
			f.sync()
		}
		f.content = row
	}

	if opts.Disabled {
		start.Disable()
		end.Disable()
		clearBtn.Disable()
		if f.toggle != nil {
			f.toggle.Disable()
		}
	}

	f.sync()
	return f
}

func (f *RangeField) newEntry(field picker.Field, placeholder string) *pickerEntry {
	e := newPickerEntry()
	e.SetPlaceHolder(placeholder)
	e.OnChanged = func(text string) {
		if !f.syncing {
			f.Picker.SetDraft(field, text)
		}
	}
	e.onKey = func(k picker.Key) bool {
		used := f.inputKey(field, k)
		f.sync()
		return used
	}
	e.onFocusLost = func() {
		if f.Picker.Editing(field) {
			f.Picker.CommitFieldText(field)
			f.sync()
		}
	}
	f.entries[field] = e
	return e
}

// inputKey mirrors the single picker's input keys for one end.
func (f *RangeField) inputKey(field picker.Field, k picker.Key) bool {
	switch k {
	case picker.KeyDown:
		f.Picker.Open(field)
		return true
	case picker.KeyEscape:
		if f.Picker.IsOpen() {
			f.Picker.Close()
			return true
		}
	case picker.KeyEnter:
		f.Picker.CommitFieldText(field)
		return true
	}
	return false
}

func (f *RangeField) togglePopover(field picker.Field) {
	if f.Picker.IsOpen() && f.host.visible() {
		f.Picker.Close()
	} else {
		f.Picker.Open(field)
	}
	f.sync()
	if f.Picker.IsOpen() {
		f.view.requestFocus()
	}
}

// Refresh re-reads the picker.
func (f *RangeField) Refresh() {
	f.sync()
	f.BaseWidget.Refresh()
}

func (f *RangeField) sync() {
	f.syncing = true
	for field, e := range f.entries {
		if text := f.Picker.Text(field); e.Text != text {
			e.SetText(text)
		}
	}
	f.syncing = false

	f.view.Refresh()
	if f.host == nil {
		return
	}
	if f.Picker.IsOpen() {
		f.host.Show()
		f.host.Refresh()
		return
	}
	f.host.Hide()
}

func (f *RangeField) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(f.content)
}
