package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
)

// dayModel is the part of a picker the calendar grid drives.
// Both picker.DatePicker and picker.RangePicker satisfy it.
type dayModel interface {
	Navigator() *picker.Navigator
	Options() picker.Options
	DayStates() ([]picker.DayState, error)
	SelectDay(day time.Time) bool
	HandleKey(k picker.Key) bool
}

// hoverModel is implemented by pickers that preview a range under the pointer.
type hoverModel interface {
	Hover(day time.Time)
	ClearHover()
}

var keyMap = map[fyne.KeyName]picker.Key{
	fyne.KeyLeft:     picker.KeyLeft,
	fyne.KeyRight:    picker.KeyRight,
	fyne.KeyUp:       picker.KeyUp,
	fyne.KeyDown:     picker.KeyDown,
	fyne.KeyPageUp:   picker.KeyPageUp,
	fyne.KeyPageDown: picker.KeyPageDown,
	fyne.KeyReturn:   picker.KeyEnter,
	fyne.KeyEnter:    picker.KeyEnter,
	fyne.KeyEscape:   picker.KeyEscape,
}

// CalendarView renders a picker's month grid with its header panels.
// It takes keyboard focus and forwards arrows, paging, Enter and Escape.
type CalendarView struct {
	widget.BaseWidget

	model dayModel
	log   *slog.Logger

	// OnChanged runs after any interaction changed the model.
	OnChanged func()

	prev, next, title *widget.Button

	headers *fyne.Container
	days    *fyne.Container
	cells   []*dayCell
	body    *fyne.Container
	content *fyne.Container
}

// NewCalendarView builds the grid for model.
func NewCalendarView(model dayModel) *CalendarView {
	v := &CalendarView{
		model: model,
		log:   slog.With(config.LogKeyComponent, config.CompUI),
	}
	v.ExtendBaseWidget(v)

	v.prev = widget.NewButton(config.IconPrev, func() { v.page(-1) })
	v.next = widget.NewButton(config.IconNext, func() { v.page(1) })
	v.title = widget.NewButton("", func() {
		v.model.Navigator().TogglePanel()
		v.changed()
	})
	v.title.Importance = widget.LowImportance

	v.headers = container.NewGridWithColumns(config.GridColumns)
	v.days = container.NewGridWithColumns(config.GridColumns)
	v.cells = make([]*dayCell, config.GridCells)
	for i := range v.cells {
		v.cells[i] = newDayCell(v)
		v.days.Add(v.cells[i])
	}

	v.body = container.NewStack()
	v.content = container.NewBorder(
		container.NewBorder(nil, nil, v.prev, v.next, v.title),
		nil, nil, nil,
		v.body,
	)
	v.refreshContent()
	return v
}

func (v *CalendarView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.content)
}

// Refresh re-reads the model.
func (v *CalendarView) Refresh() {
	v.refreshContent()
	v.BaseWidget.Refresh()
}

func (v *CalendarView) refreshContent() {
	nav := v.model.Navigator()
	disabled := v.model.Options().Disabled

	switch nav.Panel() {
	case picker.PanelYears:
		page := nav.YearPage()
		v.title.SetText(fmt.Sprintf(config.FormatYearPage, page[0], page[len(page)-1]))
		v.body.Objects = []fyne.CanvasObject{v.yearPanel(page)}
	case picker.PanelMonths:
		v.title.SetText(strconv.Itoa(nav.PendingYear()))
		v.body.Objects = []fyne.CanvasObject{v.monthPanel()}
	default:
		v.title.SetText(nav.MonthLabel())
		v.refreshDays()
		v.body.Objects = []fyne.CanvasObject{container.NewVBox(v.headers, v.days)}
	}
	v.body.Refresh()

	if disabled {
		v.prev.Disable()
		v.next.Disable()
		v.title.Disable()
	} else {
		v.prev.Enable()
		v.next.Enable()
		v.title.Enable()
	}
}

func (v *CalendarView) refreshDays() {
	labels := v.model.Navigator().WeekdayLabels()
	v.headers.Objects = v.headers.Objects[:0]
	for _, l := range labels {
		v.headers.Add(widget.NewLabelWithStyle(l, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}

	states, err := v.model.DayStates()
	if err != nil {
		v.log.Error(config.ErrGridMonth, config.LogKeyError, err)
		return
	}
	for i, s := range states {
		if i < len(v.cells) {
			v.cells[i].apply(s)
		}
	}
}

func (v *CalendarView) yearPanel(page []int) fyne.CanvasObject {
	nav := v.model.Navigator()
	grid := container.NewGridWithColumns(config.PanelColumns)
	for _, jy := range page {
		btn := widget.NewButton(strconv.Itoa(jy), func() {
			if nav.SelectYear(jy) {
				v.changed()
			}
		})
		if nav.YearDisabled(jy) || v.model.Options().Disabled {
			btn.Disable()
		}
		grid.Add(btn)
	}
	return grid
}

func (v *CalendarView) monthPanel() fyne.CanvasObject {
	nav := v.model.Navigator()
	labels := v.model.Options().MonthLabels

	grid := container.NewGridWithColumns(config.PanelColumns)
	for jm := 1; jm <= config.MonthsPerYear; jm++ {
		text := strconv.Itoa(jm)
		if len(labels) == config.MonthsPerYear {
			text = labels[jm-1]
		}
		btn := widget.NewButton(text, func() {
			if nav.SelectMonth(jm) {
				v.changed()
			}
		})
		if nav.MonthDisabled(jm) || v.model.Options().Disabled {
			btn.Disable()
		}
		grid.Add(btn)
	}
	return grid
}

func (v *CalendarView) page(delta int) {
	nav := v.model.Navigator()
	var err error
	if delta < 0 {
		err = nav.Prev()
	} else {
		err = nav.Next()
	}
	if err != nil {
		v.log.Debug(config.MsgNavRejected, config.LogKeyError, err)
		return
	}
	v.changed()
}

func (v *CalendarView) selectDay(day time.Time) {
	v.requestFocus()
	if v.model.SelectDay(day) {
		v.changed()
	}
}

func (v *CalendarView) hover(day time.Time) {
	if h, ok := v.model.(hoverModel); ok {
		h.Hover(day)
		v.Refresh()
	}
}

func (v *CalendarView) unhover() {
	if h, ok := v.model.(hoverModel); ok {
		h.ClearHover()
		v.Refresh()
	}
}

func (v *CalendarView) changed() {
	v.Refresh()
	if v.OnChanged != nil {
		v.OnChanged()
	}
}

func (v *CalendarView) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(v); c != nil {
		c.Focus(v)
	}
}

// FocusGained implements fyne.Focusable.
func (v *CalendarView) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (v *CalendarView) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (v *CalendarView) TypedRune(rune) {}

// TypedKey maps Fyne keys to calendar commands.
func (v *CalendarView) TypedKey(ev *fyne.KeyEvent) {
	k, ok := keyMap[ev.Name]
	if !ok {
		return
	}
	if v.model.HandleKey(k) {
		v.changed()
	}
}

// Tapped takes keyboard focus when the grid background is clicked.
func (v *CalendarView) Tapped(*fyne.PointEvent) {
	v.requestFocus()
}

var (
	_ fyne.Focusable = (*CalendarView)(nil)
	_ fyne.Tappable  = (*CalendarView)(nil)
)

// -----------------------------------------------------------------------------
// Day cell
// -----------------------------------------------------------------------------

// dayCell is one square of the grid. It is tappable and reports hover for
// range previews.
type dayCell struct {
	widget.BaseWidget

	view     *CalendarView
	day      time.Time
	disabled bool

	bg      *canvas.Rectangle
	outline *canvas.Rectangle
	label   *canvas.Text
}

func newDayCell(v *CalendarView) *dayCell {
	c := &dayCell{
		view:    v,
		bg:      canvas.NewRectangle(color.Transparent),
		outline: canvas.NewRectangle(color.Transparent),
		label:   canvas.NewText("", theme.Color(theme.ColorNameForeground)),
	}
	c.bg.SetMinSize(fyne.NewSize(config.DayCellMinWidth, config.DayCellMinHeight))
	c.bg.CornerRadius = theme.InputRadiusSize()
	c.outline.CornerRadius = theme.InputRadiusSize()
	c.label.Alignment = fyne.TextAlignCenter
	c.ExtendBaseWidget(c)
	return c
}

func (c *dayCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.bg, c.outline, container.NewCenter(c.label)))
}

func (c *dayCell) apply(s picker.DayState) {
	c.day = s.Cell.Gregorian
	c.disabled = s.Disabled
	c.label.Text = strconv.Itoa(s.Cell.Jalali.Day)
	c.label.TextStyle = fyne.TextStyle{Bold: s.Today}

	switch {
	case s.Selected:
		c.bg.FillColor = theme.Color(theme.ColorNamePrimary)
	case s.InRange:
		c.bg.FillColor = theme.Color(theme.ColorNameSelection)
	default:
		c.bg.FillColor = color.Transparent
	}

	switch {
	case s.Disabled:
		c.label.Color = theme.Color(theme.ColorNameDisabled)
	case s.Selected:
		c.label.Color = theme.Color(theme.ColorNameForegroundOnPrimary)
	case s.Holiday:
		c.label.Color = theme.Color(theme.ColorNameError)
	case s.Outside:
		c.label.Color = theme.Color(theme.ColorNamePlaceHolder)
	default:
		c.label.Color = theme.Color(theme.ColorNameForeground)
	}

	switch {
	case s.Focused:
		c.outline.StrokeColor = theme.Color(theme.ColorNameFocus)
		c.outline.StrokeWidth = config.FocusStrokeWidth
	case s.Today:
		c.outline.StrokeColor = theme.Color(theme.ColorNamePrimary)
		c.outline.StrokeWidth = config.TodayStrokeWidth
	default:
		c.outline.StrokeWidth = 0
	}

	c.bg.Refresh()
	c.outline.Refresh()
	c.label.Refresh()
}

func (c *dayCell) Tapped(*fyne.PointEvent) {
	if c.disabled || c.day.IsZero() {
		return
	}
	c.view.selectDay(c.day)
}

func (c *dayCell) MouseIn(*desktop.MouseEvent) {
	if !c.disabled && !c.day.IsZero() {
		c.view.hover(c.day)
	}
}

func (c *dayCell) MouseMoved(*desktop.MouseEvent) {}

func (c *dayCell) MouseOut() {
	c.view.unhover()
}

var (
	_ fyne.Tappable     = (*dayCell)(nil)
	_ desktop.Hoverable = (*dayCell)(nil)
)
