package ui

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
)

// mainView is the content of the main window: one picker per selection kind.
type mainView struct {
	date     *DateField
	dates    *DateField
	rng      *RangeField
	langSel  *widget.Select
	holidays *widget.Label
	content  fyne.CanvasObject
}

// ShowMainWindow creates the main window on first use and shows it.
func (app *PickerApp) ShowMainWindow() {
	if app.Window == nil {
		app.Window = app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
		app.Window.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
		app.Window.SetMaster()
	}
	app.rebuild()
	app.Window.Show()
}

// rebuild recreates the pickers with the current options and language,
// carrying the selections over.
func (app *PickerApp) rebuild() {
	prev := app.view
	if prev != nil {
		prev.close()
	}
	app.view = app.newMainView(prev)
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
		app.Window.SetContent(app.view.content)
	}
}

func (app *PickerApp) newMainView(prev *mainView) *mainView {
	opts := app.pickerOptions()
	cfg := app.popoverConfig()

	single := calendar.Single(time.Time{})
	multi := calendar.Multiple()
	var rng calendar.DateRange
	if prev != nil {
		single = prev.date.Picker.Value()
		multi = prev.dates.Picker.Value()
		rng = prev.rng.Picker.Value()
	}

	labels := FieldLabels{
		Placeholder: app.GetMsg(config.TKeyPlaceholder),
		Today:       app.GetMsg(config.TKeyBtnToday),
		Clear:       app.GetMsg(config.TKeyBtnClear),
	}

	// Only the single-date picker carries a time of day.
	dayOpts := opts
	dayOpts.TimeFormat = ""

	v := &mainView{}
	v.date = NewDateField(picker.NewDatePicker(app.Cal, opts, single), labels, cfg, app.steps())
	v.dates = NewDateField(picker.NewDatePicker(app.Cal, dayOpts, multi), labels, cfg, app.steps())
	v.rng = NewRangeField(picker.NewRangePicker(app.Cal, dayOpts, rng), RangeLabels{
		Start: app.GetMsg(config.TKeyPlaceholderStart),
		End:   app.GetMsg(config.TKeyPlaceholderEnd),
		Clear: labels.Clear,
	}, cfg)

	v.date.OnChanged = app.publish
	v.dates.OnChanged = app.publish
	v.rng.OnChanged = func(r calendar.DateRange) { app.publish(calendar.Range(r)) }

	v.langSel = widget.NewSelect(app.SupportedLanguages, nil)
	v.langSel.SetSelected(app.currentLanguage())
	v.langSel.OnChanged = app.changeLanguage

	itemDate := widget.NewFormItem(app.GetMsg(config.TKeyLblDate), v.date)
	if opts.WithTime() {
		itemDate.HintText = fmt.Sprintf(config.FormatHint, app.GetMsg(config.TKeyLblTime), opts.TimeFormat)
	}
	feed := widget.NewLabel(app.feedURL())
	feed.Selectable = true

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), v.langSel),
		itemDate,
		widget.NewFormItem(app.GetMsg(config.TKeyLblDates), v.dates),
		widget.NewFormItem(app.GetMsg(config.TKeyLblRange), v.rng),
		widget.NewFormItem(app.GetMsg(config.TKeyLblFeed), feed),
	)

	v.holidays = widget.NewLabel(app.holidaysLabel(app.holidayCount()))
	settings := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSettings), theme.SettingsIcon(), app.ShowSettingsWindow)

	v.content = container.NewVScroll(container.NewPadded(container.NewVBox(
		form,
		container.NewHBox(v.holidays, layout.NewSpacer(), settings),
	)))
	return v
}

func (app *PickerApp) currentLanguage() string {
	if lang := app.Preferences.String(config.PrefLanguage); lang != "" {
		return lang
	}
	return app.Options.Language
}

// changeLanguage persists the choice and relabels the window.
func (app *PickerApp) changeLanguage(lang string) {
	if lang == "" || lang == app.currentLanguage() {
		return
	}
	app.Preferences.SetString(config.PrefLanguage, lang)
	app.Options.Language = lang
	app.saveOptions()
	app.UpdateLocalizer()
	app.rebuild()
}

func (app *PickerApp) saveOptions() {
	if app.OptionsPath == "" {
		return
	}
	if err := config.SaveOptions(app.OptionsPath, app.Options); err != nil {
		slog.Error(config.ErrOptionsWrite,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyPath, app.OptionsPath,
			config.LogKeyError, err)
	}
}

func (app *PickerApp) holidayCount() int {
	app.holidayMu.RLock()
	defer app.holidayMu.RUnlock()
	return len(app.holidaySet)
}

func (v *mainView) refreshHolidays(label string) {
	v.holidays.SetText(label)
	v.date.Refresh()
	v.dates.Refresh()
	v.rng.Refresh()
}

// close hides any popover left open by the pickers being replaced.
func (v *mainView) close() {
	v.date.Release()
	v.dates.Release()
	v.rng.Picker.Close()
	v.rng.Refresh()
}
