package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect *widget.Select
	weekSelect *widget.Select
	modeSelect *widget.Select
	timeSelect *widget.Select
	minEntry   *widget.Entry
	maxEntry   *widget.Entry
	portEntry  *NumericalEntry
	urlEntry   *widget.Entry
	userEntry  *widget.Entry
	passEntry  *widget.Entry
}

// ShowSettingsWindow displays the options dialog.
func (app *PickerApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	// --- General ---
	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.portEntry)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	generalForm := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.weekSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblMode), sw.modeSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblTimeFormat), sw.timeSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblMinDate), sw.minEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblMaxDate), sw.maxEntry),
		itemPort,
	)
	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", generalForm)

	// --- Holiday feed ---
	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblFeedURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpFeedURL)
	feedForm := widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)
	feedCard := widget.NewCard(app.GetMsg(config.TKeyLblHolidays), "", feedForm)

	// --- Actions ---
	saveAction := func() {
		for _, v := range []fyne.Validatable{sw.portEntry, sw.minEntry, sw.maxEntry} {
			if err := v.Validate(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		feedCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(paddedContent)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

// newSettingsWidgets builds the inputs pre-filled from the current options.
func (app *PickerApp) newSettingsWidgets() *settingsWidgets {
	opts := app.Options
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.currentLanguage())

	sw.weekSelect = widget.NewSelect([]string{config.WeekStartSaturday, config.WeekStartSunday, config.WeekStartMonday}, nil)
	sw.weekSelect.SetSelected(opts.WeekStart)

	sw.modeSelect = widget.NewSelect([]string{config.ModePopover, config.ModeInline}, nil)
	sw.modeSelect.SetSelected(opts.Mode)

	// The empty time format is shown under a translated label.
	none := app.GetMsg(config.TKeyTimeNone)
	sw.timeSelect = widget.NewSelect([]string{none, config.TimeFormatHM, config.TimeFormatHMS}, nil)
	if opts.TimeFormat == "" {
		sw.timeSelect.SetSelected(none)
	} else {
		sw.timeSelect.SetSelected(opts.TimeFormat)
	}

	dateValidator := func(s string) error {
		if s == "" {
			return nil
		}
		if _, ok := app.Cal.ParseJalaliText(s); !ok {
			return errors.New(app.GetMsg(config.TKeyErrBadDate))
		}
		return nil
	}
	sw.minEntry = widget.NewEntry()
	sw.minEntry.SetPlaceHolder(app.GetMsg(config.TKeyPlaceholder))
	sw.minEntry.SetText(opts.MinDate)
	sw.minEntry.Validator = dateValidator
	sw.maxEntry = widget.NewEntry()
	sw.maxEntry.SetPlaceHolder(app.GetMsg(config.TKeyPlaceholder))
	sw.maxEntry.SetText(opts.MaxDate)
	sw.maxEntry.Validator = dateValidator

	sw.portEntry = NewNumericalEntry()
	sw.portEntry.SetText(opts.ServerPort)
	sw.portEntry.Validator = func(s string) error {
		if s == "" {
			return errors.New(app.GetMsg(config.TKeyErrPortReq))
		}
		port, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(app.GetMsg(config.TKeyErrPortNum))
		}
		if port < config.MinPort || port > config.MaxPort {
			return errors.New(app.GetMsg(config.TKeyErrPortRange))
		}
		return nil
	}

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(opts.Holidays.URL)
	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(opts.Holidays.User)
	sw.passEntry = widget.NewPasswordEntry()
	// Attempt to pre-fill password from secure storage
	if user := opts.Holidays.User; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}
	return sw
}

// saveSettings persists the options, rebuilds the pickers and reloads holidays.
// A new port takes effect on the next start.
func (app *PickerApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompUISet)

	opts := app.Options
	opts.Language = sw.langSelect.Selected
	opts.WeekStart = sw.weekSelect.Selected
	opts.Mode = sw.modeSelect.Selected
	opts.TimeFormat = sw.timeSelect.Selected
	if opts.TimeFormat == app.GetMsg(config.TKeyTimeNone) {
		opts.TimeFormat = ""
	}
	opts.MinDate = sw.minEntry.Text
	opts.MaxDate = sw.maxEntry.Text
	opts.ServerPort = sw.portEntry.Text
	opts.Holidays.URL = sw.urlEntry.Text
	opts.Holidays.User = sw.userEntry.Text
	opts.Normalize()

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error(config.MsgPassSaveFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	app.Server.SetWeekStart(calendar.ParseWeekStart(opts.WeekStart))
	app.Preferences.SetString(config.PrefLanguage, opts.Language)
	app.saveOptions()
	app.UpdateLocalizer()
	app.rebuild()

	go app.refreshHolidays()
}
