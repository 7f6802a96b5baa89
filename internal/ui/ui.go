package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/export"
	"github.com/tartampluch/go-jalali-picker/internal/holiday"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
	"github.com/tartampluch/go-jalali-picker/internal/picker"
	"github.com/tartampluch/go-jalali-picker/internal/popover"
	"github.com/tartampluch/go-jalali-picker/internal/server"
	"github.com/zalando/go-keyring"
)

// PickerApp encapsulates the UI state, preferences, and background services.
type PickerApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server   *server.CalendarServer
	Holidays *holiday.Loader
	Encoder  *export.Encoder
	Cal      *calendar.Calendar
	Clock    calendar.Clock // Injected clock for testability

	Options     *config.Options
	OptionsPath string

	SupportedLanguages []string

	holidayMu  sync.RWMutex
	holidaySet holiday.Set

	settingsWindow fyne.Window
	view           *mainView
}

// NewPickerApp constructs the application and wires dependencies.
func NewPickerApp(a fyne.App, ctx context.Context, cal *calendar.Calendar, srv *server.CalendarServer, loader *holiday.Loader, opts *config.Options, optionsPath string) *PickerApp {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	app := &PickerApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Holidays:           loader,
		Cal:                cal,
		Clock:              calendar.RealClock{},
		Options:            opts,
		OptionsPath:        optionsPath,
		SupportedLanguages: config.SupportedLanguages,
	}
	app.Encoder = export.NewEncoder(cal)
	app.Encoder.FormatSummary = app.summaryFormatter()
	return app
}

// Run launches the application services and the main UI loop.
func (app *PickerApp) Run() {
	app.SetupI18n()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	app.publish(calendar.Single(time.Time{}))
	go app.refreshHolidays()

	app.ShowMainWindow()
	app.App.Run()
}

// refreshHolidays downloads the configured feed and marks its days in every
// picker. Without a feed it only clears the previous set.
func (app *PickerApp) refreshHolidays() {
	log := slog.With(config.LogKeyComponent, config.CompUI)
	feed := app.Options.Holidays

	if feed.URL == "" {
		app.setHolidays(nil)
		return
	}

	var pass string
	if feed.User != "" {
		p, err := keyring.Get(config.KeyringService, feed.User)
		if err == nil {
			pass = p
		} else {
			log.Debug(config.ErrKeyringLookup,
				config.LogKeyUser, feed.User,
				config.LogKeyError, err)
		}
	}

	set, err := app.Holidays.Load(app.Ctx, feed, pass)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn(config.MsgHolidaysFailed, config.LogKeyError, err)
		}
		return
	}
	app.setHolidays(set)
}

func (app *PickerApp) setHolidays(set holiday.Set) {
	app.holidayMu.Lock()
	app.holidaySet = set
	app.holidayMu.Unlock()

	app.Server.SetHolidays(set)
	fyne.Do(func() {
		if app.view != nil {
			app.view.refreshHolidays(app.holidaysLabel(len(set)))
		}
	})
}

// isHoliday is the picker hook; it reads the latest loaded set.
func (app *PickerApp) isHoliday(p jalali.Parts) bool {
	app.holidayMu.RLock()
	defer app.holidayMu.RUnlock()
	return app.holidaySet.IsHoliday(p)
}

// pickerOptions maps the options file onto picker.Options. Invalid bounds
// are logged and ignored.
func (app *PickerApp) pickerOptions() picker.Options {
	weekStart := calendar.ParseWeekStart(app.Options.WeekStart)
	opts := picker.Options{
		WeekStart:   weekStart,
		Inline:      app.Options.Mode == config.ModeInline,
		MonthLabels: app.MonthLabels(),
		Weekdays:    app.WeekdayLabels(weekStart),
		TimeFormat:  app.Options.TimeFormat,
		IsHoliday:   app.isHoliday,
		Clock:       app.Clock,
	}
	opts.Min = app.parseBound(app.Options.MinDate)
	opts.Max = app.parseBound(app.Options.MaxDate)
	return opts
}

func (app *PickerApp) parseBound(text string) time.Time {
	if text == "" {
		return time.Time{}
	}
	t, ok := app.Cal.ParseJalaliText(text)
	if !ok {
		slog.Warn(config.ErrOptionsBound,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyValue, text)
		return time.Time{}
	}
	return t
}

// popoverConfig converts the placement section of the options file.
func (app *PickerApp) popoverConfig() popover.Config {
	return popover.ConfigFromOptions(app.Options.Popover)
}

// steps returns the time stepper increments.
func (app *PickerApp) steps() Steps {
	return Steps{
		Hour:   app.Options.HourStep,
		Minute: app.Options.MinuteStep,
		Second: app.Options.SecondStep,
	}
}

// publish renders sel into the ICS feed served on the loopback port.
func (app *PickerApp) publish(sel calendar.Selection) {
	data, _, err := app.Encoder.Encode(app.Ctx, sel)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return
	}
	app.Server.Update(data)
}

// feedURL is the address of the selection feed shown in the status line.
func (app *PickerApp) feedURL() string {
	return fmt.Sprintf(config.FormatFeedURL, config.LocalhostBindAddr, config.AddrSeparator, app.Server.Port, config.RouteSelection)
}
