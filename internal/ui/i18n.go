package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *PickerApp) SetupI18n() {
	bundle := i18n.NewBundle(language.Persian)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator from the language preference,
// falling back to the options file.
func (app *PickerApp) UpdateLocalizer() {
	lang := app.Preferences.String(config.PrefLanguage)
	if lang == "" && app.Options != nil {
		lang = app.Options.Language
	}
	if lang == "" {
		lang = config.DefaultLanguage
	}
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg is a helper to translate a key safely. Missing keys return the key itself.
func (app *PickerApp) GetMsg(key string) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key})
}

func (app *PickerApp) localize(lc *i18n.LocalizeConfig) string {
	if app.Localizer == nil {
		return lc.MessageID
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}

// MonthLabels returns the twelve Jalali month names, or nil when any is
// missing so that the grid falls back to numeric titles.
func (app *PickerApp) MonthLabels() []string {
	labels := make([]string, config.MonthsPerYear)
	for i := range labels {
		key := config.TKeyMonthPrefix + strconv.Itoa(i+1)
		if labels[i] = app.GetMsg(key); labels[i] == key {
			return nil
		}
	}
	return labels
}

// WeekdayLabels returns the column headers of a grid starting on weekStart,
// or nil when a translation is missing.
func (app *PickerApp) WeekdayLabels(weekStart time.Weekday) []string {
	order := calendar.WeekdayOrder(weekStart)
	labels := make([]string, len(order))
	for i, wd := range order {
		key := config.TKeyWeekdayPrefix + strconv.Itoa(int(wd))
		if labels[i] = app.GetMsg(key); labels[i] == key {
			return nil
		}
	}
	return labels
}

// summaryFormatter localizes exported event titles.
func (app *PickerApp) summaryFormatter() func(text string) string {
	return func(text string) string {
		msg := app.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummary,
			TemplateData: map[string]any{"Text": text},
		})
		if msg == config.TKeyEvtSummary {
			return fmt.Sprintf(config.FormatSummaryDay, text)
		}
		return msg
	}
}

// holidaysLabel renders the holiday counter of the status line.
func (app *PickerApp) holidaysLabel(n int) string {
	msg := app.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyLblHolidays,
		TemplateData: map[string]any{"Count": n},
	})
	if msg == config.TKeyLblHolidays {
		return fmt.Sprintf(config.FallbackHolidays, n)
	}
	return msg
}
