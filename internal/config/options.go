package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// PopoverOptions mirrors the placement configuration of the floating calendar.
type PopoverOptions struct {
	Gutter     float32  `yaml:"gutter"`
	Padding    float32  `yaml:"padding"`
	Placements []string `yaml:"placements"`
	Align      string   `yaml:"align"`
}

// HolidayFeed describes an optional remote ICS feed whose events are shown as holidays.
// The password is never stored here; it is looked up in the system keyring by User.
type HolidayFeed struct {
	URL  string `yaml:"url"`
	User string `yaml:"user"`
}

// Options is the user-editable picker configuration persisted as YAML.
type Options struct {
	// Language selects the locale used for month and weekday labels.
	Language string `yaml:"language"`

	// WeekStart is the first grid column: "saturday" (default), "sunday" or "monday".
	WeekStart string `yaml:"week_start"`

	// Mode is "popover" (input + floating calendar) or "inline".
	Mode string `yaml:"mode"`

	// TimeFormat enables the time sub-picker: "", "HH:mm" or "HH:mm:ss".
	TimeFormat string `yaml:"time_format"`

	// MinDate and MaxDate are optional Jalali bounds written as YYYY/MM/DD.
	MinDate string `yaml:"min_date"`
	MaxDate string `yaml:"max_date"`

	// Step sizes of the time stepper.
	HourStep   int `yaml:"hour_step"`
	MinuteStep int `yaml:"minute_step"`
	SecondStep int `yaml:"second_step"`

	ServerPort string         `yaml:"server_port"`
	Popover    PopoverOptions `yaml:"popover"`
	Holidays   HolidayFeed    `yaml:"holidays"`
}

// DefaultOptions returns an in-memory default configuration.
func DefaultOptions() *Options {
	return &Options{
		Language:   DefaultLanguage,
		WeekStart:  DefaultWeekStart,
		Mode:       DefaultMode,
		TimeFormat: DefaultTimeFormat,
		HourStep:   1,
		MinuteStep: 1,
		SecondStep: 1,
		ServerPort: DefaultPort,
		Popover: PopoverOptions{
			Gutter:     DefaultGutter,
			Padding:    DefaultPadding,
			Placements: slices.Clone(DefaultPlacements),
			Align:      DefaultAlign,
		},
	}
}

// Normalize fills in missing or unknown values so that partially-filled files still work.
func (o *Options) Normalize() {
	if !slices.Contains(SupportedLanguages, o.Language) {
		o.Language = DefaultLanguage
	}
	switch o.WeekStart {
	case WeekStartSaturday, WeekStartSunday, WeekStartMonday:
	default:
		o.WeekStart = DefaultWeekStart
	}
	switch o.Mode {
	case ModePopover, ModeInline:
	default:
		o.Mode = DefaultMode
	}
	switch o.TimeFormat {
	case "", TimeFormatHM, TimeFormatHMS:
	default:
		o.TimeFormat = DefaultTimeFormat
	}
	if o.HourStep <= 0 {
		o.HourStep = 1
	}
	if o.MinuteStep <= 0 {
		o.MinuteStep = 1
	}
	if o.SecondStep <= 0 {
		o.SecondStep = 1
	}
	if o.ServerPort == "" {
		o.ServerPort = DefaultPort
	}
	if o.Popover.Gutter < 0 {
		o.Popover.Gutter = DefaultGutter
	}
	if o.Popover.Padding < 0 {
		o.Popover.Padding = DefaultPadding
	}

	valid := o.Popover.Placements[:0]
	for _, p := range o.Popover.Placements {
		switch p {
		case PlacementBottom, PlacementTop, PlacementLeft, PlacementRight:
			valid = append(valid, p)
		}
	}
	o.Popover.Placements = valid
	if len(o.Popover.Placements) == 0 {
		o.Popover.Placements = slices.Clone(DefaultPlacements)
	}

	switch o.Popover.Align {
	case AlignStart, AlignCenter, AlignEnd:
	default:
		o.Popover.Align = DefaultAlign
	}
}

// LoadOptions reads the YAML file at path. A missing file yields the defaults.
func LoadOptions(path string) (*Options, error) {
	log := slog.With(LogKeyComponent, CompConfig, LogKeyPath, path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(MsgOptionsDefault)
		return DefaultOptions(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrOptionsRead, err)
	}

	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrOptionsParse, err)
	}
	opts.Normalize()

	log.Debug(MsgOptionsLoaded)
	return opts, nil
}

// SaveOptions writes the options as YAML with owner-only permissions.
func SaveOptions(path string, opts *Options) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrOptionsWrite, err)
	}
	if err := os.WriteFile(path, data, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrOptionsWrite, err)
	}
	return nil
}

// DefaultOptionsPath returns the platform-specific location of the options file.
func DefaultOptionsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, OptionsFileName), nil
}
