package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestCalendarRules_Sanity pins the grid shape and the stepper tuning.
func TestCalendarRules_Sanity(t *testing.T) {
	assert.Equal(t, 42, config.GridCells)
	assert.Equal(t, 12, config.NoonHour)

	assert.Equal(t, 200*time.Millisecond, config.RepeatInitialInterval)
	assert.Equal(t, 50*time.Millisecond, config.RepeatFastInterval)
	assert.Equal(t, 20*time.Millisecond, config.RepeatFastestInterval)
	assert.Less(t, config.RepeatFastAfter, config.RepeatFastestAfter)
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Jalali-Picker/"))
}

func TestDefaultOptions_Normalized(t *testing.T) {
	opts := config.DefaultOptions()
	before := *opts
	opts.Normalize()

	assert.Equal(t, before.Language, opts.Language)
	assert.Equal(t, config.DefaultPlacements, opts.Popover.Placements)
	assert.Equal(t, config.AlignEnd, opts.Popover.Align)
	assert.Equal(t, float32(8), opts.Popover.Gutter)
}

func TestOptions_Normalize_FixesGarbage(t *testing.T) {
	opts := &config.Options{
		Language:   "xx",
		WeekStart:  "friday",
		Mode:       "floating",
		TimeFormat: "hh",
		HourStep:   -1,
		Popover: config.PopoverOptions{
			Gutter:     -3,
			Placements: []string{"diagonal", config.PlacementTop},
			Align:      "middle",
		},
	}
	opts.Normalize()

	assert.Equal(t, config.DefaultLanguage, opts.Language)
	assert.Equal(t, config.WeekStartSaturday, opts.WeekStart)
	assert.Equal(t, config.ModePopover, opts.Mode)
	assert.Equal(t, config.TimeFormatHM, opts.TimeFormat)
	assert.Equal(t, 1, opts.HourStep)
	assert.Equal(t, config.DefaultGutter, opts.Popover.Gutter)
	assert.Equal(t, []string{config.PlacementTop}, opts.Popover.Placements)
	assert.Equal(t, config.AlignEnd, opts.Popover.Align)
	assert.Equal(t, config.DefaultPort, opts.ServerPort)
}

func TestLoadOptions_MissingFileUsesDefaults(t *testing.T) {
	opts, err := config.LoadOptions(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOptions(), opts)
}

func TestLoadOptions_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.OptionsFileName)

	want := config.DefaultOptions()
	want.Language = "en"
	want.WeekStart = config.WeekStartMonday
	want.MinDate = "1403/01/01"
	want.Popover.Placements = []string{config.PlacementTop, config.PlacementBottom}

	require.NoError(t, config.SaveOptions(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	got, err := config.LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadOptions_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.OptionsFileName)
	content := "week_start: sunday\npopover:\n  align: center\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	opts, err := config.LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, config.WeekStartSunday, opts.WeekStart)
	assert.Equal(t, config.AlignCenter, opts.Popover.Align)
	// Untouched fields keep their defaults.
	assert.Equal(t, config.DefaultGutter, opts.Popover.Gutter)
	assert.Equal(t, config.DefaultPlacements, opts.Popover.Placements)
}

func TestLoadOptions_ZeroGutterIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.OptionsFileName)
	content := "popover:\n  gutter: 0\n  padding: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))

	opts, err := config.LoadOptions(path)
	require.NoError(t, err)

	assert.Zero(t, opts.Popover.Gutter)
	assert.Zero(t, opts.Popover.Padding)
}

func TestLoadOptions_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.OptionsFileName)
	require.NoError(t, os.WriteFile(path, []byte("week_start: [unclosed"), config.FilePermUserRW))

	_, err := config.LoadOptions(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrOptionsParse)
}
