package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Jalali-Picker/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Jalali Picker"
	AppID             = "com.github.tartampluch.go-jalali-picker"
	KeyringService    = "com.github.tartampluch.go-jalali-picker"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	OptionsFileName   = "options.yaml"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagConfig       = "config"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescConfig   = "Path to the YAML options file (default: user config dir)"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Calendar Rules
// -----------------------------------------------------------------------------

const (
	// GridRows and GridColumns fix the month grid at 6x7 regardless of month length.
	GridRows    = 6
	GridColumns = 7
	GridCells   = GridRows * GridColumns

	MonthsPerYear = 12
	DaysPerWeek   = 7

	// YearPageSize is the number of years shown per page of the year panel.
	YearPageSize = 12

	// NoonHour anchors date-only instants so the local calendar day survives DST shifts.
	NoonHour = 12

	JalaliSeparator     = "/"
	JalaliPadYear       = 4
	JalaliPadMonthDay   = 2
	FormatJalaliDate    = "%0*d%s%0*d%s%0*d"
	FormatMonthLabel    = "%s %d"
	FormatMonthFallback = "%d / %d"
	DateFormatISO       = "2006-01-02"
)

// -----------------------------------------------------------------------------
// Time Picker
// -----------------------------------------------------------------------------

const (
	TimeFormatHM  = "HH:mm"
	TimeFormatHMS = "HH:mm:ss"

	HoursPerDay      = 24
	MinutesPerHour   = 60
	SecondsPerMinute = 60

	// Press-and-hold acceleration. These encode UX tuning and are kept literal.
	RepeatInitialInterval = 200 * time.Millisecond
	RepeatFastInterval    = 50 * time.Millisecond
	RepeatFastestInterval = 20 * time.Millisecond
	RepeatFastAfter       = 500 * time.Millisecond
	RepeatFastestAfter    = 1000 * time.Millisecond
)

// -----------------------------------------------------------------------------
// Popover Placement
// -----------------------------------------------------------------------------

const (
	DefaultGutter  float32 = 8
	DefaultPadding float32 = 8

	PlacementBottom = "bottom"
	PlacementTop    = "top"
	PlacementLeft   = "left"
	PlacementRight  = "right"

	AlignStart  = "start"
	AlignCenter = "center"
	AlignEnd    = "end"

	DefaultAlign = AlignEnd
)

// DefaultPlacements is the placement preference order used when none is configured.
var DefaultPlacements = []string{PlacementBottom, PlacementTop, PlacementLeft, PlacementRight}

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 560
	MainWindowHeight    = 480
	SettingsWindowWidth = 520
	DayCellMinWidth     = 36
	DayCellMinHeight    = 32
	LayoutColumnsDouble = 2

	PrefLanguage    = "language"
	PrefOptionsPath = "options_path"
	PrefLastRun     = "last_run_version"

	WeekStartSaturday = "saturday"
	WeekStartSunday   = "sunday"
	WeekStartMonday   = "monday"

	ModePopover = "popover"
	ModeInline  = "inline"

	IconPrev     = "‹"
	IconNext     = "›"
	IconUp       = "▲"
	IconDown     = "▼"
	TimeSepLabel = ":"
	RangeSepText = " – "
	MultiSepText = ", "

	// PanelColumns lays out the year and month panels as 4 rows of 3.
	PanelColumns     = 3
	FormatYearPage   = "%d – %d"
	FocusStrokeWidth = 2
	TodayStrokeWidth = 1

	// FrameInterval approximates one display frame for popover tracking.
	FrameInterval      = 16 * time.Millisecond
	ResizePollInterval = 250 * time.Millisecond
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"fa", "en"}

// DefaultWeekdayHeaders are numeric headers used when no labels are injected.
var DefaultWeekdayHeaders = []string{"1", "2", "3", "4", "5", "6", "7"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle         = "win_title"
	TKeyLblLanguage      = "lbl_language"
	TKeyLblDate          = "lbl_date"
	TKeyLblDates         = "lbl_dates"
	TKeyLblRange         = "lbl_range"
	TKeyLblTime          = "lbl_time"
	TKeyLblFeed          = "lbl_feed"
	TKeyLblHolidays      = "lbl_holidays"
	TKeyPlaceholder      = "placeholder_date"
	TKeyPlaceholderStart = "placeholder_start"
	TKeyPlaceholderEnd   = "placeholder_end"
	TKeyBtnToday         = "btn_today"
	TKeyBtnClear         = "btn_clear"
	TKeyBtnSettings      = "btn_settings"
	TKeyBtnSave          = "btn_save"
	TKeyBtnCancel        = "btn_cancel"
	TKeyEvtSummary       = "evt_summary"

	// Settings window.
	TKeyWinSettings   = "win_settings"
	TKeyLblGeneral    = "lbl_general"
	TKeyLblWeekStart  = "lbl_week_start"
	TKeyLblMode       = "lbl_mode"
	TKeyLblTimeFormat = "lbl_time_format"
	TKeyLblMinDate    = "lbl_min_date"
	TKeyLblMaxDate    = "lbl_max_date"
	TKeyLblPort       = "lbl_port"
	TKeyHelpPort      = "help_port"
	TKeyLblFeedURL    = "lbl_feed_url"
	TKeyHelpFeedURL   = "help_feed_url"
	TKeyLblUser       = "lbl_user"
	TKeyLblPass       = "lbl_pass"
	TKeyLblFooter     = "lbl_footer"
	TKeyErrPortReq    = "err_port_req"
	TKeyErrPortNum    = "err_port_num"
	TKeyErrPortRange  = "err_port_range"
	TKeyErrBadDate    = "err_bad_date"
	TKeyTimeNone      = "time_none"

	// TKeyMonthPrefix + "1".."12" and TKeyWeekdayPrefix + "0".."6" (time.Weekday).
	TKeyMonthPrefix   = "month_"
	TKeyWeekdayPrefix = "weekday_"
)

// Fallbacks used when a translation is missing.
const (
	FallbackHolidays  = "Holidays: %d"
	TitleStartupError = "Startup Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	// FormatHint renders "<label>: <value>" under form fields.
	FormatHint = "%s: %s"

	// FormatFeedURL expects host, separator, port and route.
	FormatFeedURL = "http://%s%s%s%s"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	DefaultPort       = "18081"
	DefaultLanguage   = "fa"
	DefaultWeekStart  = WeekStartSaturday
	DefaultTimeFormat = TimeFormatHM
	DefaultMode       = ModePopover
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Jalali Picker//Export//EN"
	ICalCalName = "Jalali Selection"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "jalalipicker"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTEnd      = "DTEND"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	FormatUID        = "%s-%d@%s"
	FormatSummaryDay = "%s"
	UIDHashLength    = 16
	FormatHashInput  = "%s|%s"

	// Holiday feeds: names of same-day events are joined; long events are capped.
	HolidayNameSep     = "; "
	MaxHolidaySpanDays = 366

	// StubVCalendar is the minimal valid iCalendar object served for an empty selection.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	MinPort             = 1
	MaxPort             = 65535
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB, holiday feeds are small
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteSelection      = "/"
	RouteGrid           = "/grid"
	AddrSeparator       = ":"

	QueryYear      = "jy"
	QueryMonth     = "jm"
	QueryWeekStart = "week_start"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidJalali    = "invalid Jalali date"
	ErrYearOutOfRange   = "year outside the supported range"
	ErrMonthOutOfRange  = "month outside 1..12"
	ErrDayOutOfRange    = "day outside the month"
	ErrGridMonth        = "cannot build month grid"
	ErrMonthLength      = "cannot compute month length"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrFetcherMissing   = "internal error: holiday fetcher is not initialized"
	ErrFeedURLEmpty     = "configuration error: holiday feed URL is empty"
	ErrICalDecode       = "failed to decode iCalendar data"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrJSONEncode       = "failed to encode JSON response"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrConfigDir        = "could not determine user config dir"
	ErrCreateDir        = "could not create app directory"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrLocNotInit       = "localizer not initialized"
	ErrOptionsRead      = "failed to read options file"
	ErrOptionsParse     = "failed to parse options file"
	ErrOptionsWrite     = "failed to write options file"
	ErrOptionsBound     = "invalid Jalali bound in options"
	ErrBadQuery         = "invalid grid query"
	ErrHolidayLoad      = "failed to load holiday feed"
	ErrRequestCreate    = "failed to create request"
	ErrNetwork          = "network error during fetch"
	ErrHTTPStatus       = "server returned unexpected status"
	ErrKeyringLookup    = "password retrieval failed (might be empty)"
	ErrNoCanvas         = "widget is not attached to a canvas"
	ErrPlacementMeasure = "popover measurement unavailable"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Selection feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgBadRequest   = "Bad Request"
	HTTPMsgInternalErr  = "Internal Server Error"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Selection feed updated"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgOptionsLoaded   = "Options loaded"
	MsgOptionsDefault  = "Options file missing, using defaults"
	MsgSelectRejected  = "Selection rejected: outside bounds"
	MsgParseRejected   = "Text rejected: not a valid Jalali date"
	MsgSelectionChange = "Selection changed"
	MsgNavRejected     = "Navigation left the supported year range"
	MsgPlacement       = "Popover placed"
	MsgPlacementSkip   = "Popover placement skipped"
	MsgRepeatStart     = "Stepper hold started"
	MsgRepeatStop      = "Stepper hold released"
	MsgHolidaysLoaded  = "Holiday feed loaded"
	MsgSkippedHoliday  = "Skipping holiday without a usable date"
	MsgExported        = "Selection exported"
	MsgFeedDownload    = "Initiating holiday feed download"
	MsgFeedStatus      = "Server returned error status"
	MsgFeedReceiving   = "Holiday feed downloading"
	MsgHolidaysFailed  = "Holiday feed unavailable"
	MsgSettingsOpen    = "Opening settings window"
	MsgSettingsFocus   = "Settings window already open, requesting focus"
	MsgSettingsSaved   = "Saving options"
	MsgPassSaveFailed  = "Failed to save credentials to keyring"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyUser      = "user"
	LogKeyValue     = "value"
	LogKeyText      = "text"
	LogKeyDate      = "date"
	LogKeyKind      = "kind"
	LogKeyCount     = "count"
	LogKeyField     = "field"
	LogKeyDelta     = "delta"
	LogKeyPlacement = "placement"
	LogKeyTop       = "top"
	LogKeyLeft      = "left"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyPath      = "path"
	LogKeyDuration  = "duration_ms"
	LogKeyStats     = "stats"
	LogKeyEvents    = "events"
	LogKeySkipped   = "skipped"
	LogKeyLength    = "content_length"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompPicker  = "picker"
	CompPopover = "popover"
	CompStepper = "stepper"
	CompExport  = "export"
	CompServer  = "server"
	CompHoliday = "holiday"
	CompConfig  = "config"
	CompMain    = "main"
	CompI18n    = "i18n"
)
