package calendar

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
	"github.com/tartampluch/go-jalali-picker/internal/timeofday"
)

var (
	nonDigits   = regexp.MustCompile(`[^\d]+`)
	datePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	dateToken   = regexp.MustCompile(`\d{4}[^\d]\d{1,2}[^\d]\d{1,2}`)
)

// NormalizeDigits rewrites Persian and Arabic-Indic digits as ASCII digits.
func NormalizeDigits(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, text)
}

// ParseJalaliText parses YYYY/MM/DD style text. Any run of non-digit
// characters counts as one separator. Malformed text and impossible days
// yield false; no partial value is ever guessed.
func (c *Calendar) ParseJalaliText(text string) (time.Time, bool) {
	cleaned := strings.TrimSpace(NormalizeDigits(text))
	if cleaned == "" {
		return time.Time{}, false
	}

	m := datePattern.FindStringSubmatch(nonDigits.ReplaceAllString(cleaned, "-"))
	if m == nil {
		return time.Time{}, false
	}

	// The pattern guarantees short digit runs, so Atoi cannot fail here.
	jy, _ := strconv.Atoi(m[1])
	jm, _ := strconv.Atoi(m[2])
	jd, _ := strconv.Atoi(m[3])

	t, err := c.FromJalaliParts(jalali.Parts{Year: jy, Month: jm, Day: jd})
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseJalaliTextWithTime parses a date optionally followed by whitespace and
// an HH:mm or HH:mm:ss time. Without a time part the result is local noon.
// With layout HH:mm any seconds in the text are dropped.
func (c *Calendar) ParseJalaliTextWithTime(text, layout string) (time.Time, bool) {
	fields := strings.Fields(NormalizeDigits(text))
	switch len(fields) {
	case 1:
		return c.ParseJalaliText(fields[0])
	case 2:
	default:
		return time.Time{}, false
	}

	day, ok := c.ParseJalaliText(fields[0])
	if !ok {
		return time.Time{}, false
	}
	tod, ok := timeofday.Parse(fields[1])
	if !ok {
		return time.Time{}, false
	}
	if layout != config.TimeFormatHMS {
		tod.Second = 0
	}
	return timeofday.Apply(day, tod), true
}

// ParseRangeText extracts up to two date tokens from free text. The first
// token is required; a second one, when present, must also parse.
func (c *Calendar) ParseRangeText(text string) (DateRange, bool) {
	tokens := dateToken.FindAllString(NormalizeDigits(text), 2)
	if len(tokens) == 0 {
		return DateRange{}, false
	}

	start, ok := c.ParseJalaliText(tokens[0])
	if !ok {
		return DateRange{}, false
	}
	r := DateRange{Start: start}
	if len(tokens) > 1 {
		if r.End, ok = c.ParseJalaliText(tokens[1]); !ok {
			return DateRange{}, false
		}
	}
	return NormalizeRange(r), true
}

// ParseDateList extracts every date token from free text. All tokens must
// parse; text without any token yields false.
func (c *Calendar) ParseDateList(text string) ([]time.Time, bool) {
	tokens := dateToken.FindAllString(NormalizeDigits(text), -1)
	if len(tokens) == 0 {
		return nil, false
	}

	out := make([]time.Time, 0, len(tokens))
	for _, tok := range tokens {
		t, ok := c.ParseJalaliText(tok)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// FormatWithTime renders the Jalali day of t followed by its time in layout.
func (c *Calendar) FormatWithTime(t time.Time, layout string) string {
	return c.Format(t) + " " + timeofday.Format(timeofday.Of(t), layout)
}

// FormatRange renders the set ends of r separated by an en dash.
func (c *Calendar) FormatRange(r DateRange) string {
	switch {
	case r.IsComplete():
		return c.Format(r.Start) + config.RangeSepText + c.Format(r.End)
	case !r.Start.IsZero():
		return c.Format(r.Start)
	case !r.End.IsZero():
		return c.Format(r.End)
	}
	return ""
}
