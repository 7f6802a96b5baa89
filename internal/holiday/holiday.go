// Package holiday loads holidays from iCalendar feeds and indexes them by Jalali day.
package holiday

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// Set maps a Jalali day to the names of its holidays.
type Set map[jalali.Parts]string

// IsHoliday reports whether p is in the set. It matches picker.Options.IsHoliday.
func (s Set) IsHoliday(p jalali.Parts) bool {
	_, ok := s[p]
	return ok
}

// Name returns the holiday names of p.
func (s Set) Name(p jalali.Parts) (string, bool) {
	n, ok := s[p]
	return n, ok
}

// InMonth returns the holiday days of Jalali month jm of jy, in order.
func (s Set) InMonth(jy, jm int) []jalali.Parts {
	var out []jalali.Parts
	for p := range s {
		if p.Year == jy && p.Month == jm {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b jalali.Parts) int { return a.Day - b.Day })
	return out
}

func (s Set) add(p jalali.Parts, name string) {
	existing, ok := s[p]
	switch {
	case !ok || existing == "":
		s[p] = name
	case name != "" && !strings.Contains(existing, name):
		s[p] = existing + config.HolidayNameSep + name
	}
}

// Decode reads every VCALENDAR in r. Each event marks the days from DTSTART
// up to its exclusive end; events without a usable start are skipped.
// Timed events are read in loc (time.Local if nil).
func Decode(ctx context.Context, r io.Reader, cal *calendar.Calendar, loc *time.Location) (Set, error) {
	if loc == nil {
		loc = time.Local
	}
	log := slog.With(config.LogKeyComponent, config.CompHoliday)

	set := Set{}
	stats := struct{ events, skipped int }{}
	dec := ical.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrICalDecode, err)
		}

		for _, ev := range doc.Events() {
			start, err := ev.DateTimeStart(loc)
			if err != nil || start.IsZero() {
				stats.skipped++
				log.Debug(config.MsgSkippedHoliday, config.LogKeyError, err)
				continue
			}
			name, _ := ev.Props.Text(config.PropSummary)

			days := 1
			if end, err := ev.DateTimeEnd(loc); err == nil && end.After(start) {
				days = max(1, min(calendar.DaysBetween(start, end), config.MaxHolidaySpanDays))
			}
			for i := range days {
				set.add(cal.ToJalaliParts(calendar.AddDays(start, i)), name)
			}
			stats.events++
		}
	}

	log.Info(config.MsgHolidaysLoaded,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyEvents, stats.events),
			slog.Int(config.LogKeySkipped, stats.skipped),
			slog.Int(config.LogKeyCount, len(set)),
		),
	)
	return set, nil
}

// Loader downloads and decodes a configured holiday feed.
type Loader struct {
	Fetcher  Fetcher
	Cal      *calendar.Calendar
	Location *time.Location
}

// NewLoader returns a Loader using the HTTP fetcher.
func NewLoader(cal *calendar.Calendar) *Loader {
	return &Loader{Fetcher: NewHTTPFetcher(), Cal: cal}
}

// Load fetches feed with pass as the Basic Auth password.
func (l *Loader) Load(ctx context.Context, feed config.HolidayFeed, pass string) (Set, error) {
	if feed.URL == "" {
		return nil, errors.New(config.ErrFeedURLEmpty)
	}
	if l.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}

	rc, err := l.Fetcher.Fetch(ctx, feed.URL, feed.User, pass)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrHolidayLoad, err)
	}
	defer func() { _ = rc.Close() }()

	return Decode(ctx, rc, l.Cal, l.Location)
}
