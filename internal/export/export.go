// Package export renders a picker selection as an iCalendar feed of all-day events.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
)

// Encoder turns selections into VCALENDAR documents.
type Encoder struct {
	Cal   *calendar.Calendar
	Clock calendar.Clock

	// FormatSummary allows the UI to inject a localized event title.
	// It receives the Jalali text of the day or range.
	FormatSummary func(text string) string
}

// NewEncoder returns an Encoder stamping events with the real clock.
func NewEncoder(cal *calendar.Calendar) *Encoder {
	return &Encoder{Cal: cal, Clock: calendar.RealClock{}}
}

type span struct {
	start, end time.Time // end is inclusive
	text       string
}

// Encode renders sel. Every selected day (or the range) becomes one all-day
// event; an empty selection yields a valid calendar with no events.
// It returns the ICS data and the number of events.
func (e *Encoder) Encode(ctx context.Context, sel calendar.Selection) ([]byte, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompExport,
		config.LogKeyKind, sel.Kind().String(),
	)

	spans := e.spans(sel)
	if len(spans) == 0 {
		log.Info(config.MsgExported, config.LogKeyEvents, 0)
		return []byte(config.StubVCalendar), 0, nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(e.now().UTC())

	for i, s := range spans {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		event := e.event(sel.Kind(), i, s)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgExported,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyEvents, len(spans)),
			slog.Int(config.LogKeySizeBytes, buf.Len()),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(spans), nil
}

func (e *Encoder) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

// spans flattens the selection. A range with only its start set exports that day.
func (e *Encoder) spans(sel calendar.Selection) []span {
	switch sel.Kind() {
	case calendar.KindMultiple:
		days := sel.Days()
		out := make([]span, len(days))
		for i, d := range days {
			out[i] = span{start: d, end: d, text: e.Cal.Format(d)}
		}
		return out
	case calendar.KindRange:
		r, _ := sel.DateRange()
		switch {
		case r.IsComplete():
			return []span{{start: r.Start, end: r.End, text: e.Cal.FormatRange(r)}}
		case !r.Start.IsZero():
			return []span{{start: r.Start, end: r.Start, text: e.Cal.Format(r.Start)}}
		}
		return nil
	}
	if d, ok := sel.Single(); ok {
		return []span{{start: d, end: d, text: e.Cal.Format(d)}}
	}
	return nil
}

func (e *Encoder) event(kind calendar.Kind, index int, s span) *ical.Event {
	// UIDs are stable across exports of the same selection.
	hash := sha256.Sum256(fmt.Appendf(nil, config.FormatHashInput, kind.String(), s.text))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, index, config.ICalDomain))

	summary := fmt.Sprintf(config.FormatSummaryDay, s.text)
	if e.FormatSummary != nil {
		summary = e.FormatSummary(s.text)
	}
	event.Props.SetText(config.PropSummary, summary)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(civilDate(s.start))
	event.Props.Set(dtStartProp)

	// DTEND of an all-day event is exclusive.
	dtEndProp := ical.NewProp(config.PropDTEnd)
	dtEndProp.SetDate(civilDate(calendar.AddDays(s.end, 1)))
	event.Props.Set(dtEndProp)

	return event
}

// civilDate keeps the local calendar day when the value is written as a DATE.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
