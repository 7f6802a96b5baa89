package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/holiday"
)

// cacheItem stores the rendered selection feed and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// GridCell is one day of a served month grid.
type GridCell struct {
	Date           string `json:"date"`
	Jalali         string `json:"jalali"`
	Day            int    `json:"day"`
	InCurrentMonth bool   `json:"in_current_month"`
	Holiday        bool   `json:"holiday"`
	HolidayName    string `json:"holiday_name,omitempty"`
}

// GridResponse is the JSON body of the grid route.
type GridResponse struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	WeekStart string     `json:"week_start"`
	Weekdays  []string   `json:"weekdays"`
	Cells     []GridCell `json:"cells"`
}

// CalendarServer exposes the current selection as an ICS feed and month
// grids as JSON on the loopback interface.
type CalendarServer struct {
	// Lock-free reads: clients poll often, the picker updates rarely.
	cache     atomic.Pointer[cacheItem]
	holidays  atomic.Pointer[holiday.Set]
	weekStart atomic.Int32

	Port  string
	Cal   *calendar.Calendar
	Clock calendar.Clock
}

// NewCalendarServer creates a new instance of the server.
func NewCalendarServer(port string, cal *calendar.Calendar) *CalendarServer {
	s := &CalendarServer{
		Port:  port,
		Cal:   cal,
		Clock: calendar.RealClock{},
	}
	s.SetWeekStart(calendar.DefaultWeekStart)
	return s
}

// SetWeekStart sets the first column of grids requested without week_start.
func (s *CalendarServer) SetWeekStart(d time.Weekday) {
	s.weekStart.Store(int32(d))
}

// WeekStart returns the configured first grid column.
func (s *CalendarServer) WeekStart() time.Weekday {
	return time.Weekday(s.weekStart.Load())
}

// Handler returns the server's routes.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteGrid, s.handleGridRequest)
	mux.HandleFunc(config.RouteSelection, s.handleSelectionRequest)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served selection feed.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// SetHolidays replaces the holidays annotated on grid cells.
func (s *CalendarServer) SetHolidays(set holiday.Set) {
	s.holidays.Store(&set)
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// handleSelectionRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleSelectionRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleGridRequest serves the 6x7 grid of a Jalali month. Missing year or
// month default to the current month.
func (s *CalendarServer) handleGridRequest(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	resp, err := s.buildGrid(r)
	if err != nil {
		slog.Debug(config.ErrBadQuery,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyValue, r.URL.RawQuery,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgBadRequest, http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error(config.ErrJSONEncode,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func (s *CalendarServer) buildGrid(r *http.Request) (*GridResponse, error) {
	q := r.URL.Query()
	ref := s.Cal.Month(calendar.Today(s.Clock))

	if v := q.Get(config.QueryYear); v != "" {
		jy, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrBadQuery, err)
		}
		ref.Year = jy
	}
	if v := q.Get(config.QueryMonth); v != "" {
		jm, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrBadQuery, err)
		}
		ref.Month = jm
	}

	weekStart := s.WeekStart()
	if v := q.Get(config.QueryWeekStart); v != "" {
		weekStart = calendar.ParseWeekStart(v)
	}
	grid, err := s.Cal.BuildMonthGrid(ref.Year, ref.Month, weekStart)
	if err != nil {
		return nil, err
	}

	var holidays holiday.Set
	if p := s.holidays.Load(); p != nil {
		holidays = *p
	}

	resp := &GridResponse{
		Year:      ref.Year,
		Month:     ref.Month,
		WeekStart: weekStart.String(),
		Cells:     make([]GridCell, 0, config.GridCells),
	}
	for _, wd := range calendar.WeekdayOrder(weekStart) {
		resp.Weekdays = append(resp.Weekdays, wd.String())
	}
	for _, c := range grid.Cells() {
		name, isHoliday := holidays.Name(c.Jalali)
		resp.Cells = append(resp.Cells, GridCell{
			Date:           c.Gregorian.Format(config.DateFormatISO),
			Jalali:         c.Jalali.String(),
			Day:            c.Jalali.Day,
			InCurrentMonth: c.InCurrentMonth,
			Holiday:        isHoliday,
			HolidayName:    name,
		})
	}
	return resp, nil
}
