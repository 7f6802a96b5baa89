package holiday_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-jalali-picker/internal/calendar"
	"github.com/tartampluch/go-jalali-picker/internal/config"
	"github.com/tartampluch/go-jalali-picker/internal/holiday"
	"github.com/tartampluch/go-jalali-picker/internal/jalali"
)

// -----------------------------------------------------------------------------
// Fixtures & Mocks
// -----------------------------------------------------------------------------

// Nowruz 1404 runs 2025-03-21..24 (DTEND exclusive); Tasua and Ashura share a
// day with a second event; the last event has no start.
const nowruzFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//Holidays//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nowruz@test\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250321\r\n" +
	"DTEND;VALUE=DATE:20250325\r\n" +
	"SUMMARY:Nowruz\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:tasua@test\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250705\r\n" +
	"SUMMARY:Tasua\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:other@test\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250705\r\n" +
	"SUMMARY:Bank holiday\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken@test\r\n" +
	"DTSTAMP:20250101T000000Z\r\n" +
	"SUMMARY:No date\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// MockFetcher simulates the network layer using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func newCal() *calendar.Calendar {
	return calendar.New(jalali.NewCivil(time.UTC))
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestDecode_MarksEveryDay(t *testing.T) {
	set, err := holiday.Decode(context.Background(), strings.NewReader(nowruzFeed), newCal(), time.UTC)
	require.NoError(t, err)

	for day := 1; day <= 4; day++ {
		assert.True(t, set.IsHoliday(jalali.Parts{Year: 1404, Month: 1, Day: day}), "Farvardin %d", day)
	}
	assert.False(t, set.IsHoliday(jalali.Parts{Year: 1404, Month: 1, Day: 5}), "DTEND is exclusive")
	assert.False(t, set.IsHoliday(jalali.Parts{Year: 1403, Month: 12, Day: 30}))

	name, ok := set.Name(jalali.Parts{Year: 1404, Month: 1, Day: 1})
	require.True(t, ok)
	assert.Equal(t, "Nowruz", name)

	// 2025-07-05 is 1404/04/14.
	name, ok = set.Name(jalali.Parts{Year: 1404, Month: 4, Day: 14})
	require.True(t, ok)
	assert.Equal(t, "Tasua"+config.HolidayNameSep+"Bank holiday", name)

	assert.Len(t, set, 5, "the event without a start is skipped")
}

func TestSet_InMonth(t *testing.T) {
	set, err := holiday.Decode(context.Background(), strings.NewReader(nowruzFeed), newCal(), time.UTC)
	require.NoError(t, err)

	days := set.InMonth(1404, 1)
	require.Len(t, days, 4)
	assert.Equal(t, 1, days[0].Day)
	assert.Equal(t, 4, days[3].Day)
	assert.Empty(t, set.InMonth(1404, 2))
}

func TestDecode_Malformed(t *testing.T) {
	_, err := holiday.Decode(context.Background(), strings.NewReader("BEGIN:VCALENDAR\r\nBROKEN"), newCal(), time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrICalDecode)
}

func TestLoader_Load(t *testing.T) {
	feed := config.HolidayFeed{URL: "https://example.com/holidays.ics", User: "me"}

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, feed.URL, "me", "pw").
		Return(io.NopCloser(strings.NewReader(nowruzFeed)), nil)

	loader := &holiday.Loader{Fetcher: fetcher, Cal: newCal(), Location: time.UTC}
	set, err := loader.Load(context.Background(), feed, "pw")

	require.NoError(t, err)
	assert.True(t, set.IsHoliday(jalali.Parts{Year: 1404, Month: 1, Day: 2}))
	fetcher.AssertExpectations(t)
}

func TestLoader_Errors(t *testing.T) {
	loader := &holiday.Loader{Cal: newCal()}

	_, err := loader.Load(context.Background(), config.HolidayFeed{}, "")
	assert.EqualError(t, err, config.ErrFeedURLEmpty)

	_, err = loader.Load(context.Background(), config.HolidayFeed{URL: "https://example.com"}, "")
	assert.EqualError(t, err, config.ErrFetcherMissing)

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))
	loader.Fetcher = fetcher

	_, err = loader.Load(context.Background(), config.HolidayFeed{URL: "https://example.com"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrHolidayLoad)
}
