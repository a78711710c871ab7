package calendar_test

import (
	"net/http"
	"testing"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/pkg/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guayaquil(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Guayaquil")
	require.NoError(t, err)
	return loc
}

func TestNewWindow(t *testing.T) {
	loc := guayaquil(t)
	// Thursday 2024-02-29 22:30 local is already Friday in UTC.
	ref := time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC)

	day, err := calendar.NewWindow("day", ref, loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", day.From.Format(calendar.DateLayout))
	assert.True(t, time.Date(2024, 2, 29, 5, 0, 0, 0, time.UTC).Equal(day.StartUTC()))
	assert.True(t, time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC).Equal(day.EndUTC()))

	week, err := calendar.NewWindow("WEEK", ref, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, week.From.Weekday())
	assert.Equal(t, "2024-02-26", week.From.Format(calendar.DateLayout))
	assert.Equal(t, "2024-03-03", week.Last().Format(calendar.DateLayout))
	assert.Len(t, week.Days(), 7)

	month, err := calendar.NewWindow("month", ref, loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", month.From.Format(calendar.DateLayout))
	assert.Equal(t, "2024-03-01", month.To.Format(calendar.DateLayout))
	assert.Len(t, month.Days(), 29)

	_, err = calendar.NewWindow("year", ref, loc)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
}

func TestWeekStartingSunday(t *testing.T) {
	loc := guayaquil(t)
	sunday := time.Date(2024, 3, 3, 12, 0, 0, 0, loc)

	week, err := calendar.NewWindow("week", sunday, loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-26", week.From.Format(calendar.DateLayout))
	assert.True(t, week.Contains(calendar.Day(sunday, loc)))
	assert.False(t, week.Contains(week.To))
}

func TestParseDateAndMonth(t *testing.T) {
	loc := guayaquil(t)

	d, err := calendar.ParseDate("2024-05-06", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 6, 0, 0, 0, 0, loc).Equal(d))

	_, err = calendar.ParseDate("06/05/2024", loc)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	m, err := calendar.ParseMonth("2023-12", loc)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", m.To.Format(calendar.DateLayout))

	_, err = calendar.ParseMonth("2023-13", loc)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
}

func TestParseTimestamp(t *testing.T) {
	loc := guayaquil(t)

	naive, err := calendar.ParseTimestamp("2024-05-06T08:15:00", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 6, 13, 15, 0, 0, time.UTC).Equal(naive))

	zoned, err := calendar.ParseTimestamp("2024-05-06T08:15:00Z", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 6, 8, 15, 0, 0, time.UTC).Equal(zoned))

	_, err = calendar.ParseTimestamp("yesterday", loc)
	assert.Equal(t, http.StatusUnprocessableEntity, web.StatusOf(err))
}
