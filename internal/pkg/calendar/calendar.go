// Package calendar converts between UTC instants and local calendar days of
// the organization timezone.
package calendar

import (
	"net/http"
	"strings"
	"time"
	_ "time/tzdata"

	"geoattendance/backend/foundation/web"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
)

const DateLayout = "2006-01-02"

// Window is a half open range of local days [From, To). Both bounds are
// local midnights.
type Window struct {
	Range string
	From  time.Time
	To    time.Time
}

// NewWindow returns the day, the Monday based week or the calendar month
// containing ref.
func NewWindow(rng string, ref time.Time, loc *time.Location) (Window, error) {
	day := Day(ref, loc)

	switch strings.ToLower(strings.TrimSpace(rng)) {
	case RangeDay:
		return Window{Range: RangeDay, From: day, To: day.AddDate(0, 0, 1)}, nil
	case RangeWeek:
		offset := (int(day.Weekday()) + 6) % 7
		from := day.AddDate(0, 0, -offset)
		return Window{Range: RangeWeek, From: from, To: from.AddDate(0, 0, 7)}, nil
	case RangeMonth:
		from := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		return Window{Range: RangeMonth, From: from, To: from.AddDate(0, 1, 0)}, nil
	default:
		return Window{}, web.NewRequestError(errors.Errorf("range must be day, week or month, got %q", rng), http.StatusBadRequest)
	}
}

// Day returns the local midnight of the day containing t.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartUTC and EndUTC are the storage bounds of the window.
func (w Window) StartUTC() time.Time { return w.From.UTC() }

func (w Window) EndUTC() time.Time { return w.To.UTC() }

// Last is the final local day inside the window.
func (w Window) Last() time.Time { return w.To.AddDate(0, 0, -1) }

// Days lists every local day in the window.
func (w Window) Days() []time.Time {
	var days []time.Time
	for d := w.From; d.Before(w.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w Window) Contains(day time.Time) bool {
	return !day.Before(w.From) && day.Before(w.To)
}

// Key formats the local date of t.
func Key(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD value as a local midnight.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := date.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, web.NewRequestError(errors.Wrapf(err, "date must be YYYY-MM-DD, got %q", s), http.StatusBadRequest)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), nil
}

// ParseMonth parses a YYYY-MM value into the window of that month.
func ParseMonth(s string, loc *time.Location) (Window, error) {
	s = strings.TrimSpace(s)
	d, err := date.ParseDate(s + "-01")
	if err != nil || len(s) != len("2006-01") {
		return Window{}, web.NewRequestError(errors.Errorf("month must be YYYY-MM, got %q", s), http.StatusBadRequest)
	}
	from := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	return Window{Range: RangeMonth, From: from, To: from.AddDate(0, 1, 0)}, nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 values and zone-less values, the latter
// read as local time, and returns the instant in UTC.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &web.Error{
		Err:    errors.Errorf("invalid timestamp %q", s),
		Status: http.StatusUnprocessableEntity,
		Fields: []web.FieldError{{Field: "timestamp", Error: "invalid format"}},
	}
}
