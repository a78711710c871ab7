package summary

import (
	"fmt"
	"time"

	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/calendar"
)

// Build aggregates the first entry of every employee per local day of w.
// An employee is present on a day with at least one entry, late when the
// earliest entry falls strictly after cutoff, and absent otherwise.
func Build(w calendar.Window, employees []entity.Account, records []entity.AttendanceRecord, detail time.Time, cutoff time.Duration, loc *time.Location) Result {
	roster := make(map[string]bool, len(employees))
	for _, e := range employees {
		roster[e.ID] = true
	}

	first := make(map[dayKey]time.Time)
	for _, r := range records {
		if r.Kind != entity.KindEntry || !roster[r.AccountID] {
			continue
		}
		local := r.RecordedAt.In(loc)
		k := dayKey{date: local.Format(calendar.DateLayout), accountID: r.AccountID}
		if prev, ok := first[k]; !ok || local.Before(prev) {
			first[k] = local
		}
	}

	res := Result{
		Range:         w.Range,
		From:          w.From.Format(calendar.DateLayout),
		To:            w.Last().Format(calendar.DateLayout),
		RuleLateAfter: formatClock(cutoff),
		Employees:     len(employees),
		Series:        []Day{},
	}

	for _, d := range w.Days() {
		day := Day{Date: d.Format(calendar.DateLayout)}
		for _, e := range employees {
			t, ok := first[dayKey{date: day.Date, accountID: e.ID}]
			if !ok {
				continue
			}
			day.Present++
			if isLate(t, cutoff) {
				day.Late++
			}
		}
		day.Absent = len(employees) - day.Present

		res.Totals.Present += day.Present
		res.Totals.Late += day.Late
		res.Totals.Absent += day.Absent
		res.Series = append(res.Series, day)
	}

	dd := calendar.Day(detail, loc).Format(calendar.DateLayout)
	res.Detail = Detail{Date: dd, Employees: len(employees), Absent: []AbsentItem{}, Late: []LateItem{}}
	for _, e := range employees {
		t, ok := first[dayKey{date: dd, accountID: e.ID}]
		if !ok {
			res.Detail.Absent = append(res.Detail.Absent, AbsentItem{AccountID: e.ID, Code: e.Code, SiteID: e.SiteID})
			continue
		}
		if isLate(t, cutoff) {
			res.Detail.Late = append(res.Detail.Late, LateItem{AccountID: e.ID, Code: e.Code, Time: t.Format("15:04")})
		}
	}
	res.Detail.AbsentCount = len(res.Detail.Absent)
	res.Detail.LateCount = len(res.Detail.Late)
	res.Detail.Present = len(employees) - res.Detail.AbsentCount

	return res
}

type dayKey struct {
	date      string
	accountID string
}

func isLate(local time.Time, cutoff time.Duration) bool {
	return clock(local) > cutoff
}

// clock is the offset of local from its wall clock midnight.
func clock(local time.Time) time.Duration {
	return time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second +
		time.Duration(local.Nanosecond())
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// Absentees lists the employees without any entry on the local day.
func Absentees(employees []entity.Account, records []entity.AttendanceRecord) []AbsentItem {
	present := make(map[string]bool)
	for _, r := range records {
		if r.Kind == entity.KindEntry {
			present[r.AccountID] = true
		}
	}

	items := []AbsentItem{}
	for _, e := range employees {
		if !present[e.ID] {
			items = append(items, AbsentItem{AccountID: e.ID, Code: e.Code, SiteID: e.SiteID})
		}
	}
	return items
}

// Activity buckets records into one counter per local day from the first
// day of days through the last.
func Activity(days []time.Time, records []entity.AttendanceRecord, loc *time.Location) []DayActivity {
	index := make(map[string]int, len(days))
	series := make([]DayActivity, len(days))
	for i, d := range days {
		series[i].Date = d.Format(calendar.DateLayout)
		index[series[i].Date] = i
	}

	for _, r := range records {
		i, ok := index[calendar.Key(r.RecordedAt, loc)]
		if !ok {
			continue
		}
		switch r.Kind {
		case entity.KindEntry:
			series[i].Entries++
		case entity.KindExit:
			series[i].Exits++
		}
		if r.InsideGeofence != nil && !*r.InsideGeofence {
			series[i].Outside++
		}
	}

	return series
}
