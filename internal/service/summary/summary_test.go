package summary_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/calendar"
	"geoattendance/backend/internal/pkg/config"
	records "geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/service/summary"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

func account(id, code, role, site string) entity.Account {
	a := entity.Account{BasicEntity: entity.BasicEntity{ID: id}, Code: code, Role: role}
	if site != "" {
		a.SiteID = str(site)
	}
	return a
}

type fakeAccounts []entity.Account

func (f fakeAccounts) GetByID(_ context.Context, id string) (entity.Account, error) {
	for _, a := range f {
		if a.ID == id {
			return a, nil
		}
	}
	return entity.Account{}, web.NewRequestError(errors.New("account not found"), http.StatusNotFound)
}

func (f fakeAccounts) Employees(_ context.Context, siteID *string) ([]entity.Account, error) {
	var out []entity.Account
	for _, a := range f {
		if auth.IsAdministrative(a.Role) {
			continue
		}
		if siteID != nil && (a.SiteID == nil || *a.SiteID != *siteID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeRecords struct {
	accounts fakeAccounts
	list     []entity.AttendanceRecord
	filters  []records.Filter
}

func (f *fakeRecords) match(filter records.Filter) []entity.AttendanceRecord {
	f.filters = append(f.filters, filter)
	var out []entity.AttendanceRecord
	for _, r := range f.list {
		if filter.From != nil && r.RecordedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !r.RecordedAt.Before(*filter.To) {
			continue
		}
		if filter.SiteID != nil && r.SiteID != *filter.SiteID {
			continue
		}
		if filter.AccountID != nil && r.AccountID != *filter.AccountID {
			continue
		}
		if filter.Kind != nil && r.Kind != *filter.Kind {
			continue
		}
		if filter.ExactCode != nil {
			a, _ := f.accounts.GetByID(context.Background(), r.AccountID)
			if a.Code != *filter.ExactCode {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (f *fakeRecords) Activity(_ context.Context, filter records.Filter) ([]entity.AttendanceRecord, error) {
	return f.match(filter), nil
}

func (f *fakeRecords) Report(_ context.Context, filter records.Filter) ([]records.RecordView, error) {
	var out []records.RecordView
	for _, r := range f.match(filter) {
		a, _ := f.accounts.GetByID(context.Background(), r.AccountID)
		out = append(out, records.RecordView{AttendanceRecord: r, AccountCode: a.Code, AccountRole: a.Role, SiteName: "Matriz"})
	}
	return out, nil
}

var seq int

func record(account, site, kind string, at time.Time) entity.AttendanceRecord {
	seq++
	return entity.AttendanceRecord{
		ID:         fmt.Sprintf("r%d", seq),
		AccountID:  account,
		SiteID:     site,
		Kind:       kind,
		RecordedAt: at.UTC(),
		Mode:       entity.ModeApp,
	}
}

type fixture struct {
	loc      *time.Location
	accounts fakeAccounts
	records  *fakeRecords
	svc      *summary.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	policy := config.DefaultPolicy()
	loc := policy.Location()

	f := &fixture{
		loc: loc,
		// Wednesday 10:00 local.
		now: time.Date(2024, 5, 8, 10, 0, 0, 0, loc),
		accounts: fakeAccounts{
			account("e1", "EMP-MAT-0001", auth.RoleEmployee, "site-a"),
			account("e2", "EMP-MAT-0002", auth.RoleEmployee, "site-a"),
			account("e3", "EMP-MAT-0003", auth.RoleEmployee, "site-a"),
			account("e4", "EMP-NOR-0004", auth.RoleEmployee, "site-b"),
			account("admin-a", "ADM-00000A", auth.RoleAdmin, "site-a"),
			account("super", "SUP-000001", auth.RoleSuperAdmin, ""),
		},
	}

	at := func(d, h, m int) time.Time { return time.Date(2024, 5, d, h, m, 0, 0, loc) }
	f.records = &fakeRecords{
		accounts: f.accounts,
		list: []entity.AttendanceRecord{
			record("e3", "site-a", entity.KindEntry, at(5, 7, 50)),
			record("e1", "site-a", entity.KindEntry, at(6, 9, 0)),
			record("e1", "site-a", entity.KindEntry, at(6, 8, 5)),
			record("e2", "site-a", entity.KindEntry, at(6, 8, 15)),
			record("e1", "site-a", entity.KindEntry, at(8, 8, 10)),
			record("e2", "site-a", entity.KindExit, at(8, 7, 0)),
			record("admin-a", "site-a", entity.KindEntry, at(8, 9, 30)),
			record("e4", "site-b", entity.KindEntry, at(8, 8, 45)),
		},
	}
	f.records.list[4].InsideGeofence = boolp(false)

	f.svc = summary.NewService(f.accounts, f.records, policy, nil, logrus.New()).
		WithClock(func() time.Time { return f.now })

	return f
}

func TestBuildWeek(t *testing.T) {
	f := newFixture(t)

	w, err := calendar.NewWindow("week", f.now, f.loc)
	require.NoError(t, err)
	employees, _ := f.accounts.Employees(context.Background(), str("site-a"))

	res := summary.Build(w, employees, f.records.list, f.now, 8*time.Hour+10*time.Minute, f.loc)

	assert.Equal(t, "2024-05-06", res.From)
	assert.Equal(t, "2024-05-12", res.To)
	assert.Equal(t, "08:10", res.RuleLateAfter)
	assert.Equal(t, 3, res.Employees)
	require.Len(t, res.Series, 7)

	assert.Equal(t, summary.Day{Date: "2024-05-06", Present: 2, Late: 1, Absent: 1}, res.Series[0])
	assert.Equal(t, summary.Day{Date: "2024-05-07", Present: 0, Late: 0, Absent: 3}, res.Series[1])
	assert.Equal(t, summary.Day{Date: "2024-05-08", Present: 1, Late: 0, Absent: 2}, res.Series[2])
	assert.Equal(t, summary.Totals{Present: 3, Late: 1, Absent: 18}, res.Totals)

	assert.Equal(t, "2024-05-08", res.Detail.Date)
	assert.Equal(t, 1, res.Detail.Present)
	assert.Equal(t, 2, res.Detail.AbsentCount)
	assert.Equal(t, 0, res.Detail.LateCount)
	assert.Equal(t, []string{"EMP-MAT-0002", "EMP-MAT-0003"}, []string{res.Detail.Absent[0].Code, res.Detail.Absent[1].Code})
}

func TestBuildLateDetail(t *testing.T) {
	f := newFixture(t)

	monday := time.Date(2024, 5, 6, 0, 0, 0, 0, f.loc)
	w, err := calendar.NewWindow("day", monday, f.loc)
	require.NoError(t, err)
	employees, _ := f.accounts.Employees(context.Background(), str("site-a"))

	res := summary.Build(w, employees, f.records.list, monday, 8*time.Hour+10*time.Minute, f.loc)

	require.Len(t, res.Detail.Late, 1)
	assert.Equal(t, summary.LateItem{AccountID: "e2", Code: "EMP-MAT-0002", Time: "08:15"}, res.Detail.Late[0])
	require.Len(t, res.Detail.Absent, 1)
	assert.Equal(t, "e3", res.Detail.Absent[0].AccountID)
}

func TestBuildLateBoundary(t *testing.T) {
	loc := config.DefaultPolicy().Location()
	day := time.Date(2024, 5, 6, 0, 0, 0, 0, loc)
	w, err := calendar.NewWindow("day", day, loc)
	require.NoError(t, err)
	employees := []entity.Account{account("e1", "A", auth.RoleEmployee, "s"), account("e2", "B", auth.RoleEmployee, "s")}

	res := summary.Build(w, employees, []entity.AttendanceRecord{
		record("e1", "s", entity.KindEntry, day.Add(8*time.Hour+10*time.Minute)),
		record("e2", "s", entity.KindEntry, day.Add(8*time.Hour+10*time.Minute+time.Second)),
	}, day, 8*time.Hour+10*time.Minute, loc)

	assert.Equal(t, 2, res.Series[0].Present)
	assert.Equal(t, 1, res.Series[0].Late)
	require.Len(t, res.Detail.Late, 1)
	assert.Equal(t, "e2", res.Detail.Late[0].AccountID)
}

func TestBuildWeekBoundary(t *testing.T) {
	loc := config.DefaultPolicy().Location()
	sunday := time.Date(2024, 5, 12, 0, 0, 0, 0, loc)
	w, err := calendar.NewWindow("week", sunday, loc)
	require.NoError(t, err)
	employees := []entity.Account{account("e1", "A", auth.RoleEmployee, "s")}

	res := summary.Build(w, employees, []entity.AttendanceRecord{
		// 23:30 local Sunday is already Monday in UTC.
		record("e1", "s", entity.KindEntry, sunday.Add(23*time.Hour+30*time.Minute)),
		record("e1", "s", entity.KindEntry, sunday.Add(24*time.Hour+30*time.Minute)),
	}, sunday, 8*time.Hour, loc)

	require.Len(t, res.Series, 7)
	assert.Equal(t, "2024-05-12", res.Series[6].Date)
	assert.Equal(t, 1, res.Series[6].Present)
	assert.Equal(t, 1, res.Series[6].Late)
	assert.Equal(t, 1, res.Totals.Present)
}

func TestSummaryScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Summary(ctx, "admin-a", summary.Query{SiteID: str("site-b")})
	require.NoError(t, err)
	assert.Equal(t, summary.ScopeSite, res.Scope)
	require.NotNil(t, res.SiteID)
	assert.Equal(t, "site-a", *res.SiteID)
	assert.Equal(t, 3, res.Employees)
	assert.Equal(t, "week", res.Range)

	global, err := f.svc.Summary(ctx, "super", summary.Query{Range: "day", Date: str("2024-05-08")})
	require.NoError(t, err)
	assert.Equal(t, summary.ScopeGlobal, global.Scope)
	assert.Nil(t, global.SiteID)
	assert.Equal(t, 4, global.Employees)
	assert.Equal(t, 2, global.Detail.Present)
	require.Len(t, global.Detail.Late, 1)
	assert.Equal(t, "EMP-NOR-0004", global.Detail.Late[0].Code)

	_, err = f.svc.Summary(ctx, "e1", summary.Query{})
	assert.Equal(t, http.StatusForbidden, web.StatusOf(err))

	_, err = f.svc.Summary(ctx, "super", summary.Query{Range: "quarter"})
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	_, err = f.svc.Summary(ctx, "super", summary.Query{Date: str("08/05/2024")})
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
}

func TestAbsent(t *testing.T) {
	f := newFixture(t)

	list, err := f.svc.Absent(context.Background(), "admin-a", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-08", list.Date)
	assert.Equal(t, 2, list.Count)

	list, err = f.svc.Absent(context.Background(), "super", str("2024-05-07"), nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-07", list.Date)
	assert.Equal(t, 4, list.Count)

	_, err = f.svc.Absent(context.Background(), "super", str("07/05/2024"), nil)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
}

func TestDashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.svc.EmployeeDashboard(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, mine.Series, 7)
	assert.Equal(t, "2024-05-02", mine.Series[0].Date)
	assert.Equal(t, "2024-05-08", mine.Series[6].Date)
	assert.Equal(t, 1, mine.EntriesToday)
	assert.Equal(t, 1, mine.OutsideToday)
	assert.Equal(t, 2, mine.Series[4].Entries)
	assert.Nil(t, mine.Employees)

	admin, err := f.svc.AdminDashboard(ctx, "admin-a", nil)
	require.NoError(t, err)
	require.NotNil(t, admin.Employees)
	assert.Equal(t, 3, *admin.Employees)
	assert.Equal(t, 2, admin.EntriesToday)
	assert.Equal(t, 1, admin.ExitsToday)
	assert.Equal(t, summary.ScopeSite, admin.Scope)
}

func TestMonthlyReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.MonthlyReport(ctx, "admin-a", " EMP-MAT-0001 ", "2024-05", nil)
	require.NoError(t, err)
	assert.Equal(t, "EMP-MAT-0001", report.Code)
	assert.Equal(t, "2024-05", report.Month)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.DaysWithRecords)
	assert.Equal(t, 3, report.Entries)
	assert.Equal(t, 0, report.Exits)
	assert.Equal(t, "2024-05-06", report.Items[0].LocalDate)

	_, err = f.svc.MonthlyReport(ctx, "admin-a", "", "2024-05", nil)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))

	_, err = f.svc.MonthlyReport(ctx, "admin-a", "EMP-MAT-0001", "2024-5", nil)
	assert.Equal(t, http.StatusBadRequest, web.StatusOf(err))
}
