// Package summary aggregates attendance over local calendar windows.
package summary

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/calendar"
	"geoattendance/backend/internal/pkg/config"
	records "geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/service/access"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
	Employees(ctx context.Context, siteID *string) ([]entity.Account, error)
}

type Records interface {
	Activity(ctx context.Context, filter records.Filter) ([]entity.AttendanceRecord, error)
	Report(ctx context.Context, filter records.Filter) ([]records.RecordView, error)
}

type Service struct {
	accounts Accounts
	records  Records
	loc      *time.Location
	cutoff   time.Duration
	cache    cache
	now      func() time.Time
}

// NewService wires the aggregation engine. client may be nil.
func NewService(accounts Accounts, records Records, policy *config.Policy, client *redis.Client, log *logrus.Logger) *Service {
	return &Service{
		accounts: accounts,
		records:  records,
		loc:      policy.Location(),
		cutoff:   policy.Cutoff(),
		cache:    cache{client: client, ttl: policy.SummaryCacheTTL, log: log},
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Summary computes present, late and absent counts per local day of the
// window containing the requested date (default today), and the breakdown
// of that date.
func (s *Service) Summary(ctx context.Context, actorID string, q Query) (Result, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return Result{}, err
	}
	siteID, err := access.SiteScope(actor, q.SiteID)
	if err != nil {
		return Result{}, err
	}

	rng := q.Range
	if strings.TrimSpace(rng) == "" {
		rng = calendar.RangeWeek
	}
	detail := calendar.Day(s.now(), s.loc)
	if q.Date != nil && strings.TrimSpace(*q.Date) != "" {
		if detail, err = calendar.ParseDate(*q.Date, s.loc); err != nil {
			return Result{}, err
		}
	}
	window, err := calendar.NewWindow(rng, detail, s.loc)
	if err != nil {
		return Result{}, err
	}

	key := fmt.Sprintf("summary:%s:%s:%s:%s", scopeKey(siteID), window.Range, window.From.Format(calendar.DateLayout), detail.Format(calendar.DateLayout))

	var res Result
	if s.cache.load(ctx, key, &res) {
		return res, nil
	}

	employees, err := s.accounts.Employees(ctx, siteID)
	if err != nil {
		return Result{}, err
	}

	from, to := window.StartUTC(), window.EndUTC()

	kind := entity.KindEntry
	list, err := s.records.Activity(ctx, records.Filter{From: &from, To: &to, SiteID: siteID, Kind: &kind, EmployeesOnly: true})
	if err != nil {
		return Result{}, err
	}

	res = Build(window, employees, list, detail, s.cutoff, s.loc)
	res.Scope, res.SiteID = scopeOf(siteID)

	s.cache.store(ctx, key, res)

	return res, nil
}

// Absent lists the employees with no entry on a local date (default today).
func (s *Service) Absent(ctx context.Context, actorID string, date, siteID *string) (AbsentList, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return AbsentList{}, err
	}
	scope, err := access.SiteScope(actor, siteID)
	if err != nil {
		return AbsentList{}, err
	}

	day := calendar.Day(s.now(), s.loc)
	if date != nil && strings.TrimSpace(*date) != "" {
		if day, err = calendar.ParseDate(*date, s.loc); err != nil {
			return AbsentList{}, err
		}
	}
	window, err := calendar.NewWindow(calendar.RangeDay, day, s.loc)
	if err != nil {
		return AbsentList{}, err
	}

	employees, err := s.accounts.Employees(ctx, scope)
	if err != nil {
		return AbsentList{}, err
	}

	from, to := window.StartUTC(), window.EndUTC()
	kind := entity.KindEntry
	list, err := s.records.Activity(ctx, records.Filter{From: &from, To: &to, SiteID: scope, Kind: &kind, EmployeesOnly: true})
	if err != nil {
		return AbsentList{}, err
	}

	items := Absentees(employees, list)
	return AbsentList{Date: day.Format(calendar.DateLayout), Count: len(items), Items: items}, nil
}

// AdminDashboard reports today's activity of the scope and its trailing
// seven day series.
func (s *Service) AdminDashboard(ctx context.Context, actorID string, siteID *string) (Dashboard, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return Dashboard{}, err
	}
	scope, err := access.SiteScope(actor, siteID)
	if err != nil {
		return Dashboard{}, err
	}

	employees, err := s.accounts.Employees(ctx, scope)
	if err != nil {
		return Dashboard{}, err
	}

	d, err := s.dashboard(ctx, records.Filter{SiteID: scope})
	if err != nil {
		return Dashboard{}, err
	}

	n := len(employees)
	d.Employees = &n
	d.Scope, d.SiteID = scopeOf(scope)
	return d, nil
}

// EmployeeDashboard reports the authenticated account's own activity.
func (s *Service) EmployeeDashboard(ctx context.Context, actorID string) (Dashboard, error) {
	d, err := s.dashboard(ctx, records.Filter{AccountID: &actorID})
	if err != nil {
		return Dashboard{}, err
	}
	d.AccountID = &actorID
	return d, nil
}

func (s *Service) dashboard(ctx context.Context, filter records.Filter) (Dashboard, error) {
	today := calendar.Day(s.now(), s.loc)
	window := calendar.Window{From: today.AddDate(0, 0, -6), To: today.AddDate(0, 0, 1)}

	from, to := window.StartUTC(), window.EndUTC()
	filter.From, filter.To = &from, &to

	list, err := s.records.Activity(ctx, filter)
	if err != nil {
		return Dashboard{}, err
	}

	series := Activity(window.Days(), list, s.loc)
	last := series[len(series)-1]

	return Dashboard{
		EntriesToday: last.Entries,
		ExitsToday:   last.Exits,
		OutsideToday: last.Outside,
		Series:       series,
	}, nil
}

// MonthlyReport lists every record of one employee, by exact code, in a
// local month given as YYYY-MM.
func (s *Service) MonthlyReport(ctx context.Context, actorID, code, month string, siteID *string) (MonthlyReport, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return MonthlyReport{}, web.NewRequestError(errors.New("code is required"), http.StatusBadRequest)
	}
	window, err := calendar.ParseMonth(month, s.loc)
	if err != nil {
		return MonthlyReport{}, err
	}

	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return MonthlyReport{}, err
	}
	scope, err := access.SiteScope(actor, siteID)
	if err != nil {
		return MonthlyReport{}, err
	}

	from, to := window.StartUTC(), window.EndUTC()
	list, err := s.records.Report(ctx, records.Filter{From: &from, To: &to, SiteID: scope, ExactCode: &code, EmployeesOnly: true})
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		Code:         code,
		Month:        window.From.Format("2006-01"),
		TotalRecords: len(list),
		Items:        make([]ReportItem, 0, len(list)),
	}

	days := make(map[string]bool)
	for _, v := range list {
		local := v.RecordedAt.In(s.loc)
		days[local.Format(calendar.DateLayout)] = true

		switch v.Kind {
		case entity.KindEntry:
			report.Entries++
		case entity.KindExit:
			report.Exits++
		}

		report.Items = append(report.Items, ReportItem{
			RecordID:       v.ID,
			RecordedAt:     v.RecordedAt.UTC(),
			LocalDate:      local.Format(calendar.DateLayout),
			LocalTime:      local.Format("15:04:05"),
			Kind:           v.Kind,
			InsideGeofence: v.InsideGeofence,
			Mode:           v.Mode,
			AccountCode:    v.AccountCode,
			SiteName:       v.SiteName,
		})
	}
	report.DaysWithRecords = len(days)

	return report, nil
}

// Location is the organization timezone the aggregations run in.
func (s *Service) Location() *time.Location {
	return s.loc
}

func scopeOf(siteID *string) (string, *string) {
	if siteID == nil {
		return ScopeGlobal, nil
	}
	return ScopeSite, siteID
}

func scopeKey(siteID *string) string {
	if siteID == nil {
		return "all"
	}
	return *siteID
}
