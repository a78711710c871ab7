package attendance

import (
	"context"
	"net/http"
	"strings"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/calendar"
	"geoattendance/backend/internal/repository/postgres"
	records "geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/repository/postgres/manual"
	"geoattendance/backend/internal/service/access"
	"geoattendance/backend/internal/service/verification"

	"github.com/pkg/errors"
)

const (
	defaultPageLimit = 200
	maxPageLimit     = 500
	defaultMineLimit = 10
	maxMineLimit     = 50
)

// ListRecords pages through employee records inside a local window, newest
// first. ADMIN is pinned to its own site.
func (s *Service) ListRecords(ctx context.Context, actorID string, q RangeQuery) (Page[RecordItem], error) {
	siteID, window, err := s.scope(ctx, actorID, q)
	if err != nil {
		return Page[RecordItem]{}, err
	}

	limit, offset := postgres.Page(q.Limit, q.Offset, defaultPageLimit, maxPageLimit)
	from, to := window.StartUTC(), window.EndUTC()

	list, total, err := s.records.List(ctx, records.Filter{
		From:          &from,
		To:            &to,
		SiteID:        siteID,
		Code:          trimmed(q.Code),
		EmployeesOnly: true,
		Limit:         &limit,
		Offset:        &offset,
	})
	if err != nil {
		return Page[RecordItem]{}, err
	}

	items := make([]RecordItem, 0, len(list))
	for _, v := range list {
		items = append(items, s.recordItem(v))
	}

	return newPage(window, limit, offset, total, items), nil
}

// RecordDetail serves one employee record to a verified administrator and
// logs the view.
func (s *Service) RecordDetail(ctx context.Context, actorID, recordID, actionToken, ip string) (RecordDetail, error) {
	if err := s.guard.RequireAction(actionToken, actorID, verification.ActionAttendanceView); err != nil {
		return RecordDetail{}, err
	}

	actor, err := s.administrator(ctx, actorID)
	if err != nil {
		return RecordDetail{}, err
	}

	view, err := s.records.GetDetail(ctx, recordID)
	if err != nil {
		return RecordDetail{}, err
	}
	if auth.IsAdministrative(view.AccountRole) {
		return RecordDetail{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "attendance record"), http.StatusNotFound)
	}
	if !access.CanManage(actor, view.SiteID) {
		return RecordDetail{}, web.NewRequestError(errors.New("record belongs to another site"), http.StatusForbidden)
	}

	entry := audit.NewEntry(actor.ID, audit.EntityRecord, view.ID, "VIEW_DETAIL", ip, map[string]interface{}{
		"reason": "verified",
		"code":   view.AccountCode,
	}, s.now())
	if err = s.records.CreateViewAudit(ctx, &entry); err != nil {
		return RecordDetail{}, err
	}

	return s.recordDetail(view), nil
}

// Mine returns the latest records of the authenticated account.
func (s *Service) Mine(ctx context.Context, actorID string, limit *int) ([]RecordItem, error) {
	l, _ := postgres.Page(limit, nil, defaultMineLimit, maxMineLimit)
	offset := 0

	list, _, err := s.records.List(ctx, records.Filter{
		AccountID: &actorID,
		Limit:     &l,
		Offset:    &offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]RecordItem, 0, len(list))
	for _, v := range list {
		items = append(items, s.recordItem(v))
	}
	return items, nil
}

// ManualList pages through manual requests filed inside a local window.
func (s *Service) ManualList(ctx context.Context, actorID string, q ManualQuery) (Page[RequestItem], error) {
	status, err := parseStatus(q.Status)
	if err != nil {
		return Page[RequestItem]{}, err
	}

	siteID, window, err := s.scope(ctx, actorID, q.RangeQuery)
	if err != nil {
		return Page[RequestItem]{}, err
	}

	limit, offset := postgres.Page(q.Limit, q.Offset, defaultPageLimit, maxPageLimit)
	from, to := window.StartUTC(), window.EndUTC()

	list, total, err := s.requests.List(ctx, manual.Filter{
		Status: &status,
		From:   &from,
		To:     &to,
		SiteID: siteID,
		Code:   trimmed(q.Code),
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return Page[RequestItem]{}, err
	}

	items := make([]RequestItem, 0, len(list))
	for _, v := range list {
		items = append(items, s.requestItem(v))
	}

	return newPage(window, limit, offset, total, items), nil
}

// ManualCount counts requests by status across all time.
func (s *Service) ManualCount(ctx context.Context, actorID, status string, siteID, code *string) (Count, error) {
	st, err := parseStatus(status)
	if err != nil {
		return Count{}, err
	}

	actor, err := s.administrator(ctx, actorID)
	if err != nil {
		return Count{}, err
	}
	scope, err := access.SiteScope(actor, siteID)
	if err != nil {
		return Count{}, err
	}

	n, err := s.requests.Count(ctx, manual.Filter{Status: &st, SiteID: scope, Code: trimmed(code)})
	if err != nil {
		return Count{}, err
	}

	return Count{Status: st, Count: n}, nil
}

// ManualDetail serves one employee request to a verified administrator and
// logs the view.
func (s *Service) ManualDetail(ctx context.Context, actorID, requestID, actionToken, ip string) (RequestDetail, error) {
	if err := s.guard.RequireAction(actionToken, actorID, verification.ActionAttendanceView); err != nil {
		return RequestDetail{}, err
	}

	actor, err := s.administrator(ctx, actorID)
	if err != nil {
		return RequestDetail{}, err
	}

	view, err := s.requests.GetDetail(ctx, requestID)
	if err != nil {
		return RequestDetail{}, err
	}
	if auth.IsAdministrative(view.AccountRole) {
		return RequestDetail{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "manual request"), http.StatusNotFound)
	}
	if !access.CanManage(actor, view.SiteID) {
		return RequestDetail{}, web.NewRequestError(errors.New("request belongs to another site"), http.StatusForbidden)
	}

	entry := audit.NewEntry(actor.ID, audit.EntityManualRequest, view.ID, "VIEW_DETAIL", ip, map[string]interface{}{
		"status": view.Status,
		"code":   view.AccountCode,
	}, s.now())
	if err = s.requests.CreateViewAudit(ctx, &entry); err != nil {
		return RequestDetail{}, err
	}

	return s.requestDetail(view), nil
}

func (s *Service) administrator(ctx context.Context, actorID string) (entity.Account, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return entity.Account{}, err
	}
	if err = access.RequireAdministrator(actor); err != nil {
		return entity.Account{}, err
	}
	return actor, nil
}

// scope resolves the site filter and the local window of a range query.
func (s *Service) scope(ctx context.Context, actorID string, q RangeQuery) (*string, calendar.Window, error) {
	actor, err := s.administrator(ctx, actorID)
	if err != nil {
		return nil, calendar.Window{}, err
	}

	siteID, err := access.SiteScope(actor, q.SiteID)
	if err != nil {
		return nil, calendar.Window{}, err
	}

	rng := q.Range
	if strings.TrimSpace(rng) == "" {
		rng = calendar.RangeWeek
	}
	ref := s.now()
	if q.Date != nil && strings.TrimSpace(*q.Date) != "" {
		if ref, err = calendar.ParseDate(*q.Date, s.loc); err != nil {
			return nil, calendar.Window{}, err
		}
	}

	window, err := calendar.NewWindow(rng, ref, s.loc)
	if err != nil {
		return nil, calendar.Window{}, err
	}

	return siteID, window, nil
}

func newPage[T any](w calendar.Window, limit, offset, total int, items []T) Page[T] {
	return Page[T]{
		Range:  w.Range,
		From:   w.From.Format(calendar.DateLayout),
		To:     w.Last().Format(calendar.DateLayout),
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Items:  items,
	}
}

func parseStatus(s string) (string, error) {
	st := strings.ToUpper(strings.TrimSpace(s))
	if st == "" {
		return entity.StatusPending, nil
	}
	switch st {
	case entity.StatusPending, entity.StatusApproved, entity.StatusRejected:
		return st, nil
	}
	return "", web.NewRequestError(errors.Errorf("status must be pending, approved or rejected, got %q", s), http.StatusBadRequest)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
