// Package attendance implements check-in recording, the manual request
// review workflow and the scoped record queries.
package attendance

import (
	"context"
	"time"

	"geoattendance/backend/internal/entity"
	records "geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/repository/postgres/manual"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
}

type Sites interface {
	GetByID(ctx context.Context, id string) (entity.Site, error)
}

type Records interface {
	Create(ctx context.Context, record *entity.AttendanceRecord) error
	GetDetail(ctx context.Context, id string) (records.RecordView, error)
	List(ctx context.Context, filter records.Filter) ([]records.RecordView, int, error)
	CreateViewAudit(ctx context.Context, entry *entity.AuditLog) error
}

type Requests interface {
	Create(ctx context.Context, request *entity.ManualRequest) error
	GetByID(ctx context.Context, id string) (entity.ManualRequest, error)
	Decide(ctx context.Context, request entity.ManualRequest, record *entity.AttendanceRecord, entry *entity.AuditLog) error
	GetDetail(ctx context.Context, id string) (manual.RequestView, error)
	List(ctx context.Context, filter manual.Filter) ([]manual.RequestView, int, error)
	Count(ctx context.Context, filter manual.Filter) (int, error)
	CreateViewAudit(ctx context.Context, entry *entity.AuditLog) error
}

// ActionGuard checks action tokens.
type ActionGuard interface {
	RequireAction(token, actorID, action string) error
}

type Service struct {
	accounts Accounts
	sites    Sites
	records  Records
	requests Requests
	guard    ActionGuard
	loc      *time.Location
	now      func() time.Time
}

func NewService(accounts Accounts, sites Sites, records Records, requests Requests, guard ActionGuard, loc *time.Location) *Service {
	return &Service{
		accounts: accounts,
		sites:    sites,
		records:  records,
		requests: requests,
		guard:    guard,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}
