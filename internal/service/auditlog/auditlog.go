// Package auditlog exposes the audit trail to administrators.
package auditlog

import (
	"context"
	"strings"

	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/service/access"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (entity.Account, error)
}

type Entries interface {
	List(ctx context.Context, filter audit.Filter) ([]entity.AuditLog, error)
}

type Service struct {
	accounts Accounts
	entries  Entries
}

func NewService(accounts Accounts, entries Entries) *Service {
	return &Service{accounts: accounts, entries: entries}
}

type Query struct {
	Limit  *int
	Offset *int
	Action *string
}

// List returns the newest entries first. SUPERADMIN sees the whole log, an
// ADMIN only entries about its own site and that site's employees.
func (s *Service) List(ctx context.Context, actorID string, q Query) ([]entity.AuditLog, error) {
	actor, err := s.accounts.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	siteID, err := access.SiteScope(actor, nil)
	if err != nil {
		return nil, err
	}

	filter := audit.Filter{Limit: q.Limit, Offset: q.Offset, SiteID: siteID}
	if q.Action != nil {
		if action := strings.ToUpper(strings.TrimSpace(*q.Action)); action != "" {
			filter.Action = &action
		}
	}

	return s.entries.List(ctx, filter)
}
