package audit

import (
	"time"

	"geoattendance/backend/internal/entity"

	"github.com/google/uuid"
)

// Entity names used in audit entries.
const (
	EntityAccount       = "account"
	EntitySite          = "site"
	EntityAction        = "action"
	EntityRecord        = "attendance_record"
	EntityManualRequest = "manual_request"
)

type Filter struct {
	Limit  *int
	Offset *int
	Action *string
	// SiteID restricts the log to entries about the site itself and about
	// its employee accounts.
	SiteID *string
}

// NewEntry builds an audit entry with a fresh id. An empty ip is stored as
// NULL.
func NewEntry(actorID, entityName, entityID, action, ip string, detail map[string]interface{}, at time.Time) entity.AuditLog {
	e := entity.AuditLog{
		ID:        uuid.NewString(),
		ActorID:   &actorID,
		Entity:    entityName,
		EntityID:  &entityID,
		Action:    action,
		Detail:    detail,
		CreatedAt: at.UTC(),
	}
	if ip != "" {
		e.IP = &ip
	}
	return e
}
