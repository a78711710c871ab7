package audit

import (
	"context"

	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/service/auditlog"
)

type AuditLog interface {
	List(ctx context.Context, actorID string, q auditlog.Query) ([]entity.AuditLog, error)
}
