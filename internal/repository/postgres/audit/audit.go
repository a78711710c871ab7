package audit

import (
	"context"
	"net/http"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/repository/postgresql"
	"geoattendance/backend/internal/repository/postgres"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Insert appends entry using db, which may be a transaction owned by another
// repository.
func Insert(ctx context.Context, db bun.IDB, entry *entity.AuditLog) error {
	if entry == nil {
		return nil
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "inserting audit log"), http.StatusInternalServerError)
	}
	return nil
}

func (r Repository) Create(ctx context.Context, entry *entity.AuditLog) error {
	return Insert(ctx, r.DB, entry)
}

// CreateRevealGrant stores the grant and its audit entry atomically.
func (r Repository) CreateRevealGrant(ctx context.Context, grant *entity.RevealGrant, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(grant).Exec(ctx); err != nil {
			return errors.Wrap(err, "inserting reveal grant")
		}
		return Insert(ctx, tx, entry)
	})
}

func (r Repository) List(ctx context.Context, filter Filter) ([]entity.AuditLog, error) {
	limit, offset := postgres.Page(filter.Limit, filter.Offset, 100, 300)

	var list []entity.AuditLog
	q := r.NewSelect().Model(&list).OrderExpr("al.created_at DESC").Limit(limit).Offset(offset)

	if filter.SiteID != nil {
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("al.entity = ? AND al.entity_id IN (SELECT id::text FROM account WHERE site_id = ? AND role = ?)", EntityAccount, *filter.SiteID, auth.RoleEmployee).
				WhereOr("al.entity = ? AND al.entity_id = ?", EntitySite, *filter.SiteID)
		})
	}
	if filter.Action != nil {
		q.Where("al.action = ?", *filter.Action)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting audit log"), http.StatusInternalServerError)
	}

	return list, nil
}
