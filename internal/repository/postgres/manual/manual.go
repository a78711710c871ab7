package manual

import (
	"context"
	"database/sql"
	"net/http"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/repository/postgresql"
	"geoattendance/backend/internal/repository/postgres"
	"geoattendance/backend/internal/repository/postgres/audit"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ErrAlreadyProcessed is returned when a request left PENDING before the
// decision could be stored.
var ErrAlreadyProcessed = errors.New("manual request already processed")

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) Create(ctx context.Context, request *entity.ManualRequest) error {
	if _, err := r.NewInsert().Model(request).Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "inserting manual request"), http.StatusInternalServerError)
	}
	return nil
}

func (r Repository) GetByID(ctx context.Context, id string) (entity.ManualRequest, error) {
	var detail entity.ManualRequest

	err := r.NewSelect().Model(&detail).Where("mr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ManualRequest{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "manual request"), http.StatusNotFound)
	}
	if err != nil {
		return entity.ManualRequest{}, web.NewRequestError(errors.Wrap(err, "selecting manual request"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Decide moves request out of PENDING. The status update is conditional on
// the stored status still being PENDING, so of two concurrent decisions only
// one commits. record (approvals only) and entry are written in the same
// transaction.
func (r Repository) Decide(ctx context.Context, request entity.ManualRequest, record *entity.AttendanceRecord, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*entity.ManualRequest)(nil)).
			Set("status = ?", request.Status).
			Set("reviewed_by = ?", request.ReviewedBy).
			Set("reviewed_at = ?", request.ReviewedAt).
			Set("review_comment = ?", request.ReviewComment).
			Where("id = ?", request.ID).
			Where("status = ?", entity.StatusPending).
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "updating manual request")
		}

		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "manual request rows affected")
		}
		if n == 0 {
			return web.NewRequestError(ErrAlreadyProcessed, http.StatusConflict)
		}

		if record != nil {
			if _, err = tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return errors.Wrap(err, "inserting attendance record")
			}
		}

		return audit.Insert(ctx, tx, entry)
	})
}

func (r Repository) selectViews(list *[]RequestView) *bun.SelectQuery {
	return r.NewSelect().Model(list).
		ColumnExpr("mr.*").
		ColumnExpr("a.code AS account_code, a.role AS account_role, s.name AS site_name").
		Join("JOIN account AS a ON a.id = mr.account_id").
		Join("JOIN site AS s ON s.id = mr.site_id")
}

func (r Repository) GetDetail(ctx context.Context, id string) (RequestView, error) {
	var list []RequestView

	if err := r.selectViews(&list).Where("mr.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return RequestView{}, web.NewRequestError(errors.Wrap(err, "selecting manual request"), http.StatusInternalServerError)
	}
	if len(list) == 0 {
		return RequestView{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "manual request"), http.StatusNotFound)
	}

	return list[0], nil
}

func (r Repository) List(ctx context.Context, filter Filter) ([]RequestView, int, error) {
	limit, offset := postgres.Page(filter.Limit, filter.Offset, 200, 500)

	var list []RequestView
	q := r.selectViews(&list)
	applyFilter(q, filter)

	count, err := q.OrderExpr("mr.created_at DESC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting manual requests"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) Count(ctx context.Context, filter Filter) (int, error) {
	q := r.NewSelect().Model((*entity.ManualRequest)(nil)).
		Join("JOIN account AS a ON a.id = mr.account_id")
	applyFilter(q, filter)

	count, err := q.Count(ctx)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "counting manual requests"), http.StatusInternalServerError)
	}

	return count, nil
}

func (r Repository) CreateViewAudit(ctx context.Context, entry *entity.AuditLog) error {
	return audit.Insert(ctx, r.DB, entry)
}

func applyFilter(q *bun.SelectQuery, filter Filter) {
	q.Where("a.role NOT IN (?)", bun.In([]string{auth.RoleAdmin, auth.RoleSuperAdmin}))

	if filter.Status != nil {
		q.Where("mr.status = ?", *filter.Status)
	}
	if filter.From != nil {
		q.Where("mr.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q.Where("mr.created_at < ?", *filter.To)
	}
	if filter.SiteID != nil {
		q.Where("mr.site_id = ?", *filter.SiteID)
	}
	if filter.Code != nil {
		q.Where("a.code ILIKE ?", postgres.Contains(*filter.Code))
	}
}
