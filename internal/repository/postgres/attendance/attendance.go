package attendance

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

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) Create(ctx context.Context, record *entity.AttendanceRecord) error {
	if _, err := r.NewInsert().Model(record).Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "inserting attendance record"), http.StatusInternalServerError)
	}
	return nil
}

func (r Repository) selectViews(list *[]RecordView) *bun.SelectQuery {
	return r.NewSelect().Model(list).
		ColumnExpr("ar.*").
		ColumnExpr("a.code AS account_code, a.role AS account_role, s.name AS site_name").
		Join("JOIN account AS a ON a.id = ar.account_id").
		Join("JOIN site AS s ON s.id = ar.site_id")
}

func (r Repository) GetDetail(ctx context.Context, id string) (RecordView, error) {
	var list []RecordView

	if err := r.selectViews(&list).Where("ar.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return RecordView{}, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}
	if len(list) == 0 {
		return RecordView{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "attendance record"), http.StatusNotFound)
	}

	return list[0], nil
}

// List returns one page of records, newest first, and the total count.
func (r Repository) List(ctx context.Context, filter Filter) ([]RecordView, int, error) {
	limit, offset := postgres.Page(filter.Limit, filter.Offset, 200, 500)

	var list []RecordView
	q := r.selectViews(&list)
	applyFilter(q, filter)

	count, err := q.OrderExpr("ar.recorded_at DESC").Limit(limit).Offset(offset).ScanAndCount(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance records"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// Activity returns every record matching filter, oldest first, without
// paging. It backs the aggregations.
func (r Repository) Activity(ctx context.Context, filter Filter) ([]entity.AttendanceRecord, error) {
	var list []entity.AttendanceRecord

	q := r.NewSelect().Model(&list).
		Column("ar.id", "ar.account_id", "ar.site_id", "ar.kind", "ar.recorded_at", "ar.inside_geofence", "ar.mode").
		Join("JOIN account AS a ON a.id = ar.account_id")
	applyFilter(q, filter)

	if err := q.OrderExpr("ar.recorded_at ASC").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance activity"), http.StatusInternalServerError)
	}

	return list, nil
}

// Report returns every joined record matching filter, oldest first.
func (r Repository) Report(ctx context.Context, filter Filter) ([]RecordView, error) {
	var list []RecordView

	q := r.selectViews(&list)
	applyFilter(q, filter)

	if err := q.OrderExpr("ar.recorded_at ASC").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance report"), http.StatusInternalServerError)
	}

	return list, nil
}

// CreateViewAudit records that a detail view was served.
func (r Repository) CreateViewAudit(ctx context.Context, entry *entity.AuditLog) error {
	return audit.Insert(ctx, r.DB, entry)
}

func applyFilter(q *bun.SelectQuery, filter Filter) {
	if filter.From != nil {
		q.Where("ar.recorded_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q.Where("ar.recorded_at < ?", *filter.To)
	}
	if filter.SiteID != nil {
		q.Where("ar.site_id = ?", *filter.SiteID)
	}
	if filter.AccountID != nil {
		q.Where("ar.account_id = ?", *filter.AccountID)
	}
	if filter.Kind != nil {
		q.Where("ar.kind = ?", *filter.Kind)
	}
	if filter.Code != nil {
		q.Where("a.code ILIKE ?", postgres.Contains(*filter.Code))
	}
	if filter.ExactCode != nil {
		q.Where("a.code = ?", *filter.ExactCode)
	}
	if filter.EmployeesOnly {
		q.Where("a.role NOT IN (?)", bun.In([]string{auth.RoleAdmin, auth.RoleSuperAdmin}))
	}
}
