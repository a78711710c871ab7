package site

import (
	"context"
	"database/sql"
	"net/http"

	"geoattendance/backend/foundation/web"
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

func (r Repository) GetByID(ctx context.Context, id string) (entity.Site, error) {
	var detail entity.Site

	err := r.NewSelect().Model(&detail).Where("s.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Site{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "site"), http.StatusNotFound)
	}
	if err != nil {
		return entity.Site{}, web.NewRequestError(errors.Wrap(err, "selecting site"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) List(ctx context.Context) ([]entity.Site, error) {
	var list []entity.Site

	if err := r.NewSelect().Model(&list).OrderExpr("s.created_at DESC").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting sites"), http.StatusInternalServerError)
	}

	return list, nil
}

func (r Repository) Create(ctx context.Context, site *entity.Site, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(site).Exec(ctx); err != nil {
			return errors.Wrap(err, "inserting site")
		}
		return audit.Insert(ctx, tx, entry)
	})
}

func (r Repository) Update(ctx context.Context, site entity.Site, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(&site).
			Column("name", "latitude", "longitude", "radius_meters", "address", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "updating site")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "site"), http.StatusNotFound)
		}
		return audit.Insert(ctx, tx, entry)
	})
}
