package account

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

func (r Repository) GetByID(ctx context.Context, id string) (entity.Account, error) {
	return r.getBy(ctx, "a.id = ?", id)
}

func (r Repository) GetByEmail(ctx context.Context, email string) (entity.Account, error) {
	return r.getBy(ctx, "lower(a.email) = lower(?)", email)
}

func (r Repository) getBy(ctx context.Context, where string, arg interface{}) (entity.Account, error) {
	var detail entity.Account

	err := r.NewSelect().Model(&detail).Where(where, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Account{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "account"), http.StatusNotFound)
	}
	if err != nil {
		return entity.Account{}, web.NewRequestError(errors.Wrap(err, "selecting account"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	exists, err := r.NewSelect().Model((*entity.Account)(nil)).Where("a.code = ?", code).Exists(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "code check"), http.StatusInternalServerError)
	}
	return exists, nil
}

func (r Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := r.NewSelect().Model((*entity.Account)(nil)).Where("lower(a.email) = lower(?)", email).Exists(ctx)
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
	}
	return exists, nil
}

func (r Repository) List(ctx context.Context, filter Filter) ([]entity.Account, error) {
	var list []entity.Account

	q := r.NewSelect().Model(&list).OrderExpr("a.created_at DESC")
	if filter.SiteID != nil {
		q.Where("a.site_id = ?", *filter.SiteID)
	}
	if filter.EmployeesOnly {
		q.Where("a.role NOT IN (?)", bun.In([]string{auth.RoleAdmin, auth.RoleSuperAdmin}))
	}
	if filter.Code != nil {
		q.Where("a.code ILIKE ?", postgres.Contains(*filter.Code))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting accounts"), http.StatusInternalServerError)
	}

	return list, nil
}

// Employees lists non administrative accounts, optionally of one site.
func (r Repository) Employees(ctx context.Context, siteID *string) ([]entity.Account, error) {
	return r.List(ctx, Filter{SiteID: siteID, EmployeesOnly: true})
}

func (r Repository) Create(ctx context.Context, account *entity.Account, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
			return errors.Wrap(err, "inserting account")
		}
		return audit.Insert(ctx, tx, entry)
	})
}

func (r Repository) Update(ctx context.Context, account entity.Account, entry *entity.AuditLog) error {
	return r.InTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(&account).
			Column("real_name", "email", "password_hash", "phone", "site_id", "role", "geo_consent", "updated_at").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "updating account")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "account"), http.StatusNotFound)
		}
		return audit.Insert(ctx, tx, entry)
	})
}
