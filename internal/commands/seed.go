package commands

import (
	"context"
	"strings"
	"time"

	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/pkg/repository/postgresql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	SuperAdminCode      = "SUP-000001"
	minSeedPasswordSize = 12
)

// SeedSuperAdmin creates the first SUPERADMIN from the configured
// credentials. Nothing is written when a SUPERADMIN already exists or no
// password is configured.
func SeedSuperAdmin(ctx context.Context, db *postgresql.Database, email, password string, log *logrus.Logger) error {
	account, ok, err := superAdminSeed(email, password, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		log.Warn("seed: no superadmin password configured, skipping")
		return nil
	}

	exists, err := db.NewSelect().
		Model((*entity.Account)(nil)).
		Where("role = ?", auth.RoleSuperAdmin).
		Exists(ctx)
	if err != nil {
		return errors.Wrap(err, "checking superadmin")
	}
	if exists {
		return nil
	}

	if _, err = db.NewInsert().Model(&account).Exec(ctx); err != nil {
		return errors.Wrap(err, "seeding superadmin")
	}

	log.WithField("code", account.Code).Info("seed: superadmin created")
	return nil
}

func superAdminSeed(email, password string, now time.Time) (entity.Account, bool, error) {
	if password == "" {
		return entity.Account{}, false, nil
	}
	if len(password) < minSeedPasswordSize {
		return entity.Account{}, false, errors.Errorf("superadmin password must have at least %d characters", minSeedPasswordSize)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return entity.Account{}, false, errors.Errorf("invalid superadmin email %q", email)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return entity.Account{}, false, errors.Wrap(err, "hashing superadmin password")
	}

	return entity.Account{
		BasicEntity:  entity.BasicEntity{ID: uuid.NewString(), CreatedAt: now.UTC()},
		Code:         SuperAdminCode,
		RealName:     "Super Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleSuperAdmin,
	}, true, nil
}
