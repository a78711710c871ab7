package commands

import (
	"context"

	"geoattendance/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('EMPLOYEE', 'ADMIN', 'SUPERADMIN');`,
	},
	{
		Index:       2,
		Description: "Create table: site.",
		Query: `
        CREATE TABLE IF NOT EXISTS site (
            id uuid primary key default gen_random_uuid(),
            name text not null,
            latitude numeric(9,6) not null,
            longitude numeric(9,6) not null,
            radius_meters int not null check (radius_meters > 0),
            address text,
            created_at timestamptz not null default now(),
            updated_at timestamptz
        );`,
	},
	{
		Index:       3,
		Description: "Create table: account.",
		Query: `
        CREATE TABLE IF NOT EXISTS account (
            id uuid primary key default gen_random_uuid(),
            code text not null unique,
            real_name text not null,
            email text not null unique,
            password_hash text not null,
            phone text,
            site_id uuid references site(id),
            role user_role not null default 'EMPLOYEE',
            geo_consent boolean not null default false,
            created_at timestamptz not null default now(),
            updated_at timestamptz
        );
        CREATE INDEX IF NOT EXISTS account_site_role_idx ON account (site_id, role);`,
	},
	{
		Index:       4,
		Description: "Create table: attendance_record.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_record (
            id uuid primary key default gen_random_uuid(),
            account_id uuid not null references account(id),
            site_id uuid not null references site(id),
            kind text not null check (kind in ('entry', 'exit', 'manual')),
            recorded_at timestamptz not null,
            latitude numeric(9,6),
            longitude numeric(9,6),
            inside_geofence boolean,
            mode text not null check (mode in ('app', 'manual', 'sync_offline')),
            device_info jsonb,
            evidence text,
            detected_ip text,
            detected_ssid text,
            detected_bssid text
        );
        CREATE INDEX IF NOT EXISTS attendance_record_site_time_idx ON attendance_record (site_id, recorded_at);
        CREATE INDEX IF NOT EXISTS attendance_record_account_time_idx ON attendance_record (account_id, recorded_at);`,
	},
	{
		Index:       5,
		Description: "Create table: manual_request.",
		Query: `
        CREATE TABLE IF NOT EXISTS manual_request (
            id uuid primary key default gen_random_uuid(),
            account_id uuid not null references account(id),
            site_id uuid not null references site(id),
            kind text not null check (kind in ('entry', 'exit')),
            event_at timestamptz not null,
            latitude numeric(9,6),
            longitude numeric(9,6),
            device_info jsonb,
            evidence text,
            justification text not null check (char_length(justification) >= 15),
            status text not null default 'PENDING' check (status in ('PENDING', 'APPROVED', 'REJECTED')),
            created_at timestamptz not null default now(),
            reviewed_by uuid references account(id),
            reviewed_at timestamptz,
            review_comment text
        );
        CREATE INDEX IF NOT EXISTS manual_request_site_status_idx ON manual_request (site_id, status);`,
	},
	{
		Index:       6,
		Description: "Create table: audit_log.",
		Query: `
        CREATE TABLE IF NOT EXISTS audit_log (
            id uuid primary key default gen_random_uuid(),
            actor_id uuid references account(id),
            entity text not null,
            entity_id text,
            action text not null,
            detail jsonb,
            ip text,
            created_at timestamptz not null default now()
        );
        CREATE INDEX IF NOT EXISTS audit_log_created_idx ON audit_log (created_at desc);`,
	},
	{
		Index:       7,
		Description: "Create table: reveal_grant.",
		Query: `
        CREATE TABLE IF NOT EXISTS reveal_grant (
            id uuid primary key default gen_random_uuid(),
            requester_id uuid not null references account(id),
            target_id uuid not null references account(id),
            reason text not null,
            created_at timestamptz not null default now()
        );`,
	},
}

// MigrateUP applies every scheme entry newer than the recorded version. A
// failed entry leaves the version dirty so the next start retries it.
func MigrateUP(ctx context.Context, db *postgresql.Database, log *logrus.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
	)
	err := db.QueryRowContext(ctx, "SELECT version, dirty FROM schema_migrations").Scan(&version, &dirty)
	if err != nil {
		if _, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (0, false)`); err != nil {
			return errors.Wrap(err, "initialising schema_migrations")
		}
		version, dirty = 0, false
	}

	if dirty {
		version--
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		log.WithField("version", s.Index).Info(s.Description)
		if _, err = db.ExecContext(ctx, s.Query); err != nil {
			if _, uerr := db.ExecContext(ctx, `UPDATE schema_migrations SET error = ?, version = ?, dirty = true`, err.Error(), s.Index); uerr != nil {
				return errors.Wrap(uerr, "recording migrate error")
			}
			return errors.Wrapf(err, "migrate version %d", s.Index)
		}
		if _, err = db.ExecContext(ctx, `UPDATE schema_migrations SET version = ?, dirty = false, error = null`, s.Index); err != nil {
			return errors.Wrap(err, "updating schema_migrations")
		}
	}

	return nil
}
