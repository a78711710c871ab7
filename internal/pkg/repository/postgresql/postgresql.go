// Package postgresql opens the bun database shared by every repository.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"geoattendance/backend/foundation/web"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Config struct {
	User       string
	Password   string
	Host       string
	Name       string
	DisableTLS bool
	Debug      bool
}

// Database embeds *bun.DB so repositories call the query builders directly.
type Database struct {
	*bun.DB
}

func New(cfg Config, log *logrus.Logger) (*Database, error) {
	sslMode := "require"
	if cfg.DisableTLS {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s", cfg.User, cfg.Password, cfg.Host, cfg.Name, sslMode)
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithTimeout(10*time.Second)))

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true), bundebug.WithWriter(log.Writer())))
	}

	return &Database{DB: db}, nil
}

// StatusCheck returns nil when the database answers a trivial query.
func (d *Database) StatusCheck(ctx context.Context) error {
	var ok int
	if err := d.NewRaw("SELECT 1").Scan(ctx, &ok); err != nil {
		return errors.Wrap(err, "database status check")
	}
	return nil
}

// InTx runs fn inside one transaction. A web.Error returned by fn keeps its
// status, any other error becomes a 500.
func (d *Database) InTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	err := d.RunInTx(ctx, nil, fn)
	if err == nil {
		return nil
	}

	var webErr *web.Error
	if errors.As(err, &webErr) {
		return err
	}
	return web.NewRequestError(errors.Wrap(err, "transaction"), http.StatusInternalServerError)
}
