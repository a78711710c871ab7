package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/commands"
	"geoattendance/backend/internal/middleware"
	"geoattendance/backend/internal/pkg/config"
	"geoattendance/backend/internal/pkg/logger"
	"geoattendance/backend/internal/pkg/repository/postgresql"
	"geoattendance/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const namespace = "GEO"

type appConfig struct {
	Web struct {
		Port            string        `conf:"default:0.0.0.0:8080"`
		ReadTimeout     time.Duration `conf:"default:10s"`
		WriteTimeout    time.Duration `conf:"default:30s"`
		ShutdownTimeout time.Duration `conf:"default:10s"`
		CORSOrigins     string        `conf:"default:*"`
		Debug           bool          `conf:"default:false"`
	}
	Auth struct {
		Secret     string        `conf:"noprint"`
		SessionTTL time.Duration `conf:"default:8h"`
	}
	DB struct {
		User       string `conf:"default:postgres"`
		Password   string `conf:"default:postgres,noprint"`
		Host       string `conf:"default:localhost:5432"`
		Name       string `conf:"default:geoattendance"`
		DisableTLS bool   `conf:"default:true"`
		Debug      bool   `conf:"default:false"`
	}
	Redis struct {
		Addr     string
		Password string `conf:"noprint"`
		DB       int    `conf:"default:0"`
	}
	Policy struct {
		Path string `conf:"default:policy.yaml"`
	}
	Seed struct {
		Email    string `conf:"default:superadmin@localhost"`
		Password string `conf:"noprint"`
	}
	Log struct {
		Level string `conf:"default:info"`
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := conf.Parse(os.Args[1:], namespace, &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage(namespace, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	log := logger.New("geoattendance-api", cfg.Log.Level)

	out, err := conf.String(&cfg)
	if err != nil {
		return errors.Wrap(err, "generating config for output")
	}
	log.Infof("config:\n%v", out)

	policy, err := config.NewPolicy(cfg.Policy.Path)
	if err != nil {
		return errors.Wrap(err, "loading policy")
	}
	log.WithFields(logrus.Fields{
		"timezone":    policy.Timezone,
		"late_cutoff": policy.LateCutoff,
	}).Info("policy loaded")

	a, err := auth.NewAuth(cfg.Auth.Secret)
	if err != nil {
		return errors.Wrap(err, "constructing auth")
	}

	db, err := postgresql.New(postgresql.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
		Debug:      cfg.DB.Debug,
	}, log)
	if err != nil {
		return errors.Wrap(err, "connecting to db")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = commands.MigrateUP(ctx, db, log); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	if err = commands.SeedSuperAdmin(ctx, db, cfg.Seed.Email, cfg.Seed.Password, log); err != nil {
		return errors.Wrap(err, "seeding database")
	}

	rdb := connectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if rdb != nil {
		defer rdb.Close()
	}

	if !cfg.Web.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	app := web.NewApp(log, middleware.Logger(log))
	router.NewRouter(app, db, rdb, a, policy, log, router.Config{
		SessionTTL:  cfg.Auth.SessionTTL,
		CORSOrigins: splitOrigins(cfg.Web.CORSOrigins),
	}).Init()

	srv := http.Server{
		Addr:         cfg.Web.Port,
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("api listening on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return errors.Wrap(err, "server error")

	case sig := <-shutdown:
		log.Infof("%v: start shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return errors.Wrap(err, "could not stop server gracefully")
		}
	}

	return nil
}

// connectRedis returns nil when no address is configured or the server does
// not answer, which disables the summary cache.
func connectRedis(addr, password string, db int, log *logrus.Logger) *redis.Client {
	if addr == "" {
		log.Info("redis not configured, summary cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, summary cache disabled")
		client.Close()
		return nil
	}

	return client
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
