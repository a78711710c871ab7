package router

import (
	"context"
	"net/http"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/middleware"
	"geoattendance/backend/internal/pkg/config"
	"geoattendance/backend/internal/pkg/repository/postgresql"

	"geoattendance/backend/internal/repository/postgres/account"
	"geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/repository/postgres/audit"
	"geoattendance/backend/internal/repository/postgres/manual"
	"geoattendance/backend/internal/repository/postgres/site"

	account_service "geoattendance/backend/internal/service/account"
	attendance_service "geoattendance/backend/internal/service/attendance"
	auditlog_service "geoattendance/backend/internal/service/auditlog"
	site_service "geoattendance/backend/internal/service/site"
	summary_service "geoattendance/backend/internal/service/summary"
	verification_service "geoattendance/backend/internal/service/verification"

	account_controller "geoattendance/backend/internal/controller/http/v1/account"
	attendance_controller "geoattendance/backend/internal/controller/http/v1/attendance"
	audit_controller "geoattendance/backend/internal/controller/http/v1/audit"
	auth_controller "geoattendance/backend/internal/controller/http/v1/auth"
	privacy_controller "geoattendance/backend/internal/controller/http/v1/privacy"
	site_controller "geoattendance/backend/internal/controller/http/v1/site"
	summary_controller "geoattendance/backend/internal/controller/http/v1/summary"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Config struct {
	SessionTTL  time.Duration
	CORSOrigins []string
}

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	auth       *auth.Auth
	policy     *config.Policy
	log        *logrus.Logger
	cfg        Config
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	auth *auth.Auth,
	policy *config.Policy,
	log *logrus.Logger,
	cfg Config,
) *Router {
	return &Router{
		App:        app,
		postgresDB: postgresDB,
		redisDB:    redisDB,
		auth:       auth,
		policy:     policy,
		log:        log,
		cfg:        cfg,
	}
}

// Init wires repositories, services and controllers and registers every
// route on the app.
func (r Router) Init() {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORS(r.cfg.CORSOrigins))

	// - postgresql
	accountPostgres := account.NewRepository(r.postgresDB)
	sitePostgres := site.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB)
	manualPostgres := manual.NewRepository(r.postgresDB)
	auditPostgres := audit.NewRepository(r.postgresDB)

	// service
	verificationService := verification_service.NewService(accountPostgres, auditPostgres, r.auth)
	accountService := account_service.NewService(accountPostgres, sitePostgres, verificationService, r.auth, r.cfg.SessionTTL)
	siteService := site_service.NewService(sitePostgres, accountPostgres, verificationService)
	attendanceService := attendance_service.NewService(accountPostgres, sitePostgres, attendancePostgres, manualPostgres, verificationService, r.policy.Location())
	summaryService := summary_service.NewService(accountPostgres, attendancePostgres, r.policy, r.redisDB, r.log)
	auditService := auditlog_service.NewService(accountPostgres, auditPostgres)

	// controller
	authController := auth_controller.NewController(accountService)
	attendanceController := attendance_controller.NewController(attendanceService, summaryService)
	privacyController := privacy_controller.NewController(verificationService)
	accountController := account_controller.NewController(accountService)
	siteController := site_controller.NewController(siteService)
	summaryController := summary_controller.NewController(summaryService)
	auditController := audit_controller.NewController(auditService)

	admins := middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleSuperAdmin)
	superAdmin := middleware.Authenticate(r.auth, auth.RoleSuperAdmin)

	r.Get("/health", r.health)

	// #auth
	r.Post("/api/v1/auth/login", authController.SignIn)
	r.Get("/api/v1/auth/me", authController.Me, middleware.Authenticate(r.auth))

	// #attendance
	r.Post("/api/v1/attendance/record", attendanceController.Record, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/mine", attendanceController.Mine, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/dashboard", attendanceController.Dashboard, middleware.Authenticate(r.auth))

	// #admin actions and privacy
	r.Post("/api/v1/admin/actions/verify", privacyController.VerifyAction, admins)
	r.Post("/api/v1/admin/privacy/reveal", privacyController.Reveal, admins)
	r.Get("/api/v1/admin/privacy/accounts/:id/pii", privacyController.GetPII)

	// #admin attendance
	r.Get("/api/v1/admin/attendance", attendanceController.GetList, admins)
	r.Get("/api/v1/admin/attendance/summary", summaryController.GetSummary, admins)
	r.Get("/api/v1/admin/attendance/summary/export", summaryController.ExportSummary, admins)
	r.Get("/api/v1/admin/attendance/absent", summaryController.GetAbsent, admins)
	r.Get("/api/v1/admin/attendance/dashboard", summaryController.GetDashboard, admins)
	r.Get("/api/v1/admin/attendance/report", summaryController.GetMonthlyReport, admins)
	r.Get("/api/v1/admin/attendance/report/export", summaryController.ExportMonthlyReport, admins)
	r.Get("/api/v1/admin/attendance/:id/detail", attendanceController.GetDetailById, admins)

	// #manual requests
	r.Get("/api/v1/admin/manual-requests", attendanceController.GetManualList, admins)
	r.Get("/api/v1/admin/manual-requests/count", attendanceController.GetManualCount, admins)
	r.Get("/api/v1/admin/manual-requests/:id/detail", attendanceController.GetManualDetail, admins)
	r.Post("/api/v1/admin/manual-requests/:id/decide", attendanceController.Decide, admins)

	// #accounts
	r.Get("/api/v1/admin/accounts", accountController.GetList, admins)
	r.Post("/api/v1/admin/accounts", accountController.Create, admins)
	r.Put("/api/v1/admin/accounts/:id", accountController.Update, admins)

	// #sites
	r.Get("/api/v1/admin/sites", siteController.GetList, superAdmin)
	r.Post("/api/v1/admin/sites", siteController.Create, superAdmin)
	r.Put("/api/v1/admin/sites/:id", siteController.Update, superAdmin)
	r.Get("/api/v1/admin/my-site", siteController.GetMine, admins)
	r.Put("/api/v1/admin/my-site", siteController.UpdateMine, admins)

	// #audit
	r.Get("/api/v1/admin/audit", auditController.GetList, admins)
}

func (r Router) health(c *web.Context) error {
	ctx, cancel := context.WithTimeout(c.Ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok", "cache": "disabled"}
	code := http.StatusOK

	if err := r.postgresDB.StatusCheck(ctx); err != nil {
		r.log.WithError(err).Warn("health: database unavailable")
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if r.redisDB != nil {
		status["cache"] = "ok"
		if err := r.redisDB.Ping(ctx).Err(); err != nil {
			status["cache"] = "unavailable"
		}
	}

	return c.Respond(map[string]interface{}{
		"status": code == http.StatusOK,
		"data":   status,
		"error":  nil,
	}, code)
}
