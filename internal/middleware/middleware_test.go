package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*web.App, *auth.Auth, *test.Hook) {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	a, err := auth.NewAuth("secret")
	require.NoError(t, err)

	app := web.NewApp(log, middleware.Logger(log))
	app.Get("/who", func(c *web.Context) error {
		claims, err := auth.ClaimsFromContext(c.Ctx)
		if err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]interface{}{"sub": claims.Subject}, http.StatusOK)
	}, middleware.Authenticate(a, auth.RoleAdmin, auth.RoleSuperAdmin))

	return app, a, hook
}

func call(app *web.App, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	app, a, hook := newApp(t)

	admin, err := a.IssueSession("admin-a", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec := call(app, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin-a")

	employee, err := a.IssueSession("emp", auth.RoleEmployee, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call(app, employee).Code)

	action, err := a.IssueAction("admin-a", auth.RoleAdmin, "USER_EDIT")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(app, action).Code)

	reveal, err := a.IssueReveal("admin-a", "emp", auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(app, reveal).Code)

	assert.Equal(t, http.StatusUnauthorized, call(app, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(app, "not-a-jwt").Code)

	require.NotEmpty(t, hook.AllEntries())
	last := hook.LastEntry()
	assert.Equal(t, "request", last.Message)
	assert.Equal(t, "/who", last.Data["path"])
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS([]string{"https://panel.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://panel.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://panel.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
