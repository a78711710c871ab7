package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"geoattendance/backend/foundation/web"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindRequest struct {
	Name   string  `json:"name"`
	Reason *string `json:"reason"`
	Radius int     `json:"radius" binding:"omitempty,gt=0"`
}

func newApp() *web.App {
	gin.SetMode(gin.TestMode)
	return web.NewApp(logrus.New())
}

func do(t *testing.T, app *web.App, method, path, body string) (*httptest.ResponseRecorder, web.ErrorResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var resp web.ErrorResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestBindFuncRequiredFields(t *testing.T) {
	app := newApp()
	app.Post("/bind", func(c *web.Context) error {
		var req bindRequest
		if err := c.BindFunc(&req, "Name,Reason"); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(map[string]interface{}{"status": true}, http.StatusOK)
	})

	rec, resp := do(t, app, http.MethodPost, "/bind", `{"name":"  "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "name", resp.Fields[0].Field)
	assert.Equal(t, "reason", resp.Fields[1].Field)

	rec, _ = do(t, app, http.MethodPost, "/bind", `{"name":"a","reason":"b"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBindFuncValidatorTags(t *testing.T) {
	app := newApp()
	app.Post("/bind", func(c *web.Context) error {
		var req bindRequest
		if err := c.BindFunc(&req); err != nil {
			return c.RespondError(err)
		}
		return c.Respond(nil, http.StatusNoContent)
	})

	rec, resp := do(t, app, http.MethodPost, "/bind", `{"radius":-5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "Radius", resp.Fields[0].Field)

	rec, _ = do(t, app, http.MethodPost, "/bind", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondErrorMasksInternalErrors(t *testing.T) {
	app := newApp()
	app.Get("/boom", func(c *web.Context) error {
		return c.RespondError(errors.New("pq: connection refused"))
	})
	app.Get("/conflict", func(c *web.Context) error {
		return c.RespondError(web.NewRequestError(errors.Wrap(errors.New("already processed"), "reviewing"), http.StatusConflict))
	})

	rec, resp := do(t, app, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, resp.Error, "connection refused")

	rec, resp = do(t, app, http.MethodGet, "/conflict", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "reviewing: already processed", resp.Error)
	assert.False(t, resp.Status)
}

func TestQueryAndParams(t *testing.T) {
	app := newApp()
	app.Get("/items/:id", func(c *web.Context) error {
		id := c.GetParam(reflect.Int, "id").(int)
		limit, _ := c.GetQueryFunc(reflect.Int, "limit").(*int)
		if err := c.ValidParam(); err != nil {
			return c.RespondError(err)
		}
		if err := c.ValidQuery(); err != nil {
			return c.RespondError(err)
		}
		l := 0
		if limit != nil {
			l = *limit
		}
		return c.Respond(map[string]int{"id": id, "limit": l}, http.StatusOK)
	})

	rec, _ := do(t, app, http.MethodGet, "/items/7?limit=3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7,"limit":3}`, rec.Body.String())

	rec, _ = do(t, app, http.MethodGet, "/items/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, app, http.MethodGet, "/items/1?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) web.Middleware {
		return func(next web.Handler) web.Handler {
			return func(c *web.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	gin.SetMode(gin.TestMode)
	app := web.NewApp(logrus.New(), mark("app"))
	app.Get("/", func(c *web.Context) error {
		order = append(order, "handler")
		return c.Respond(nil, http.StatusNoContent)
	}, mark("first"), mark("second"))

	rec, _ := do(t, app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"app", "first", "second", "handler"}, order)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, web.StatusOf(nil))
	assert.Equal(t, http.StatusInternalServerError, web.StatusOf(errors.New("x")))
	assert.Equal(t, http.StatusForbidden, web.StatusOf(errors.Wrap(web.NewRequestError(errors.New("no"), http.StatusForbidden), "outer")))
}
