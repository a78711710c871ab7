// Package web is a thin layer over gin that gives handlers an error return
// and composable middleware.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler handles one http request. Handlers write their own response and
// return an error only when nothing could be written.
type Handler func(c *Context) error

// Middleware wraps a Handler with extra behaviour.
type Middleware func(Handler) Handler

// App is the entrypoint into the web application. It embeds gin.Engine so
// gin level middleware (cors, recovery) can still be attached with Use.
type App struct {
	*gin.Engine
	log *logrus.Logger
	mw  []Middleware
}

func NewApp(log *logrus.Logger, mw ...Middleware) *App {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &App{
		Engine: engine,
		log:    log,
		mw:     mw,
	}
}

// Handle attaches a handler to the given method and path. Route middleware
// runs inside the application wide middleware.
func (a *App) Handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := &Context{
			Context: gc,
			Ctx:     gc.Request.Context(),
			log:     a.log,
		}

		if err := handler(c); err != nil {
			a.log.WithError(err).WithField("path", path).Error("handler returned error")
			if !gc.Writer.Written() {
				gc.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			}
		}
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware builds the chain so that the first middleware in the slice
// is the first one executed.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}

	return handler
}
