package middleware

import (
	"time"

	"geoattendance/backend/foundation/web"

	"github.com/sirupsen/logrus"
)

// Logger writes one line per request once the handler has returned.
func Logger(log *logrus.Logger) web.Middleware {
	return func(handler web.Handler) web.Handler {
		return func(c *web.Context) error {
			start := time.Now()
			err := handler(c)

			log.WithFields(logrus.Fields{
				"method":  c.Request.Method,
				"path":    c.Request.URL.Path,
				"status":  c.Writer.Status(),
				"latency": time.Since(start).String(),
				"ip":      c.ClientIP(),
			}).Info("request")

			return err
		}
	}
}
