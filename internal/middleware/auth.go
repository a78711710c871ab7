package middleware

import (
	"context"
	"net/http"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"

	"github.com/pkg/errors"
)

// Authenticate accepts session tokens only. Action and reveal tokens carry a
// scope and are rejected here; they are checked by the handlers that consume
// them.
func Authenticate(a *auth.Auth, role ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(c *web.Context) error {
			// Expecting: Bearer <token>
			token, err := auth.ParseBearer(c.Request.Header.Get("Authorization"))
			if err != nil {
				return c.RespondError(err)
			}

			claims, err := a.ValidateToken(token)
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			if claims.Scope != "" || claims.Subject == "" {
				return c.RespondError(web.NewRequestError(errors.New("session token required"), http.StatusUnauthorized))
			}

			if len(role) > 0 && !claims.Authorized(role...) {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}
