package auth

import (
	"net/http"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
)

type Controller struct {
	accounts Accounts
}

func NewController(accounts Accounts) *Controller {
	return &Controller{accounts: accounts}
}

type signInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (uc Controller) SignIn(c *web.Context) error {
	var data signInRequest

	if err := c.BindFunc(&data, "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	session, err := uc.accounts.Login(c.Ctx, data.Email, data.Password)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   session,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) Me(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	profile, err := uc.accounts.Me(c.Ctx, claims.Subject)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   profile,
		"error":  nil,
	}, http.StatusOK)
}
