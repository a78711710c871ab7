package privacy

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/service/verification"
)

type Controller struct {
	verification Verification
}

func NewController(verification Verification) *Controller {
	return &Controller{verification: verification}
}

type actionRequest struct {
	Action   string `json:"action"`
	Reason   string `json:"reason"`
	Password string `json:"password"`
}

type revealRequest struct {
	TargetAccountID string `json:"target_account_id"`
	Reason          string `json:"reason"`
	Password        string `json:"password"`
}

func (uc Controller) VerifyAction(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data actionRequest
	if err = c.BindFunc(&data, "Action", "Password"); err != nil {
		return c.RespondError(err)
	}

	token, err := uc.verification.VerifyAction(c.Ctx, verification.ActionRequest{
		ActorID:  claims.Subject,
		Action:   data.Action,
		Reason:   data.Reason,
		Password: data.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   token,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) Reveal(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data revealRequest
	if err = c.BindFunc(&data, "TargetAccountID", "Password"); err != nil {
		return c.RespondError(err)
	}

	token, err := uc.verification.GrantReveal(c.Ctx, verification.RevealRequest{
		ActorID:  claims.Subject,
		TargetID: data.TargetAccountID,
		Reason:   data.Reason,
		Password: data.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   token,
		"error":  nil,
	}, http.StatusOK)
}

// GetPII is authenticated by the reveal token alone, passed as the bearer.
func (uc Controller) GetPII(c *web.Context) error {
	id := c.GetParam(reflect.String, "id").(string)
	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	token, err := auth.ParseBearer(c.GetHeader("Authorization"))
	if err != nil {
		return c.RespondError(err)
	}

	pii, err := uc.verification.ReadPII(c.Ctx, id, token)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Cache-Control", "no-store")
	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   pii,
		"error":  nil,
	}, http.StatusOK)
}
