package account

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/service/account"
)

type Controller struct {
	accounts Accounts
}

func NewController(accounts Accounts) *Controller {
	return &Controller{accounts: accounts}
}

type createRequest struct {
	Role     string  `json:"role"`
	SiteID   *string `json:"site_id"`
	Code     *string `json:"code"`
	RealName string  `json:"real_name"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required,min=8"`
}

type updateRequest struct {
	RealName   *string `json:"real_name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone"`
	Password   *string `json:"password" binding:"omitempty,min=8"`
	Role       *string `json:"role"`
	SiteID     *string `json:"site_id"`
	GeoConsent *bool   `json:"geo_consent"`
}

func (uc Controller) GetList(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	list, err := uc.accounts.List(c.Ctx, claims.Subject)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   list,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data createRequest
	if err = c.BindFunc(&data, "RealName", "Email", "Password"); err != nil {
		return c.RespondError(err)
	}

	created, err := uc.accounts.Create(c.Ctx, account.CreateRequest{
		ActorID:  claims.Subject,
		IP:       c.ClientIP(),
		Role:     data.Role,
		SiteID:   data.SiteID,
		Code:     data.Code,
		RealName: data.RealName,
		Email:    data.Email,
		Phone:    data.Phone,
		Password: data.Password,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   created,
		"error":  nil,
	}, http.StatusCreated)
}

func (uc Controller) Update(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	id := c.GetParam(reflect.String, "id").(string)
	if err = c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var data updateRequest
	if err = c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	err = uc.accounts.Update(c.Ctx, account.UpdateRequest{
		ActorID:     claims.Subject,
		TargetID:    id,
		ActionToken: c.GetHeader(auth.ActionTokenHeader),
		IP:          c.ClientIP(),
		RealName:    data.RealName,
		Email:       data.Email,
		Phone:       data.Phone,
		Password:    data.Password,
		Role:        data.Role,
		SiteID:      data.SiteID,
		GeoConsent:  data.GeoConsent,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   map[string]string{"account_id": id},
		"error":  nil,
	}, http.StatusOK)
}
