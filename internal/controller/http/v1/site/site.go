package site

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/pkg/geo"
	"geoattendance/backend/internal/service/site"
)

type Controller struct {
	sites Sites
}

func NewController(sites Sites) *Controller {
	return &Controller{sites: sites}
}

type createRequest struct {
	Name         string         `json:"name"`
	Latitude     geo.Coordinate `json:"latitude"`
	Longitude    geo.Coordinate `json:"longitude"`
	RadiusMeters int            `json:"radius_meters"`
	Address      *string        `json:"address"`
}

type updateRequest struct {
	Name         *string         `json:"name"`
	Latitude     *geo.Coordinate `json:"latitude"`
	Longitude    *geo.Coordinate `json:"longitude"`
	RadiusMeters *int            `json:"radius_meters"`
	Address      *string         `json:"address"`
}

func (r updateRequest) toService(actorID, siteID, token, ip string) site.UpdateRequest {
	return site.UpdateRequest{
		ActorID:      actorID,
		SiteID:       siteID,
		ActionToken:  token,
		IP:           ip,
		Name:         r.Name,
		Latitude:     r.Latitude.Ptr(),
		Longitude:    r.Longitude.Ptr(),
		RadiusMeters: r.RadiusMeters,
		Address:      r.Address,
	}
}

func (uc Controller) GetList(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	list, err := uc.sites.List(c.Ctx, claims.Subject)
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
	if err = c.BindFunc(&data, "Name", "Latitude", "Longitude", "RadiusMeters"); err != nil {
		return c.RespondError(err)
	}

	created, err := uc.sites.Create(c.Ctx, site.CreateRequest{
		ActorID:      claims.Subject,
		IP:           c.ClientIP(),
		Name:         data.Name,
		Latitude:     string(data.Latitude),
		Longitude:    string(data.Longitude),
		RadiusMeters: data.RadiusMeters,
		Address:      data.Address,
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

	updated, err := uc.sites.Update(c.Ctx, data.toService(claims.Subject, id, "", c.ClientIP()))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   updated,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetMine(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	mine, err := uc.sites.Mine(c.Ctx, claims.Subject)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   mine,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) UpdateMine(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data updateRequest
	if err = c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	updated, err := uc.sites.UpdateMine(c.Ctx, data.toService(claims.Subject, "", c.GetHeader(auth.ActionTokenHeader), c.ClientIP()))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   updated,
		"error":  nil,
	}, http.StatusOK)
}
