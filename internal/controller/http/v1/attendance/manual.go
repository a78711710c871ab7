package attendance

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/service/attendance"
)

type decisionRequest struct {
	Decision string  `json:"decision"`
	Comment  *string `json:"comment"`
}

func (uc Controller) Decide(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	id := c.GetParam(reflect.String, "id").(string)
	if err = c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var data decisionRequest
	if err = c.BindFunc(&data, "Decision"); err != nil {
		return c.RespondError(err)
	}

	result, err := uc.attendance.Review(c.Ctx, attendance.ReviewRequest{
		ActorID:     claims.Subject,
		RequestID:   id,
		Decision:    data.Decision,
		Comment:     data.Comment,
		ActionToken: c.GetHeader(auth.ActionTokenHeader),
		IP:          c.ClientIP(),
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   result,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetManualList(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	query := attendance.ManualQuery{RangeQuery: rangeQuery(c)}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		query.Status = *status
	}
	if err = c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	page, err := uc.attendance.ManualList(c.Ctx, claims.Subject, query)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   page,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetManualCount(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var status string
	if s, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		status = *s
	}
	siteID, _ := c.GetQueryFunc(reflect.String, "site_id").(*string)
	code, _ := c.GetQueryFunc(reflect.String, "code").(*string)

	count, err := uc.attendance.ManualCount(c.Ctx, claims.Subject, status, siteID, code)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   count,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetManualDetail(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	id := c.GetParam(reflect.String, "id").(string)
	if err = c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.attendance.ManualDetail(c.Ctx, claims.Subject, id, c.GetHeader(auth.ActionTokenHeader), c.ClientIP())
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   detail,
		"error":  nil,
	}, http.StatusOK)
}
