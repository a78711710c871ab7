package audit

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/service/auditlog"
)

type Controller struct {
	log AuditLog
}

func NewController(log AuditLog) *Controller {
	return &Controller{log: log}
}

func (uc Controller) GetList(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var q auditlog.Query
	q.Limit, _ = c.GetQueryFunc(reflect.Int, "limit").(*int)
	q.Offset, _ = c.GetQueryFunc(reflect.Int, "offset").(*int)
	q.Action, _ = c.GetQueryFunc(reflect.String, "action").(*string)
	if err = c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.log.List(c.Ctx, claims.Subject, q)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   list,
		"error":  nil,
	}, http.StatusOK)
}
