package attendance

import (
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/pkg/geo"
	"geoattendance/backend/internal/service/attendance"
)

type Controller struct {
	attendance Attendance
	dashboard  Dashboard
}

func NewController(attendance Attendance, dashboard Dashboard) *Controller {
	return &Controller{attendance: attendance, dashboard: dashboard}
}

type recordRequest struct {
	AccountID     string                 `json:"account_id"`
	Kind          string                 `json:"kind"`
	Mode          string                 `json:"mode"`
	Latitude      *geo.Coordinate        `json:"latitude"`
	Longitude     *geo.Coordinate        `json:"longitude"`
	Timestamp     *string                `json:"timestamp"`
	DeviceInfo    map[string]interface{} `json:"device_info"`
	Evidence      *string                `json:"evidence"`
	Detail        *string                `json:"detail"`
	DetectedIP    *string                `json:"detected_ip"`
	DetectedSSID  *string                `json:"detected_ssid"`
	DetectedBSSID *string                `json:"detected_bssid"`
}

func (uc Controller) Record(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data recordRequest
	if err = c.BindFunc(&data, "AccountID", "Kind", "Mode"); err != nil {
		return c.RespondError(err)
	}

	result, err := uc.attendance.Submit(c.Ctx, claims.Subject, attendance.SubmitRequest{
		AccountID:     data.AccountID,
		Kind:          data.Kind,
		Mode:          data.Mode,
		Latitude:      data.Latitude.Ptr(),
		Longitude:     data.Longitude.Ptr(),
		Timestamp:     data.Timestamp,
		DeviceInfo:    data.DeviceInfo,
		Evidence:      data.Evidence,
		Detail:        data.Detail,
		DetectedIP:    data.DetectedIP,
		DetectedSSID:  data.DetectedSSID,
		DetectedBSSID: data.DetectedBSSID,
	})
	if err != nil {
		return c.RespondError(err)
	}

	status := http.StatusCreated
	if result.RequestID != nil {
		status = http.StatusAccepted
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   result,
		"error":  nil,
	}, status)
}

func (uc Controller) Mine(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	limit, _ := c.GetQueryFunc(reflect.Int, "limit").(*int)
	if err = c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.attendance.Mine(c.Ctx, claims.Subject, limit)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   list,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) Dashboard(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	dashboard, err := uc.dashboard.EmployeeDashboard(c.Ctx, claims.Subject)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   dashboard,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	query := rangeQuery(c)
	if err = c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	page, err := uc.attendance.ListRecords(c.Ctx, claims.Subject, query)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   page,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	id := c.GetParam(reflect.String, "id").(string)
	if err = c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.attendance.RecordDetail(c.Ctx, claims.Subject, id, c.GetHeader(auth.ActionTokenHeader), c.ClientIP())
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   detail,
		"error":  nil,
	}, http.StatusOK)
}

func rangeQuery(c *web.Context) attendance.RangeQuery {
	var q attendance.RangeQuery

	if r, ok := c.GetQueryFunc(reflect.String, "range").(*string); ok {
		q.Range = *r
	}
	q.Date, _ = c.GetQueryFunc(reflect.String, "date").(*string)
	q.SiteID, _ = c.GetQueryFunc(reflect.String, "site_id").(*string)
	q.Code, _ = c.GetQueryFunc(reflect.String, "code").(*string)
	q.Limit, _ = c.GetQueryFunc(reflect.Int, "limit").(*int)
	q.Offset, _ = c.GetQueryFunc(reflect.Int, "offset").(*int)

	return q
}
