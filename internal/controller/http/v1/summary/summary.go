package summary

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/auth"
	"geoattendance/backend/internal/service/report"
	"geoattendance/backend/internal/service/summary"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type Controller struct {
	summary Summary
}

func NewController(summary Summary) *Controller {
	return &Controller{summary: summary}
}

func (uc Controller) GetSummary(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	result, err := uc.summary.Summary(c.Ctx, claims.Subject, query(c))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   result,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetAbsent(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	date, _ := c.GetQueryFunc(reflect.String, "date").(*string)
	siteID, _ := c.GetQueryFunc(reflect.String, "site_id").(*string)

	list, err := uc.summary.Absent(c.Ctx, claims.Subject, date, siteID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   list,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetDashboard(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	siteID, _ := c.GetQueryFunc(reflect.String, "site_id").(*string)

	dashboard, err := uc.summary.AdminDashboard(c.Ctx, claims.Subject, siteID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   dashboard,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) GetMonthlyReport(c *web.Context) error {
	rep, err := uc.monthly(c)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data":   rep,
		"error":  nil,
	}, http.StatusOK)
}

func (uc Controller) ExportMonthlyReport(c *web.Context) error {
	rep, err := uc.monthly(c)
	if err != nil {
		return c.RespondError(err)
	}

	var buf bytes.Buffer
	if err = report.MonthlyExcel(&buf, rep); err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s_%s.xlsx"`, rep.Code, rep.Month))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	return nil
}

func (uc Controller) ExportSummary(c *web.Context) error {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	result, err := uc.summary.Summary(c.Ctx, claims.Subject, query(c))
	if err != nil {
		return c.RespondError(err)
	}

	var buf bytes.Buffer
	if err = report.SummaryPDF(&buf, result); err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="summary_%s_%s.pdf"`, result.Range, result.From))
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
	return nil
}

func (uc Controller) monthly(c *web.Context) (summary.MonthlyReport, error) {
	claims, err := auth.ClaimsFromContext(c.Ctx)
	if err != nil {
		return summary.MonthlyReport{}, err
	}

	var code, month string
	if v, ok := c.GetQueryFunc(reflect.String, "code").(*string); ok {
		code = *v
	}
	if v, ok := c.GetQueryFunc(reflect.String, "month").(*string); ok {
		month = *v
	}
	siteID, _ := c.GetQueryFunc(reflect.String, "site_id").(*string)

	return uc.summary.MonthlyReport(c.Ctx, claims.Subject, code, month, siteID)
}

func query(c *web.Context) summary.Query {
	var q summary.Query

	if r, ok := c.GetQueryFunc(reflect.String, "range").(*string); ok {
		q.Range = *r
	}
	q.Date, _ = c.GetQueryFunc(reflect.String, "date").(*string)
	q.SiteID, _ = c.GetQueryFunc(reflect.String, "site_id").(*string)

	return q
}
