package summary

import (
	"context"

	"geoattendance/backend/internal/service/summary"
)

type Summary interface {
	Summary(ctx context.Context, actorID string, q summary.Query) (summary.Result, error)
	Absent(ctx context.Context, actorID string, date, siteID *string) (summary.AbsentList, error)
	AdminDashboard(ctx context.Context, actorID string, siteID *string) (summary.Dashboard, error)
	MonthlyReport(ctx context.Context, actorID, code, month string, siteID *string) (summary.MonthlyReport, error)
}
