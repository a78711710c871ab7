package attendance

import (
	"context"

	"geoattendance/backend/internal/service/attendance"
	"geoattendance/backend/internal/service/summary"
)

type Attendance interface {
	Submit(ctx context.Context, actorID string, req attendance.SubmitRequest) (attendance.SubmitResult, error)
	Mine(ctx context.Context, actorID string, limit *int) ([]attendance.RecordItem, error)
	ListRecords(ctx context.Context, actorID string, q attendance.RangeQuery) (attendance.Page[attendance.RecordItem], error)
	RecordDetail(ctx context.Context, actorID, recordID, actionToken, ip string) (attendance.RecordDetail, error)

	Review(ctx context.Context, req attendance.ReviewRequest) (attendance.ReviewResult, error)
	ManualList(ctx context.Context, actorID string, q attendance.ManualQuery) (attendance.Page[attendance.RequestItem], error)
	ManualCount(ctx context.Context, actorID, status string, siteID, code *string) (attendance.Count, error)
	ManualDetail(ctx context.Context, actorID, requestID, actionToken, ip string) (attendance.RequestDetail, error)
}

type Dashboard interface {
	EmployeeDashboard(ctx context.Context, actorID string) (summary.Dashboard, error)
}
