package attendance

import (
	"time"

	records "geoattendance/backend/internal/repository/postgres/attendance"
	"geoattendance/backend/internal/repository/postgres/manual"
)

const StatusRecorded = "RECORDED"

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type SubmitRequest struct {
	AccountID     string
	Kind          string
	Mode          string
	Latitude      *string
	Longitude     *string
	Timestamp     *string
	DeviceInfo    map[string]interface{}
	Evidence      *string
	Detail        *string
	DetectedIP    *string
	DetectedSSID  *string
	DetectedBSSID *string
}

type SubmitResult struct {
	Status         string  `json:"status"`
	RecordID       *string `json:"record_id,omitempty"`
	RequestID      *string `json:"request_id,omitempty"`
	InsideGeofence *bool   `json:"inside_geofence"`
}

type ReviewRequest struct {
	ActorID     string
	RequestID   string
	Decision    string
	Comment     *string
	ActionToken string
	IP          string
}

type ReviewResult struct {
	RequestID string  `json:"request_id"`
	Status    string  `json:"status"`
	RecordID  *string `json:"record_id,omitempty"`
}

// RangeQuery selects the local window around Date (today when nil).
type RangeQuery struct {
	Range  string
	Date   *string
	SiteID *string
	Code   *string
	Limit  *int
	Offset *int
}

type ManualQuery struct {
	RangeQuery
	Status string
}

type Page[T any] struct {
	Range  string `json:"range"`
	From   string `json:"from"`
	To     string `json:"to"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	Total  int    `json:"total"`
	Items  []T    `json:"items"`
}

type RecordItem struct {
	ID             string    `json:"id"`
	RecordedAt     time.Time `json:"recorded_at"`
	LocalDate      string    `json:"local_date"`
	LocalTime      string    `json:"local_time"`
	Kind           string    `json:"kind"`
	InsideGeofence *bool     `json:"inside_geofence"`
	Mode           string    `json:"mode"`
	AccountCode    string    `json:"account_code"`
	SiteID         string    `json:"site_id"`
	SiteName       string    `json:"site_name"`
}

// RecordDetail is the verified view of one record. It names the employee by
// internal code only.
type RecordDetail struct {
	RecordItem
	Latitude      *string                `json:"latitude"`
	Longitude     *string                `json:"longitude"`
	DeviceInfo    map[string]interface{} `json:"device_info"`
	Evidence      *string                `json:"evidence"`
	DetectedIP    *string                `json:"detected_ip"`
	DetectedSSID  *string                `json:"detected_ssid"`
	DetectedBSSID *string                `json:"detected_bssid"`
}

type RequestItem struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Kind        string    `json:"kind"`
	EventAt     time.Time `json:"event_at"`
	LocalDate   string    `json:"local_date"`
	LocalTime   string    `json:"local_time"`
	AccountCode string    `json:"account_code"`
	SiteID      string    `json:"site_id"`
	SiteName    string    `json:"site_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type RequestDetail struct {
	RequestItem
	Justification string                 `json:"justification"`
	Latitude      *string                `json:"latitude"`
	Longitude     *string                `json:"longitude"`
	DeviceInfo    map[string]interface{} `json:"device_info"`
	Evidence      *string                `json:"evidence"`
	ReviewedBy    *string                `json:"reviewed_by"`
	ReviewedAt    *time.Time             `json:"reviewed_at"`
	ReviewComment *string                `json:"review_comment"`
}

type Count struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func (s *Service) recordItem(v records.RecordView) RecordItem {
	local := v.RecordedAt.In(s.loc)
	return RecordItem{
		ID:             v.ID,
		RecordedAt:     v.RecordedAt.UTC(),
		LocalDate:      local.Format("2006-01-02"),
		LocalTime:      local.Format("15:04:05"),
		Kind:           v.Kind,
		InsideGeofence: v.InsideGeofence,
		Mode:           v.Mode,
		AccountCode:    v.AccountCode,
		SiteID:         v.SiteID,
		SiteName:       v.SiteName,
	}
}

func (s *Service) recordDetail(v records.RecordView) RecordDetail {
	return RecordDetail{
		RecordItem:    s.recordItem(v),
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		DeviceInfo:    v.DeviceInfo,
		Evidence:      v.Evidence,
		DetectedIP:    v.DetectedIP,
		DetectedSSID:  v.DetectedSSID,
		DetectedBSSID: v.DetectedBSSID,
	}
}

func (s *Service) requestItem(v manual.RequestView) RequestItem {
	local := v.EventAt.In(s.loc)
	return RequestItem{
		ID:          v.ID,
		Status:      v.Status,
		Kind:        v.Kind,
		EventAt:     v.EventAt.UTC(),
		LocalDate:   local.Format("2006-01-02"),
		LocalTime:   local.Format("15:04:05"),
		AccountCode: v.AccountCode,
		SiteID:      v.SiteID,
		SiteName:    v.SiteName,
		CreatedAt:   v.CreatedAt.UTC(),
	}
}

func (s *Service) requestDetail(v manual.RequestView) RequestDetail {
	return RequestDetail{
		RequestItem:   s.requestItem(v),
		Justification: v.Justification,
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		DeviceInfo:    v.DeviceInfo,
		Evidence:      v.Evidence,
		ReviewedBy:    v.ReviewedBy,
		ReviewedAt:    v.ReviewedAt,
		ReviewComment: v.ReviewComment,
	}
}
