package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AttendanceRecord is one materialized check-in or check-out. It is never
// updated after insert.
type AttendanceRecord struct {
	bun.BaseModel `bun:"table:attendance_record,alias:ar"`

	ID             string                 `json:"id" bun:"id,pk"`
	AccountID      string                 `json:"account_id" bun:"account_id"`
	SiteID         string                 `json:"site_id" bun:"site_id"`
	Kind           string                 `json:"kind" bun:"kind"`
	RecordedAt     time.Time              `json:"recorded_at" bun:"recorded_at"`
	Latitude       *string                `json:"latitude" bun:"latitude"`
	Longitude      *string                `json:"longitude" bun:"longitude"`
	InsideGeofence *bool                  `json:"inside_geofence" bun:"inside_geofence"`
	Mode           string                 `json:"mode" bun:"mode"`
	DeviceInfo     map[string]interface{} `json:"device_info,omitempty" bun:"device_info,type:jsonb"`
	Evidence       *string                `json:"evidence,omitempty" bun:"evidence"`
	DetectedIP     *string                `json:"detected_ip,omitempty" bun:"detected_ip"`
	DetectedSSID   *string                `json:"detected_ssid,omitempty" bun:"detected_ssid"`
	DetectedBSSID  *string                `json:"detected_bssid,omitempty" bun:"detected_bssid"`
}

// ManualRequest is a check-in awaiting review. Status moves from PENDING to
// APPROVED or REJECTED exactly once.
type ManualRequest struct {
	bun.BaseModel `bun:"table:manual_request,alias:mr"`

	ID            string                 `json:"id" bun:"id,pk"`
	AccountID     string                 `json:"account_id" bun:"account_id"`
	SiteID        string                 `json:"site_id" bun:"site_id"`
	Kind          string                 `json:"kind" bun:"kind"`
	EventAt       time.Time              `json:"event_at" bun:"event_at"`
	Latitude      *string                `json:"latitude" bun:"latitude"`
	Longitude     *string                `json:"longitude" bun:"longitude"`
	DeviceInfo    map[string]interface{} `json:"device_info,omitempty" bun:"device_info,type:jsonb"`
	Evidence      *string                `json:"evidence,omitempty" bun:"evidence"`
	Justification string                 `json:"justification" bun:"justification"`
	Status        string                 `json:"status" bun:"status"`
	CreatedAt     time.Time              `json:"created_at" bun:"created_at"`
	ReviewedBy    *string                `json:"reviewed_by" bun:"reviewed_by"`
	ReviewedAt    *time.Time             `json:"reviewed_at" bun:"reviewed_at"`
	ReviewComment *string                `json:"review_comment" bun:"review_comment"`
}
