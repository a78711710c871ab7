package attendance

import (
	"time"

	"geoattendance/backend/internal/entity"
)

type Filter struct {
	From          *time.Time
	To            *time.Time
	SiteID        *string
	AccountID     *string
	Kind          *string
	Code          *string
	ExactCode     *string
	EmployeesOnly bool
	Limit         *int
	Offset        *int
}

// RecordView is a record joined with the internal code of its account and
// the name of its site. It never carries PII.
type RecordView struct {
	entity.AttendanceRecord `bun:",extend"`

	AccountCode string `json:"account_code" bun:"account_code"`
	AccountRole string `json:"-" bun:"account_role"`
	SiteName    string `json:"site_name" bun:"site_name"`
}
