package manual

import (
	"time"

	"geoattendance/backend/internal/entity"
)

// Filter always excludes requests filed by administrative accounts.
type Filter struct {
	Status *string
	From   *time.Time
	To     *time.Time
	SiteID *string
	Code   *string
	Limit  *int
	Offset *int
}

type RequestView struct {
	entity.ManualRequest `bun:",extend"`

	AccountCode string `json:"account_code" bun:"account_code"`
	AccountRole string `json:"-" bun:"account_role"`
	SiteName    string `json:"site_name" bun:"site_name"`
}
