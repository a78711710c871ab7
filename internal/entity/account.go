package entity

import (
	"github.com/uptrace/bun"
)

type Account struct {
	bun.BaseModel `bun:"table:account,alias:a"`

	BasicEntity
	Code         string  `json:"code" bun:"code"`
	RealName     string  `json:"real_name" bun:"real_name"`
	Email        string  `json:"email" bun:"email"`
	PasswordHash string  `json:"-" bun:"password_hash"`
	Phone        *string `json:"phone,omitempty" bun:"phone"`
	SiteID       *string `json:"site_id" bun:"site_id"`
	Role         string  `json:"role" bun:"role"`
	GeoConsent   bool    `json:"geo_consent" bun:"geo_consent"`
}
