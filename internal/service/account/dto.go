package account

type SiteInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	RadiusMeters int    `json:"radius_meters"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresIn int       `json:"expires_in"`
	AccountID string    `json:"account_id"`
	Role      string    `json:"role"`
	SiteID    *string   `json:"site_id"`
	Site      *SiteInfo `json:"site"`
}

type Profile struct {
	AccountID string  `json:"account_id"`
	Code      string  `json:"code"`
	Role      string  `json:"role"`
	SiteID    *string `json:"site_id"`
}

// Listed is an account row without PII.
type Listed struct {
	AccountID string  `json:"account_id"`
	Code      string  `json:"code"`
	Role      string  `json:"role"`
	SiteID    *string `json:"site_id"`
	EmailMask string  `json:"email_mask"`
}

type CreateRequest struct {
	ActorID  string
	IP       string
	Role     string
	SiteID   *string
	Code     *string
	RealName string
	Email    string
	Phone    *string
	Password string
}

type Created struct {
	AccountID string `json:"account_id"`
	Code      string `json:"code"`
}

// UpdateRequest carries only the fields to change.
type UpdateRequest struct {
	ActorID     string
	TargetID    string
	ActionToken string
	IP          string

	RealName   *string
	Email      *string
	Phone      *string
	Password   *string
	Role       *string
	SiteID     *string
	GeoConsent *bool
}
