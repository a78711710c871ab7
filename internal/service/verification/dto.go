package verification

type ActionRequest struct {
	ActorID  string
	Action   string
	Reason   string
	Password string
	IP       string
}

type RevealRequest struct {
	ActorID  string
	TargetID string
	Reason   string
	Password string
	IP       string
}

type Token struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type PII struct {
	AccountID string  `json:"account_id"`
	Code      string  `json:"code"`
	RealName  string  `json:"real_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	SiteID    *string `json:"site_id"`
	Role      string  `json:"role"`
}
