package site

type CreateRequest struct {
	ActorID      string
	IP           string
	Name         string
	Latitude     string
	Longitude    string
	RadiusMeters int
	Address      *string
}

// UpdateRequest carries only the fields to change. ActionToken is required
// when an administrator edits its own site.
type UpdateRequest struct {
	ActorID     string
	SiteID      string
	ActionToken string
	IP          string

	Name         *string
	Latitude     *string
	Longitude    *string
	RadiusMeters *int
	Address      *string
}
