package entity

import "github.com/uptrace/bun"

// Site is a physical location with a circular geofence. Coordinates are kept
// as decimal text so no precision is lost before comparison.
type Site struct {
	bun.BaseModel `bun:"table:site,alias:s"`

	BasicEntity
	Name         string  `json:"name" bun:"name"`
	Latitude     string  `json:"latitude" bun:"latitude"`
	Longitude    string  `json:"longitude" bun:"longitude"`
	RadiusMeters int     `json:"radius_meters" bun:"radius_meters"`
	Address      *string `json:"address,omitempty" bun:"address"`
}
