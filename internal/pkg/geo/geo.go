// Package geo evaluates geofence membership for submitted coordinates.
package geo

import (
	"net/http"
	"strconv"
	"strings"

	"geoattendance/backend/foundation/web"

	"github.com/pkg/errors"
	"github.com/umahmood/haversine"
)

// DistanceMeters returns the great-circle distance between two points given
// in decimal degrees, on a sphere of radius 6371 km.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p := haversine.Coord{Lat: lat1, Lon: lon1}
	q := haversine.Coord{Lat: lat2, Lon: lon2}
	_, km := haversine.Distance(p, q)
	return km * 1000
}

// Inside is inclusive: a point exactly on the boundary is inside.
func Inside(distance float64, radiusMeters int) bool {
	return distance <= float64(radiusMeters)
}

// ParseCoordinate parses a decimal degree value. Failures are validation
// errors.
func ParseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrapf(err, "invalid coordinate %q", raw), http.StatusUnprocessableEntity)
	}
	return v, nil
}

// Fence is a site center with its radius.
type Fence struct {
	Latitude     string
	Longitude    string
	RadiusMeters int
}

// Evaluate reports whether (lat, lon) falls inside f. It returns nil when
// either coordinate is absent or any value fails to parse.
func Evaluate(f Fence, lat, lon *string) *bool {
	if lat == nil || lon == nil {
		return nil
	}

	values := make([]float64, 0, 4)
	for _, raw := range []string{*lat, *lon, f.Latitude, f.Longitude} {
		v, err := ParseCoordinate(raw)
		if err != nil {
			return nil
		}
		values = append(values, v)
	}

	inside := Inside(DistanceMeters(values[0], values[1], values[2], values[3]), f.RadiusMeters)
	return &inside
}
