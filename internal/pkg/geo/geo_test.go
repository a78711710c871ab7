package geo_test

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"geoattendance/backend/foundation/web"
	"geoattendance/backend/internal/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDistanceIdentityAndSymmetry(t *testing.T) {
	points := [][2]float64{
		{-2.170998, -79.922359},
		{-0.180653, -78.467834},
		{40.730610, -73.935242},
		{0, 0},
		{89.9, 179.9},
	}

	for _, p := range points {
		assert.Zero(t, geo.DistanceMeters(p[0], p[1], p[0], p[1]))
		for _, q := range points {
			assert.Equal(t, geo.DistanceMeters(p[0], p[1], q[0], q[1]), geo.DistanceMeters(q[0], q[1], p[0], p[1]))
		}
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// one degree of latitude on a 6371 km sphere
	want := 6371000 * math.Pi / 180
	assert.InDelta(t, want, geo.DistanceMeters(0, 0, 1, 0), 0.5)
}

func TestBoundaryIsInside(t *testing.T) {
	d := geo.DistanceMeters(-2.170998, -79.922359, -2.171998, -79.922359)
	radius := int(math.Ceil(d))

	assert.True(t, geo.Inside(float64(radius), radius))
	assert.True(t, geo.Inside(d, radius))
	assert.False(t, geo.Inside(float64(radius)+0.001, radius))
}

func TestParseCoordinate(t *testing.T) {
	v, err := geo.ParseCoordinate(" -2.170998 ")
	require.NoError(t, err)
	assert.Equal(t, -2.170998, v)

	_, err = geo.ParseCoordinate("north")
	assert.Equal(t, http.StatusUnprocessableEntity, web.StatusOf(err))
}

func TestEvaluate(t *testing.T) {
	fence := geo.Fence{Latitude: "-2.170998", Longitude: "-79.922359", RadiusMeters: 100}

	inside := geo.Evaluate(fence, ptr("-2.171100"), ptr("-79.922400"))
	require.NotNil(t, inside)
	assert.True(t, *inside)

	outside := geo.Evaluate(fence, ptr("-2.190000"), ptr("-79.922359"))
	require.NotNil(t, outside)
	assert.False(t, *outside)

	assert.Nil(t, geo.Evaluate(fence, nil, ptr("-79.9")))
	assert.Nil(t, geo.Evaluate(fence, ptr("abc"), ptr("-79.9")))
}

func TestCoordinateJSON(t *testing.T) {
	var body struct {
		Lat *geo.Coordinate `json:"lat"`
		Lon *geo.Coordinate `json:"lon"`
		Alt *geo.Coordinate `json:"alt"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"lat": -2.170998, "lon": "-79.922359", "alt": null}`), &body))
	require.NotNil(t, body.Lat)
	assert.Equal(t, "-2.170998", *body.Lat.Ptr())
	assert.Equal(t, "-79.922359", *body.Lon.Ptr())
	assert.Nil(t, body.Alt.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"lat": true}`), &body))
}
