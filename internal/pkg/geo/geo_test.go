package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var campus = Point{Latitude: 40.4237, Longitude: -86.9212}

func TestDistanceMiles(t *testing.T) {
	assert.Zero(t, DistanceMiles(campus, campus))

	// Purdue to downtown Indianapolis is about 61 miles as the crow flies.
	indy := Point{Latitude: 39.7684, Longitude: -86.1581}
	assert.InDelta(t, 61, DistanceMiles(campus, indy), 6)

	assert.InDelta(t, DistanceMiles(campus, indy), DistanceMiles(indy, campus), 1e-9)
}

func TestDistanceMiles_Antipodal(t *testing.T) {
	d := DistanceMiles(Point{0, 0}, Point{0, 180})
	assert.False(t, math.IsNaN(d))
	assert.InDelta(t, math.Pi*EarthRadiusMiles, d, 1e-6)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox(campus, 10)
	assert.False(t, box.AllLongitudes)
	assert.InDelta(t, 10/EarthRadiusMiles*180/math.Pi, box.MaxLatitude-campus.Latitude, 1e-9)
	assert.Greater(t, box.MaxLongitude-campus.Longitude, box.MaxLatitude-campus.Latitude)

	// Every point just inside the 10 mile circle falls inside the box.
	for bearing := 0.0; bearing < 360; bearing += 5 {
		p := destination(campus, 9.999, bearing)
		assert.InDelta(t, 9.999, DistanceMiles(campus, p), 1e-6)
		assert.True(t, box.Contains(p), "bearing %v", bearing)
	}
	assert.False(t, box.Contains(Point{Latitude: 39.7684, Longitude: -86.1581}))
}

func TestBoundingBox_Edges(t *testing.T) {
	polar := BoundingBox(Point{Latitude: 89.9, Longitude: 10}, 50)
	assert.True(t, polar.AllLongitudes)
	assert.Equal(t, 90.0, polar.MaxLatitude)
	assert.True(t, polar.Contains(Point{Latitude: 89.95, Longitude: -170}))

	dateline := BoundingBox(Point{Latitude: 0, Longitude: 179.99}, 50)
	assert.True(t, dateline.AllLongitudes)
	assert.True(t, dateline.Contains(Point{Latitude: 0, Longitude: -179.99}))
}

// destination walks miles from p along bearing degrees.
func destination(p Point, miles, bearing float64) Point {
	r := miles / EarthRadiusMiles
	lat1, lng1, b := radians(p.Latitude), radians(p.Longitude), radians(bearing)
	lat2 := math.Asin(math.Sin(lat1)*math.Cos(r) + math.Cos(lat1)*math.Sin(r)*math.Cos(b))
	lng2 := lng1 + math.Atan2(math.Sin(b)*math.Sin(r)*math.Cos(lat1), math.Cos(r)-math.Sin(lat1)*math.Sin(lat2))
	return Point{Latitude: degrees(lat2), Longitude: degrees(lng2)}
}

func TestRoundTenth(t *testing.T) {
	assert.Equal(t, 1.3, RoundTenth(1.25001))
	assert.Equal(t, 0.0, RoundTenth(0.04))
}
