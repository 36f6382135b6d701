// Package geo computes great-circle distances for housing listings.
package geo

import "math"

// EarthRadiusMiles is the mean Earth radius.
const EarthRadiusMiles = 3958.8

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceMiles returns the haversine distance between a and b.
func DistanceMiles(a, b Point) float64 {
	lat1, lat2 := radians(a.Latitude), radians(b.Latitude)
	dLat := lat2 - lat1
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h just past 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Box is a latitude/longitude rectangle in degrees.
type Box struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64
	// AllLongitudes is set when the box reaches a pole or crosses the
	// antimeridian. The longitude bounds are then meaningless.
	AllLongitudes bool
}

// BoundingBox returns the smallest box holding every point within miles of
// center.
func BoundingBox(center Point, miles float64) Box {
	r := miles / EarthRadiusMiles
	lat := radians(center.Latitude)

	box := Box{
		MinLatitude: degrees(lat - r),
		MaxLatitude: degrees(lat + r),
	}
	if box.MinLatitude <= -90 || box.MaxLatitude >= 90 {
		box.MinLatitude = math.Max(box.MinLatitude, -90)
		box.MaxLatitude = math.Min(box.MaxLatitude, 90)
		box.AllLongitudes = true
		return box
	}

	// Widest longitude offset on the circle, reached north of the center's
	// parallel rather than on it.
	dLng := degrees(math.Asin(math.Sin(r) / math.Cos(lat)))
	box.MinLongitude = center.Longitude - dLng
	box.MaxLongitude = center.Longitude + dLng
	if box.MinLongitude < -180 || box.MaxLongitude > 180 {
		box.AllLongitudes = true
	}
	return box
}

// Contains reports whether p lies inside b.
func (b Box) Contains(p Point) bool {
	if p.Latitude < b.MinLatitude || p.Latitude > b.MaxLatitude {
		return false
	}
	return b.AllLongitudes || (p.Longitude >= b.MinLongitude && p.Longitude <= b.MaxLongitude)
}

// RoundTenth rounds a distance for display.
func RoundTenth(miles float64) float64 {
	return math.Round(miles*10) / 10
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
