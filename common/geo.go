package common

import (
	"math"

	"github.com/paulmach/orb"
)

// Haversine returns the great-circle distance in meters between two
// lon/lat points on a sphere of EarthMeanRadius.
// Coordinates are not validated.
/*
	https://en.wikipedia.org/wiki/Haversine_formula

	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
	c = 2 ⋅ atan2( √a, √(1−a) )
	d = R ⋅ c
*/
func Haversine(a, b orb.Point) float64 {
	if a == b {
		return 0
	}
	lat1 := deg2rad(a.Lat())
	lat2 := deg2rad(b.Lat())
	dLat := lat2 - lat1
	dLon := deg2rad(b.Lon() - a.Lon())

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthMeanRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180
}
