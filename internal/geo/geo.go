// Package geo provides great-circle distance calculation between coordinate
// pairs.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance in kilometers between
// two latitude/longitude pairs given in degrees. It is a pure function; NaN
// inputs propagate to a NaN result.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * EarthRadiusKm
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is within [-180, 180].
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// ValidCoordinates reports whether lat is within [-90, 90] and lon within
// [-180, 180].
func ValidCoordinates(lat, lon float64) bool {
	return ValidLatitude(lat) && ValidLongitude(lon)
}
