package geo

import (
	"math"
	"testing"
)

func TestDistanceKnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: -6.2, lon1: 106.816666,
			lat2: -6.2, lon2: 106.816666,
			wantKm:    0,
			tolerance: 1e-9,
		},
		{
			name: "jakarta to denpasar",
			lat1: -6.2, lon1: 106.816666,
			lat2: -8.65, lon2: 115.216667,
			wantKm:    965,
			tolerance: 15,
		},
		{
			name: "one degree of longitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			wantKm:    111.19,
			tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("Distance() = %v km, want %v km (±%v)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{-8.409518, 115.188919, -7.607874, 110.203751},
		{2.6845, 98.8756, -6.2, 106.816666},
		{0, 0, 45, 90},
	}

	for _, p := range pairs {
		forward := Distance(p[0], p[1], p[2], p[3])
		backward := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("Distance not symmetric for %v: %v vs %v", p, forward, backward)
		}
	}
}

func TestDistancePropagatesNaN(t *testing.T) {
	if got := Distance(math.NaN(), 106.8, -8.65, 115.2); !math.IsNaN(got) {
		t.Errorf("Distance with NaN input = %v, want NaN", got)
	}
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{name: "valid", lat: -6.2, lon: 106.8, want: true},
		{name: "boundary north pole", lat: 90, lon: 0, want: true},
		{name: "boundary antimeridian", lat: 0, lon: -180, want: true},
		{name: "latitude too large", lat: 90.1, lon: 0, want: false},
		{name: "latitude too small", lat: -91, lon: 0, want: false},
		{name: "longitude too large", lat: 0, lon: 180.5, want: false},
		{name: "longitude too small", lat: 0, lon: -181, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCoordinates(tt.lat, tt.lon); got != tt.want {
				t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestValidLatitudeLongitude(t *testing.T) {
	if !ValidLatitude(-90) || !ValidLatitude(90) || ValidLatitude(90.0001) {
		t.Error("ValidLatitude boundaries are wrong")
	}
	if !ValidLongitude(-180) || !ValidLongitude(180) || ValidLongitude(-180.0001) {
		t.Error("ValidLongitude boundaries are wrong")
	}
	if ValidLatitude(math.NaN()) || ValidLongitude(math.NaN()) {
		t.Error("NaN is not a valid coordinate")
	}
}
