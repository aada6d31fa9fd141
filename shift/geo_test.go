package shift_test

import (
	"math"
	"testing"

	"github.com/lioncity/timegrid/shift"
)

func TestHaversineDistanceMeters_SamePointIsZero(t *testing.T) {
	if d := shift.HaversineDistanceMeters(1.3521, 103.8198, 1.3521, 103.8198); d != 0 {
		t.Errorf("same point should be 0m, got %f", d)
	}
}

func TestHaversineDistanceMeters_KnownSingaporeDistance(t *testing.T) {
	// Raffles Place to Changi Airport is roughly 17.5 km.
	d := shift.HaversineDistanceMeters(1.2840, 103.8510, 1.3644, 103.9915)

	if d < 17000 || d > 18500 {
		t.Errorf("expected ~17.5km, got %.0fm", d)
	}
}

func TestHaversineDistanceMeters_ShortRange(t *testing.T) {
	// One degree of latitude is ~111.19 km at the 6371km mean radius;
	// 0.001 degrees is ~111 m. This is the geofence-scale case.
	d := shift.HaversineDistanceMeters(1.3000, 103.8000, 1.3010, 103.8000)

	if math.Abs(d-111.19) > 1 {
		t.Errorf("expected ~111m, got %.2fm", d)
	}
}

func TestHaversineDistanceMeters_Symmetric(t *testing.T) {
	a := shift.HaversineDistanceMeters(1.2840, 103.8510, 1.3644, 103.9915)
	b := shift.HaversineDistanceMeters(1.3644, 103.9915, 1.2840, 103.8510)

	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}
