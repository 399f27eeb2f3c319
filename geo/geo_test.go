package geo

import (
	"math"
	"testing"
)

func TestHaversineZero(t *testing.T) {
	d := HaversineKM(28.6139, 77.2090, 28.6139, 77.2090)
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineDelhiAgra(t *testing.T) {
	// New Delhi to Agra is roughly 179 km as the crow flies
	d := HaversineKM(28.6139, 77.2090, 27.1767, 78.0081)
	if d < 178 || d > 180 {
		t.Fatalf("Delhi-Agra distance out of sanity bounds: %f km", d)
	}
}

func TestWithinRadiusBoundary(t *testing.T) {
	// move north along a meridian: 1 degree of latitude ≈ 111.19 km,
	// so build points barely inside and barely outside 1 km
	const degPerKM = 1.0 / (EarthRadiusKM * math.Pi / 180)

	inside := 28.6139 + 0.999999*degPerKM
	outside := 28.6139 + 1.000001*degPerKM

	if !WithinRadius(28.6139, 77.2090, inside, 77.2090, DefaultRadiusKM) {
		t.Errorf("point at 0.999999 km must be included (d=%f)",
			HaversineKM(28.6139, 77.2090, inside, 77.2090))
	}
	if WithinRadius(28.6139, 77.2090, outside, 77.2090, DefaultRadiusKM) {
		t.Errorf("point at 1.000001 km must be excluded (d=%f)",
			HaversineKM(28.6139, 77.2090, outside, 77.2090))
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKM(28.6139, 77.2090, 27.1767, 78.0081)
	b := HaversineKM(27.1767, 78.0081, 28.6139, 77.2090)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance is not symmetric: %f vs %f", a, b)
	}
}
