package geo

import "math"

// EarthRadiusKM is the mean earth radius used for distance math
const EarthRadiusKM = 6371.0

// DefaultRadiusKM is the hyperlocal discovery radius
const DefaultRadiusKM = 1.0

// HaversineKM returns the great-circle distance between two lat/lon
// pairs in kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := hav(dLat) + math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*hav(dLon)
	return 2 * EarthRadiusKM * math.Asin(math.Sqrt(a))
}

// WithinRadius reports whether the target point falls inside the radius,
// boundary inclusive.
func WithinRadius(lat1, lon1, lat2, lon2, radiusKM float64) bool {
	return HaversineKM(lat1, lon1, lat2, lon2) <= radiusKM
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
