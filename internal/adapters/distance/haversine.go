package distance

import (
	"crew-route-service/internal/domain"
	"math"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b domain.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// HaversineEstimator prices a trip as straight-line distance at a fixed
// average speed plus a fixed per-trip overhead (parking, loading).
type HaversineEstimator struct {
	SpeedKmh        float64
	OverheadMinutes float64
}

func NewHaversineEstimator(speedKmh, overheadMinutes float64) HaversineEstimator {
	if speedKmh <= 0 {
		speedKmh = 40
	}
	if overheadMinutes < 0 {
		overheadMinutes = 0
	}
	return HaversineEstimator{SpeedKmh: speedKmh, OverheadMinutes: overheadMinutes}
}

// Minutes returns whole drive minutes between two points. Co-located
// points cost nothing.
func (h HaversineEstimator) Minutes(a, b domain.Coordinates) int {
	km := HaversineKm(a, b)
	if km < 1e-6 {
		return 0
	}
	return int(math.Round(km/h.SpeedKmh*60 + h.OverheadMinutes))
}
