package ports

import (
	"context"
	"crew-route-service/internal/domain"
)

// One origin->destination cell returned by a travel-time provider.
type TravelTimeElement struct {
	OK              bool
	DistanceMeters  int
	DurationSeconds int
	// Zero when the provider did not return a traffic-aware estimate.
	TrafficSeconds int
}

// Contract for a paid travel-time matrix provider.
type TravelTimeProvider interface {
	Name() string
	// Largest number of origins (and of destinations) accepted per call.
	MaxElementsPerSide() int
	// Return a row-major grid: rows follow origins, columns follow destinations.
	Matrix(ctx context.Context, origins, destinations []domain.Coordinates) ([][]TravelTimeElement, error)
}
