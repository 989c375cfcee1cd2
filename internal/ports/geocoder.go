package ports

import (
	"context"
	"crew-route-service/internal/domain"
)

// Contract for a single geocoding provider.
type Geocoder interface {
	// Stable provider id recorded on each result ("google", "nominatim").
	Name() string
	// Resolve one address. found=false with a nil error means the provider
	// answered but had no match.
	Geocode(ctx context.Context, address string) (result domain.GeocodeResult, found bool, err error)
}

// Cache of successful resolutions keyed by normalized address.
// Implementations must be safe for concurrent use.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (domain.GeocodeResult, bool, error)
	Put(ctx context.Context, key string, result domain.GeocodeResult) error
}
