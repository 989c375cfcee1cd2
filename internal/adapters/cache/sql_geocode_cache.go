package cache

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLGeocodeCache is a Postgres-backed cache mapping normalized addresses
// to resolutions. It survives restarts, unlike the in-process cache.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// Fetch the cached resolution for one address key.
func (s *SQLGeocodeCache) Get(ctx context.Context, key string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.GeocodeResult{}, false, errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.GeocodeResult{}, false, nil
	}

	q := `
	SELECT lat, lng, formatted_address, place_id, provider_id
    FROM geocode_cache
    WHERE address_key = $1;
	`

	var res domain.GeocodeResult
	err = s.DB.QueryRowContext(ctx, q, key).Scan(
		&res.Coordinates.Lat,
		&res.Coordinates.Lng,
		&res.FormattedAddress,
		&res.PlaceID,
		&res.ProviderID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeocodeResult{}, false, nil
	}
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return res, true, nil
}

// Store an address -> resolution mapping in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, key string, result domain.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert geocode cache: empty address key")
	}

	q := `
	INSERT INTO geocode_cache (address_key, lat, lng, formatted_address, place_id, provider_id)
    VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (address_key) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		formatted_address = EXCLUDED.formatted_address,
		place_id = EXCLUDED.place_id,
		provider_id = EXCLUDED.provider_id,
		updated_at = now();
	`

	_, err := s.DB.ExecContext(ctx, q,
		key,
		result.Coordinates.Lat,
		result.Coordinates.Lng,
		result.FormattedAddress,
		result.PlaceID,
		result.ProviderID,
	)
	if err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
