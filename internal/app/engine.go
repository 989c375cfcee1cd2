package app

import (
	"context"
	"crew-route-service/internal/adapters/cache"
	"crew-route-service/internal/adapters/dispatch"
	"crew-route-service/internal/adapters/distance"
	"crew-route-service/internal/adapters/geocode"
	"crew-route-service/internal/adapters/providerhttp"
	"crew-route-service/internal/adapters/repositories"
	"crew-route-service/internal/config"
	"crew-route-service/internal/platform/db"
	"crew-route-service/internal/platform/metrics"
	"crew-route-service/internal/ports"
	"crew-route-service/internal/services"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

const providerTimeout = 15 * time.Second

// Engine is the wired optimizer plus the adapters behind it. Optional
// adapters (DB, Redis, publisher) are nil when not configured.
type Engine struct {
	Optimizer *services.Optimizer
	Resolver  *services.LocationResolver
	Teams     ports.TeamRepository
	Jobs      ports.JobRepository
	Publisher ports.ResultPublisher

	DB    *sql.DB
	Redis *cache.RedisGeocodeCache

	closers []func()
}

// Build wires concrete adapters behind ports. With seedPath set, teams and
// jobs come from that JSON fixture instead of Postgres.
func Build(ctx context.Context, cfg config.Config, seedPath string) (*Engine, error) {
	metrics.RegisterDefault()
	e := &Engine{}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		e.DB = conn
		e.closers = append(e.closers, func() { _ = conn.Close() })
	}

	switch {
	case seedPath != "":
		repo, err := repositories.NewFileRepository(seedPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.Teams, e.Jobs = repo, repo
	case e.DB != nil:
		e.Teams = repositories.NewPostgresTeamRepository(e.DB)
		e.Jobs = repositories.NewPostgresJobRepository(e.DB)
	default:
		e.Close()
		return nil, errors.New("build engine: DATABASE_URL or a seed file is required")
	}

	geocodeCache, err := e.geocodeCache(ctx, cfg)
	if err != nil {
		e.Close()
		return nil, err
	}

	client := providerhttp.New(providerTimeout, cfg.Providers.HTTPMaxAttempts, cfg.Providers.NominatimUserAgent)

	var (
		paid     ports.Geocoder
		provider ports.TravelTimeProvider
	)
	if key := strings.TrimSpace(cfg.Providers.GoogleAPIKey); key != "" {
		g, err := geocode.NewGoogleGeocoder(key, client)
		if err != nil {
			e.Close()
			return nil, err
		}
		m, err := distance.NewGoogleMatrixProvider(key, client)
		if err != nil {
			e.Close()
			return nil, err
		}
		paid, provider = g, m
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set: using free geocoder and haversine drive times")
	}
	free := geocode.NewNominatimGeocoder(cfg.Providers.NominatimBaseURL, client)

	e.Resolver = services.NewLocationResolver(geocodeCache, paid, free).WithLimiters(
		services.NewIntervalLimiter(services.PaidGeocodeInterval),
		services.NewIntervalLimiter(services.FreeGeocodeInterval),
	)

	estimator := distance.NewHaversineEstimator(cfg.Routing.AverageSpeedKmh, cfg.Routing.TripOverheadMinutes)
	builder := services.NewMatrixBuilder(e.Resolver, provider, estimator).
		WithLimiter(services.NewIntervalLimiter(services.MatrixBatchInterval)).
		WithFailurePolicy(services.FailurePolicy(cfg.Routing.MatrixFailurePolicy))

	e.Optimizer = services.NewOptimizer(e.Teams, e.Jobs, builder, services.Options{
		StartTime:          cfg.Routing.DefaultStartTime,
		MaxDriveMinutes:    cfg.Routing.MaxDriveMinutes,
		DailyTargetRevenue: services.TargetRevenue(cfg.Routing.DailyTargetRevenue),
	})

	if url := strings.TrimSpace(cfg.AMQPURL); url != "" {
		pub, err := dispatch.Dial(url)
		if err != nil {
			// Results are still returned to callers; only the hand-off is lost.
			log.Printf("dispatch disabled: %v", err)
		} else {
			e.Publisher = pub
			e.closers = append(e.closers, pub.Close)
		}
	}

	return e, nil
}

// Redis when configured, else Postgres when connected, else in-process LRU.
func (e *Engine) geocodeCache(ctx context.Context, cfg config.Config) (ports.GeocodeCache, error) {
	if url := strings.TrimSpace(cfg.RedisURL); url != "" {
		rc, err := cache.NewRedisGeocodeCacheFromURL(ctx, url, cfg.Cache.GeocodeTTL)
		if err != nil {
			return nil, fmt.Errorf("build engine: %w", err)
		}
		e.Redis = rc
		e.closers = append(e.closers, func() { _ = rc.Close() })
		return rc, nil
	}
	if e.DB != nil {
		return cache.NewSQLGeocodeCache(e.DB), nil
	}
	return cache.NewMemoryGeocodeCache(cfg.Cache.GeocodeSize, cfg.Cache.GeocodeTTL), nil
}

// Close releases adapters in reverse order of creation.
func (e *Engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}
