package config

import (
	"crew-route-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// PolicyDegrade recomputes the whole matrix with haversine when the paid provider fails.
	PolicyDegrade = "degrade"
	// PolicyFail aborts the run on a paid provider failure.
	PolicyFail = "fail"
)

type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	AMQPURL     string `yaml:"amqp_url"`

	Providers Providers `yaml:"providers"`
	Cache     Cache     `yaml:"cache"`
	Routing   Routing   `yaml:"routing"`
}

type Providers struct {
	// GoogleAPIKey enables the paid geocoder and distance matrix. Empty
	// means free geocoding plus haversine drive times.
	GoogleAPIKey       string `yaml:"google_api_key"`
	NominatimBaseURL   string `yaml:"nominatim_base_url"`
	NominatimUserAgent string `yaml:"nominatim_user_agent"`
	// HTTPMaxAttempts above 1 enables retry with backoff on transient errors.
	HTTPMaxAttempts int `yaml:"http_max_attempts"`
}

type Cache struct {
	GeocodeSize int           `yaml:"geocode_size"`
	GeocodeTTL  time.Duration `yaml:"geocode_ttl"`
}

type Routing struct {
	AverageSpeedKmh     float64 `yaml:"average_speed_kmh"`
	TripOverheadMinutes float64 `yaml:"trip_overhead_minutes"`
	DefaultStartTime    string  `yaml:"default_start_time"`
	MaxDriveMinutes     int     `yaml:"max_drive_minutes"`
	DailyTargetRevenue  float64 `yaml:"daily_target_revenue"`
	MatrixFailurePolicy string  `yaml:"matrix_failure_policy"`
}

func Default() Config {
	return Config{
		Port: "8080",
		Providers: Providers{
			NominatimBaseURL:   "https://nominatim.openstreetmap.org",
			NominatimUserAgent: "crew-route-service/1.0",
			HTTPMaxAttempts:    1,
		},
		Cache: Cache{
			GeocodeSize: 10000,
			GeocodeTTL:  30 * 24 * time.Hour,
		},
		Routing: Routing{
			AverageSpeedKmh:     40,
			TripOverheadMinutes: 5,
			DefaultStartTime:    "08:00",
			MaxDriveMinutes:     45,
			DailyTargetRevenue:  1200,
			MatrixFailurePolicy: PolicyDegrade,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides, in that order. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Routing.MatrixFailurePolicy {
	case PolicyDegrade, PolicyFail:
	default:
		return fmt.Errorf("matrix_failure_policy must be %q or %q, got %q", PolicyDegrade, PolicyFail, c.Routing.MatrixFailurePolicy)
	}
	if c.Routing.AverageSpeedKmh <= 0 {
		return errors.New("average_speed_kmh must be positive")
	}
	if c.Routing.MaxDriveMinutes <= 0 {
		return errors.New("max_drive_minutes must be positive")
	}
	if c.Routing.DailyTargetRevenue < 0 {
		return errors.New("daily_target_revenue must not be negative")
	}
	if c.Cache.GeocodeSize <= 0 {
		return errors.New("geocode cache size must be positive")
	}
	if _, err := domain.ParseClock(c.Routing.DefaultStartTime); err != nil {
		return fmt.Errorf("default_start_time: %w", err)
	}
	return nil
}

func applyEnv(c *Config) error {
	c.Port = Get("PORT", c.Port)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.AMQPURL = Get("AMQP_URL", c.AMQPURL)

	c.Providers.GoogleAPIKey = Get("GOOGLE_MAPS_API_KEY", c.Providers.GoogleAPIKey)
	c.Providers.NominatimBaseURL = Get("NOMINATIM_BASE_URL", c.Providers.NominatimBaseURL)
	c.Providers.NominatimUserAgent = Get("NOMINATIM_USER_AGENT", c.Providers.NominatimUserAgent)
	c.Routing.DefaultStartTime = Get("DEFAULT_START_TIME", c.Routing.DefaultStartTime)
	c.Routing.MatrixFailurePolicy = strings.ToLower(Get("MATRIX_FAILURE_POLICY", c.Routing.MatrixFailurePolicy))

	var err error
	if c.Providers.HTTPMaxAttempts, err = getInt("HTTP_MAX_ATTEMPTS", c.Providers.HTTPMaxAttempts); err != nil {
		return err
	}
	if c.Cache.GeocodeSize, err = getInt("GEOCODE_CACHE_SIZE", c.Cache.GeocodeSize); err != nil {
		return err
	}
	if c.Routing.MaxDriveMinutes, err = getInt("MAX_DRIVE_MINUTES", c.Routing.MaxDriveMinutes); err != nil {
		return err
	}
	if c.Cache.GeocodeTTL, err = getDuration("GEOCODE_CACHE_TTL", c.Cache.GeocodeTTL); err != nil {
		return err
	}
	if c.Routing.AverageSpeedKmh, err = getFloat("AVERAGE_SPEED_KMH", c.Routing.AverageSpeedKmh); err != nil {
		return err
	}
	if c.Routing.TripOverheadMinutes, err = getFloat("TRIP_OVERHEAD_MINUTES", c.Routing.TripOverheadMinutes); err != nil {
		return err
	}
	if c.Routing.DailyTargetRevenue, err = getFloat("DAILY_TARGET_REVENUE", c.Routing.DailyTargetRevenue); err != nil {
		return err
	}
	return nil
}

// Get returns the trimmed environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
