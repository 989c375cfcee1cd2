package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// GeocodeRequests counts provider lookups by provider and outcome (found, not_found, error).
	GeocodeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_requests_total", Help: "Geocoding provider lookups."},
		[]string{"provider", "outcome"},
	)
	// GeocodeCache counts cache lookups by outcome (hit, miss, error).
	GeocodeCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_cache_total", Help: "Geocode cache lookups."},
		[]string{"outcome"},
	)
	// MatrixRequests counts distance matrix batches by provider and outcome.
	MatrixRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "matrix_requests_total", Help: "Distance matrix batch requests."},
		[]string{"provider", "outcome"},
	)
	// OptimizationRuns counts finished optimization runs by outcome.
	OptimizationRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimization_runs_total", Help: "Route optimization runs."},
		[]string{"outcome"},
	)
	// OperationDuration records obs.Time spans in seconds.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Duration of timed operations.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(GeocodeRequests)
		Registry.MustRegister(GeocodeCache)
		Registry.MustRegister(MatrixRequests)
		Registry.MustRegister(OptimizationRuns)
		Registry.MustRegister(OperationDuration)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
