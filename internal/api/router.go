package api

import (
	"crew-route-service/internal/api/handlers"
	"crew-route-service/internal/platform/metrics"
	"crew-route-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs. Publisher and Checks
// are optional.
type Deps struct {
	Optimizer handlers.RouteOptimizer
	Teams     ports.TeamRepository
	Publisher ports.ResultPublisher
	Checks    map[string]handlers.HealthCheck
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{
		Optimizer: deps.Optimizer,
		Publisher: deps.Publisher,
	}
	teamHandler := &handlers.TeamHandler{Repo: deps.Teams}
	healthHandler := &handlers.HealthHandler{Checks: deps.Checks}

	metrics.RegisterDefault()

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/teams", teamHandler.List)
	mux.HandleFunc("/optimize", optimizeHandler.Optimize)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
