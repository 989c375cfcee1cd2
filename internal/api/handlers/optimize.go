package handlers

import (
	"context"
	"crew-route-service/internal/api/dto"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"crew-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// RouteOptimizer is satisfied by *services.Optimizer.
type RouteOptimizer interface {
	OptimizeRoutesForDate(ctx context.Context, date, tenantID string, opts services.Options) (*domain.OptimizationResult, error)
}

type OptimizeHandler struct {
	Optimizer RouteOptimizer
	// Publisher is optional; when set, every successful result is handed to it.
	Publisher ports.ResultPublisher
}

// Optimize runs one tenant/date optimization and returns the result as-is.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	tenant := strings.TrimSpace(req.TenantID)
	if tenant == "" {
		writeError(w, r, http.StatusBadRequest, "tenant_id is required")
		return
	}
	if req.MaxDriveMinutes < 0 || (req.DailyTargetRevenue != nil && *req.DailyTargetRevenue < 0) {
		writeError(w, r, http.StatusBadRequest, "max_drive_minutes and daily_target_revenue must not be negative")
		return
	}

	opts := services.Options{
		StartTime:          strings.TrimSpace(req.StartTime),
		MaxDriveMinutes:    req.MaxDriveMinutes,
		DailyTargetRevenue: req.DailyTargetRevenue,
	}

	result, err := h.Optimizer.OptimizeRoutesForDate(r.Context(), date, tenant, opts)
	switch {
	case errors.Is(err, domain.ErrInvalidStartTime):
		writeError(w, r, http.StatusBadRequest, "start_time must be HH:MM")
		return
	case errors.Is(err, services.ErrProviderFailure):
		log.Printf("req_id=%s optimize failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusBadGateway, "travel time provider unavailable")
		return
	case err != nil:
		log.Printf("req_id=%s optimize failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Publisher != nil {
		if err := h.Publisher.PublishResult(r.Context(), result); err != nil {
			log.Printf("req_id=%s run_id=%s publish failed: %v", obs.RequestID(r.Context()), result.RunID, err)
		}
	}

	writeJSON(w, r, http.StatusOK, result)
}
