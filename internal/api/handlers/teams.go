package handlers

import (
	"crew-route-service/internal/api/dto"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
)

// TeamHandler exposes a read-only view of a tenant's teams and whether
// each one can be routed.
type TeamHandler struct {
	Repo ports.TeamRepository
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tenant := strings.TrimSpace(r.URL.Query().Get("tenant_id"))
	if tenant == "" {
		writeError(w, r, http.StatusBadRequest, "tenant_id is required")
		return
	}

	teams, err := h.Repo.LoadTeams(r.Context(), tenant)
	if err != nil {
		log.Printf("req_id=%s list teams failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTeamsResponse{
		Teams: make([]dto.TeamResponse, 0, len(teams)),
	}
	for _, t := range teams {
		why := t.Disqualification()
		tr := dto.TeamResponse{
			ID:            t.ID,
			Name:          t.DisplayName(),
			MaxJobsPerDay: t.Capacity(),
			Members:       make([]string, 0, len(t.Members)),
			Qualified:     why == "",
			Reason:        why,
		}
		if t.Lead != nil {
			tr.LeadName = t.Lead.Name
			tr.Home = t.Lead.Home
		}
		for _, m := range t.Members {
			tr.Members = append(tr.Members, m.Name)
		}
		res.Teams = append(res.Teams, tr)
	}

	writeJSON(w, r, http.StatusOK, res)
}
