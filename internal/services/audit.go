package services

import (
	"crew-route-service/internal/domain"
	"fmt"
)

// AuditRoutes flags routes a dispatcher should look at. It only warns; it
// never changes a route.
//
//   - any leg longer than maxDriveMinutes
//   - revenue above zero but under dailyTargetRevenue
//   - total driving above maxDriveMinutes times the number of stops
func AuditRoutes(routes []domain.OptimizedRoute, maxDriveMinutes int, dailyTargetRevenue float64) []string {
	warnings := []string{}
	for _, r := range routes {
		name := r.TeamName
		if name == "" {
			name = r.TeamID
		}

		for _, s := range r.Stops {
			if s.DriveMinutes > maxDriveMinutes {
				warnings = append(warnings, fmt.Sprintf(
					"Team %s: drive of %d min to job %s exceeds %d min", name, s.DriveMinutes, s.JobID, maxDriveMinutes))
			}
		}

		if r.EstimatedRevenue > 0 && r.EstimatedRevenue < dailyTargetRevenue {
			warnings = append(warnings, fmt.Sprintf(
				"Team %s: estimated revenue %.2f is below daily target %.2f", name, r.EstimatedRevenue, dailyTargetRevenue))
		}

		if limit := maxDriveMinutes * len(r.Stops); len(r.Stops) > 0 && r.TotalDriveMinutes > limit {
			warnings = append(warnings, fmt.Sprintf(
				"Team %s: total drive of %d min exceeds %d min for %d stops", name, r.TotalDriveMinutes, limit, len(r.Stops)))
		}
	}
	return warnings
}
