package ports

import (
	"context"
	"crew-route-service/internal/domain"
)

// Port: a boundary for retrieving teams from the tenant's system of record.
type TeamRepository interface {
	// Retrieve the tenant's active teams with their crew lead, if any.
	LoadTeams(ctx context.Context, tenantID string) ([]domain.Team, error)
}

// Port: a boundary for retrieving the jobs to route.
type JobRepository interface {
	// Retrieve non-cancelled jobs scheduled on date (YYYY-MM-DD).
	LoadJobs(ctx context.Context, date string, tenantID string) ([]domain.Job, error)
}
