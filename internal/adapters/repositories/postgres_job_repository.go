package repositories

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the JobRepository port.
type PostgresJobRepository struct{ DB *sql.DB }

func NewPostgresJobRepository(db *sql.DB) *PostgresJobRepository {
	return &PostgresJobRepository{DB: db}
}

// Return the tenant's non-cancelled jobs for date, in id order.
func (s *PostgresJobRepository) LoadJobs(ctx context.Context, date string, tenantID string) (_ []domain.Job, err error) {
	defer obs.Time(ctx, "jobs.LoadJobs")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres job repository: DB is nil")
	}

	query := `
	SELECT
		id,
		address,
		lat,
		lng,
		scheduled_date,
		assigned_team_id,
		duration_hours,
		price,
		customer_name,
		customer_phone
	FROM jobs
	WHERE tenant_id = $1 AND scheduled_date = $2 AND status <> 'cancelled'
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tenantID, date)
	if err != nil {
		return nil, fmt.Errorf("load jobs: query jobs table: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, 64)
	for rows.Next() {
		var (
			j        domain.Job
			lat, lng sql.NullFloat64
			assigned sql.NullString
		)
		err := rows.Scan(&j.ID, &j.Address, &lat, &lng, &j.Date, &assigned,
			&j.DurationHours, &j.Price, &j.CustomerName, &j.CustomerPhone)
		if err != nil {
			return nil, fmt.Errorf("load jobs: scan row: %w", err)
		}
		if lat.Valid && lng.Valid {
			j.Coordinates = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		j.AssignedTeamID = assigned.String
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load jobs: row iteration: %w", err)
	}

	return jobs, nil
}
