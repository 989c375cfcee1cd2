package repositories

import (
	"bytes"
	"context"
	"crew-route-service/internal/domain"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TeamSeed and JobSeed are domain records tagged with their tenant.
type TeamSeed struct {
	TenantID string `json:"tenant_id"`
	domain.Team
}

type JobSeed struct {
	TenantID string `json:"tenant_id"`
	Status   string `json:"status,omitempty"`
	domain.Job
}

// Seed is the JSON fixture layout shared by SeedFromJSON and FileRepository.
type Seed struct {
	Teams []TeamSeed `json:"teams"`
	Jobs  []JobSeed  `json:"jobs"`
}

// ReadSeed loads and validates a fixture file.
func ReadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: read %q: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed treats an empty document as an empty fixture.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if len(bytes.TrimSpace(data)) == 0 {
		return &seed, nil
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("read seed: parse json: %w", err)
	}

	for i, t := range seed.Teams {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("read seed: team at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(t.TenantID) == "" {
			return nil, fmt.Errorf("read seed: team %q: tenant_id cannot be empty", t.ID)
		}
	}
	for i, j := range seed.Jobs {
		if strings.TrimSpace(j.ID) == "" {
			return nil, fmt.Errorf("read seed: job at index %d: id cannot be empty", i+1)
		}
		if strings.TrimSpace(j.Date) == "" {
			return nil, fmt.Errorf("read seed: job %q: date cannot be empty", j.ID)
		}
		if strings.TrimSpace(j.TenantID) == "" {
			return nil, fmt.Errorf("read seed: job %q: tenant_id cannot be empty", j.ID)
		}
	}
	return &seed, nil
}

// SeedFromJSON upserts the fixture's teams, leads, members and jobs.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seed, err := ReadSeed(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range seed.Teams {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO teams (id, tenant_id, name, active, max_jobs_per_day)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			name = EXCLUDED.name,
			max_jobs_per_day = EXCLUDED.max_jobs_per_day;
		`, t.ID, t.TenantID, t.Name, t.MaxJobsPerDay); err != nil {
			return fmt.Errorf("seed: insert team id=%s: %w", t.ID, err)
		}

		if l := t.Lead; l != nil {
			var lat, lng sql.NullFloat64
			if l.Home != nil {
				lat = sql.NullFloat64{Float64: l.Home.Lat, Valid: true}
				lng = sql.NullFloat64{Float64: l.Home.Lng, Valid: true}
			}
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO crew_leads (id, team_id, name, active, notification_channel_id, home_lat, home_lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				team_id = EXCLUDED.team_id,
				name = EXCLUDED.name,
				active = EXCLUDED.active,
				notification_channel_id = EXCLUDED.notification_channel_id,
				home_lat = EXCLUDED.home_lat,
				home_lng = EXCLUDED.home_lng;
			`, l.ID, t.ID, l.Name, l.Active, l.NotificationChannelID, lat, lng); err != nil {
				return fmt.Errorf("seed: insert lead id=%s: %w", l.ID, err)
			}
		}

		for _, m := range t.Members {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO team_members (id, team_id, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET team_id = EXCLUDED.team_id, name = EXCLUDED.name;
			`, m.ID, t.ID, m.Name); err != nil {
				return fmt.Errorf("seed: insert member id=%s: %w", m.ID, err)
			}
		}
	}

	for _, j := range seed.Jobs {
		var lat, lng sql.NullFloat64
		if j.Coordinates != nil {
			lat = sql.NullFloat64{Float64: j.Coordinates.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: j.Coordinates.Lng, Valid: true}
		}
		status := j.Status
		if status == "" {
			status = "scheduled"
		}
		assigned := sql.NullString{String: j.AssignedTeamID, Valid: j.AssignedTeamID != ""}

		if _, err := tx.ExecContext(ctx, `
		INSERT INTO jobs (id, tenant_id, address, lat, lng, scheduled_date, status,
			assigned_team_id, duration_hours, price, customer_name, customer_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			scheduled_date = EXCLUDED.scheduled_date,
			status = EXCLUDED.status,
			assigned_team_id = EXCLUDED.assigned_team_id,
			duration_hours = EXCLUDED.duration_hours,
			price = EXCLUDED.price,
			customer_name = EXCLUDED.customer_name,
			customer_phone = EXCLUDED.customer_phone;
		`, j.ID, j.TenantID, j.Address, lat, lng, j.Date, status,
			assigned, j.DurationHours, j.Price, j.CustomerName, j.CustomerPhone); err != nil {
			return fmt.Errorf("seed: insert job id=%s: %w", j.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
