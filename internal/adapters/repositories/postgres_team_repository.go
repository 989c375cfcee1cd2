package repositories

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the TeamRepository port.
type PostgresTeamRepository struct{ DB *sql.DB }

func NewPostgresTeamRepository(db *sql.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{DB: db}
}

// Return the tenant's active teams with their crew lead and members.
// Teams without a lead are returned with a nil Lead so the caller can
// report them.
func (s *PostgresTeamRepository) LoadTeams(ctx context.Context, tenantID string) (_ []domain.Team, err error) {
	defer obs.Time(ctx, "teams.LoadTeams")(&err)

	if s.DB == nil {
		return nil, errors.New("postgres team repository: DB is nil")
	}

	query := `
	SELECT
		t.id,
		t.name,
		t.max_jobs_per_day,
		l.id,
		l.name,
		l.active,
		l.notification_channel_id,
		l.home_lat,
		l.home_lng
	FROM teams t
	LEFT JOIN crew_leads l ON l.team_id = t.id
	WHERE t.tenant_id = $1 AND t.active
	ORDER BY t.id;
	`
	rows, err := s.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load teams: query teams table: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0, 16)
	index := make(map[string]int, 16)
	for rows.Next() {
		var (
			t                      domain.Team
			leadID, leadName, chID sql.NullString
			leadActive             sql.NullBool
			lat, lng               sql.NullFloat64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.MaxJobsPerDay, &leadID, &leadName, &leadActive, &chID, &lat, &lng); err != nil {
			return nil, fmt.Errorf("load teams: scan row: %w", err)
		}
		if leadID.Valid {
			t.Lead = &domain.CrewLead{
				ID:                    leadID.String,
				Name:                  leadName.String,
				Active:                leadActive.Bool,
				NotificationChannelID: chID.String,
			}
			if lat.Valid && lng.Valid {
				t.Lead.Home = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
			}
		}
		t.Members = []domain.Member{}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load teams: row iteration: %w", err)
	}

	if len(teams) == 0 {
		return teams, nil
	}

	memberRows, err := s.DB.QueryContext(ctx, `
	SELECT m.team_id, m.id, m.name
	FROM team_members m
	JOIN teams t ON t.id = m.team_id
	WHERE t.tenant_id = $1
	ORDER BY m.team_id, m.id;
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load teams: query members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var teamID string
		var m domain.Member
		if err := memberRows.Scan(&teamID, &m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("load teams: scan member: %w", err)
		}
		if i, ok := index[teamID]; ok {
			teams[i].Members = append(teams[i].Members, m)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("load teams: member iteration: %w", err)
	}

	return teams, nil
}
