package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crew-route-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "teams": [
    {"tenant_id": "acme", "id": "t1", "name": "North Crew", "max_jobs_per_day": 4,
     "lead": {"id": "l1", "name": "Dana", "active": true, "notification_channel_id": "+15550001",
              "home": {"lat": 34.05, "lng": -118.25}},
     "members": [{"id": "m1", "name": "Sam"}]},
    {"tenant_id": "other", "id": "t9", "name": "Elsewhere"}
  ],
  "jobs": [
    {"tenant_id": "acme", "id": "j1", "address": "1 Main St", "date": "2026-03-02", "price": 250},
    {"tenant_id": "acme", "id": "j2", "address": "2 Main St", "date": "2026-03-02", "status": "cancelled"},
    {"tenant_id": "acme", "id": "j3", "address": "3 Main St", "date": "2026-03-03"},
    {"tenant_id": "other", "id": "j4", "address": "4 Main St", "date": "2026-03-02"}
  ]
}`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileRepositoryFiltersByTenantAndDate(t *testing.T) {
	repo, err := NewFileRepository(writeFixture(t, fixture))
	require.NoError(t, err)
	ctx := context.Background()

	teams, err := repo.LoadTeams(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "North Crew", teams[0].Name)
	require.NotNil(t, teams[0].Lead)
	assert.Equal(t, "", teams[0].Disqualification())

	jobs, err := repo.LoadJobs(ctx, "2026-03-02", "acme")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, 250.0, jobs[0].Price)
}

func TestParseSeedValidation(t *testing.T) {
	_, err := ParseSeed([]byte(`{"teams":[{"id":"t1"}]}`))
	assert.ErrorContains(t, err, "tenant_id")

	_, err = ParseSeed([]byte(`{"jobs":[{"id":"j1","tenant_id":"a"}]}`))
	assert.ErrorContains(t, err, "date")

	_, err = ParseSeed([]byte(`not json`))
	assert.Error(t, err)
}

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitSchema(ctx, conn))
	require.NoError(t, SeedFromJSON(ctx, conn, writeFixture(t, fixture)))

	teams, err := NewPostgresTeamRepository(conn).LoadTeams(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Len(t, teams[0].Members, 1)
	require.NotNil(t, teams[0].Lead.Home)

	jobs, err := NewPostgresJobRepository(conn).LoadJobs(ctx, "2026-03-02", "acme")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Nil(t, jobs[0].Coordinates)
}
