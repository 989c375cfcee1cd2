package app

import (
	"context"
	"crew-route-service/internal/config"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineConfig() config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = ""
	cfg.RedisURL = ""
	cfg.AMQPURL = ""
	cfg.Providers.GoogleAPIKey = ""
	return cfg
}

func TestBuildFromSeedRunsOffline(t *testing.T) {
	ctx := context.Background()
	engine, err := Build(ctx, offlineConfig(), "../../data/seeds/crews.json")
	require.NoError(t, err)
	defer engine.Close()

	assert.Nil(t, engine.DB)
	assert.Nil(t, engine.Redis)
	assert.Nil(t, engine.Publisher)

	res, err := engine.Optimizer.OptimizeRoutesForDate(ctx, "2026-03-02", "demo", services.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.MatrixSourceHaversine, res.Summary.MatrixSource)
	assert.Equal(t, 5, res.Summary.TotalJobs)
	assert.Equal(t, 2, res.Summary.TeamsAvailable)
	assert.Equal(t, 5, res.Summary.AssignedJobs+res.Summary.UnassignedJobs)
	assert.Contains(t, res.Warnings, "Team New Crew skipped: crew lead has no home coordinates")

	for _, r := range res.Routes {
		if r.TeamID != "crew-west" {
			continue
		}
		var ids []string
		for _, s := range r.Stops {
			ids = append(ids, s.JobID)
		}
		assert.Contains(t, ids, "job-104")
	}
}

func TestBuildRequiresARepository(t *testing.T) {
	_, err := Build(context.Background(), offlineConfig(), "")
	assert.Error(t, err)
}
