package services

import (
	"crew-route-service/internal/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditRoutes(t *testing.T) {
	routes := []domain.OptimizedRoute{
		{
			TeamID:            "ok",
			TeamName:          "Good",
			Stops:             []domain.OptimizedStop{{JobID: "1", DriveMinutes: 20}, {JobID: "2", DriveMinutes: 15}},
			TotalDriveMinutes: 35,
			EstimatedRevenue:  1500,
		},
		{
			TeamID:            "far",
			Stops:             []domain.OptimizedStop{{JobID: "3", DriveMinutes: 100}},
			TotalDriveMinutes: 100,
			EstimatedRevenue:  400,
		},
		{
			TeamID:            "free",
			TeamName:          "Warranty",
			Stops:             []domain.OptimizedStop{{JobID: "4", DriveMinutes: 10}},
			TotalDriveMinutes: 10,
			EstimatedRevenue:  0,
		},
	}

	warnings := AuditRoutes(routes, 45, 1200)
	assert.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.True(t, strings.HasPrefix(w, "Team far:"), w)
	}
	assert.Contains(t, warnings[0], "job 3")
	assert.Contains(t, warnings[1], "below daily target")
	assert.Contains(t, warnings[2], "total drive")
}

func TestAuditRoutesEmpty(t *testing.T) {
	assert.Empty(t, AuditRoutes(nil, 45, 1200))
}
