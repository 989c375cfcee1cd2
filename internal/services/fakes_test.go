package services

import (
	"context"
	"crew-route-service/internal/domain"
	"errors"
	"sync"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	name    string
	results map[string]domain.Coordinates
	err     error
	calls   []string
}

func newFakeGeocoder(name string, results map[string]domain.Coordinates) *fakeGeocoder {
	return &fakeGeocoder{name: name, results: results}
}

func (g *fakeGeocoder) Name() string { return g.name }

func (g *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.GeocodeResult, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, address)
	if g.err != nil {
		return domain.GeocodeResult{}, false, g.err
	}
	c, ok := g.results[NormalizeAddress(address)]
	if !ok {
		return domain.GeocodeResult{}, false, nil
	}
	return domain.GeocodeResult{Coordinates: c, FormattedAddress: address}, true, nil
}

func (g *fakeGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type fakeRepo struct {
	teams    []domain.Team
	jobs     []domain.Job
	teamsErr error
	jobsErr  error
}

func (r *fakeRepo) LoadTeams(ctx context.Context, tenantID string) ([]domain.Team, error) {
	return r.teams, r.teamsErr
}

func (r *fakeRepo) LoadJobs(ctx context.Context, date, tenantID string) ([]domain.Job, error) {
	return r.jobs, r.jobsErr
}

var errBoom = errors.New("boom")

func coords(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func qualifiedTeam(id string, capacity int, lat, lng float64) domain.Team {
	return domain.Team{
		ID:            id,
		Name:          "Team " + id,
		MaxJobsPerDay: capacity,
		Lead: &domain.CrewLead{
			ID:                    "lead-" + id,
			Name:                  "Lead " + id,
			Active:                true,
			NotificationChannelID: "chan-" + id,
			Home:                  coords(lat, lng),
		},
	}
}

// matrixOf builds a matrix from directed pairs; pairs listed once are
// mirrored unless the reverse is given too.
func matrixOf(ids []string, pairs map[[2]string]int) *domain.DistanceMatrix {
	m := domain.NewDistanceMatrix(ids)
	for k, v := range pairs {
		_ = m.Set(k[0], k[1], v)
		if _, ok := pairs[[2]string{k[1], k[0]}]; !ok {
			_ = m.Set(k[1], k[0], v)
		}
	}
	return m
}

type countingLimiter struct {
	mu    sync.Mutex
	waits int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits++
	return l.err
}

func (l *countingLimiter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waits
}
