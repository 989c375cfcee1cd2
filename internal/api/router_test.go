package api

import (
	"context"
	"crew-route-service/internal/api/dto"
	"crew-route-service/internal/api/handlers"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOptimizer struct {
	err     error
	gotDate string
	gotOpts services.Options
}

func (f *fakeOptimizer) OptimizeRoutesForDate(ctx context.Context, date, tenantID string, opts services.Options) (*domain.OptimizationResult, error) {
	f.gotDate, f.gotOpts = date, opts
	if f.err != nil {
		return nil, f.err
	}
	return &domain.OptimizationResult{
		RunID:      "run-1",
		TenantID:   tenantID,
		Date:       date,
		Routes:     []domain.OptimizedRoute{{TeamID: "t1"}},
		Unassigned: []domain.UnassignedJob{},
		Warnings:   []string{},
	}, nil
}

type fakeTeams struct {
	teams []domain.Team
	err   error
}

func (f *fakeTeams) LoadTeams(ctx context.Context, tenantID string) ([]domain.Team, error) {
	return f.teams, f.err
}

type fakePublisher struct {
	published []*domain.OptimizationResult
	err       error
}

func (f *fakePublisher) PublishResult(ctx context.Context, r *domain.OptimizationResult) error {
	f.published = append(f.published, r)
	return f.err
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOptimizeEndpoint(t *testing.T) {
	opt := &fakeOptimizer{}
	pub := &fakePublisher{}
	h := NewRouter(Deps{Optimizer: opt, Teams: &fakeTeams{}, Publisher: pub})

	rec := do(t, h, http.MethodPost, "/optimize",
		`{"date":"2026-03-02","tenant_id":"acme","start_time":"07:30","max_drive_minutes":30}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var res domain.OptimizationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, "acme", res.TenantID)
	assert.Equal(t, "07:30", opt.gotOpts.StartTime)
	assert.Equal(t, 30, opt.gotOpts.MaxDriveMinutes)
	require.Len(t, pub.published, 1)
}

func TestOptimizeTargetRevenueZeroIsPassedThrough(t *testing.T) {
	opt := &fakeOptimizer{}
	h := NewRouter(Deps{Optimizer: opt, Teams: &fakeTeams{}})

	rec := do(t, h, http.MethodPost, "/optimize", `{"date":"2026-03-02","tenant_id":"acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, opt.gotOpts.DailyTargetRevenue)

	rec = do(t, h, http.MethodPost, "/optimize", `{"date":"2026-03-02","tenant_id":"acme","daily_target_revenue":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, opt.gotOpts.DailyTargetRevenue)
	assert.Equal(t, 0.0, *opt.gotOpts.DailyTargetRevenue)
}

func TestOptimizePublishFailureStillReturnsResult(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	h := NewRouter(Deps{Optimizer: &fakeOptimizer{}, Teams: &fakeTeams{}, Publisher: pub})

	rec := do(t, h, http.MethodPost, "/optimize", `{"date":"2026-03-02","tenant_id":"acme"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptimizeEndpointErrors(t *testing.T) {
	cases := []struct {
		name   string
		method string
		body   string
		err    error
		want   int
	}{
		{"wrong method", http.MethodGet, "", nil, http.StatusMethodNotAllowed},
		{"bad json", http.MethodPost, `{`, nil, http.StatusBadRequest},
		{"unknown field", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a","hub":"x"}`, nil, http.StatusBadRequest},
		{"two objects", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a"}{}`, nil, http.StatusBadRequest},
		{"bad date", http.MethodPost, `{"date":"03/02/2026","tenant_id":"a"}`, nil, http.StatusBadRequest},
		{"missing tenant", http.MethodPost, `{"date":"2026-03-02"}`, nil, http.StatusBadRequest},
		{"negative target", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a","daily_target_revenue":-1}`, nil, http.StatusBadRequest},
		{"bad start time", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a"}`,
			fmt.Errorf("%w: %q", domain.ErrInvalidStartTime, "x"), http.StatusBadRequest},
		{"provider failure", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a"}`,
			fmt.Errorf("%w: google: boom", services.ErrProviderFailure), http.StatusBadGateway},
		{"repository failure", http.MethodPost, `{"date":"2026-03-02","tenant_id":"a"}`,
			errors.New("load teams: boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRouter(Deps{Optimizer: &fakeOptimizer{err: tc.err}, Teams: &fakeTeams{}})
			rec := do(t, h, tc.method, "/optimize", tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTeamsEndpoint(t *testing.T) {
	home := &domain.Coordinates{Lat: 34.05, Lng: -118.25}
	teams := &fakeTeams{teams: []domain.Team{
		{ID: "t1", Name: "North", Lead: &domain.CrewLead{ID: "l1", Name: "Dana", Active: true, NotificationChannelID: "c", Home: home},
			Members: []domain.Member{{ID: "m1", Name: "Sam"}}},
		{ID: "t2"},
	}}
	h := NewRouter(Deps{Optimizer: &fakeOptimizer{}, Teams: teams})

	rec := do(t, h, http.MethodGet, "/teams", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/teams?tenant_id=acme", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListTeamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Teams, 2)
	assert.True(t, res.Teams[0].Qualified)
	assert.Equal(t, []string{"Sam"}, res.Teams[0].Members)
	assert.Equal(t, domain.DefaultMaxJobsPerDay, res.Teams[0].MaxJobsPerDay)
	assert.False(t, res.Teams[1].Qualified)
	assert.Equal(t, "no active crew lead", res.Teams[1].Reason)

	teams.err = errors.New("db down")
	rec = do(t, h, http.MethodGet, "/teams?tenant_id=acme", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := NewRouter(Deps{
		Optimizer: &fakeOptimizer{},
		Teams:     &fakeTeams{},
		Checks: map[string]handlers.HealthCheck{
			"db": func(ctx context.Context) error { return nil },
		},
	})

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db":"ok"`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")

	failing := NewRouter(Deps{Checks: map[string]handlers.HealthCheck{
		"redis": func(ctx context.Context) error { return errors.New("connection refused") },
	}})
	rec = do(t, failing, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := NewRouter(Deps{Optimizer: &fakeOptimizer{}, Teams: &fakeTeams{}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
