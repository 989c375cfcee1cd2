package distance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crew-route-service/internal/adapters/providerhttp"
	"crew-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKnownDistance(t *testing.T) {
	la := domain.Coordinates{Lat: 34.0522, Lng: -118.2437}
	sd := domain.Coordinates{Lat: 32.7157, Lng: -117.1611}

	km := HaversineKm(la, sd)
	assert.Greater(t, km, 175.0)
	assert.Less(t, km, 185.0)
	assert.Equal(t, 0.0, HaversineKm(la, la))
}

func TestHaversineEstimatorMinutes(t *testing.T) {
	h := NewHaversineEstimator(60, 5)
	a := domain.Coordinates{Lat: 0.5, Lng: 10}
	// one degree of latitude is ~111.2 km -> ~111 minutes at 60 km/h, plus 5
	b := domain.Coordinates{Lat: 1.5, Lng: 10}

	assert.Equal(t, 116, h.Minutes(a, b))
	assert.Equal(t, 0, h.Minutes(a, a))
}

func TestGoogleMatrixPrefersTrafficDuration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "now", r.URL.Query().Get("departure_time"))
		assert.Len(t, strings.Split(r.URL.Query().Get("origins"), "|"), 1)
		assert.Len(t, strings.Split(r.URL.Query().Get("destinations"), "|"), 2)
		_, _ = w.Write([]byte(`{"status":"OK","rows":[{"elements":[
			{"status":"OK","distance":{"value":1000},"duration":{"value":600},"duration_in_traffic":{"value":900}},
			{"status":"ZERO_RESULTS"}
		]}]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleMatrixProvider("k", providerhttp.New(2*time.Second, 1, ""))
	require.NoError(t, err)
	p.WithBaseURL(srv.URL)

	origins := []domain.Coordinates{{Lat: 34, Lng: -118}}
	dests := []domain.Coordinates{{Lat: 34.1, Lng: -118.1}, {Lat: 10, Lng: 10}}
	grid, err := p.Matrix(context.Background(), origins, dests)
	require.NoError(t, err)
	require.Len(t, grid, 1)
	require.Len(t, grid[0], 2)

	assert.True(t, grid[0][0].OK)
	assert.Equal(t, 600, grid[0][0].DurationSeconds)
	assert.Equal(t, 900, grid[0][0].TrafficSeconds)
	assert.False(t, grid[0][1].OK)
}

func TestGoogleMatrixNonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OVER_QUERY_LIMIT","rows":[]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleMatrixProvider("k", providerhttp.New(2*time.Second, 1, ""))
	require.NoError(t, err)
	p.WithBaseURL(srv.URL)

	_, err = p.Matrix(context.Background(), []domain.Coordinates{{Lat: 1, Lng: 1}}, []domain.Coordinates{{Lat: 2, Lng: 2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OVER_QUERY_LIMIT")
}

func TestGoogleMatrixRejectsOversizedBatch(t *testing.T) {
	p, err := NewGoogleMatrixProvider("k", providerhttp.New(time.Second, 1, ""))
	require.NoError(t, err)

	origins := make([]domain.Coordinates, 26)
	_, err = p.Matrix(context.Background(), origins, []domain.Coordinates{{Lat: 1, Lng: 1}})
	require.Error(t, err)
}
