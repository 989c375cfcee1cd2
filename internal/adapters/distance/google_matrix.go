package distance

import (
	"context"
	"crew-route-service/internal/adapters/providerhttp"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

const (
	GoogleProviderID = "google"
	// Google caps a standard request at 25 origins and 25 destinations.
	googleMaxPerSide = 25
)

type matrixValue struct {
	Value int `json:"value"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status            string       `json:"status"`
			Distance          matrixValue  `json:"distance"`
			Duration          matrixValue  `json:"duration"`
			DurationInTraffic *matrixValue `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixProvider implements ports.TravelTimeProvider using the
// Google Distance Matrix API with departure_time=now so traffic-aware
// durations are returned where available.
type GoogleMatrixProvider struct {
	client  *providerhttp.Client
	apiKey  string
	baseURL string
}

func NewGoogleMatrixProvider(apiKey string, client *providerhttp.Client) (*GoogleMatrixProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google matrix: api key is empty")
	}
	return &GoogleMatrixProvider{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
	}, nil
}

func (g *GoogleMatrixProvider) WithBaseURL(u string) *GoogleMatrixProvider {
	g.baseURL = strings.TrimRight(u, "/")
	return g
}

func (g *GoogleMatrixProvider) Name() string { return GoogleProviderID }

func (g *GoogleMatrixProvider) MaxElementsPerSide() int { return googleMaxPerSide }

func (g *GoogleMatrixProvider) Matrix(
	ctx context.Context,
	origins []domain.Coordinates,
	destinations []domain.Coordinates,
) (_ [][]ports.TravelTimeElement, err error) {
	defer obs.Time(ctx, "matrix.google")(&err)

	if len(origins) == 0 || len(destinations) == 0 {
		return [][]ports.TravelTimeElement{}, nil
	}
	if len(origins) > googleMaxPerSide || len(destinations) > googleMaxPerSide {
		return nil, fmt.Errorf(
			"google matrix: batch %dx%d exceeds %d per side",
			len(origins), len(destinations), googleMaxPerSide,
		)
	}

	params := map[string]string{
		"origins":        joinCoords(origins),
		"destinations":   joinCoords(destinations),
		"departure_time": "now",
		"key":            g.apiKey,
	}

	var mr matrixResponse
	if err := g.client.GetJSON(ctx, g.baseURL+"/maps/api/distancematrix/json", params, &mr); err != nil {
		return nil, fmt.Errorf("google matrix request: %w", err)
	}

	if mr.Status != "OK" {
		return nil, fmt.Errorf("google matrix: status %s: %s", mr.Status, mr.ErrorMessage)
	}

	if len(mr.Rows) != len(origins) {
		return nil, fmt.Errorf("google matrix: expected %d rows, got %d", len(origins), len(mr.Rows))
	}

	out := make([][]ports.TravelTimeElement, len(origins))
	for i, row := range mr.Rows {
		if len(row.Elements) != len(destinations) {
			return nil, fmt.Errorf(
				"google matrix: row %d has %d elements, want %d",
				i, len(row.Elements), len(destinations),
			)
		}

		cells := make([]ports.TravelTimeElement, len(destinations))
		for j, el := range row.Elements {
			if el.Status != "OK" {
				continue
			}
			cells[j] = ports.TravelTimeElement{
				OK:              true,
				DistanceMeters:  el.Distance.Value,
				DurationSeconds: el.Duration.Value,
			}
			if el.DurationInTraffic != nil {
				cells[j].TrafficSeconds = el.DurationInTraffic.Value
			}
		}
		out[i] = cells
	}

	return out, nil
}

func joinCoords(cs []domain.Coordinates) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}
