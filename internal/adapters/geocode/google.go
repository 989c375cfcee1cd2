package geocode

import (
	"context"
	"crew-route-service/internal/adapters/providerhttp"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

const GoogleProviderID = "google"

type googleResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GoogleGeocoder implements ports.Geocoder against the Google Geocoding API.
type GoogleGeocoder struct {
	client  *providerhttp.Client
	apiKey  string
	baseURL string
}

func NewGoogleGeocoder(apiKey string, client *providerhttp.Client) (*GoogleGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google geocoder: api key is empty")
	}
	return &GoogleGeocoder{
		client:  client,
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com",
	}, nil
}

// WithBaseURL points the geocoder at another host (tests, proxies).
func (g *GoogleGeocoder) WithBaseURL(u string) *GoogleGeocoder {
	g.baseURL = strings.TrimRight(u, "/")
	return g
}

func (g *GoogleGeocoder) Name() string { return GoogleProviderID }

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.google")(&err)

	var decoded googleResponse
	params := map[string]string{"address": address, "key": g.apiKey}
	if err := g.client.GetJSON(ctx, g.baseURL+"/maps/api/geocode/json", params, &decoded); err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("google geocode %q: %w", address, err)
	}

	switch decoded.Status {
	case "OK":
	case "ZERO_RESULTS":
		return domain.GeocodeResult{}, false, nil
	default:
		return domain.GeocodeResult{}, false, fmt.Errorf("google geocode %q: status %s: %s", address, decoded.Status, decoded.ErrorMessage)
	}

	if len(decoded.Results) == 0 {
		return domain.GeocodeResult{}, false, nil
	}

	first := decoded.Results[0]
	return domain.GeocodeResult{
		Coordinates: domain.Coordinates{
			Lat: first.Geometry.Location.Lat,
			Lng: first.Geometry.Location.Lng,
		},
		FormattedAddress: first.FormattedAddress,
		PlaceID:          first.PlaceID,
		ProviderID:       GoogleProviderID,
	}, true, nil
}
