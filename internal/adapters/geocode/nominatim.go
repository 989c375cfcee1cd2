package geocode

import (
	"context"
	"crew-route-service/internal/adapters/providerhttp"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const NominatimProviderID = "nominatim"

type nominatimPlace struct {
	Lat         string          `json:"lat"`
	Lon         string          `json:"lon"`
	DisplayName string          `json:"display_name"`
	PlaceID     json.RawMessage `json:"place_id"`
}

// NominatimGeocoder implements ports.Geocoder against OpenStreetMap Nominatim.
// The public instance allows at most one request per second; callers
// pace it with a limiter.
type NominatimGeocoder struct {
	client  *providerhttp.Client
	baseURL string
}

func NewNominatimGeocoder(baseURL string, client *providerhttp.Client) *NominatimGeocoder {
	return &NominatimGeocoder{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (n *NominatimGeocoder) Name() string { return NominatimProviderID }

func (n *NominatimGeocoder) Geocode(ctx context.Context, address string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.nominatim")(&err)

	var places []nominatimPlace
	params := map[string]string{"q": address, "format": "json", "limit": "1"}
	if err := n.client.GetJSON(ctx, n.baseURL+"/search", params, &places); err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("nominatim geocode %q: %w", address, err)
	}

	if len(places) == 0 {
		return domain.GeocodeResult{}, false, nil
	}

	first := places[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("nominatim geocode %q: parse lat %q: %w", address, first.Lat, err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("nominatim geocode %q: parse lon %q: %w", address, first.Lon, err)
	}

	return domain.GeocodeResult{
		Coordinates:      domain.Coordinates{Lat: lat, Lng: lng},
		FormattedAddress: first.DisplayName,
		PlaceID:          strings.Trim(string(first.PlaceID), `"`),
		ProviderID:       NominatimProviderID,
	}, true, nil
}
