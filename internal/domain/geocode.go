package domain

// GeocodeResult is one successful address resolution.
type GeocodeResult struct {
	Coordinates      Coordinates `json:"coordinates"`
	FormattedAddress string      `json:"formatted_address"`
	PlaceID          string      `json:"place_id"`
	ProviderID       string      `json:"provider_id"`
}
