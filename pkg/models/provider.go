package models

// Provider is a weather data source and its credential status. The secret
// itself is never read back.
type Provider struct {
	ID           string `json:"provider_id"`
	Name         string `json:"name"`
	RequiresAuth bool   `json:"requires_auth"`
	Description  string `json:"description"`
	Configured   bool   `json:"is_configured"`
}

// ProviderIndex maps providers by ID
func ProviderIndex(providers []Provider) map[string]Provider {
	index := make(map[string]Provider, len(providers))
	for _, p := range providers {
		index[p.ID] = p
	}
	return index
}

// CredentialInput is the body of a credential update
type CredentialInput struct {
	ProviderID string `json:"provider_id"`
	APIKey     string `json:"api_key"`
}

// MeasurementTestRequest asks the gateway to fetch a live measurement
type MeasurementTestRequest struct {
	ProviderID string    `json:"provider_id"`
	StationID  StationID `json:"station_id"`
}
