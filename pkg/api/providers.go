package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetProviders lists the weather providers and their credential status
func (c *Client) GetProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := c.call(ctx, request{method: http.MethodGet, path: "/providers/"}, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// SetProviderKey stores the API key of a provider
func (c *Client) SetProviderKey(ctx context.Context, providerID, apiKey string) error {
	if apiKey == "" {
		return &models.ValidationError{Field: "api_key", Message: "API key is required"}
	}
	body := models.CredentialInput{ProviderID: providerID, APIKey: apiKey}
	return c.call(ctx, request{method: http.MethodPost, path: "/providers/credentials", body: body}, nil)
}

// DeleteProviderKey removes the stored credentials of a provider
func (c *Client) DeleteProviderKey(ctx context.Context, providerID string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: "/providers/credentials/" + url.PathEscape(providerID)}, nil)
}

// TestMeasurement fetches a live measurement from a provider
func (c *Client) TestMeasurement(ctx context.Context, providerID string, stationID models.StationID) (*models.Measurement, error) {
	body := models.MeasurementTestRequest{ProviderID: providerID, StationID: stationID}

	var m models.Measurement
	if err := c.call(ctx, request{method: http.MethodPost, path: "/providers/test-measurement", body: body}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
