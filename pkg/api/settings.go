package api

import (
	"context"
	"net/http"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetSettings retrieves the system settings
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := c.call(ctx, request{method: http.MethodGet, path: "/settings"}, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the system settings
func (c *Client) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (*models.Settings, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var settings models.Settings
	if err := c.call(ctx, request{method: http.MethodPut, path: "/settings", body: update}, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SetEmission switches transmission on or off and leaves every other
// setting as it currently is
func (c *Client) SetEmission(ctx context.Context, enabled bool) (*models.Settings, error) {
	current, err := c.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	update := current.Update()
	update.MasterEnabled = enabled
	return c.UpdateSettings(ctx, update)
}
