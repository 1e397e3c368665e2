package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Forecast horizon bounds accepted by the gateway, in hours
const (
	MinForecastHours     = 1
	MaxForecastHours     = 168
	DefaultForecastHours = 24
)

// ClampForecastHours brings a requested horizon into the accepted range
func ClampForecastHours(hours int) int {
	switch {
	case hours < MinForecastHours:
		return MinForecastHours
	case hours > MaxForecastHours:
		return MaxForecastHours
	default:
		return hours
	}
}

// GetForecast retrieves the announcements planned over the next hours
func (c *Client) GetForecast(ctx context.Context, hours int) (*models.Forecast, error) {
	params := url.Values{}
	params.Set("hours", strconv.Itoa(ClampForecastHours(hours)))

	var forecast models.Forecast
	if err := c.call(ctx, request{method: http.MethodGet, path: "/timeline/forecast", query: params}, &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// GetNextTransmissions retrieves the next planned transmissions, all
// channels combined
func (c *Client) GetNextTransmissions(ctx context.Context, limit int) (*models.NextTransmissions, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var next models.NextTransmissions
	if err := c.call(ctx, request{method: http.MethodGet, path: "/timeline/next", query: params}, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
