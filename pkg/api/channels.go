package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetChannels retrieves all configured channels
func (c *Client) GetChannels(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := c.call(ctx, request{method: http.MethodGet, path: "/channels/"}, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// GetChannel retrieves a specific channel by ID
func (c *Client) GetChannel(ctx context.Context, id int) (*models.Channel, error) {
	var channel models.Channel
	if err := c.call(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/channels/%d", id)}, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// CreateChannel creates a channel
func (c *Client) CreateChannel(ctx context.Context, in models.ChannelInput) (*models.Channel, error) {
	var channel models.Channel
	if err := c.call(ctx, request{method: http.MethodPost, path: "/channels/", body: in}, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// UpdateChannel updates an existing channel
func (c *Client) UpdateChannel(ctx context.Context, id int, in models.ChannelInput) (*models.Channel, error) {
	// the station cannot be changed after creation
	in.StationVisualURL = ""

	var channel models.Channel
	if err := c.call(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/channels/%d", id), body: in}, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// SaveChannel creates the channel when id is zero and updates it otherwise
func (c *Client) SaveChannel(ctx context.Context, id int, in models.ChannelInput) (*models.Channel, error) {
	if err := in.Validate(id == 0); err != nil {
		return nil, err
	}
	if id == 0 {
		return c.CreateChannel(ctx, in)
	}
	return c.UpdateChannel(ctx, id, in)
}

// DeleteChannel deletes a channel
func (c *Client) DeleteChannel(ctx context.Context, id int) error {
	return c.call(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/channels/%d", id)}, nil)
}

// ToggleChannel flips the enabled flag of a channel
func (c *Client) ToggleChannel(ctx context.Context, id int) (*models.ToggleResult, error) {
	var result models.ToggleResult
	if err := c.call(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/channels/%d/toggle", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PreviewChannel renders the channel template against live data and
// synthesises it
func (c *Client) PreviewChannel(ctx context.Context, id int) (*models.PreviewResult, error) {
	var result models.PreviewResult
	if err := c.call(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/channels/%d/preview", id)}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
