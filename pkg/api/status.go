package api

import (
	"context"
	"net/http"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetStatus retrieves the global system status
func (c *Client) GetStatus(ctx context.Context) (*models.SystemStatus, error) {
	var status models.SystemStatus
	if err := c.call(ctx, request{method: http.MethodGet, path: "/status"}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StartRunner enables reception
func (c *Client) StartRunner(ctx context.Context) (*models.Message, error) {
	return c.runner(ctx, "start")
}

// StopRunner disables reception
func (c *Client) StopRunner(ctx context.Context) (*models.Message, error) {
	return c.runner(ctx, "stop")
}

func (c *Client) runner(ctx context.Context, action string) (*models.Message, error) {
	var msg models.Message
	if err := c.call(ctx, request{method: http.MethodPost, path: "/status/runner/" + action}, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
