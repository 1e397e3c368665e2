package api

import (
	"context"
	"net/http"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Login exchanges credentials for an access token. A rejected login is an
// APIError, not an expired session.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var result models.LoginResult
	if err := c.call(ctx, request{method: http.MethodPost, path: "/auth/login", body: body, anonymous: true}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChangePassword changes the password of the current user
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.call(ctx, request{method: http.MethodPost, path: "/auth/change-password", body: body}, nil)
}

// Logout tells the gateway the session ends. The token is discarded locally
// whatever the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

// Me returns the current user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, request{method: http.MethodGet, path: "/auth/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
