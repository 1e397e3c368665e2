package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// GetUsers lists operator accounts
func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.call(ctx, request{method: http.MethodGet, path: "/users/"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account. The returned generated password is only
// ever available in this response.
func (c *Client) CreateUser(ctx context.Context, username string) (*models.CreatedUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &models.ValidationError{Field: "username", Message: "username is required"}
	}

	var created models.CreatedUser
	body := map[string]string{"username": username}
	if err := c.call(ctx, request{method: http.MethodPost, path: "/users/", body: body}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteUser deletes an account
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.call(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/users/%d", id)}, nil)
}
