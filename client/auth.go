package client

import (
	"context"
	"net/http"

	"go-storefront/models"
)

// Register creates an account
func (c *Client) Register(ctx context.Context, reg models.Registration) (models.AuthPayload, error) {
	var payload models.AuthPayload
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", reg, &payload)
	return payload, err
}

// Login exchanges credentials for a token and the user profile
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.AuthPayload, error) {
	var payload models.AuthPayload
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", creds, &payload)
	return payload, err
}
