package sheets

import (
	"context"
	"fmt"
	"net/url"
)

// Register creates a new account on the remote store
func (c *Client) Register(ctx context.Context, userID, password string) error {
	form := url.Values{}
	form.Set("action", "register")
	form.Set("userId", userID)
	form.Set("password", password)

	resp, err := c.post(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	return remoteError("register", resp)
}

// Login checks credentials against the remote store
func (c *Client) Login(ctx context.Context, userID, password string) error {
	form := url.Values{}
	form.Set("action", "login")
	form.Set("userId", userID)
	form.Set("password", password)

	resp, err := c.post(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	return remoteError("login", resp)
}

// ChangePassword swaps the password of userID
func (c *Client) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	form := url.Values{}
	form.Set("action", "changePassword")
	form.Set("userId", userID)
	form.Set("currentPassword", currentPassword)
	form.Set("newPassword", newPassword)

	resp, err := c.post(ctx, form)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return remoteError("changePassword", resp)
}

// Ping asks the remote store for its record list without a user. The store
// is considered reachable only when it answers with success.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("action", "getAll")

	resp, err := c.get(ctx, params)
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}
	return remoteError("getAll", resp)
}
