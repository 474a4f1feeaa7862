package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/matrixlogger/mxl/pkg/types"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Login exchanges credentials for a session token. Never retried.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	var out AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the client's token belongs to. The server wraps
// the user in an envelope object.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var out struct {
		User *types.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ProfileUpdate holds the fields changeable on /auth/profile.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateProfile patches the authenticated user's profile.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*types.User, error) {
	var out struct {
		User *types.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/auth/profile", update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// ChangePassword replaces the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, updated string) error {
	if updated == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	body := map[string]string{"currentPassword": current, "newPassword": updated}
	return c.do(ctx, http.MethodPatch, "/auth/password", body, nil)
}

// ForgotPassword asks the server to mail a reset token.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return fmt.Errorf("%w: reset token is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	body := map[string]string{"token": token, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}
