package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/matrixlogger/mxl/pkg/types"
)

// CreateAppRequest holds the fields for registering a new log source.
type CreateAppRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	RetentionDays  int                `json:"retentionDays,omitempty"`
	OrganizationID string             `json:"organizationId"`
	Settings       *types.AppSettings `json:"settings,omitempty"`
}

// UpdateAppRequest holds the patchable app fields.
type UpdateAppRequest struct {
	Name          *string            `json:"name,omitempty"`
	Description   *string            `json:"description,omitempty"`
	RetentionDays *int               `json:"retentionDays,omitempty"`
	Settings      *types.AppSettings `json:"settings,omitempty"`
}

// ListApps fetches all apps visible to the current user.
func (c *Client) ListApps(ctx context.Context) ([]types.App, error) {
	var apps []types.App
	err := c.get(ctx, "/apps", &apps)
	return apps, err
}

// OrganizationApps fetches the apps owned by one organization.
func (c *Client) OrganizationApps(ctx context.Context, orgID string) ([]types.App, error) {
	if orgID == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrValidation)
	}
	var apps []types.App
	err := c.get(ctx, "/apps/org/"+orgID, &apps)
	return apps, err
}

// GetApp fetches a single app by ID.
func (c *Client) GetApp(ctx context.Context, id string) (*types.App, error) {
	var app types.App
	if err := c.get(ctx, "/apps/"+id, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateApp registers a new log source. The API key is generated
// server-side and returned on the created app.
func (c *Client) CreateApp(ctx context.Context, req CreateAppRequest) (*types.App, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: app name is required", ErrValidation)
	}
	if req.OrganizationID == "" {
		return nil, fmt.Errorf("%w: organization id is required", ErrValidation)
	}
	var app types.App
	if err := c.do(ctx, http.MethodPost, "/apps", req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateApp patches an app.
func (c *Client) UpdateApp(ctx context.Context, id string, req UpdateAppRequest) (*types.App, error) {
	var app types.App
	if err := c.do(ctx, http.MethodPatch, "/apps/"+id, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// DeleteApp removes an app and its stored logs.
func (c *Client) DeleteApp(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/apps/"+id, nil, nil)
}
