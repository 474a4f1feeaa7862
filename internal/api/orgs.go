package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/matrixlogger/mxl/pkg/types"
)

// CreateOrganizationRequest holds the fields for creating an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateOrganizationRequest holds the patchable organization fields.
type UpdateOrganizationRequest struct {
	Name        *string                     `json:"name,omitempty"`
	Description *string                     `json:"description,omitempty"`
	Settings    *types.OrganizationSettings `json:"settings,omitempty"`
}

// ListOrganizations fetches the organizations the user belongs to.
func (c *Client) ListOrganizations(ctx context.Context) ([]types.Organization, error) {
	var orgs []types.Organization
	err := c.get(ctx, "/organizations", &orgs)
	return orgs, err
}

// GetOrganization fetches a single organization by ID.
func (c *Client) GetOrganization(ctx context.Context, id string) (*types.Organization, error) {
	var org types.Organization
	if err := c.get(ctx, "/organizations/"+id, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// CreateOrganization creates an organization owned by the current user.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*types.Organization, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrValidation)
	}
	var org types.Organization
	if err := c.do(ctx, http.MethodPost, "/organizations", req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// UpdateOrganization patches an organization.
func (c *Client) UpdateOrganization(ctx context.Context, id string, req UpdateOrganizationRequest) (*types.Organization, error) {
	var org types.Organization
	if err := c.do(ctx, http.MethodPatch, "/organizations/"+id, req, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ListMembers fetches the members and pending invitations of an organization.
func (c *Client) ListMembers(ctx context.Context, orgID string) ([]types.Member, error) {
	var members []types.Member
	err := c.get(ctx, "/organizations/"+orgID+"/members", &members)
	return members, err
}

// InviteMember invites a user by email with the given role.
func (c *Client) InviteMember(ctx context.Context, orgID, email string, role types.Role) (*types.Member, error) {
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	body := map[string]string{"email": email, "role": string(role)}
	var member types.Member
	if err := c.do(ctx, http.MethodPost, "/organizations/"+orgID+"/members", body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMemberRole changes an existing member's role.
func (c *Client) UpdateMemberRole(ctx context.Context, orgID, memberID string, role types.Role) (*types.Member, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	body := map[string]string{"role": string(role)}
	var member types.Member
	if err := c.do(ctx, http.MethodPatch, "/organizations/"+orgID+"/members/"+memberID, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember removes a member or revokes a pending invitation.
func (c *Client) RemoveMember(ctx context.Context, orgID, memberID string) error {
	return c.do(ctx, http.MethodDelete, "/organizations/"+orgID+"/members/"+memberID, nil, nil)
}
