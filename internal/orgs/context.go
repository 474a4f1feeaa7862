// Package orgs caches the user's organization list and tracks the
// currently selected organization.
package orgs

import (
	"context"
	"errors"

	"github.com/matrixlogger/mxl/internal/api"
	"github.com/matrixlogger/mxl/pkg/types"
)

// ErrNoOrganizations is returned by operations that need an
// organization when the user belongs to none.
var ErrNoOrganizations = errors.New("you don't belong to any organization yet; create one with: mxl orgs create <name>")

// ErrUnknownOrganization is returned when a requested slug or ID does
// not match any organization in the refreshed list.
var ErrUnknownOrganization = errors.New("organization not found")

// Context holds the cached organization list and the current selection.
// Mutation is funneled through Refresh and SetCurrent; execution is
// single-threaded per command invocation, so there is no locking.
type Context struct {
	client *api.Client

	organizations []types.Organization
	current       *types.Organization
	loaded        bool
	redirected    bool

	// Preferred is the slug seeded from config; Refresh selects it when
	// nothing is current yet and it is present in the list.
	Preferred string
}

// NewContext creates an organization context over an authenticated client.
func NewContext(client *api.Client) *Context {
	return &Context{client: client}
}

// Organizations returns the cached list from the last refresh.
func (c *Context) Organizations() []types.Organization {
	return c.organizations
}

// Current returns the selected organization, or nil.
func (c *Context) Current() *types.Organization {
	return c.current
}

// Loaded reports whether a refresh has completed.
func (c *Context) Loaded() bool {
	return c.loaded
}

// SetCurrent selects an organization. Plain setter, nil deselects.
func (c *Context) SetCurrent(org *types.Organization) {
	c.current = org
}

// Refresh refetches the organization list. When nothing is selected it
// picks the preferred slug if present, otherwise the first entry. A
// failed refresh keeps the previous cache.
func (c *Context) Refresh(ctx context.Context) error {
	list, err := c.client.ListOrganizations(ctx)
	if err != nil {
		return err
	}
	c.organizations = list
	c.loaded = true

	// Drop a selection that no longer exists in the list.
	if c.current != nil && c.find(c.current.Slug) == nil {
		c.current = nil
	}
	if c.current == nil && len(list) > 0 {
		if preferred := c.find(c.Preferred); preferred != nil {
			c.current = preferred
		} else {
			c.current = &c.organizations[0]
		}
	}
	return nil
}

// Select makes the organization with the given slug (or ID) current.
func (c *Context) Select(slugOrID string) (*types.Organization, error) {
	org := c.find(slugOrID)
	if org == nil {
		return nil, ErrUnknownOrganization
	}
	c.current = org
	return org, nil
}

// ShouldRedirect reports whether the user must be sent to the
// organization-creation flow: the list is loaded and empty, we are not
// already on that flow, and no redirect happened yet. The
// exactly-once guard prevents loops.
func (c *Context) ShouldRedirect(onCreateFlow bool) bool {
	if !c.loaded || onCreateFlow || c.redirected {
		return false
	}
	if len(c.organizations) > 0 {
		return false
	}
	c.redirected = true
	return true
}

// Require returns the current organization or ErrNoOrganizations.
func (c *Context) Require() (*types.Organization, error) {
	if c.current == nil {
		return nil, ErrNoOrganizations
	}
	return c.current, nil
}

func (c *Context) find(slugOrID string) *types.Organization {
	if slugOrID == "" {
		return nil
	}
	for i := range c.organizations {
		if c.organizations[i].Slug == slugOrID || c.organizations[i].ID == slugOrID {
			return &c.organizations[i]
		}
	}
	return nil
}
