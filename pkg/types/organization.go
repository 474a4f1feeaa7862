package types

import (
	"fmt"
	"time"
)

// Role is a member's role within an organization
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ParseRole validates a role string against the closed set of roles
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (expected owner, admin, member or viewer)", s)
}

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// OrganizationSettings holds per-organization limits and defaults
type OrganizationSettings struct {
	DefaultRetentionDays int `json:"defaultRetentionDays"`
	MaxApps              int `json:"maxApps,omitempty"`
	MaxUsersPerApp       int `json:"maxUsersPerApp,omitempty"`
}

// OrganizationStats holds server-computed counts
type OrganizationStats struct {
	Members int `json:"members"`
	Apps    int `json:"apps"`
}

// Organization represents a tenant grouping apps and members
type Organization struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Slug        string                `json:"slug"`
	Description string                `json:"description,omitempty"`
	Role        Role                  `json:"role"`
	Settings    *OrganizationSettings `json:"settings,omitempty"`
	Stats       *OrganizationStats    `json:"stats,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// MemberStatus is the lifecycle state of an organization membership
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInvited  MemberStatus = "invited"
	MemberInactive MemberStatus = "inactive"
)

// Member represents a user's membership in an organization
type Member struct {
	ID        string       `json:"id"`
	User      User         `json:"user"`
	Role      Role         `json:"role"`
	Status    MemberStatus `json:"status"`
	JoinedAt  time.Time    `json:"joinedAt"`
	InvitedBy *User        `json:"invitedBy,omitempty"`
}
