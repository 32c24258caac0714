package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of roles a dashboard user can hold.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RolePI     Role = "PI"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// AllRoles lists every role in descending privilege order.
var AllRoles = []Role{RoleAdmin, RolePI, RoleMember, RoleViewer}

// ParseRole converts external text into a Role. The Spring "ROLE_" authority
// prefix and surrounding whitespace are tolerated; anything else outside the
// enum is rejected with ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "ROLE_")
	switch Role(v) {
	case RoleAdmin, RolePI, RoleMember, RoleViewer:
		return Role(v), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Valid reports whether r is a member of the enum.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePI, RoleMember, RoleViewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Label returns the human-readable role name shown in the sidebar.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RolePI:
		return "Principal Investigator"
	case RoleMember:
		return "Member"
	case RoleViewer:
		return "Viewer"
	default:
		return "Unknown"
	}
}

// UnmarshalText makes every JSON/text decode of a Role pass through ParseRole.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// RoleSet is a role requirement attached to a route or action.
type RoleSet []Role

// Contains reports whether role is a member of the set.
func (s RoleSet) Contains(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// User is the profile of an authenticated principal. Profiles of other users
// (project PIs, milestone authors, document uploaders) reuse this type as
// read-only references.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	// CreatedAt is the API's zone-less LocalDateTime, kept as sent.
	CreatedAt string `json:"createdAt,omitempty"`
}

// Validate checks the fields the session relies on.
func (u User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: missing username", ErrInvalidProfile)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidProfile, u.Role)
	}
	return nil
}

// EncodeUser serialises a profile for the session-user storage key.
func EncodeUser(u User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(b), nil
}

// DecodeUser parses and validates a persisted profile.
func DecodeUser(raw string) (User, error) {
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	return u, nil
}
