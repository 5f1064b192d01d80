package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// RoleStatus is the registry status of a role assignment.
type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "A"
	RoleStatusInactive RoleStatus = "I"
)

// Role is a named permission grant scoped to a user and an application code,
// with a validity window. Roles are immutable snapshots fetched per session;
// duplicates by name are possible and must be tolerated.
type Role struct {
	UserID     int        `json:"user_id"`
	AppCode    string     `json:"app_code"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	ValidFrom  time.Time  `json:"valid_from"`
	ValidTo    *time.Time `json:"valid_to,omitempty"`
	Status     RoleStatus `json:"status"`
	StatusAt   time.Time  `json:"status_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedFn  string     `json:"created_fn"`
	ModifiedBy string     `json:"modified_by"`
	ModifiedAt time.Time  `json:"modified_at"`
	ModifiedFn string     `json:"modified_fn"`
}

// Profile is the identity-provider view of the signed-in user. It is
// read-only and replaced wholesale on each fetch.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Mail        string `json:"mail"`
	JobTitle    string `json:"job_title"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// DirectoryProfile is the AD-sourced record for the user.
type DirectoryProfile struct {
	AccountName string `json:"account_name"`
	Mail        string `json:"mail"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Office      string `json:"office"`
	Active      bool   `json:"active"`
}

// Session is the durable record of current authentication/authorization
// state. It survives process restarts; subsequent logins overwrite it and
// logout clears it field by field (roles, then profile, then directory
// profile, then the signed-in flag).
type Session struct {
	SignedIn         bool              `json:"signed_in"`
	Profile          *Profile          `json:"profile,omitempty"`
	DirectoryProfile *DirectoryProfile `json:"directory_profile,omitempty"`
	Roles            []Role            `json:"roles"`
}

// RoleNames returns the de-duplicated, lower-cased set of role names held by
// the session. Duplicate role rows collapse to one entry.
func (s Session) RoleNames() []string {
	seen := make(map[string]struct{}, len(s.Roles))
	names := make([]string, 0, len(s.Roles))
	for _, r := range s.Roles {
		name := strings.ToLower(r.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// HasRole reports whether the session holds a role with the given name.
// Comparison is case-insensitive.
func (s Session) HasRole(name string) bool {
	for _, r := range s.Roles {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the session holds at least one of the given
// role names. An empty requirement means "no restriction" and returns true.
func (s Session) HasAnyRole(names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if s.HasRole(n) {
			return true
		}
	}
	return false
}

// Identity represents the authenticated principal returned by the IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string
	Mail      string
	FirstName string
	LastName  string
	ExpiresAt time.Time
}

// Token is an access token acquired from the credential provider.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
