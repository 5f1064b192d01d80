package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/domain/menu"
)

// BeginInput carries inputs for initiating an interactive login flow.
type BeginInput struct {
	// ReturnTo is the application path to return the user to after login.
	ReturnTo string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// CredentialProvider wraps the identity SDK. Initialize is idempotent and
// must complete before any other operation; other operations called earlier
// fail with a "not initialized" error.
type CredentialProvider interface {
	// Initialize prepares the provider (discovery, key fetch). Concurrent
	// callers coalesce onto a single in-flight initialization.
	Initialize(ctx context.Context) error

	// IsAuthenticated reports whether at least one cached account exists.
	IsAuthenticated(ctx context.Context) (bool, error)

	// BeginLogin starts the interactive flow. Any stale cached account is
	// cleared first so the user is forced to pick an account. Returns the
	// provider auth URL plus the state and nonce bound to this attempt.
	BeginLogin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// CompleteLogin finishes the interactive flow, verifying state and
	// nonce, and returns the authenticated identity.
	CompleteLogin(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)

	// Logout clears the provider-level account cache, best effort. Failure
	// is surfaced to the caller but must not block a local session clear.
	Logout(ctx context.Context) error

	// AcquireToken attempts silent acquisition first; a recoverable failure
	// is reported as an interaction-required sentinel so the caller can
	// fall back to an interactive flow.
	AcquireToken(ctx context.Context, scopes []string) (domainauth.Token, error)
}

// ProfileGateway wraps the arquitectura API calls for the signed-in user's
// profile, AD-sourced attributes, role assignments, and menu.
type ProfileGateway interface {
	// GetProfile fetches the identity-provider profile for the current
	// access token.
	GetProfile(ctx context.Context, accessToken string) (domainauth.Profile, error)

	// GetDirectoryProfile fetches the AD-sourced record by mail.
	GetDirectoryProfile(ctx context.Context, mail string) (domainauth.DirectoryProfile, error)

	// GetRoles fetches the role assignments for mail scoped to the
	// application code.
	GetRoles(ctx context.Context, mail, appCode string) ([]domainauth.Role, error)

	// GetMenu fetches the navigation elements granted to a role.
	GetMenu(ctx context.Context, role, appCode string) ([]menu.Element, error)
}

// SessionStore persists the session document across restarts.
type SessionStore interface {
	// Load returns the persisted session, or ErrNotFound-like behavior via
	// the adapter's sentinel when none exists.
	Load(ctx context.Context) (domainauth.Session, error)

	// Save replaces the persisted session.
	Save(ctx context.Context, sess domainauth.Session) error

	// Clear removes the persisted session.
	Clear(ctx context.Context) error
}
