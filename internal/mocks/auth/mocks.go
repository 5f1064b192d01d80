package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialProvider = (*MockCredentialProvider)(nil)
	_ ports.SessionStore       = (*MemorySessionStore)(nil)
	_ ports.SessionStore       = (*RecordingSessionStore)(nil)
)

// MockCredentialProvider simulates an IdP with deterministic state/nonce
// handling. Individual methods can be overridden via the Func fields.
type MockCredentialProvider struct {
	InitializeFunc      func(ctx context.Context) error
	IsAuthenticatedFunc func(ctx context.Context) (bool, error)
	BeginLoginFunc      func(ctx context.Context, in ports.BeginInput) (string, string, string, error)
	CompleteLoginFunc   func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)
	LogoutFunc          func(ctx context.Context) error
	AcquireTokenFunc    func(ctx context.Context, scopes []string) (domainauth.Token, error)

	DefaultIdentity domainauth.Identity

	mu          sync.Mutex
	initialized bool
	signedIn    bool
	callCount   int

	InitializeCalls int
	LogoutCalls     int
}

// NewMockCredentialProvider creates a provider double with a sensible
// default identity, already initialized.
func NewMockCredentialProvider() *MockCredentialProvider {
	return &MockCredentialProvider{
		initialized: true,
		DefaultIdentity: domainauth.Identity{
			UserID:    "mock-user-1",
			Mail:      "mock.user@example.com",
			FirstName: "Mock",
			LastName:  "User",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// SetSignedIn seeds the provider's cached-account state.
func (m *MockCredentialProvider) SetSignedIn(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedIn = v
}

func (m *MockCredentialProvider) Initialize(ctx context.Context) error {
	m.mu.Lock()
	m.InitializeCalls++
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

func (m *MockCredentialProvider) IsAuthenticated(ctx context.Context) (bool, error) {
	if m.IsAuthenticatedFunc != nil {
		return m.IsAuthenticatedFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signedIn, nil
}

func (m *MockCredentialProvider) BeginLogin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginLoginFunc != nil {
		return m.BeginLoginFunc(ctx, in)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signedIn = false
	m.callCount++
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)
	return "https://mock-idp/auth", state, nonce, nil
}

func (m *MockCredentialProvider) CompleteLogin(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.CompleteLoginFunc != nil {
		return m.CompleteLoginFunc(ctx, in)
	}
	m.mu.Lock()
	m.signedIn = true
	m.mu.Unlock()
	user := m.DefaultIdentity
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

func (m *MockCredentialProvider) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.LogoutCalls++
	m.signedIn = false
	m.mu.Unlock()
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockCredentialProvider) AcquireToken(ctx context.Context, scopes []string) (domainauth.Token, error) {
	if m.AcquireTokenFunc != nil {
		return m.AcquireTokenFunc(ctx, scopes)
	}
	return domainauth.Token{AccessToken: "mock-token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu   sync.Mutex
	sess *domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// ErrNoSession mirrors the redis adapter's not-found sentinel.
type noSessionError struct{}

func (noSessionError) Error() string { return "session not found" }

var ErrNoSession error = noSessionError{}

func (m *MemorySessionStore) Load(_ context.Context) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return domainauth.Session{}, ErrNoSession
	}
	return *m.sess, nil
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := sess
	m.sess = &copied
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	return nil
}

// RecordingSessionStore wraps MemorySessionStore and records every saved
// snapshot, so tests can assert on the observable ordering of session
// updates (roles cleared before profile before the signed-in flag).
type RecordingSessionStore struct {
	MemorySessionStore

	mu    sync.Mutex
	Saves []domainauth.Session
}

// NewRecordingSessionStore creates a recording store.
func NewRecordingSessionStore() *RecordingSessionStore {
	return &RecordingSessionStore{}
}

func (r *RecordingSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	r.mu.Lock()
	r.Saves = append(r.Saves, sess)
	r.mu.Unlock()
	return r.MemorySessionStore.Save(ctx, sess)
}

// Snapshots returns a copy of the recorded save history.
func (r *RecordingSessionStore) Snapshots() []domainauth.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domainauth.Session, len(r.Saves))
	copy(out, r.Saves)
	return out
}
