package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/consalud/herederos-bff/internal/errors"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/ports"
)

// AuthControllerOptions groups dependencies and tuning for AuthController.
type AuthControllerOptions struct {
	Provider    ports.CredentialProvider
	Gateway     ports.ProfileGateway
	Sessions    ports.SessionStore
	Coordinator *LogoutCoordinator
	Logger      *slog.Logger

	// AppCode scopes role and menu fetches (e.g. "CONSALUD").
	AppCode string
	// Scopes requested when acquiring an access token for the gateway.
	Scopes []string

	// MaxAuthAttempts bounds the signed-out re-check loop; default 3.
	MaxAuthAttempts int
	// RetryBaseDelay is the base of the linear backoff between re-checks;
	// default 500ms.
	RetryBaseDelay time.Duration

	// DevFallbackRole, when non-empty, is injected as the single role for a
	// signed-in user whose role fetch came back empty or failed. Development
	// only; production leaves the role set empty.
	DevFallbackRole string
}

const (
	defaultMaxAuthAttempts = 3
	defaultRetryBaseDelay  = 500 * time.Millisecond
)

// AuthController is the auth state machine: it orchestrates initialization,
// login, logout, re-checks, and user-data loading, and answers the derived
// queries route guards rely on. State mutation is serialized behind a mutex;
// background fetches re-acquire it to apply results and check liveness
// before touching state.
type AuthController struct {
	provider    ports.CredentialProvider
	gateway     ports.ProfileGateway
	sessions    ports.SessionStore
	coordinator *LogoutCoordinator
	logger      *slog.Logger

	appCode         string
	scopes          []string
	maxAttempts     int
	retryBase       time.Duration
	devFallbackRole string

	// liveness for background work; nothing applies state after Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	sess         domainauth.Session
	initialized  bool
	initializing bool
	loading      bool
	errMsg       string
	errAD        string
	errRoles     string
	attempts     int
}

// Snapshot is the immutable view of the controller's state that guards and
// handlers consume. It must be re-read after every state-changing call.
type Snapshot struct {
	Phase            domainauth.Phase
	SignedIn         bool
	Initializing     bool
	Loading          bool
	LoggingOut       bool
	Profile          *domainauth.Profile
	DirectoryProfile *domainauth.DirectoryProfile
	Roles            []domainauth.Role
	RoleNames        []string
	Error            string
	ErrorAD          string
	ErrorRoles       string
	Attempts         int
	MaxAttempts      int
}

// NewAuthController constructs the controller. The provider, gateway,
// session store, and coordinator are injected; there are no package-level
// singletons.
func NewAuthController(opts AuthControllerOptions) *AuthController {
	if opts.Coordinator == nil {
		opts.Coordinator = NewLogoutCoordinator(DefaultSettleWindow)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxAuthAttempts <= 0 {
		opts.MaxAuthAttempts = defaultMaxAuthAttempts
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = defaultRetryBaseDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AuthController{
		provider:        opts.Provider,
		gateway:         opts.Gateway,
		sessions:        opts.Sessions,
		coordinator:     opts.Coordinator,
		logger:          opts.Logger,
		appCode:         opts.AppCode,
		scopes:          opts.Scopes,
		maxAttempts:     opts.MaxAuthAttempts,
		retryBase:       opts.RetryBaseDelay,
		devFallbackRole: opts.DevFallbackRole,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Close cancels background work and waits for it to drain. No state is
// applied after Close returns.
func (c *AuthController) Close() {
	c.cancel()
	c.wg.Wait()
}

// Coordinator exposes the logout transition flag for subscribers (the HTTP
// shell, guards).
func (c *AuthController) Coordinator() *LogoutCoordinator {
	return c.coordinator
}

// Snapshot returns the current state view.
func (c *AuthController) Snapshot() Snapshot {
	loggingOut := c.coordinator.IsLoggingOut()

	c.mu.Lock()
	defer c.mu.Unlock()

	roles := make([]domainauth.Role, len(c.sess.Roles))
	copy(roles, c.sess.Roles)

	return Snapshot{
		Phase: domainauth.DerivePhase(domainauth.PhaseInput{
			Initialized:  c.initialized,
			Initializing: c.initializing,
			Loading:      c.loading,
			SignedIn:     c.sess.SignedIn,
			LoggingOut:   loggingOut,
		}),
		SignedIn:         c.sess.SignedIn,
		Initializing:     c.initializing,
		Loading:          c.loading,
		LoggingOut:       loggingOut,
		Profile:          c.sess.Profile,
		DirectoryProfile: c.sess.DirectoryProfile,
		Roles:            roles,
		RoleNames:        c.sess.RoleNames(),
		Error:            c.errMsg,
		ErrorAD:          c.errAD,
		ErrorRoles:       c.errRoles,
		Attempts:         c.attempts,
		MaxAttempts:      c.maxAttempts,
	}
}

// Initialize brings the state machine up: provider initialization, session
// hydration from the store, and reconciliation against the provider's
// cached-account fact. Provider or store failures are non-fatal; the phase
// degrades to signed-out with the error recorded.
func (c *AuthController) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.initializing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.initializing = false
		c.initialized = true
		c.mu.Unlock()
	}()

	if err := c.provider.Initialize(ctx); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.mu.Unlock()
		return fmt.Errorf("initialize provider: %w", err)
	}

	// Hydrate from the persisted store; absence means a fresh signed-out
	// session.
	if stored, err := c.sessions.Load(ctx); err == nil {
		c.mu.Lock()
		c.sess = stored
		c.mu.Unlock()
	}

	authed, err := c.provider.IsAuthenticated(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "authentication check failed during init", "error", err)
		authed = false
	}

	c.mu.Lock()
	if authed != c.sess.SignedIn {
		c.sess.SignedIn = authed
		if !authed {
			c.clearUserDataLocked()
		}
		c.attempts = 0
		c.persistLocked(ctx)
	}
	signedIn := c.sess.SignedIn
	c.mu.Unlock()

	if signedIn {
		c.spawnLoadUserData()
	}
	return nil
}

// CheckAuthentication re-polls the provider. It never fails: provider
// errors degrade to "not authenticated". A changed result updates the
// session and resets the attempt counter; every "not authenticated" result
// increments it (bounded-retry input for the route guard).
func (c *AuthController) CheckAuthentication(ctx context.Context) bool {
	authed, err := c.provider.IsAuthenticated(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "authentication check failed", "error", err)
		authed = false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if authed != c.sess.SignedIn {
		c.sess.SignedIn = authed
		if !authed {
			c.clearUserDataLocked()
		}
		c.attempts = 0
		c.persistLocked(ctx)
	}
	if !authed {
		c.attempts++
	}
	return authed
}

// BeginLogin starts the interactive flow; the HTTP layer redirects the user
// to the returned URL and holds state/nonce for the callback.
func (c *AuthController) BeginLogin(ctx context.Context, returnTo string) (authURL, state, nonce string, err error) {
	return c.provider.BeginLogin(ctx, ports.BeginInput{ReturnTo: returnTo})
}

// Login completes the interactive flow. On success the session flips to
// signed-in and user data loads in the background; on failure only the
// error slot changes and the session is left untouched. The loading flag is
// always cleared, whatever the outcome.
func (c *AuthController) Login(ctx context.Context, in ports.ExchangeInput) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	identity, err := c.provider.CompleteLogin(ctx, in)
	if err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.mu.Unlock()
		return fmt.Errorf("complete login: %w", err)
	}

	c.mu.Lock()
	c.sess.SignedIn = true
	c.attempts = 0
	c.errMsg = ""
	c.persistLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "login completed", "user", identity.UserID)
	c.spawnLoadUserData()
	return nil
}

// Logout runs the full sign-out sequence. The logout flag goes up before
// anything else so every concurrent guard sees it prior to the signed-in
// flip; the provider call is best effort; session fields are cleared and
// persisted in the fixed order roles, profile, directory profile,
// signed-in. The returned error, if any, is the provider failure — local
// state is already cleared and is not rolled back.
func (c *AuthController) Logout(ctx context.Context) error {
	c.coordinator.Begin()

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	providerErr := c.provider.Logout(ctx)
	if providerErr != nil {
		c.logger.WarnContext(ctx, "provider logout failed, clearing local session anyway", "error", providerErr)
		c.mu.Lock()
		c.errMsg = providerErr.Error()
		c.mu.Unlock()
	}

	// Ordered clears, persisted stepwise: a reader must never observe
	// signed_in=false while roles are still present.
	c.mu.Lock()
	c.sess.Roles = nil
	c.persistLocked(ctx)
	c.sess.Profile = nil
	c.persistLocked(ctx)
	c.sess.DirectoryProfile = nil
	c.persistLocked(ctx)
	c.sess.SignedIn = false
	c.attempts = 0
	c.errAD = ""
	c.errRoles = ""
	c.persistLocked(ctx)
	c.loading = false
	c.mu.Unlock()

	c.coordinator.Settle()

	if providerErr != nil {
		return fmt.Errorf("provider logout: %w", providerErr)
	}
	return nil
}

// LoadUserData fetches profile, directory profile, and roles. It is a
// no-op for signed-out sessions (clearing any stale data) and for cache
// hits by user ID. The directory and role fetches run concurrently and
// settle independently: each failure lands in its own error slot and never
// aborts the sibling.
func (c *AuthController) LoadUserData(ctx context.Context) {
	c.mu.Lock()
	if !c.sess.SignedIn {
		c.clearUserDataLocked()
		c.errMsg = ""
		c.persistLocked(ctx)
		c.mu.Unlock()
		return
	}
	if c.sess.Profile != nil && c.sess.Profile.ID != "" {
		// Cache hit by user ID: no TTL, only logout invalidates.
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	token, err := c.provider.AcquireToken(ctx, c.scopes)
	if err != nil {
		c.applyError(err)
		return
	}

	profile, err := c.gateway.GetProfile(ctx, token.AccessToken)
	if err != nil {
		c.applyError(err)
		return
	}

	if !c.alive() {
		return
	}
	c.mu.Lock()
	c.sess.Profile = &profile
	c.errMsg = ""
	c.persistLocked(ctx)
	haveDirectory := c.sess.DirectoryProfile != nil
	haveRoles := len(c.sess.Roles) > 0
	c.mu.Unlock()

	if profile.Mail == "" {
		c.applyRoles(ctx, nil, apperrors.Gatewayf("profile has no mail; roles cannot be resolved"))
		return
	}

	// Fire both sub-fetches; each settles into its own slot and a failure
	// in one never aborts the other.
	var inner sync.WaitGroup
	if !haveDirectory {
		inner.Add(1)
		go func() {
			defer inner.Done()
			dir, dirErr := c.gateway.GetDirectoryProfile(ctx, profile.Mail)
			c.applyDirectoryProfile(ctx, dir, dirErr)
		}()
	}
	if !haveRoles {
		inner.Add(1)
		go func() {
			defer inner.Done()
			roles, rolesErr := c.gateway.GetRoles(ctx, profile.Mail, c.appCode)
			c.applyRoles(ctx, roles, rolesErr)
		}()
	}
	inner.Wait()
}

// HasRole reports whether the current session holds the role, ignoring
// case.
func (c *AuthController) HasRole(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.HasRole(name)
}

// HasAnyRole reports whether the current session holds at least one of the
// names. An empty list means no restriction and returns true.
func (c *AuthController) HasAnyRole(names []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.HasAnyRole(names)
}

// RetryDelay returns the linear backoff before re-check number attempt.
func (c *AuthController) RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return c.retryBase * time.Duration(attempt+1)
}

// spawnLoadUserData runs LoadUserData on the controller's own lifetime
// context so an HTTP request ending does not cancel the load.
func (c *AuthController) spawnLoadUserData() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if !c.alive() {
			return
		}
		c.LoadUserData(c.ctx)
	}()
}

func (c *AuthController) alive() bool {
	return c.ctx.Err() == nil
}

func (c *AuthController) applyError(err error) {
	if !c.alive() {
		return
	}
	c.mu.Lock()
	c.errMsg = err.Error()
	c.mu.Unlock()
}

func (c *AuthController) applyDirectoryProfile(ctx context.Context, dir domainauth.DirectoryProfile, err error) {
	if !c.alive() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.errAD = err.Error()
		return
	}
	c.errAD = ""
	c.sess.DirectoryProfile = &dir
	c.persistLocked(ctx)
}

// applyRoles records the fetched roles. An empty or failed fetch follows
// the fallback policy: inject the configured dev role when set, otherwise
// leave the set empty (deny-by-default posture in production).
func (c *AuthController) applyRoles(ctx context.Context, roles []domainauth.Role, err error) {
	if !c.alive() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.errRoles = err.Error()
	} else {
		c.errRoles = ""
	}

	if err != nil || len(roles) == 0 {
		if c.devFallbackRole != "" {
			c.sess.Roles = []domainauth.Role{{
				AppCode:   c.appCode,
				Name:      c.devFallbackRole,
				Type:      "NORMAL",
				ValidFrom: time.Now(),
				Status:    domainauth.RoleStatusActive,
				CreatedBy: "SISTEMA",
			}}
			c.persistLocked(ctx)
		}
		return
	}

	c.sess.Roles = roles
	c.persistLocked(ctx)
}

// clearUserDataLocked drops profile, directory profile, roles, and their
// error slots. Callers hold the mutex.
func (c *AuthController) clearUserDataLocked() {
	c.sess.Roles = nil
	c.sess.Profile = nil
	c.sess.DirectoryProfile = nil
	c.errAD = ""
	c.errRoles = ""
}

// persistLocked writes the session through to the store, best effort.
// Callers hold the mutex.
func (c *AuthController) persistLocked(ctx context.Context) {
	if err := c.sessions.Save(ctx, c.sess); err != nil {
		c.logger.WarnContext(ctx, "persist session failed", "error", err)
	}
}
