package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/mocks"
	mockauth "github.com/consalud/herederos-bff/internal/mocks/auth"
	"github.com/consalud/herederos-bff/internal/ports"
)

const testGrace = 25 * time.Millisecond

type controllerFixture struct {
	provider *mockauth.MockCredentialProvider
	gateway  *mocks.MockProfileGateway
	store    *mockauth.RecordingSessionStore
	ctrl     *AuthController
}

func newFixture(t *testing.T, tweak func(*AuthControllerOptions)) *controllerFixture {
	t.Helper()
	mc := gomock.NewController(t)
	f := &controllerFixture{
		provider: mockauth.NewMockCredentialProvider(),
		gateway:  mocks.NewMockProfileGateway(mc),
		store:    mockauth.NewRecordingSessionStore(),
	}
	opts := AuthControllerOptions{
		Provider:    f.provider,
		Gateway:     f.gateway,
		Sessions:    f.store,
		Coordinator: NewLogoutCoordinator(testGrace),
		AppCode:     "CONSALUD",
		Scopes:      []string{"user.read"},

		MaxAuthAttempts: 3,
		RetryBaseDelay:  time.Millisecond,
	}
	if tweak != nil {
		tweak(&opts)
	}
	f.ctrl = NewAuthController(opts)
	t.Cleanup(f.ctrl.Close)
	return f
}

func activeRole(name string) domainauth.Role {
	return domainauth.Role{
		AppCode:   "CONSALUD",
		Name:      name,
		Type:      "NORMAL",
		ValidFrom: time.Now().Add(-time.Hour),
		Status:    domainauth.RoleStatusActive,
	}
}

func seededSession() domainauth.Session {
	return domainauth.Session{
		SignedIn: true,
		Profile:  &domainauth.Profile{ID: "u-1", DisplayName: "Usuario Uno", Mail: "uno@consalud.cl"},
		DirectoryProfile: &domainauth.DirectoryProfile{
			AccountName: "uuno", Mail: "uno@consalud.cl", FirstName: "Usuario", LastName: "Uno", Active: true,
		},
		Roles: []domainauth.Role{activeRole("ADMIN")},
	}
}

func TestInitializeSignedOut(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctrl.Initialize(context.Background()))

	snap := f.ctrl.Snapshot()
	assert.Equal(t, domainauth.PhaseSignedOut, snap.Phase)
	assert.False(t, snap.SignedIn)
	assert.False(t, snap.Initializing)
	assert.Equal(t, 1, f.provider.InitializeCalls)
}

func TestInitializeProviderFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.InitializeFunc = func(context.Context) error {
		return errors.New("discovery unreachable")
	}

	err := f.ctrl.Initialize(context.Background())
	require.Error(t, err)

	snap := f.ctrl.Snapshot()
	assert.Equal(t, domainauth.PhaseSignedOut, snap.Phase)
	assert.Contains(t, snap.Error, "discovery unreachable")
}

func TestInitializeHydratesCachedSession(t *testing.T) {
	// A persisted session with a profile ID is a cache hit: no gateway
	// calls happen (the gomock controller fails on unexpected calls).
	f := newFixture(t, nil)
	require.NoError(t, f.store.Save(context.Background(), seededSession()))
	f.provider.SetSignedIn(true)

	require.NoError(t, f.ctrl.Initialize(context.Background()))
	f.ctrl.Close()

	snap := f.ctrl.Snapshot()
	assert.True(t, snap.SignedIn)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "u-1", snap.Profile.ID)
	assert.Equal(t, []string{"admin"}, snap.RoleNames)
}

func TestInitializeReconcilesStaleSignedInSession(t *testing.T) {
	// The store says signed in but the provider has no cached account:
	// the provider wins and the stale user data is dropped.
	f := newFixture(t, nil)
	require.NoError(t, f.store.Save(context.Background(), seededSession()))
	f.provider.SetSignedIn(false)

	require.NoError(t, f.ctrl.Initialize(context.Background()))

	snap := f.ctrl.Snapshot()
	assert.False(t, snap.SignedIn)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.RoleNames)
}

func TestCheckAuthenticationCountsAttempts(t *testing.T) {
	f := newFixture(t, nil)

	assert.False(t, f.ctrl.CheckAuthentication(context.Background()))
	assert.False(t, f.ctrl.CheckAuthentication(context.Background()))
	assert.Equal(t, 2, f.ctrl.Snapshot().Attempts)
}

func TestCheckAuthenticationErrorDegradesToSignedOut(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.IsAuthenticatedFunc = func(context.Context) (bool, error) {
		return true, errors.New("transient")
	}

	assert.False(t, f.ctrl.CheckAuthentication(context.Background()))
}

func TestCheckAuthenticationFlipResetsAttempts(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.CheckAuthentication(context.Background())
	f.ctrl.CheckAuthentication(context.Background())
	require.Equal(t, 2, f.ctrl.Snapshot().Attempts)

	f.provider.SetSignedIn(true)
	assert.True(t, f.ctrl.CheckAuthentication(context.Background()))
	assert.Equal(t, 0, f.ctrl.Snapshot().Attempts)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.CompleteLoginFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("exchange rejected")
	}

	err := f.ctrl.Login(context.Background(), ports.ExchangeInput{Code: "c", State: "s"})
	require.Error(t, err)

	snap := f.ctrl.Snapshot()
	assert.False(t, snap.SignedIn)
	assert.False(t, snap.Loading)
	assert.Contains(t, snap.Error, "exchange rejected")
	assert.Empty(t, f.store.Snapshots(), "a failed login must not persist anything")
}

func TestLoginSuccessSignsInAndClearsError(t *testing.T) {
	f := newFixture(t, nil)
	f.gateway.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.Profile{ID: "u-1", Mail: "uno@consalud.cl"}, nil).AnyTimes()
	f.gateway.EXPECT().GetDirectoryProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.DirectoryProfile{Mail: "uno@consalud.cl"}, nil).AnyTimes()
	f.gateway.EXPECT().GetRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domainauth.Role{activeRole("ADMIN")}, nil).AnyTimes()

	// Seed a stale error from an earlier failed attempt.
	f.provider.CompleteLoginFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("first try failed")
	}
	_ = f.ctrl.Login(context.Background(), ports.ExchangeInput{Code: "bad"})
	f.provider.CompleteLoginFunc = nil

	require.NoError(t, f.ctrl.Login(context.Background(), ports.ExchangeInput{Code: "good", State: "s", Nonce: "n"}))

	snap := f.ctrl.Snapshot()
	assert.True(t, snap.SignedIn)
	assert.Empty(t, snap.Error)
	assert.Equal(t, 0, snap.Attempts)
}

func TestLoadUserDataFullFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.SetSignedIn(true)
	f.ctrl.mu.Lock()
	f.ctrl.sess.SignedIn = true
	f.ctrl.mu.Unlock()

	f.gateway.EXPECT().GetProfile(gomock.Any(), "mock-token").
		Return(domainauth.Profile{ID: "u-9", DisplayName: "Nueve", Mail: "nueve@consalud.cl"}, nil)
	f.gateway.EXPECT().GetDirectoryProfile(gomock.Any(), "nueve@consalud.cl").
		Return(domainauth.DirectoryProfile{AccountName: "nueve", Mail: "nueve@consalud.cl", Active: true}, nil)
	f.gateway.EXPECT().GetRoles(gomock.Any(), "nueve@consalud.cl", "CONSALUD").
		Return([]domainauth.Role{activeRole("ADMIN"), activeRole("Admin"), activeRole("CONSULTA")}, nil)

	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "u-9", snap.Profile.ID)
	require.NotNil(t, snap.DirectoryProfile)
	assert.Equal(t, "nueve", snap.DirectoryProfile.AccountName)
	assert.Equal(t, []string{"admin", "consulta"}, snap.RoleNames)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Empty(t, snap.ErrorAD)
	assert.Empty(t, snap.ErrorRoles)
}

func TestLoadUserDataIndependentErrorSlots(t *testing.T) {
	// A failed role fetch lands in its own slot and never blocks the
	// directory result, and vice versa.
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess.SignedIn = true
	f.ctrl.mu.Unlock()

	f.gateway.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.Profile{ID: "u-9", Mail: "nueve@consalud.cl"}, nil)
	f.gateway.EXPECT().GetDirectoryProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.DirectoryProfile{AccountName: "nueve", Active: true}, nil)
	f.gateway.EXPECT().GetRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("role service down"))

	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	require.NotNil(t, snap.DirectoryProfile)
	assert.Empty(t, snap.ErrorAD)
	assert.Contains(t, snap.ErrorRoles, "role service down")
	assert.Empty(t, snap.RoleNames)
	assert.Empty(t, snap.Error, "sub-fetch failures stay out of the main error slot")
}

func TestLoadUserDataTokenFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess.SignedIn = true
	f.ctrl.mu.Unlock()
	f.provider.AcquireTokenFunc = func(context.Context, []string) (domainauth.Token, error) {
		return domainauth.Token{}, errors.New("interaction required")
	}

	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	assert.Contains(t, snap.Error, "interaction required")
	assert.Nil(t, snap.Profile)
}

func TestLoadUserDataCacheHit(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess = seededSession()
	f.ctrl.mu.Unlock()

	// No gateway expectations: any call fails the test.
	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	assert.Equal(t, "u-1", snap.Profile.ID)
}

func TestLoadUserDataSignedOutClearsStaleData(t *testing.T) {
	f := newFixture(t, nil)
	sess := seededSession()
	sess.SignedIn = false
	f.ctrl.mu.Lock()
	f.ctrl.sess = sess
	f.ctrl.mu.Unlock()

	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	assert.Nil(t, snap.Profile)
	assert.Nil(t, snap.DirectoryProfile)
	assert.Empty(t, snap.RoleNames)
}

func TestDevFallbackRoleInjectedOnEmptyFetch(t *testing.T) {
	f := newFixture(t, func(o *AuthControllerOptions) {
		o.DevFallbackRole = "ADMIN"
	})
	f.ctrl.mu.Lock()
	f.ctrl.sess.SignedIn = true
	f.ctrl.mu.Unlock()

	f.gateway.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.Profile{ID: "u-9", Mail: "nueve@consalud.cl"}, nil)
	f.gateway.EXPECT().GetDirectoryProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.DirectoryProfile{}, nil)
	f.gateway.EXPECT().GetRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	f.ctrl.LoadUserData(context.Background())

	assert.Equal(t, []string{"admin"}, f.ctrl.Snapshot().RoleNames)
}

func TestEmptyRoleFetchStaysEmptyWithoutFallback(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess.SignedIn = true
	f.ctrl.mu.Unlock()

	f.gateway.EXPECT().GetProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.Profile{ID: "u-9", Mail: "nueve@consalud.cl"}, nil)
	f.gateway.EXPECT().GetDirectoryProfile(gomock.Any(), gomock.Any()).
		Return(domainauth.DirectoryProfile{}, nil)
	f.gateway.EXPECT().GetRoles(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	f.ctrl.LoadUserData(context.Background())

	snap := f.ctrl.Snapshot()
	assert.Empty(t, snap.RoleNames)
	assert.Empty(t, snap.ErrorRoles)
}

func TestLogoutClearsInOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess = seededSession()
	f.ctrl.mu.Unlock()

	require.NoError(t, f.ctrl.Logout(context.Background()))

	saves := f.store.Snapshots()
	require.GreaterOrEqual(t, len(saves), 4)
	last4 := saves[len(saves)-4:]

	// roles first, then profile, then directory profile, then the flag.
	assert.Nil(t, last4[0].Roles)
	assert.NotNil(t, last4[0].Profile)
	assert.True(t, last4[0].SignedIn)

	assert.Nil(t, last4[1].Profile)
	assert.NotNil(t, last4[1].DirectoryProfile)
	assert.True(t, last4[1].SignedIn)

	assert.Nil(t, last4[2].DirectoryProfile)
	assert.True(t, last4[2].SignedIn)

	assert.False(t, last4[3].SignedIn)

	// No intermediate save may show signed_out with user data attached.
	for _, s := range saves {
		if !s.SignedIn {
			assert.Nil(t, s.Roles)
			assert.Nil(t, s.Profile)
			assert.Nil(t, s.DirectoryProfile)
		}
	}
}

func TestLogoutFlagOverridesEverything(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess = seededSession()
	f.ctrl.initialized = true
	f.ctrl.mu.Unlock()

	require.NoError(t, f.ctrl.Logout(context.Background()))

	snap := f.ctrl.Snapshot()
	assert.True(t, snap.LoggingOut, "flag stays up for the grace window")
	assert.Equal(t, domainauth.PhaseLoggingOut, snap.Phase)
	assert.False(t, snap.SignedIn)

	assert.Eventually(t, func() bool {
		return !f.ctrl.Snapshot().LoggingOut
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, domainauth.PhaseSignedOut, f.ctrl.Snapshot().Phase)
}

func TestLogoutProviderFailureStillClearsLocal(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess = seededSession()
	f.ctrl.mu.Unlock()
	f.provider.LogoutFunc = func(context.Context) error {
		return errors.New("idp unreachable")
	}

	err := f.ctrl.Logout(context.Background())
	require.Error(t, err)

	snap := f.ctrl.Snapshot()
	assert.False(t, snap.SignedIn)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.RoleNames)
	assert.Equal(t, 1, f.provider.LogoutCalls)
}

func TestHasRoleQueries(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.mu.Lock()
	f.ctrl.sess = seededSession()
	f.ctrl.mu.Unlock()

	assert.True(t, f.ctrl.HasRole("admin"))
	assert.True(t, f.ctrl.HasRole("ADMIN"))
	assert.False(t, f.ctrl.HasRole("consulta"))
	assert.True(t, f.ctrl.HasAnyRole(nil), "empty requirement means no restriction")
	assert.True(t, f.ctrl.HasAnyRole([]string{"consulta", "Admin"}))
	assert.False(t, f.ctrl.HasAnyRole([]string{"consulta"}))
}

func TestRetryDelayLinearBackoff(t *testing.T) {
	f := newFixture(t, func(o *AuthControllerOptions) {
		o.RetryBaseDelay = 500 * time.Millisecond
	})

	assert.Equal(t, 500*time.Millisecond, f.ctrl.RetryDelay(0))
	assert.Equal(t, time.Second, f.ctrl.RetryDelay(1))
	assert.Equal(t, 1500*time.Millisecond, f.ctrl.RetryDelay(2))
	assert.Equal(t, 500*time.Millisecond, f.ctrl.RetryDelay(-1))
}
