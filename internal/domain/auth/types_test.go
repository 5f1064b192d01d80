package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func roleNamed(name string) Role {
	return Role{
		UserID:    1,
		AppCode:   "CONSALUD",
		Name:      name,
		Type:      "NORMAL",
		ValidFrom: time.Now(),
		Status:    RoleStatusActive,
	}
}

func TestSession_RoleNames_DeduplicatesCaseInsensitively(t *testing.T) {
	s := Session{
		SignedIn: true,
		Roles:    []Role{roleNamed("ADMIN"), roleNamed("admin"), roleNamed("USER"), roleNamed("")},
	}

	assert.Equal(t, []string{"admin", "user"}, s.RoleNames())
}

func TestSession_HasRole_CaseInsensitive(t *testing.T) {
	s := Session{SignedIn: true, Roles: []Role{roleNamed("Admin")}}

	assert.True(t, s.HasRole("ADMIN"))
	assert.True(t, s.HasRole("admin"))
	assert.False(t, s.HasRole("user"))
}

func TestSession_HasAnyRole_EmptyRequirementAllows(t *testing.T) {
	// Empty required set means "no restriction", even with zero roles held.
	assert.True(t, Session{}.HasAnyRole(nil))
	assert.True(t, Session{}.HasAnyRole([]string{}))

	// A non-empty requirement still denies a user with no roles.
	assert.False(t, Session{}.HasAnyRole([]string{"ADMIN"}))
}

func TestSession_HasAnyRole_Intersection(t *testing.T) {
	s := Session{SignedIn: true, Roles: []Role{roleNamed("USER")}}

	assert.True(t, s.HasAnyRole([]string{"ADMIN", "user"}))
	assert.False(t, s.HasAnyRole([]string{"ADMIN", "AUDITOR"}))
}

func TestDerivePhase(t *testing.T) {
	tests := []struct {
		name string
		in   PhaseInput
		want Phase
	}{
		{"uninitialized", PhaseInput{}, PhaseUninitialized},
		{"initializing", PhaseInput{Initializing: true}, PhaseInitializing},
		{"signed out", PhaseInput{Initialized: true}, PhaseSignedOut},
		{"loading profile", PhaseInput{Initialized: true, SignedIn: true, Loading: true}, PhaseLoadingProfile},
		{"signed in", PhaseInput{Initialized: true, SignedIn: true}, PhaseSignedIn},
		{"logging out wins over signed in", PhaseInput{Initialized: true, SignedIn: true, LoggingOut: true}, PhaseLoggingOut},
		{"logging out wins over loading", PhaseInput{Initialized: true, Loading: true, LoggingOut: true}, PhaseLoggingOut},
		{"logging out wins over initializing", PhaseInput{Initializing: true, LoggingOut: true}, PhaseLoggingOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePhase(tt.in))
		})
	}
}
