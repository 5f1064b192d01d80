package devauth

// Package devauth provides a local credential provider for development and
// testing (AUTH_MODE=mock). It never talks to a real IdP.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/ports"
)

// Config controls the identity the dev provider hands out.
type Config struct {
	UserID    string
	Mail      string
	FirstName string
	LastName  string
	// SessionDuration bounds the issued identity; defaults to 8h.
	SessionDuration time.Duration
}

// Provider is a deterministic, in-memory credential provider.
type Provider struct {
	cfg Config

	mu          sync.Mutex
	initialized bool
	signedIn    bool
	counter     int
}

var errNotInitialized = errors.New("dev auth provider not initialized")

// NewProvider creates a dev provider. UserID and Mail are required so tests
// and local runs always have a resolvable identity.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("user ID is required")
	}
	if cfg.Mail == "" {
		return nil, errors.New("mail is required")
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	return &Provider{cfg: cfg}, nil
}

func (p *Provider) Initialize(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = true
	return nil
}

func (p *Provider) IsAuthenticated(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return false, errNotInitialized
	}
	return p.signedIn, nil
}

func (p *Provider) BeginLogin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return "", "", "", errNotInitialized
	}
	p.signedIn = false
	p.counter++
	state := fmt.Sprintf("dev-state-%d", p.counter)
	nonce := fmt.Sprintf("dev-nonce-%d", p.counter)
	return "/auth/callback?code=dev-code&state=" + state, state, nonce, nil
}

func (p *Provider) CompleteLogin(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return domainauth.Identity{}, errNotInitialized
	}
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	p.signedIn = true
	return p.identity(), nil
}

func (p *Provider) Logout(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return errNotInitialized
	}
	p.signedIn = false
	return nil
}

func (p *Provider) AcquireToken(_ context.Context, _ []string) (domainauth.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return domainauth.Token{}, errNotInitialized
	}
	return domainauth.Token{
		AccessToken: "dev-token",
		ExpiresAt:   time.Now().Add(p.cfg.SessionDuration),
	}, nil
}

func (p *Provider) identity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    p.cfg.UserID,
		Mail:      p.cfg.Mail,
		FirstName: p.cfg.FirstName,
		LastName:  p.cfg.LastName,
		ExpiresAt: time.Now().Add(p.cfg.SessionDuration),
	}
}

var _ ports.CredentialProvider = (*Provider)(nil)
