package oidc

// Package oidc implements the credential provider port on top of OIDC/OAuth2.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "github.com/consalud/herederos-bff/internal/errors"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/ports"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// LoginStrategy selects how the interactive flow is presented.
type LoginStrategy string

const (
	// StrategyRedirect performs a full-page redirect flow.
	StrategyRedirect LoginStrategy = "redirect"
	// StrategyPopup performs the flow in a popup window.
	StrategyPopup LoginStrategy = "popup"
)

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	DiscoveryURL string
	LogoutURL    string
	Strategy     LoginStrategy
	HTTPClient   *http.Client // optional, defaults to a 30s-timeout client
}

// account is the provider-level cached account: the token set plus the
// identity it was minted for.
type account struct {
	token    *oauth2.Token
	identity domainauth.Identity
}

// Provider implements ports.CredentialProvider using OIDC/OAuth2.
// Initialize performs the discovery fetch exactly once; concurrent callers
// coalesce onto the same in-flight attempt.
type Provider struct {
	cfg        ProviderConfig
	httpClient *http.Client

	initGroup singleflight.Group

	mu           sync.Mutex
	initialized  bool
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
	oauthConfig  *oauth2.Config
	current      *account
}

var errNotInitialized = errors.New("credential provider not initialized")

// NewProvider validates configuration and constructs the provider. The
// discovery fetch is deferred to Initialize.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyRedirect
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Provider{cfg: cfg, httpClient: httpClient}, nil
}

// Initialize performs OIDC discovery and builds the verifier and OAuth2
// endpoint configuration. It is idempotent: once it has succeeded, later
// calls return immediately, and concurrent callers share one in-flight
// initialization.
func (p *Provider) Initialize(ctx context.Context) error {
	p.mu.Lock()
	done := p.initialized
	p.mu.Unlock()
	if done {
		return nil
	}

	_, err, _ := p.initGroup.Do("initialize", func() (any, error) {
		p.mu.Lock()
		if p.initialized {
			p.mu.Unlock()
			return nil, nil
		}
		p.mu.Unlock()

		issuer := strings.TrimSuffix(p.cfg.DiscoveryURL, "/")
		issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")

		discoveryCtx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
		op, discoverErr := gooidc.NewProvider(discoveryCtx, issuer)
		if discoverErr != nil {
			return nil, apperrors.Initialization("oidc discovery", discoverErr)
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		p.oidcProvider = op
		p.verifier = op.Verifier(&gooidc.Config{ClientID: p.cfg.ClientID})
		p.oauthConfig = &oauth2.Config{
			ClientID:     p.cfg.ClientID,
			ClientSecret: p.cfg.ClientSecret,
			RedirectURL:  p.cfg.RedirectURL,
			Scopes:       strings.Fields(p.cfg.Scope),
			Endpoint:     op.Endpoint(),
		}
		p.initialized = true
		return nil, nil
	})
	return err
}

// IsAuthenticated reports whether a cached account exists.
func (p *Provider) IsAuthenticated(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return false, errNotInitialized
	}
	return p.current != nil, nil
}

// BeginLogin starts the interactive flow. Any cached account is cleared
// first so a fresh login always forces account selection.
func (p *Provider) BeginLogin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return "", "", "", errNotInitialized
	}

	p.current = nil

	state, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("response_type", "code"),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
	if p.cfg.Strategy == StrategyPopup {
		opts = append(opts, oauth2.SetAuthURLParam("display", "popup"))
	}

	// in.ReturnTo travels in the caller's pending-login record keyed by
	// state, never in the authorize URL itself.
	return p.oauthConfig.AuthCodeURL(state, opts...), state, nonce, nil
}

// CompleteLogin exchanges the authorization code, verifies the ID token and
// its nonce, and caches the resulting account. Failure leaves no cached
// account behind.
func (p *Provider) CompleteLogin(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return domainauth.Identity{}, errNotInitialized
	}
	oauthConfig := p.oauthConfig
	verifier := p.verifier
	p.mu.Unlock()

	if in.Code == "" {
		return domainauth.Identity{}, apperrors.AuthInteraction("authorization code is required", nil)
	}
	if in.State == "" {
		return domainauth.Identity{}, apperrors.AuthInteraction("state is required", nil)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := oauthConfig.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, apperrors.AuthInteraction("exchange authorization code", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, apperrors.AuthInteraction("missing id_token in token response", nil)
	}

	idToken, err := verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, apperrors.AuthInteraction("verify id_token", err)
	}

	var claims idTokenClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, apperrors.AuthInteraction("parse id_token claims", claimsErr)
	}
	if in.Nonce != "" && claims.Nonce != in.Nonce {
		return domainauth.Identity{}, apperrors.AuthInteraction("invalid nonce", nil)
	}

	identity := claims.toIdentity(token.Expiry)

	p.mu.Lock()
	p.current = &account{token: token, identity: identity}
	p.mu.Unlock()

	return identity, nil
}

// Logout clears the cached account and, when an end-session endpoint is
// configured, revokes remotely. Remote failure is returned to the caller
// for display but the local cache is always cleared first.
func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return errNotInitialized
	}
	p.current = nil
	logoutURL := p.cfg.LogoutURL
	p.mu.Unlock()

	if logoutURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, logoutURL, nil)
	if err != nil {
		return apperrors.AuthInteraction("build logout request", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return apperrors.AuthInteraction("remote logout", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return apperrors.AuthInteraction(fmt.Sprintf("remote logout returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// AcquireToken attempts silent acquisition against the cached account. A
// missing account or an expired grant is reported as the
// interaction-required sentinel; anything else propagates.
func (p *Provider) AcquireToken(ctx context.Context, _ []string) (domainauth.Token, error) {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return domainauth.Token{}, errNotInitialized
	}
	current := p.current
	oauthConfig := p.oauthConfig
	p.mu.Unlock()

	if current == nil {
		return domainauth.Token{}, apperrors.InteractionRequired(errors.New("no cached account"))
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	refreshed, err := oauthConfig.TokenSource(ctx, current.token).Token()
	if err != nil {
		if isInteractionRequired(err) {
			return domainauth.Token{}, apperrors.InteractionRequired(err)
		}
		return domainauth.Token{}, apperrors.AuthInteraction("acquire token", err)
	}

	p.mu.Lock()
	p.current = &account{token: refreshed, identity: current.identity}
	p.mu.Unlock()

	return domainauth.Token{AccessToken: refreshed.AccessToken, ExpiresAt: refreshed.Expiry}, nil
}

// idTokenClaims is a superset of standard OIDC and AD/ADFS claim shapes.
type idTokenClaims struct {
	Sub            string `json:"sub"`
	SamAccountName string `json:"samaccountname"`
	Email          string `json:"email"`
	Mail           string `json:"mail"`
	GivenName      string `json:"given_name"`
	FirstName      string `json:"firstname"`
	FamilyName     string `json:"family_name"`
	LastName       string `json:"lastname"`
	Nonce          string `json:"nonce"`
}

func (c idTokenClaims) toIdentity(expiry time.Time) domainauth.Identity {
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}
	return domainauth.Identity{
		UserID:    firstNonEmpty(c.SamAccountName, c.Sub),
		Mail:      firstNonEmpty(c.Mail, c.Email),
		FirstName: firstNonEmpty(c.FirstName, c.GivenName),
		LastName:  firstNonEmpty(c.LastName, c.FamilyName),
		ExpiresAt: expiry,
	}
}

// isInteractionRequired classifies token-endpoint failures that an
// interactive flow can recover from.
func isInteractionRequired(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "invalid_grant", "interaction_required", "login_required", "consent_required":
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// randomString generates a cryptographically secure URL-safe random string
// of exact length.
func randomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	nBytes := (length*3 + 3) / 4
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	for len(s) < length {
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:length], nil
}

// Ensure the adapter satisfies the port.
var _ ports.CredentialProvider = (*Provider)(nil)
