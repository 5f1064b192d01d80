package arquitectura

// Package arquitectura provides the HTTP client for the organization's
// architecture API: user profiles, AD directory records, role assignments,
// and navigation menus.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	apperrors "github.com/consalud/herederos-bff/internal/errors"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/domain/menu"
	"golang.org/x/net/publicsuffix"
)

// Client calls the arquitectura API. All calls share a bounded timeout;
// exceeding it is reported as a distinct timeout error, not a generic
// gateway failure.
type Client struct {
	baseURL    string
	apiKeyName string
	apiKeyPass string
	timeout    time.Duration
	httpClient *http.Client
}

// Config holds configuration for the arquitectura client.
type Config struct {
	BaseURL    string
	APIKeyName string // request header name carrying the API key
	APIKeyPass string // API key value
	Timeout    time.Duration
	HTTPClient *http.Client // optional, a jar-equipped client is built when nil
}

const defaultTimeout = 10 * time.Second

// NewClient creates a new arquitectura API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("new cookie jar: %w", err)
		}
		httpClient = &http.Client{Timeout: timeout, Jar: jar}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKeyName: cfg.APIKeyName,
		apiKeyPass: cfg.APIKeyPass,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// errorEnvelope is the gateway's stringly-typed failure payload: some
// endpoints signal failure with a 200 response whose body is an error
// object instead of the expected record.
type errorEnvelope struct {
	Error string `json:"Error"`
}

// GetProfile fetches the identity-provider profile for the access token.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (domainauth.Profile, error) {
	if accessToken == "" {
		return domainauth.Profile{}, apperrors.Gatewayf("access token is required")
	}

	body, err := c.get(ctx, "/me", accessToken)
	if err != nil {
		return domainauth.Profile{}, err
	}

	// The profile endpoint signals failure with an embedded error object
	// rather than a non-200 status.
	var envelope errorEnvelope
	if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != "" {
		return domainauth.Profile{}, apperrors.Gatewayf("profile fetch failed: %s", envelope.Error)
	}

	var raw rawProfile
	if jsonErr := json.Unmarshal(body, &raw); jsonErr != nil {
		return domainauth.Profile{}, apperrors.Gateway("decode profile", jsonErr)
	}
	return raw.toDomain(), nil
}

// GetDirectoryProfile fetches the AD-sourced record by mail.
func (c *Client) GetDirectoryProfile(ctx context.Context, mail string) (domainauth.DirectoryProfile, error) {
	if mail == "" {
		return domainauth.DirectoryProfile{}, apperrors.Gatewayf("mail is required")
	}

	path := "/Usuario/mail/" + url.PathEscape(mail)
	body, err := c.get(ctx, path, "")
	if err != nil {
		return domainauth.DirectoryProfile{}, err
	}

	var raw rawUsuarioAD
	if jsonErr := json.Unmarshal(body, &raw); jsonErr != nil {
		return domainauth.DirectoryProfile{}, apperrors.Gateway("decode directory profile", jsonErr)
	}
	return raw.toDomain(), nil
}

// GetRoles fetches the role assignments for mail scoped to the application
// code. The payload is an array of uppercase-keyed rows; malformed rows are
// tolerated and duplicate role names are preserved for the caller to
// de-duplicate.
func (c *Client) GetRoles(ctx context.Context, mail, appCode string) ([]domainauth.Role, error) {
	if mail == "" {
		return nil, apperrors.Gatewayf("mail is required")
	}
	if appCode == "" {
		return nil, apperrors.Gatewayf("application code is required")
	}

	path := "/Rol/mail/" + url.PathEscape(mail) + "/app/" + url.PathEscape(appCode)
	body, err := c.get(ctx, path, "")
	if err != nil {
		return nil, err
	}

	var raws []rawRol
	if jsonErr := json.Unmarshal(body, &raws); jsonErr != nil {
		return nil, apperrors.Gateway("decode roles", jsonErr)
	}

	roles := make([]domainauth.Role, 0, len(raws))
	for _, raw := range raws {
		roles = append(roles, raw.toDomain())
	}
	return roles, nil
}

// GetMenu fetches the navigation elements granted to a role. An empty role
// yields an empty menu without a gateway round-trip.
func (c *Client) GetMenu(ctx context.Context, role, appCode string) ([]menu.Element, error) {
	if role == "" {
		return []menu.Element{}, nil
	}
	if appCode == "" {
		return nil, apperrors.Gatewayf("application code is required")
	}

	path := "/Elemento/" + url.PathEscape(role) + "/" + url.PathEscape(appCode)
	body, err := c.get(ctx, path, "")
	if err != nil {
		return nil, err
	}

	var raws []rawElemento
	if jsonErr := json.Unmarshal(body, &raws); jsonErr != nil {
		return nil, apperrors.Gateway("decode menu", jsonErr)
	}

	elements := make([]menu.Element, 0, len(raws))
	for _, raw := range raws {
		elements = append(elements, raw.toDomain())
	}
	return elements, nil
}

// get performs a GET against the API, applying the shared timeout and the
// API-key header pair, and returns the raw body.
func (c *Client) get(ctx context.Context, path, bearer string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.Gateway("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKeyName != "" {
		req.Header.Set(c.apiKeyName, c.apiKeyPass)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Timeout("request exceeded the %dms time limit", c.timeout.Milliseconds())
		}
		return nil, apperrors.Gateway("gateway request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Timeout("request exceeded the %dms time limit", c.timeout.Milliseconds())
		}
		return nil, apperrors.Gateway("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Gatewayf("gateway returned status %d for %s", resp.StatusCode, path)
	}
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
