package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		t.Fatalf("parse defaults: %v", err)
	}
	cfg.Sanitize()

	if cfg.AppCode != "CONSALUD" {
		t.Errorf("AppCode = %q, want CONSALUD", cfg.AppCode)
	}
	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("Auth.Mode = %q, want oauth", cfg.Auth.Mode)
	}
	if cfg.Auth.MaxAuthAttempts != 3 {
		t.Errorf("MaxAuthAttempts = %d, want 3", cfg.Auth.MaxAuthAttempts)
	}
	if cfg.Auth.RetryBaseDelay != 500*time.Millisecond {
		t.Errorf("RetryBaseDelay = %v, want 500ms", cfg.Auth.RetryBaseDelay)
	}
	if cfg.Auth.SettleWindow != 2*time.Second {
		t.Errorf("SettleWindow = %v, want 2s", cfg.Auth.SettleWindow)
	}
	if cfg.Gateway.Timeout != 10*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 10s", cfg.Gateway.Timeout)
	}
	if cfg.Redis.SessionKey != "herederos:session" {
		t.Errorf("Redis.SessionKey = %q", cfg.Redis.SessionKey)
	}
	if got := cfg.Auth.AdminRoles; len(got) != 1 || got[0] != "ADMIN" {
		t.Errorf("AdminRoles = %v, want [ADMIN]", got)
	}
}

func TestAuthModeUnmarshal(t *testing.T) {
	tests := []struct {
		input       string
		want        AuthMode
		expectError bool
	}{
		{"oauth", AuthModeOAuth, false},
		{"OAUTH", AuthModeOAuth, false},
		{"mock", AuthModeMock, false},
		{"ldap", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		var m AuthMode
		err := m.UnmarshalText([]byte(tt.input))
		if tt.expectError {
			if err == nil {
				t.Errorf("UnmarshalText(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q): %v", tt.input, err)
		}
		if m != tt.want {
			t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, m, tt.want)
		}
	}
}

func TestValidateRejectsMockAuthInProduction(t *testing.T) {
	cfg := AppConfig{
		AppCode: "CONSALUD",
		Auth:    AuthConfig{Mode: AuthModeMock},
		Gateway: GatewayConfig{BaseURL: "https://api.example.com"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject AUTH_MODE=mock without DEV=true")
	}

	cfg.IsDev = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with DEV=true: %v", err)
	}
}

func TestValidateRequiresOAuthEssentials(t *testing.T) {
	cfg := AppConfig{
		AppCode: "CONSALUD",
		Auth:    AuthConfig{Mode: AuthModeOAuth},
		Gateway: GatewayConfig{BaseURL: "https://api.example.com"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to require OAUTH_CLIENT_ID")
	}

	cfg.Auth.OAuth = OAuthConfig{
		ClientID:     "herederos",
		DiscoveryURL: "https://idp/.well-known/openid-configuration",
		RedirectURL:  "http://localhost:8080/auth/callback",
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with full OAuth config: %v", err)
	}
}

func TestValidateRequiresGatewayBaseURL(t *testing.T) {
	cfg := AppConfig{
		AppCode: "CONSALUD",
		IsDev:   true,
		Auth:    AuthConfig{Mode: AuthModeMock},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to require GATEWAY_BASE_URL")
	}
}

func TestValidateGatesFallbackRoleBehindDev(t *testing.T) {
	cfg := AppConfig{
		AppCode: "CONSALUD",
		Auth: AuthConfig{
			Mode: AuthModeOAuth,
			OAuth: OAuthConfig{
				ClientID:     "herederos",
				DiscoveryURL: "https://idp/.well-known/openid-configuration",
				RedirectURL:  "http://localhost:8080/auth/callback",
			},
			DevFallbackRole: "ADMIN",
		},
		Gateway: GatewayConfig{BaseURL: "https://api.example.com"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to gate AUTH_DEV_FALLBACK_ROLE behind DEV=true")
	}
}

func TestSanitizeClampsValues(t *testing.T) {
	cfg := AppConfig{
		Auth: AuthConfig{
			MaxAuthAttempts: -5,
			RetryBaseDelay:  -time.Second,
			OAuth:           OAuthConfig{Strategy: "POPUP"},
		},
		Gateway: GatewayConfig{Timeout: 0},
	}
	cfg.Sanitize()

	if cfg.Auth.MaxAuthAttempts != 1 {
		t.Errorf("MaxAuthAttempts = %d, want 1", cfg.Auth.MaxAuthAttempts)
	}
	if cfg.Auth.RetryBaseDelay != 500*time.Millisecond {
		t.Errorf("RetryBaseDelay = %v, want 500ms", cfg.Auth.RetryBaseDelay)
	}
	if cfg.Auth.OAuth.Strategy != "popup" {
		t.Errorf("Strategy = %q, want popup", cfg.Auth.OAuth.Strategy)
	}
	if cfg.Gateway.Timeout != 10*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 10s", cfg.Gateway.Timeout)
	}
}

func TestScopeList(t *testing.T) {
	o := OAuthConfig{Scopes: "openid profile  user.read"}
	got := o.ScopeList()
	want := []string{"openid", "profile", "user.read"}
	if len(got) != len(want) {
		t.Fatalf("ScopeList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ScopeList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
