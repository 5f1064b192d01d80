package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scopes       string `env:"SCOPES"        envDefault:"openid profile email user.read"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
	// Strategy selects the interaction style advertised to the IdP,
	// "redirect" or "popup".
	Strategy string `env:"STRATEGY" envDefault:"redirect"`
}

// Validate checks the fields required for a working OAuth flow.
func (o OAuthConfig) Validate() error {
	if o.ClientID == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID is required when AUTH_MODE=oauth")
	}
	if o.DiscoveryURL == "" {
		return fmt.Errorf("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth")
	}
	if o.RedirectURL == "" {
		return fmt.Errorf("OAUTH_REDIRECT_URL is required when AUTH_MODE=oauth")
	}
	return nil
}

// ScopeList splits the space-separated scope string.
func (o OAuthConfig) ScopeList() []string {
	return strings.Fields(o.Scopes)
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID    string `env:"USER_ID"    envDefault:"dev-user"`
	Mail      string `env:"MAIL"       envDefault:"dev@consalud.cl"`
	FirstName string `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string `env:"LAST_NAME"  envDefault:"User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// MaxAuthAttempts bounds the signed-out re-check loop per request.
	MaxAuthAttempts int `env:"AUTH_MAX_ATTEMPTS" envDefault:"3"`

	// RetryBaseDelay is the base of the linear backoff between
	// authentication re-checks.
	RetryBaseDelay time.Duration `env:"AUTH_RETRY_BASE_DELAY" envDefault:"500ms"`

	// SettleWindow keeps the logging-out state visible after logout
	// completes, avoiding flicker on fast round-trips.
	SettleWindow time.Duration `env:"AUTH_SETTLE_WINDOW" envDefault:"2s"`

	// DevFallbackRole is injected when a signed-in user's role fetch
	// comes back empty or failed. Development only; production leaves
	// the role set empty.
	DevFallbackRole string `env:"AUTH_DEV_FALLBACK_ROLE" envDefault:""`

	// AdminRoles are the role names granting the herederos admin surface.
	AdminRoles []string `env:"AUTH_ADMIN_ROLES" envDefault:"ADMIN" envSeparator:";"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.MaxAuthAttempts < 1 {
		a.MaxAuthAttempts = 1
	}
	if a.RetryBaseDelay <= 0 {
		a.RetryBaseDelay = 500 * time.Millisecond
	}
	if a.SettleWindow < 0 {
		a.SettleWindow = 0
	}
	if s := strings.ToLower(a.OAuth.Strategy); s == "popup" {
		a.OAuth.Strategy = "popup"
	} else {
		a.OAuth.Strategy = "redirect"
	}
}
