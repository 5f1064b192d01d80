package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication and session lifecycle configuration
//   - gateway.go: Arquitectura gateway configuration
//   - http.go: HTTP server configuration
//   - redis.go: Session store configuration
type AppConfig struct {
	// IsDev controls development mode behavior (mock auth allowed,
	// fallback role honored). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// AppCode identifies this application in the arquitectura role and
	// menu services.
	AppCode string `env:"APP_CODE" envDefault:"CONSALUD"`

	// Authentication configuration
	Auth AuthConfig

	// Arquitectura gateway configuration
	Gateway GatewayConfig `envPrefix:"GATEWAY_"`

	// Session store configuration
	Redis RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment
// variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Gateway.Sanitize()
	c.detectDevMode()
}

// Validate fails fast on configuration that cannot possibly work. Mock
// auth mode outside development is the one hard no.
func (c *AppConfig) Validate() error {
	if c.AppCode == "" {
		return fmt.Errorf("APP_CODE must not be empty")
	}
	if c.Auth.Mode == AuthModeMock && !c.IsDev {
		return fmt.Errorf("AUTH_MODE=mock requires DEV=true")
	}
	if c.Auth.Mode == AuthModeOAuth {
		if err := c.Auth.OAuth.Validate(); err != nil {
			return err
		}
	}
	if c.Auth.DevFallbackRole != "" && !c.IsDev {
		return fmt.Errorf("AUTH_DEV_FALLBACK_ROLE requires DEV=true")
	}
	return c.Gateway.Validate()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
