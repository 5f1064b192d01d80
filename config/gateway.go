package config

import (
	"fmt"
	"time"
)

// GatewayConfig contains configuration for the arquitectura API gateway,
// the upstream serving profile, directory, role, and menu data.
type GatewayConfig struct {
	BaseURL string `env:"BASE_URL"`

	// APIKeyName and APIKeyPass authenticate this service to the gateway.
	APIKeyName string `env:"API_KEY_NAME" envDefault:"ARQUITECTURA_KEY"`
	APIKeyPass string `env:"API_KEY_PASS"`

	// Timeout bounds every gateway round-trip. Requests exceeding it fail
	// with a timeout error, distinct from other gateway failures.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Validate checks the fields without which no gateway call can succeed.
func (g GatewayConfig) Validate() error {
	if g.BaseURL == "" {
		return fmt.Errorf("GATEWAY_BASE_URL is required")
	}
	return nil
}

// Sanitize applies guardrails to gateway configuration values.
func (g *GatewayConfig) Sanitize() {
	if g.Timeout <= 0 {
		g.Timeout = 10 * time.Second
	}
}
