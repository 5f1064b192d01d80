package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/consalud/herederos-bff/config"
	"github.com/consalud/herederos-bff/internal/adapters/arquitectura"
	"github.com/consalud/herederos-bff/internal/adapters/devauth"
	"github.com/consalud/herederos-bff/internal/adapters/oidc"
	redisadapter "github.com/consalud/herederos-bff/internal/adapters/redis"
	"github.com/consalud/herederos-bff/internal/ports"
	"github.com/consalud/herederos-bff/internal/service"
)

// AuthDeps contains dependencies for building the auth controller.
type AuthDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthController wires the credential provider, gateway, and session
// store into the auth controller based on the configured auth mode.
func BuildAuthController(deps AuthDeps) (*service.AuthController, *service.MenuService, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gateway, err := arquitectura.NewClient(arquitectura.Config{
		BaseURL:    cfg.Gateway.BaseURL,
		APIKeyName: cfg.Gateway.APIKeyName,
		APIKeyPass: cfg.Gateway.APIKeyPass,
		Timeout:    cfg.Gateway.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build gateway client: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, nil, err
	}

	sessionStore := redisadapter.NewSessionStoreWithKey(deps.RedisClient, cfg.Redis.SessionKey)

	controller := service.NewAuthController(service.AuthControllerOptions{
		Provider:    provider,
		Gateway:     gateway,
		Sessions:    sessionStore,
		Coordinator: service.NewLogoutCoordinator(cfg.Auth.SettleWindow),
		Logger:      logger,

		AppCode: cfg.AppCode,
		Scopes:  cfg.Auth.OAuth.ScopeList(),

		MaxAuthAttempts: cfg.Auth.MaxAuthAttempts,
		RetryBaseDelay:  cfg.Auth.RetryBaseDelay,
		DevFallbackRole: cfg.Auth.DevFallbackRole,
	})

	menuService := service.NewMenuService(gateway, cfg.AppCode, logger)
	return controller, menuService, nil
}

func buildProvider(cfg *config.AppConfig) (ports.CredentialProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:    cfg.Auth.DevAuth.UserID,
			Mail:      cfg.Auth.DevAuth.Mail,
			FirstName: cfg.Auth.DevAuth.FirstName,
			LastName:  cfg.Auth.DevAuth.LastName,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.Auth.OAuth.ClientID,
			ClientSecret: cfg.Auth.OAuth.ClientSecret,
			RedirectURL:  cfg.Auth.OAuth.RedirectURL,
			Scope:        cfg.Auth.OAuth.Scopes,
			DiscoveryURL: cfg.Auth.OAuth.DiscoveryURL,
			LogoutURL:    cfg.Auth.OAuth.LogoutURL,
			Strategy:     oidc.LoginStrategy(cfg.Auth.OAuth.Strategy),
		})
		if err != nil {
			return nil, fmt.Errorf("build OIDC provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}
