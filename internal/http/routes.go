package httpx

import (
	"log/slog"
	"net/http"

	"github.com/consalud/herederos-bff/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthState
	Menu         *service.MenuService
	CookieDomain string
	// Role names required for the herederos admin surface.
	AdminRoles []string
	Logger     *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Auth:         services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	menuHandlers := &MenuHandlers{Auth: services.Auth, Menu: services.Menu, Logger: services.Logger}
	herederosHandlers := &HerederosHandlers{Logger: services.Logger}

	mux.Handle("GET /healthz", http.HandlerFunc(Health))
	mux.Handle("HEAD /healthz", http.HandlerFunc(Health))

	registerAuthRoutes(mux, authHandlers)
	registerAPIRoutes(mux, services, menuHandlers, herederosHandlers, authHandlers)
	registerTerminalRoutes(mux)

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("GET /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("GET /auth/callback", http.HandlerFunc(h.Callback))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
}

func registerAPIRoutes(mux *http.ServeMux, services RouterServices, menu *MenuHandlers, herederos *HerederosHandlers, auth *AuthHandlers) {
	// Session status is readable in every phase; the payload itself says
	// whether anyone is signed in.
	mux.Handle("GET /api/session", http.HandlerFunc(auth.Status))

	signedIn := Guard(services.Auth)
	admin := Guard(services.Auth, services.AdminRoles...)

	mux.Handle("GET /api/menu", signedIn(http.HandlerFunc(menu.List)))
	mux.Handle("GET /api/herederos", admin(http.HandlerFunc(herederos.Search)))
}

// Terminal pages the guard redirects to. The SPA owns the real rendering;
// these exist so redirects always land somewhere meaningful.
func registerTerminalRoutes(mux *http.ServeMux) {
	mux.Handle("GET /login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"page": "login"})
	}))
	mux.Handle("GET /unauthorized", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusForbidden, map[string]string{"page": "unauthorized"})
	}))
}
