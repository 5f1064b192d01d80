package httpx

import (
	"log/slog"
	"net/http"

	"github.com/consalud/herederos-bff/internal/service"
)

// MenuHandlers serves the navigation elements resolved from the
// signed-in user's roles.
type MenuHandlers struct {
	Auth   AuthState
	Menu   *service.MenuService
	Logger *slog.Logger
}

// List returns the menu elements for the current session.
// GET /api/menu.
func (h *MenuHandlers) List(w http.ResponseWriter, r *http.Request) {
	snap := h.Auth.Snapshot()

	elements, err := h.Menu.MenuFor(r.Context(), snap.RoleNames)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "menu_unavailable",
			Err:     err,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"elements": elements})
}
