package httpx

import (
	"log/slog"
	"net/http"

	"github.com/consalud/herederos-bff/internal/domain/rut"
)

// HerederosHandlers serves the heir-search surface. Lookups are keyed by
// Chilean RUT, validated before any downstream work happens.
type HerederosHandlers struct {
	Logger *slog.Logger
}

// Search validates the requested RUT and returns its canonical forms.
// GET /api/herederos?rut=.
func (h *HerederosHandlers) Search(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("rut")
	if raw == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_rut",
			Field:   "rut",
			Msg:     "rut query parameter is required",
		})
		return
	}

	normalized := rut.Normalize(raw)
	if !rut.Valid(normalized) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnprocessableEntity,
			ErrCode: "invalid_rut",
			Field:   "rut",
			Msg:     "rut failed format or check-digit validation",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"rut":       normalized,
		"formatted": rut.Format(normalized),
	})
}
