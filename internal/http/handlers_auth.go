package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/consalud/herederos-bff/internal/ports"
)

// AuthHandlers provides HTTP handlers for the authentication flow.
type AuthHandlers struct {
	Auth         AuthState
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles login initiation.
// GET /auth/login?from=<optional_path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	from := safeRedirectPath(r.URL.Query().Get("from"))

	authURL, state, nonce, err := h.Auth.BeginLogin(r.Context(), from)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: state, Nonce: nonce, From: from})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the interactive flow.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonce := ""
	if nonceCookie, cookieErr := r.Cookie("oauth_nonce"); cookieErr == nil {
		nonce = nonceCookie.Value
	}

	if loginErr := h.Auth.Login(r.Context(), ports.ExchangeInput{Code: code, State: state, Nonce: nonce}); loginErr != nil {
		// Interaction failures are surfaced inline; the session is untouched.
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "login_completion_failed",
			Err:     loginErr,
		})
		return
	}

	h.clearCookie(w, r, "oauth_state")
	h.clearCookie(w, r, "oauth_nonce")

	from := "/"
	if fromCookie, cookieErr := r.Cookie("post_login_redirect"); cookieErr == nil {
		from = safeRedirectPath(fromCookie.Value)
	}
	h.clearCookie(w, r, "post_login_redirect")

	http.Redirect(w, r, from, http.StatusFound)
}

// Logout runs the sign-out sequence.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Local state is cleared even when the provider call fails; the error
	// is only surfaced for display.
	if err := h.Auth.Logout(r.Context()); err != nil {
		h.logger().WarnContext(r.Context(), "logout completed with provider error", "error", err)
	}

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "signing_out",
			"redirect_to": "/login",
		})
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Status reports the current auth snapshot.
// GET /api/session.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.Auth.Snapshot()

	payload := map[string]any{
		"phase":        snap.Phase,
		"signed_in":    snap.SignedIn,
		"logging_out":  snap.LoggingOut,
		"initializing": snap.Initializing,
		"loading":      snap.Loading,
		"roles":        snap.RoleNames,
	}
	if snap.Profile != nil {
		payload["profile"] = snap.Profile
	}
	if snap.DirectoryProfile != nil {
		payload["directory_profile"] = snap.DirectoryProfile
	}
	if snap.Error != "" {
		payload["error"] = snap.Error
	}
	if snap.ErrorAD != "" {
		payload["error_ad"] = snap.ErrorAD
	}
	if snap.ErrorRoles != "" {
		payload["error_roles"] = snap.ErrorRoles
	}

	WriteJSON(w, http.StatusOK, payload)
}

// safeRedirectPath allows only relative paths, defaulting to root.
func safeRedirectPath(p string) string {
	if p == "" {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return p
}

// oauthCookieParams groups values stored between login begin and callback.
type oauthCookieParams struct {
	State string
	Nonce string
	From  string
}

func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")

	set := func(name, value string) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   isSecure,
			MaxAge:   int((10 * time.Minute).Seconds()),
			SameSite: http.SameSiteLaxMode,
		})
	}
	set("oauth_state", p.State)
	set("oauth_nonce", p.Nonce)
	set("post_login_redirect", p.From)
}

// clearCookie clears a cookie by setting it to expire immediately,
// mirroring the attributes used when setting it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
