package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/consalud/herederos-bff/internal/ports"
	"github.com/consalud/herederos-bff/internal/service"
)

// GuardDecision is the outcome of evaluating a protected route.
type GuardDecision int

const (
	// DecisionRender lets the target view render.
	DecisionRender GuardDecision = iota
	// DecisionRedirectLogin sends the user to login, carrying the attempted
	// location so login can return them afterward.
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized sends the user to the unauthorized page.
	DecisionRedirectUnauthorized
	// DecisionShowLoading renders a transition placeholder.
	DecisionShowLoading
)

// LoadingVariant distinguishes the two placeholder screens.
type LoadingVariant string

const (
	// VariantVerifying covers initialization and profile loading.
	VariantVerifying LoadingVariant = "verifying"
	// VariantLogout covers the logout transition.
	VariantLogout LoadingVariant = "logout"
)

// GuardResult pairs a decision with its placeholder variant.
type GuardResult struct {
	Decision GuardDecision
	Variant  LoadingVariant
}

// Decide evaluates the guard rules in fixed order, first match wins:
//
//  1. logging out → placeholder (logout variant), overriding everything
//  2. initializing or loading → placeholder (verifying variant)
//  3. not signed in → redirect to login
//  4. required roles with empty intersection → redirect to unauthorized
//  5. render
//
// Role comparison is case-insensitive; an empty requirement means no
// restriction. Decide is pure: callers re-run it whenever the snapshot
// changes.
func Decide(requiredRoles []string, snap service.Snapshot) GuardResult {
	switch {
	case snap.LoggingOut:
		return GuardResult{Decision: DecisionShowLoading, Variant: VariantLogout}
	case snap.Initializing || snap.Loading:
		return GuardResult{Decision: DecisionShowLoading, Variant: VariantVerifying}
	case !snap.SignedIn:
		return GuardResult{Decision: DecisionRedirectLogin}
	case len(requiredRoles) > 0 && !intersects(requiredRoles, snap.RoleNames):
		return GuardResult{Decision: DecisionRedirectUnauthorized}
	default:
		return GuardResult{Decision: DecisionRender}
	}
}

// intersects reports whether any required name appears in the user's
// role-name set, ignoring case. RoleNames is already lower-cased.
func intersects(required, roleNames []string) bool {
	for _, want := range required {
		want = strings.ToLower(want)
		for _, have := range roleNames {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AuthState is the controller surface the guard consumes.
type AuthState interface {
	Snapshot() service.Snapshot
	CheckAuthentication(ctx context.Context) bool
	RetryDelay(attempt int) time.Duration
	BeginLogin(ctx context.Context, returnTo string) (authURL, state, nonce string, err error)
	Login(ctx context.Context, in ports.ExchangeInput) error
	Logout(ctx context.Context) error
	LoadUserData(ctx context.Context)
}

// Guard returns a middleware evaluating the guard rules for every request.
// A signed-out snapshot is re-checked with linear backoff up to the
// controller's attempt bound before the redirect becomes final.
func Guard(auth AuthState, requiredRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := auth.Snapshot()
			result := Decide(requiredRoles, snap)

			// Bounded re-check loop: only for the signed-out outcome, and
			// only until the attempt counter reaches its bound.
			for result.Decision == DecisionRedirectLogin && snap.Attempts < snap.MaxAttempts {
				if !sleepCtx(r.Context(), auth.RetryDelay(snap.Attempts)) {
					return
				}
				auth.CheckAuthentication(r.Context())
				snap = auth.Snapshot()
				result = Decide(requiredRoles, snap)
			}

			switch result.Decision {
			case DecisionRender:
				ctx := SetSnapshotInContext(r.Context(), snap)
				next.ServeHTTP(w, r.WithContext(ctx))
			case DecisionRedirectLogin:
				redirectWithFrom(w, r, "/login")
			case DecisionRedirectUnauthorized:
				redirectWithFrom(w, r, "/unauthorized")
			case DecisionShowLoading:
				writeTransition(w, result.Variant)
			}
		})
	}
}

// redirectWithFrom redirects carrying the attempted location so the flow
// can return the user afterward.
func redirectWithFrom(w http.ResponseWriter, r *http.Request, target string) {
	from := r.URL.Path
	if r.URL.RawQuery != "" {
		from += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target+"?from="+url.QueryEscape(from), http.StatusSeeOther)
}

// writeTransition renders the placeholder for an in-flight auth
// transition. 202 plus Retry-After tells clients to re-poll shortly.
func writeTransition(w http.ResponseWriter, variant LoadingVariant) {
	w.Header().Set("Retry-After", "1")
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": string(variant)})
}

// sleepCtx waits for d or until the request is cancelled. It reports
// whether the wait completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
