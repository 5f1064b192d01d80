package auth

// Phase is the derived lifecycle stage of the auth state machine. It is
// never persisted; it is recomputed from the session plus the transient
// loading and initializing flags.
type Phase string

const (
	PhaseUninitialized  Phase = "uninitialized"
	PhaseInitializing   Phase = "initializing"
	PhaseSignedOut      Phase = "signed_out"
	PhaseLoadingProfile Phase = "loading_profile"
	PhaseSignedIn       Phase = "signed_in"
	PhaseLoggingOut     Phase = "logging_out"
)

// PhaseInput bundles the facts a phase derivation needs.
type PhaseInput struct {
	Initialized  bool
	Initializing bool
	Loading      bool
	SignedIn     bool
	LoggingOut   bool
}

// DerivePhase computes the current phase. The logging-out flag overrides
// every other combination.
func DerivePhase(in PhaseInput) Phase {
	switch {
	case in.LoggingOut:
		return PhaseLoggingOut
	case !in.Initialized && !in.Initializing:
		return PhaseUninitialized
	case in.Initializing:
		return PhaseInitializing
	case !in.SignedIn:
		return PhaseSignedOut
	case in.Loading:
		return PhaseLoadingProfile
	default:
		return PhaseSignedIn
	}
}
