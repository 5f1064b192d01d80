package httpx

import (
	"context"

	"github.com/consalud/herederos-bff/internal/service"
)

// snapshotKey is an unexported context key type for the guard snapshot.
type snapshotKey struct{}

// SetSnapshotInContext stores the guard-evaluated auth snapshot for
// downstream handlers.
func SetSnapshotInContext(ctx context.Context, snap service.Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snap)
}

// SnapshotFromContext retrieves the auth snapshot placed by the guard.
// The second return is false when the handler is not behind a guard.
func SnapshotFromContext(ctx context.Context) (service.Snapshot, bool) {
	snap, ok := ctx.Value(snapshotKey{}).(service.Snapshot)
	return snap, ok
}
