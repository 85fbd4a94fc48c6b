// domain/port/cache_port.go
package port

import (
	"context"

	"github.com/google/uuid"
)

// ConnectionCache keeps best-effort read-side values (mutual-connection
// counts, pending-list snapshots). It is an optimization layer only: a miss
// or a cache failure must never fail the caller, and every successful write
// to a connection record invalidates both participants.
type ConnectionCache interface {
	GetMutualCount(ctx context.Context, a, b uuid.UUID) (int, bool)
	SetMutualCount(ctx context.Context, a, b uuid.UUID, count int)
	// Invalidate drops every cached entry involving the given users.
	Invalidate(ctx context.Context, userIDs ...uuid.UUID)
}
