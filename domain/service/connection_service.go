// domain/service/connection_service.go
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/dto"
	"github.com/linknest/gofiber-connect-api/domain/models"
)

// ConnectionService orchestrates the connection lifecycle use-cases. Write
// paths fail closed (directory must answer); read-side enrichment fails open
// with degraded data.
type ConnectionService interface {
	// Lifecycle
	SendRequest(ctx context.Context, requesterID, addresseeID uuid.UUID, message *string) (*models.Connection, error)
	Respond(ctx context.Context, connectionID, actorID uuid.UUID, decision dto.RespondDecision) (*models.Connection, error)
	Cancel(ctx context.Context, connectionID, actorID uuid.UUID) error
	Remove(ctx context.Context, connectionID, actorID uuid.UUID) error
	Unblock(ctx context.Context, actorID, targetID uuid.UUID) error

	// Listings
	ListPending(ctx context.Context, userID uuid.UUID, direction dto.PendingDirection) ([]dto.PendingRequestData, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]dto.PendingRequestData, error)
	ListBlocked(ctx context.Context, userID uuid.UUID) ([]dto.UserSummary, error)

	// Relationship facts, consumed by other services
	Status(ctx context.Context, actorID, otherID uuid.UUID) (dto.StatusProbe, error)
	AreConnected(ctx context.Context, a, b uuid.UUID) (bool, error)
	MutualConnections(ctx context.Context, a, b uuid.UUID) ([]uuid.UUID, error)
}
