// domain/dto/connection_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// ============ Constants ============

// PendingDirection selects which side of a pending request to list.
type PendingDirection string

const (
	PendingDirectionSent     PendingDirection = "sent"
	PendingDirectionReceived PendingDirection = "received"
)

// RespondDecision is the addressee's answer to a pending request.
type RespondDecision string

const (
	RespondDecisionAccept RespondDecision = "accept"
	RespondDecisionReject RespondDecision = "reject"
	RespondDecisionBlock  RespondDecision = "block"
)

// TargetState maps a decision to the state machine target.
func (d RespondDecision) TargetState() (models.ConnectionState, bool) {
	switch d {
	case RespondDecisionAccept:
		return models.ConnectionStateAccepted, true
	case RespondDecisionReject:
		return models.ConnectionStateRejected, true
	case RespondDecisionBlock:
		return models.ConnectionStateBlocked, true
	default:
		return "", false
	}
}

// ============ Request DTOs ============

// SendRequestBody carries the optional message on a new connection request.
type SendRequestBody struct {
	Message *string `json:"message,omitempty"`
}

// RespondBody carries the addressee's decision.
type RespondBody struct {
	Decision RespondDecision `json:"decision"`
}

// ============ Response DTOs ============

// UserSummary is the directory display data attached to listings.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Headline    string    `json:"headline,omitempty"`
	PictureURL  string    `json:"picture_url,omitempty"`
}

// ConnectionData is the wire form of one connection record.
type ConnectionData struct {
	ID          uuid.UUID              `json:"id"`
	RequesterID uuid.UUID              `json:"requester_id"`
	AddresseeID uuid.UUID              `json:"addressee_id"`
	Status      models.ConnectionState `json:"status"`
	Message     *string                `json:"message,omitempty"`
	RequestedAt time.Time              `json:"requested_at"`
	RespondedAt *time.Time             `json:"responded_at,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewConnectionData maps a model to its wire form.
func NewConnectionData(connection *models.Connection) ConnectionData {
	return ConnectionData{
		ID:          connection.ID,
		RequesterID: connection.RequesterID,
		AddresseeID: connection.AddresseeID,
		Status:      connection.Status,
		Message:     connection.Message,
		RequestedAt: connection.RequestedAt,
		RespondedAt: connection.RespondedAt,
		UpdatedAt:   connection.UpdatedAt,
	}
}

// PendingRequestData is one inbox/outbox row. Counterpart and MutualCount are
// best-effort enrichment: when the directory or the mutual computation is
// degraded the row still ships, with Counterpart nil and MutualCount falling
// back to the last cached value (or zero).
type PendingRequestData struct {
	Connection  ConnectionData `json:"connection"`
	Counterpart *UserSummary   `json:"counterpart,omitempty"`
	MutualCount int            `json:"mutual_count"`
}

// StatusProbe is the relationship status between the caller and another user.
type StatusProbe struct {
	Status       string     `json:"status"` // none, pending, received, connected, blocked
	ConnectionID *uuid.UUID `json:"connection_id,omitempty"`
}
