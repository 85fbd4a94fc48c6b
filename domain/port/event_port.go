// domain/port/event_port.go
package port

import (
	"time"

	"github.com/google/uuid"
)

// ConnectionEvent is the fact published after a successful lifecycle change.
// The notification subsystem consumes these; emission is fire-and-forget and
// never blocks or fails the write path.
type ConnectionEvent struct {
	Type         string    `json:"type"`
	ConnectionID uuid.UUID `json:"connection_id"`
	RequesterID  uuid.UUID `json:"requester_id"`
	AddresseeID  uuid.UUID `json:"addressee_id"`
	Message      *string   `json:"message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event type values on the wire.
const (
	EventConnectionRequested = "connection.requested"
	EventConnectionAccepted  = "connection.accepted"
	EventConnectionRejected  = "connection.rejected"
	EventConnectionBlocked   = "connection.blocked"
	EventConnectionRemoved   = "connection.removed"
)

// EventPort fans out connection lifecycle events to interested users.
type EventPort interface {
	// PublishConnectionEvent delivers the event to both participants.
	PublishConnectionEvent(event ConnectionEvent)
}
