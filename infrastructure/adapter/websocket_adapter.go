// infrastructure/adapter/websocket_adapter.go
package adapter

import (
	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/port"
	"github.com/linknest/gofiber-connect-api/interfaces/websocket"
)

// WebSocketAdapter implements port.EventPort on top of the hub.
type WebSocketAdapter struct {
	hub *websocket.Hub
}

func NewWebSocketAdapter(hub *websocket.Hub) port.EventPort {
	return &WebSocketAdapter{hub: hub}
}

// PublishConnectionEvent delivers the event to both participants. Delivery
// is best effort; users without a live connection simply miss the frame.
func (a *WebSocketAdapter) PublishConnectionEvent(event port.ConnectionEvent) {
	a.hub.BroadcastToUsers(
		[]uuid.UUID{event.RequesterID, event.AddresseeID},
		websocket.MessageType(event.Type),
		event,
	)
}
