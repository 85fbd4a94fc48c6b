// interfaces/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/types"
)

// MessageType is the wire-level event name.
type MessageType string

const (
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// WSResponse is the envelope for every server-to-client frame.
type WSResponse struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
}

// BroadcastMessage targets a set of users; every live connection of each
// user receives the frame.
type BroadcastMessage struct {
	Type    MessageType
	Data    interface{}
	UserIDs []uuid.UUID
}

// Client represents one WebSocket connection.
type Client struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Conn         *websocket.Conn
	Send         chan []byte
	Hub          *Hub
	IsAlive      bool
	LastPingTime time.Time

	// sendMu guards sendClosed; the hub closes Send while the connection
	// goroutine may still be replying to pings.
	sendMu     sync.Mutex
	sendClosed bool
}

// trySend queues data unless the hub has already closed this client. Drops
// the frame when the buffer is full rather than blocking the caller.
func (c *Client) trySend(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Hub manages all WebSocket connections and fans lifecycle events out to
// the users they concern.
type Hub struct {
	clients    map[uuid.UUID]*Client
	clientsMux sync.RWMutex

	// userID -> clientIDs, one user may hold several connections
	userConnections    map[uuid.UUID][]uuid.UUID
	userConnectionsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	startTime time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[uuid.UUID]*Client),
		userConnections: make(map[uuid.UUID][]uuid.UUID),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 1000),
		startTime:       time.Now(),
	}
}

// Run drives the hub until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("websocket hub: shutting down")
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		case <-ticker.C:
			h.checkAliveClients()
		}
	}
}

// BroadcastToUser sends a frame to every connection of one user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, messageType MessageType, data interface{}) {
	h.broadcast <- &BroadcastMessage{
		Type:    messageType,
		Data:    data,
		UserIDs: []uuid.UUID{userID},
	}
}

// BroadcastToUsers sends a frame to every connection of each listed user.
func (h *Hub) BroadcastToUsers(userIDs []uuid.UUID, messageType MessageType, data interface{}) {
	h.broadcast <- &BroadcastMessage{
		Type:    messageType,
		Data:    data,
		UserIDs: userIDs,
	}
}

// Stats reports connection counts for the health endpoint.
func (h *Hub) Stats() types.JSONB {
	h.clientsMux.RLock()
	totalClients := len(h.clients)
	h.clientsMux.RUnlock()

	h.userConnectionsMux.RLock()
	totalUsers := len(h.userConnections)
	h.userConnectionsMux.RUnlock()

	return types.JSONB{
		"total_connections": totalClients,
		"unique_users":      totalUsers,
		"uptime":            time.Since(h.startTime).String(),
		"started_at":        h.startTime,
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	h.clients[client.ID] = client
	h.clientsMux.Unlock()

	h.userConnectionsMux.Lock()
	h.userConnections[client.UserID] = append(h.userConnections[client.UserID], client.ID)
	h.userConnectionsMux.Unlock()

	log.Printf("websocket hub: client %s registered for user %s", client.ID, client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.clientsMux.Unlock()
		return
	}
	delete(h.clients, client.ID)
	h.clientsMux.Unlock()

	h.userConnectionsMux.Lock()
	remaining := h.userConnections[client.UserID][:0]
	for _, id := range h.userConnections[client.UserID] {
		if id != client.ID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		delete(h.userConnections, client.UserID)
	} else {
		h.userConnections[client.UserID] = remaining
	}
	h.userConnectionsMux.Unlock()

	client.sendMu.Lock()
	client.sendClosed = true
	close(client.Send)
	client.sendMu.Unlock()
	log.Printf("websocket hub: client %s unregistered", client.ID)
}

func (h *Hub) broadcastMessage(msg *BroadcastMessage) {
	data, err := json.Marshal(WSResponse{
		Type:      msg.Type,
		Data:      msg.Data,
		Timestamp: time.Now(),
		Success:   true,
	})
	if err != nil {
		return
	}

	for _, userID := range msg.UserIDs {
		h.sendToUser(userID, data)
	}
}

func (h *Hub) sendToUser(userID uuid.UUID, data []byte) {
	h.userConnectionsMux.RLock()
	clientIDs := append([]uuid.UUID(nil), h.userConnections[userID]...)
	h.userConnectionsMux.RUnlock()

	for _, clientID := range clientIDs {
		h.clientsMux.RLock()
		client, ok := h.clients[clientID]
		h.clientsMux.RUnlock()
		if !ok {
			continue
		}

		if !client.trySend(data) {
			// Send buffer full, drop the connection. Runs on the hub
			// goroutine, so unregister directly.
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) checkAliveClients() {
	h.clientsMux.RLock()
	stale := make([]*Client, 0)
	for _, client := range h.clients {
		if !client.IsAlive && time.Since(client.LastPingTime) > 90*time.Second {
			stale = append(stale, client)
		}
	}
	h.clientsMux.RUnlock()

	// Runs on the hub goroutine; sending to h.unregister here would block
	// against our own select.
	for _, client := range stale {
		log.Printf("websocket hub: dropping stale client %s", client.ID)
		h.unregisterClient(client)
	}
}
