// interfaces/websocket/routes.go
package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/pkg/utils"
)

// RegisterWebSocketRoutes mounts the upgrade endpoint behind the auth
// middleware. The user identity comes from the verified token, never from
// the client.
func RegisterWebSocketRoutes(app *fiber.App, hub *Hub, authMiddleware fiber.Handler) {
	app.Use("/ws", authMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, err := utils.UserIDFromLocals(conn.Locals("userID"))
		if err != nil {
			conn.Close()
			return
		}

		client := &Client{
			ID:           uuid.New(),
			UserID:       userID,
			Conn:         conn,
			Send:         make(chan []byte, 256),
			Hub:          hub,
			IsAlive:      true,
			LastPingTime: time.Now(),
		}

		hub.register <- client
		go client.writePump()
		client.readPump()
	}))
}

// readPump consumes client frames. The only inbound message type is ping;
// everything else is ignored. Runs on the connection goroutine and exits on
// read error, which unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read error for client %s: %v", c.ID, err)
			}
			return
		}

		var frame struct {
			Type MessageType `json:"type"`
		}
		if err := json.Unmarshal(payload, &frame); err != nil {
			continue
		}
		if frame.Type == TypePing {
			c.IsAlive = true
			c.LastPingTime = time.Now()
			response, _ := json.Marshal(WSResponse{
				Type:      TypePong,
				Timestamp: time.Now(),
				Success:   true,
			})
			c.trySend(response)
		}
	}
}

// writePump flushes the send channel to the socket.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	// Send channel closed by the hub.
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
