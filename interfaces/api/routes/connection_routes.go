// interfaces/api/routes/connection_routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linknest/gofiber-connect-api/interfaces/api/handler"
	"github.com/linknest/gofiber-connect-api/interfaces/api/middleware"
)

// SetupConnectionRoutes mounts the connection lifecycle endpoints.
func SetupConnectionRoutes(router fiber.Router, connectionHandler *handler.ConnectionHandler, auth *middleware.AuthMiddleware) {
	connections := router.Group("/connections")
	connections.Use(auth.Protected())

	// Accepted connections of the caller
	connections.Get("/", connectionHandler.ListConnections)

	// Pending inbox (default) or outbox via ?direction=sent
	connections.Get("/pending", connectionHandler.ListPending)

	// Users the caller has blocked
	connections.Get("/blocked", connectionHandler.ListBlocked)

	// Relationship status with one user
	connections.Get("/status/:userId", connectionHandler.Status)

	// Users connected to both the caller and :userId
	connections.Get("/mutual/:userId", connectionHandler.MutualConnections)

	// Send a request to :userId
	connections.Post("/request/:userId", connectionHandler.SendRequest)

	// Answer a pending request (accept, reject or block)
	connections.Put("/respond/:connectionId", connectionHandler.Respond)

	// Withdraw a pending request the caller sent
	connections.Delete("/request/:connectionId", connectionHandler.Cancel)

	// Lift a block the caller placed
	connections.Delete("/block/:userId", connectionHandler.Unblock)

	// Sever an accepted connection
	connections.Delete("/:connectionId", connectionHandler.Remove)
}
