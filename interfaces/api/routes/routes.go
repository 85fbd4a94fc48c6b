// interfaces/api/routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linknest/gofiber-connect-api/interfaces/api/handler"
	"github.com/linknest/gofiber-connect-api/interfaces/api/middleware"
	"github.com/linknest/gofiber-connect-api/interfaces/websocket"
)

// SetupRoutes mounts every API route of the application.
func SetupRoutes(
	app *fiber.App,
	connectionHandler *handler.ConnectionHandler,
	auth *middleware.AuthMiddleware,
	hub *websocket.Hub,
) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "API is running",
			"websocket": hub.Stats(),
		})
	})

	SetupConnectionRoutes(api, connectionHandler, auth)
}
