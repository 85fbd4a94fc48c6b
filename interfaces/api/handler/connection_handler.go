// interfaces/api/handler/connection_handler.go
package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/linknest/gofiber-connect-api/domain/apperr"
	"github.com/linknest/gofiber-connect-api/domain/dto"
	"github.com/linknest/gofiber-connect-api/domain/service"
	"github.com/linknest/gofiber-connect-api/interfaces/api/middleware"
	"github.com/linknest/gofiber-connect-api/pkg/utils"
)

type ConnectionHandler struct {
	connectionService service.ConnectionService
}

func NewConnectionHandler(connectionService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connectionService: connectionService}
}

// SendRequest creates a pending connection request to the user in the path.
func (h *ConnectionHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	addresseeID, err := utils.ParseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var body dto.SendRequestBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	connection, err := h.connectionService.SendRequest(c.Context(), userID, addresseeID, body.Message)
	if err != nil {
		return serviceError(c, err, "Failed to send connection request")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewConnectionData(connection),
	})
}

// Respond applies the caller's decision to a pending request.
func (h *ConnectionHandler) Respond(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	connectionID, err := utils.ParseUUIDParam(c, "connectionId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var body dto.RespondBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	connection, err := h.connectionService.Respond(c.Context(), connectionID, userID, body.Decision)
	if err != nil {
		return serviceError(c, err, "Failed to respond to connection request")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    dto.NewConnectionData(connection),
	})
}

// Cancel withdraws a pending request the caller sent.
func (h *ConnectionHandler) Cancel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	connectionID, err := utils.ParseUUIDParam(c, "connectionId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.connectionService.Cancel(c.Context(), connectionID, userID); err != nil {
		return serviceError(c, err, "Failed to cancel connection request")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Connection request cancelled",
	})
}

// Remove severs an accepted connection.
func (h *ConnectionHandler) Remove(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	connectionID, err := utils.ParseUUIDParam(c, "connectionId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.connectionService.Remove(c.Context(), connectionID, userID); err != nil {
		return serviceError(c, err, "Failed to remove connection")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Connection removed",
	})
}

// Unblock lifts the block the caller placed on the user in the path.
func (h *ConnectionHandler) Unblock(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	targetID, err := utils.ParseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.connectionService.Unblock(c.Context(), userID, targetID); err != nil {
		return serviceError(c, err, "Failed to unblock user")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User unblocked",
	})
}

// ListPending returns the caller's pending inbox or outbox.
// The direction query parameter selects received (default) or sent.
func (h *ConnectionHandler) ListPending(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	direction := dto.PendingDirectionReceived
	if c.Query("direction") == string(dto.PendingDirectionSent) {
		direction = dto.PendingDirectionSent
	}

	rows, err := h.connectionService.ListPending(c.Context(), userID, direction)
	if err != nil {
		return serviceError(c, err, "Failed to fetch pending requests")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// ListConnections returns the caller's accepted connections.
func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	rows, err := h.connectionService.ListConnections(c.Context(), userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch connections")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rows,
	})
}

// ListBlocked returns the users the caller has blocked.
func (h *ConnectionHandler) ListBlocked(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	users, err := h.connectionService.ListBlocked(c.Context(), userID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch blocked users")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}

// Status probes the relationship between the caller and another user.
func (h *ConnectionHandler) Status(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	otherID, err := utils.ParseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	probe, err := h.connectionService.Status(c.Context(), userID, otherID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch connection status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    probe,
	})
}

// MutualConnections returns the users connected to both the caller and the
// user in the path.
func (h *ConnectionHandler) MutualConnections(c *fiber.Ctx) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return unauthorized(c, err)
	}

	otherID, err := utils.ParseUUIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	mutual, err := h.connectionService.MutualConnections(c.Context(), userID, otherID)
	if err != nil {
		return serviceError(c, err, "Failed to fetch mutual connections")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user_ids": mutual,
			"count":    len(mutual),
		},
	})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Unauthorized: " + err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// serviceError maps domain errors to HTTP status codes. Unknown errors are
// logged and answered with a generic 500 so internals never leak.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	var status int
	switch {
	case errors.Is(err, apperr.ErrSelfConnection),
		errors.Is(err, apperr.ErrMessageTooLong),
		errors.Is(err, apperr.ErrInvalidDecision):
		status = fiber.StatusBadRequest
	case apperr.IsInvalidTransition(err):
		status = fiber.StatusConflict
	case errors.Is(err, apperr.ErrDuplicateConnection), errors.Is(err, apperr.ErrInvalidState):
		status = fiber.StatusConflict
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, apperr.ErrBlocked):
		// A block reads as absence to the blocked party.
		status = fiber.StatusNotFound
		err = apperr.ErrUserNotFound
	case errors.Is(err, apperr.ErrServiceUnavailable):
		status = fiber.StatusServiceUnavailable
	default:
		log.Printf("connection handler: %s: %v", fallback, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": fallback,
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
