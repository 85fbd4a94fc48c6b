// pkg/di/container.go
package di

import (
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/linknest/gofiber-connect-api/application/serviceimpl"
	"github.com/linknest/gofiber-connect-api/domain/port"
	"github.com/linknest/gofiber-connect-api/domain/repository"
	"github.com/linknest/gofiber-connect-api/domain/service"
	"github.com/linknest/gofiber-connect-api/infrastructure/adapter"
	"github.com/linknest/gofiber-connect-api/infrastructure/cache"
	"github.com/linknest/gofiber-connect-api/infrastructure/directory"
	"github.com/linknest/gofiber-connect-api/infrastructure/persistence/postgres"
	"github.com/linknest/gofiber-connect-api/interfaces/api/handler"
	"github.com/linknest/gofiber-connect-api/interfaces/api/middleware"
	"github.com/linknest/gofiber-connect-api/interfaces/websocket"
	"github.com/linknest/gofiber-connect-api/pkg/scheduler"
)

// Container holds every dependency of the application.
type Container struct {
	// Repositories
	UserRepo       repository.UserRepository
	ConnectionRepo repository.ConnectionRepository

	// Ports
	UserDirectory   port.UserDirectory
	EventPort       port.EventPort
	ConnectionCache port.ConnectionCache

	// WebSocket
	WebSocketHub *websocket.Hub

	// Services
	ConnectionService service.ConnectionService

	// Handlers & middleware
	ConnectionHandler *handler.ConnectionHandler
	AuthMiddleware    *middleware.AuthMiddleware

	// Background jobs
	RedisClient                *redis.Client
	ConnectionCleanupScheduler *scheduler.ConnectionCleanupScheduler
}

// NewContainer wires the application together.
func NewContainer(db *gorm.DB, redisClient *redis.Client) (*Container, error) {
	container := &Container{RedisClient: redisClient}

	// Repositories
	container.UserRepo = postgres.NewUserRepository(db)
	container.ConnectionRepo = postgres.NewConnectionRepository(db)

	// WebSocket hub and its event adapter
	container.WebSocketHub = websocket.NewHub()
	container.EventPort = adapter.NewWebSocketAdapter(container.WebSocketHub)

	// Ports
	container.UserDirectory = directory.NewLocalDirectory(container.UserRepo)
	container.ConnectionCache = cache.NewRedisConnectionCache(redisClient)

	// Services
	container.ConnectionService = serviceimpl.NewConnectionService(
		container.ConnectionRepo,
		container.UserDirectory,
		container.EventPort,
		container.ConnectionCache,
	)

	// Handlers & middleware
	container.ConnectionHandler = handler.NewConnectionHandler(container.ConnectionService)
	container.AuthMiddleware = middleware.NewAuthMiddleware()

	// Background jobs
	container.ConnectionCleanupScheduler = scheduler.NewConnectionCleanupScheduler(container.ConnectionRepo)

	return container, nil
}
