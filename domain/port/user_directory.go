// domain/port/user_directory.go
package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// UserDirectory is the boundary to the external user service. Calls must
// respect the deadline on ctx; a directory failure may degrade enrichment
// but must never corrupt connection state.
type UserDirectory interface {
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
}
