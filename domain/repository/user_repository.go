// domain/repository/user_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// UserRepository reads directory entries. Writes belong to the external user
// directory service; this side only resolves existence and display data.
type UserRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
}
