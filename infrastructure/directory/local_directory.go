// infrastructure/directory/local_directory.go
package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
	"github.com/linknest/gofiber-connect-api/domain/port"
	"github.com/linknest/gofiber-connect-api/domain/repository"
)

// localDirectory serves directory lookups from the local users table. A
// remote implementation can replace it behind the same port when the user
// service moves out of process.
type localDirectory struct {
	userRepo repository.UserRepository
}

func NewLocalDirectory(userRepo repository.UserRepository) port.UserDirectory {
	return &localDirectory{userRepo: userRepo}
}

func (d *localDirectory) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d.userRepo.Exists(ctx, id)
}

func (d *localDirectory) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.userRepo.FindByID(ctx, id)
}

func (d *localDirectory) GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	users, err := d.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}
	return byID, nil
}
