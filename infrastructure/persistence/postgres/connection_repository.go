// infrastructure/persistence/postgres/connection_repository.go
package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linknest/gofiber-connect-api/domain/apperr"
	"github.com/linknest/gofiber-connect-api/domain/models"
	"github.com/linknest/gofiber-connect-api/domain/repository"
)

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) repository.ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(connection *models.Connection) error {
	if connection.RequesterID == connection.AddresseeID {
		return apperr.ErrSelfConnection
	}
	if connection.RequestedAt.IsZero() {
		connection.RequestedAt = time.Now()
	}

	if err := r.db.Create(connection).Error; err != nil {
		// Two opposing requests racing past the pre-check land here; the
		// pair unique index turns the loser into a duplicate.
		if isUniqueViolation(err) {
			return apperr.ErrDuplicateConnection
		}
		return err
	}
	return nil
}

func (r *connectionRepository) FindByID(id uuid.UUID) (*models.Connection, error) {
	var connection models.Connection
	if err := r.db.Where("id = ?", id).First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &connection, nil
}

func (r *connectionRepository) FindByPair(a, b uuid.UUID) (*models.Connection, error) {
	low, high := models.NormalizePair(a, b)
	var connection models.Connection
	if err := r.db.Where("pair_low_id = ? AND pair_high_id = ?", low, high).First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &connection, nil
}

func (r *connectionRepository) FindActiveBetween(a, b uuid.UUID) (*models.Connection, error) {
	low, high := models.NormalizePair(a, b)
	var connection models.Connection
	err := r.db.
		Where("pair_low_id = ? AND pair_high_id = ? AND status = ?", low, high, models.ConnectionStateAccepted).
		First(&connection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &connection, nil
}

func (r *connectionRepository) FindAllInvolving(userID uuid.UUID) ([]*models.Connection, error) {
	var connections []*models.Connection
	err := r.db.
		Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&connections).Error
	if err != nil {
		return nil, err
	}
	return connections, nil
}

// ApplyTransition moves a pending connection to target under a row lock, so
// two concurrent responses serialize and the loser sees a terminal state.
func (r *connectionRepository) ApplyTransition(id uuid.UUID, target models.ConnectionState, actorID uuid.UUID) (*models.Connection, error) {
	var connection models.Connection
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&connection).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		// Only the addressee answers a request.
		if connection.AddresseeID != actorID {
			return apperr.ErrUnauthorized
		}
		if err := models.ValidateTransition(connection.Status, target); err != nil {
			return err
		}

		now := time.Now()
		connection.Status = target
		connection.RespondedAt = &now
		connection.UpdatedAt = now
		return tx.Save(&connection).Error
	})
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// DeleteAsActor removes the record if it is in the expected state and the
// actor is allowed to delete it in that state: the requester cancels a
// pending request, either side removes an accepted connection, and only the
// blocker lifts a block.
func (r *connectionRepository) DeleteAsActor(id uuid.UUID, actorID uuid.UUID, expected models.ConnectionState) (*models.Connection, error) {
	var connection models.Connection
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&connection).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		if connection.Status != expected {
			return apperr.ErrInvalidState
		}
		switch expected {
		case models.ConnectionStatePending:
			if connection.RequesterID != actorID {
				return apperr.ErrUnauthorized
			}
		case models.ConnectionStateAccepted:
			if !connection.Involves(actorID) {
				return apperr.ErrUnauthorized
			}
		case models.ConnectionStateBlocked:
			if connection.AddresseeID != actorID {
				return apperr.ErrUnauthorized
			}
		default:
			return apperr.ErrInvalidState
		}

		return tx.Delete(&models.Connection{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &connection, nil
}

// MutualConnections intersects the accepted partner sets of a and b. Two
// indexed endpoint scans plus an in-memory set keeps this linear in the
// degree of the two users.
func (r *connectionRepository) MutualConnections(a, b uuid.UUID) ([]uuid.UUID, error) {
	partnersA, err := r.AcceptedPartnerIDs(a)
	if err != nil {
		return nil, err
	}
	partnersB, err := r.AcceptedPartnerIDs(b)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(partnersA))
	for _, id := range partnersA {
		seen[id] = struct{}{}
	}

	mutual := make([]uuid.UUID, 0)
	for _, id := range partnersB {
		if id == a || id == b {
			continue
		}
		if _, ok := seen[id]; ok {
			mutual = append(mutual, id)
		}
	}
	return mutual, nil
}

func (r *connectionRepository) AcceptedPartnerIDs(userID uuid.UUID) ([]uuid.UUID, error) {
	var connections []*models.Connection
	err := r.db.
		Select("requester_id", "addressee_id").
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.ConnectionStateAccepted).
		Find(&connections).Error
	if err != nil {
		return nil, err
	}

	partners := make([]uuid.UUID, 0, len(connections))
	for _, connection := range connections {
		partners = append(partners, connection.OtherParticipant(userID))
	}
	return partners, nil
}

// DeleteTerminalOlderThan purges rejected and blocked records whose response
// predates cutoff, at most limit rows per call. Accepted records live until
// removed by a participant.
func (r *connectionRepository) DeleteTerminalOlderThan(cutoff time.Time, limit int) (int64, error) {
	result := r.db.Exec(
		`DELETE FROM connections WHERE id IN (
			SELECT id FROM connections
			WHERE status IN (?, ?) AND responded_at IS NOT NULL AND responded_at < ?
			ORDER BY responded_at ASC
			LIMIT ?
		)`,
		models.ConnectionStateRejected, models.ConnectionStateBlocked, cutoff, limit,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// isUniqueViolation matches postgres unique constraint failures (SQLSTATE
// 23505) without binding to a driver error type.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
