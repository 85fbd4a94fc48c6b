// domain/repository/connection_repository.go
package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// ConnectionRepository is the sole writer of connection records. Every
// invariant (pair uniqueness, state machine, actor authorization) funnels
// through this contract; services never reach the table directly.
type ConnectionRepository interface {
	// Create persists a new pending record. Fails with apperr.ErrSelfConnection
	// when the ids match and apperr.ErrDuplicateConnection when any record
	// already exists for the unordered pair, including the case where a
	// concurrent create wins the race to the pair unique index.
	Create(connection *models.Connection) error

	// FindByID fails with apperr.ErrNotFound when no record exists.
	FindByID(id uuid.UUID) (*models.Connection, error)

	// FindByPair is the order-independent lookup: it returns the record for
	// the unordered pair {a, b} regardless of who initiated it, or
	// (nil, nil) when the pair has no record.
	FindByPair(a, b uuid.UUID) (*models.Connection, error)

	// FindActiveBetween is FindByPair filtered to accepted records.
	FindActiveBetween(a, b uuid.UUID) (*models.Connection, error)

	// FindAllInvolving returns every record where userID is requester or
	// addressee, newest activity first.
	FindAllInvolving(userID uuid.UUID) ([]*models.Connection, error)

	// ApplyTransition moves one record out of PENDING inside a transaction:
	// loads the row under a write lock, validates the transition against the
	// state machine, checks that actorID is the addressee, stamps
	// responded_at (first transition only) and updated_at, and persists.
	ApplyTransition(id uuid.UUID, target models.ConnectionState, actorID uuid.UUID) (*models.Connection, error)

	// DeleteAsActor removes one record inside a transaction. The record must
	// currently be in the expected state (apperr.ErrInvalidState otherwise)
	// and actorID must be allowed by the action matrix: the requester may
	// cancel a PENDING record, either participant may remove an ACCEPTED
	// one, and the blocker (addressee) may lift a BLOCKED one.
	DeleteAsActor(id uuid.UUID, actorID uuid.UUID, expected models.ConnectionState) (*models.Connection, error)

	// MutualConnections intersects the accepted-partner sets of a and b,
	// excluding a and b themselves. Two indexed endpoint scans plus an
	// in-memory set intersection: O(deg(a) + deg(b)), never a full scan.
	MutualConnections(a, b uuid.UUID) ([]uuid.UUID, error)

	// AcceptedPartnerIDs returns the ids of everyone with an accepted
	// connection to userID.
	AcceptedPartnerIDs(userID uuid.UUID) ([]uuid.UUID, error)

	// DeleteTerminalOlderThan removes up to limit REJECTED or BLOCKED
	// records whose response predates cutoff, oldest first. Returns the
	// number deleted.
	DeleteTerminalOlderThan(cutoff time.Time, limit int) (int64, error)
}
