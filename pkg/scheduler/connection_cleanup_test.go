package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// sweepRepo fakes only the single call the scheduler makes.
type sweepRepo struct {
	backlog int64
	calls   []int
}

func (r *sweepRepo) Create(*models.Connection) error { return nil }
func (r *sweepRepo) FindByID(uuid.UUID) (*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) FindByPair(uuid.UUID, uuid.UUID) (*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) FindActiveBetween(uuid.UUID, uuid.UUID) (*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) FindAllInvolving(uuid.UUID) ([]*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) ApplyTransition(uuid.UUID, models.ConnectionState, uuid.UUID) (*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) DeleteAsActor(uuid.UUID, uuid.UUID, models.ConnectionState) (*models.Connection, error) {
	return nil, nil
}
func (r *sweepRepo) MutualConnections(uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}
func (r *sweepRepo) AcceptedPartnerIDs(uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (r *sweepRepo) DeleteTerminalOlderThan(_ time.Time, limit int) (int64, error) {
	r.calls = append(r.calls, limit)
	deleted := r.backlog
	if deleted > int64(limit) {
		deleted = int64(limit)
	}
	r.backlog -= deleted
	return deleted, nil
}

func TestSweepDrainsBacklogInBatches(t *testing.T) {
	repo := &sweepRepo{backlog: 1150}
	s := NewConnectionCleanupScheduler(repo)

	s.sweep()

	if repo.backlog != 0 {
		t.Errorf("backlog = %d after sweep, want 0", repo.backlog)
	}
	// 500 + 500 + 150: the short batch ends the pass.
	if len(repo.calls) != 3 {
		t.Errorf("batch calls = %d, want 3", len(repo.calls))
	}
}

func TestSweepStopsWhenNothingToDelete(t *testing.T) {
	repo := &sweepRepo{backlog: 0}
	s := NewConnectionCleanupScheduler(repo)

	s.sweep()

	if len(repo.calls) != 1 {
		t.Errorf("batch calls = %d, want exactly one probe", len(repo.calls))
	}
}
