// pkg/scheduler/connection_cleanup.go
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/linknest/gofiber-connect-api/domain/repository"
)

const (
	defaultRetentionDays = 30
	defaultSweepBatch    = 500
)

// ConnectionCleanupScheduler purges rejected and blocked records past the
// retention window so the table does not accumulate dead rows, and so a
// rejected or blocked pair eventually becomes requestable again.
type ConnectionCleanupScheduler struct {
	connectionRepo repository.ConnectionRepository
	interval       time.Duration
	retention      time.Duration
	batchSize      int
}

func NewConnectionCleanupScheduler(connectionRepo repository.ConnectionRepository) *ConnectionCleanupScheduler {
	return &ConnectionCleanupScheduler{
		connectionRepo: connectionRepo,
		interval:       1 * time.Hour,
		retention:      retentionFromEnv(),
		batchSize:      defaultSweepBatch,
	}
}

// Start runs the scheduler until ctx is cancelled.
func (s *ConnectionCleanupScheduler) Start(ctx context.Context) {
	log.Println("connection cleanup scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep()

	for {
		select {
		case <-ctx.Done():
			log.Println("connection cleanup scheduler stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep deletes in batches until a pass comes up short, so one tick drains
// the backlog without holding long transactions.
func (s *ConnectionCleanupScheduler) sweep() {
	cutoff := time.Now().Add(-s.retention)
	var total int64

	for {
		deleted, err := s.connectionRepo.DeleteTerminalOlderThan(cutoff, s.batchSize)
		if err != nil {
			log.Printf("connection cleanup failed: %v", err)
			return
		}
		total += deleted
		if deleted < int64(s.batchSize) {
			break
		}
	}

	if total > 0 {
		log.Printf("connection cleanup removed %d terminal records", total)
	}
}

func retentionFromEnv() time.Duration {
	days := defaultRetentionDays
	if value := os.Getenv("CONNECTION_RETENTION_DAYS"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			days = parsed
		}
	}
	return time.Duration(days) * 24 * time.Hour
}
