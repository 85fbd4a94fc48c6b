// infrastructure/persistence/database/migration.go
package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/linknest/gofiber-connect-api/domain/models"
)

// RunMigration migrates all models. Ordering matters: referenced tables
// first, then tables carrying foreign keys.
func RunMigration(db *gorm.DB) error {
	log.Println("running auto migration...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Connection{},
	)
	if err != nil {
		log.Printf("auto migration failed: %v", err)
		return err
	}

	log.Println("auto migration done")
	return nil
}

// CreateIndices adds the indices the hot queries depend on. The pair unique
// index is the integrity anchor: it enforces at most one record per
// unordered user pair regardless of request direction.
func CreateIndices(db *gorm.DB) error {
	log.Println("creating indices...")

	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_connections_pair ON connections(pair_low_id, pair_high_id)").Error; err != nil {
		return err
	}

	// Inbox and outbox listings
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_requester_status ON connections(requester_id, status)").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_addressee_status ON connections(addressee_id, status)").Error; err != nil {
		return err
	}

	// Cleanup sweep scans terminal records by response time
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_connections_status_responded_at ON connections(status, responded_at)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		return err
	}

	log.Println("indices created")
	return nil
}

// SetupDatabase runs the full schema setup.
func SetupDatabase(db *gorm.DB) error {
	if err := RunMigration(db); err != nil {
		return err
	}
	return CreateIndices(db)
}
