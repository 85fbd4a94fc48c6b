// domain/models/connection.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linknest/gofiber-connect-api/domain/apperr"
)

// MaxConnectionMessageLen bounds the optional free-text message attached to
// a connection request at creation time.
const MaxConnectionMessageLen = 500

// Connection is one relationship attempt between two users. Requester and
// addressee keep the audit direction (who initiated); PairLowID/PairHighID
// hold the same pair in normalized order so a single composite unique index
// enforces "at most one record per unordered pair" regardless of direction.
type Connection struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key"`
	RequesterID uuid.UUID       `json:"requester_id" gorm:"type:uuid;not null;index"`
	AddresseeID uuid.UUID       `json:"addressee_id" gorm:"type:uuid;not null;index"`
	PairLowID   uuid.UUID       `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
	PairHighID  uuid.UUID       `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_connections_pair"`
	Status      ConnectionState `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`

	// Optional message sent with the request; attached at creation only.
	Message *string `json:"message,omitempty" gorm:"type:varchar(500)"`

	RequestedAt time.Time  `json:"requested_at" gorm:"not null"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`

	// Associations
	Requester *User `json:"requester,omitempty" gorm:"foreignkey:RequesterID"`
	Addressee *User `json:"addressee,omitempty" gorm:"foreignkey:AddresseeID"`
}

// TableName returns the database table name.
func (Connection) TableName() string {
	return "connections"
}

// BeforeCreate fills identity and the normalized pair columns. It rejects
// self-connections here as a last line of defense; the repository checks the
// same rule before reaching GORM.
func (c *Connection) BeforeCreate(_ *gorm.DB) error {
	if c.RequesterID == c.AddresseeID {
		return apperr.ErrSelfConnection
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.PairLowID, c.PairHighID = NormalizePair(c.RequesterID, c.AddresseeID)
	return nil
}

// NormalizePair orders two user ids so that {A,B} and {B,A} map to the same
// (low, high) tuple.
func NormalizePair(a, b uuid.UUID) (low, high uuid.UUID) {
	if lessUUID(a, b) {
		return a, b
	}
	return b, a
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Involves reports whether userID is one of the two participants.
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.RequesterID == userID || c.AddresseeID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Connection) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}
