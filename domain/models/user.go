// domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is one directory entry. Profile management and authentication live in
// the user directory service; this table only backs existence checks and
// display-data enrichment.
type User struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Username    string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(100);not null"`
	Headline    string    `json:"headline" gorm:"type:varchar(200)"`
	PictureURL  string    `json:"picture_url" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
