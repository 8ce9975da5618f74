package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistTableName matches the table created by migrations/000001.
const WaitlistTableName = "waitlist_users"

// WaitlistEntry is one signup. Rows are written once and never updated.
type WaitlistEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null;<-:create" json:"created_at"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name      string    `gorm:"type:text;not null" json:"name"`
}

func (WaitlistEntry) TableName() string {
	return WaitlistTableName
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}
