package models

import (
	"time"

	"github.com/google/uuid"
)

// Block is a directed edge: BlockerID refusing delivery from BlockedID.
// The reverse direction is an independent row.
type Block struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocker_blocked" json:"blocker_id"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocker_blocked" json:"blocked_id"`

	Blocker User `gorm:"foreignkey:BlockerID" json:"-"`
	Blocked User `gorm:"foreignkey:BlockedID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (Block) TableName() string {
	return "blocked_users"
}
