package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversationVisibility records that UserID deleted their view of the
// conversation with CounterpartID as of HiddenSince. The counterpart's copy
// and the message rows themselves are untouched; messages newer than
// HiddenSince are visible again on the next read. No row means fully visible.
type ConversationVisibility struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_visibility_pair" json:"user_id"`
	CounterpartID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_visibility_pair" json:"counterpart_id"`
	HiddenSince   time.Time `gorm:"not null" json:"hidden_since"`
}

func (ConversationVisibility) TableName() string {
	return "conversation_visibility"
}
