package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only. The autoincrement id doubles as the tie-break for
// messages created within the same timestamp.
type Message struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	PropertyID  *uuid.UUID `gorm:"type:uuid" json:"property_id,omitempty"`
	Text        string     `gorm:"type:text;not null" json:"text"`

	Sender    User `gorm:"foreignkey:SenderID" json:"-"`
	Recipient User `gorm:"foreignkey:RecipientID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
