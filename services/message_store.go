package services

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/models"
	"gorm.io/gorm"
)

// AppendMessage writes a single message row. The id and created_at assigned
// on insert together form the ordering key for every read path: created_at
// ascending, id as tie-break when two rows share a timestamp.
func AppendMessage(tx *gorm.DB, senderID, recipientID uuid.UUID, propertyID *uuid.UUID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == recipientID {
		return nil, ErrSelfMessage
	}

	message := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		PropertyID:  propertyID,
		Text:        text,
	}
	if err := tx.Create(&message).Error; err != nil {
		return nil, storageError(err)
	}
	return &message, nil
}

// ListBetween returns the full two-way history of a pair, oldest first.
func ListBetween(db *gorm.DB, userA, userB uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at asc").
		Order("id asc").
		Find(&messages).Error
	if err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

// ListForUser returns every message the user sent or received, newest first.
// Backs both the partner directory and search.
func ListForUser(db *gorm.DB, userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := db.
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at desc").
		Order("id desc").
		Find(&messages).Error
	if err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

// DeleteBetween hard-removes the pair's history in both directions. Only the
// administrative erase path calls this; user-facing deletion hides instead.
func DeleteBetween(tx *gorm.DB, userA, userB uuid.UUID) error {
	err := tx.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Delete(&models.Message{}).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}
