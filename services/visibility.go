package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HideConversation stamps the viewer's copy of the conversation as deleted
// as of now. Repeating the call moves the stamp forward, hiding anything
// that arrived since the previous hide. The counterpart is unaffected.
// A single-row upsert keeps concurrent hides from colliding on the unique
// pair index.
func HideConversation(userID, counterpartID uuid.UUID) error {
	flag := models.ConversationVisibility{
		UserID:        userID,
		CounterpartID: counterpartID,
		HiddenSince:   time.Now(),
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "counterpart_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"hidden_since"}),
	}).Create(&flag).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}

// RevealConversation drops the flag, restoring the full history. Nothing
// calls it on new messages: arrival past HiddenSince already resurfaces the
// conversation on its own, without resurrecting the deleted history.
func RevealConversation(userID, counterpartID uuid.UUID) error {
	err := database.DB.
		Where("user_id = ? AND counterpart_id = ?", userID, counterpartID).
		Delete(&models.ConversationVisibility{}).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}

// hiddenSince looks up the viewer's flag for one counterpart. The zero time
// means no flag, fully visible.
func hiddenSince(db *gorm.DB, userID, counterpartID uuid.UUID) (time.Time, error) {
	var flag models.ConversationVisibility
	err := db.
		Where("user_id = ? AND counterpart_id = ?", userID, counterpartID).
		First(&flag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, storageError(err)
	}
	return flag.HiddenSince, nil
}

// hiddenSinceMap loads all of the viewer's flags keyed by counterpart, for
// read paths that walk many conversations in one pass.
func hiddenSinceMap(db *gorm.DB, userID uuid.UUID) (map[uuid.UUID]time.Time, error) {
	var flags []models.ConversationVisibility
	err := db.Where("user_id = ?", userID).Find(&flags).Error
	if err != nil {
		return nil, storageError(err)
	}

	hidden := make(map[uuid.UUID]time.Time, len(flags))
	for _, flag := range flags {
		hidden[flag.CounterpartID] = flag.HiddenSince
	}
	return hidden, nil
}

// isHiddenAt is the single visibility rule: a message is hidden from the
// viewer when it is not strictly newer than the viewer's HiddenSince stamp.
// Hidden status is always recomputed against message timestamps, never
// stored as a boolean that could go stale once new messages arrive.
func isHiddenAt(hiddenSince time.Time, messageAt time.Time) bool {
	if hiddenSince.IsZero() {
		return false
	}
	return !messageAt.After(hiddenSince)
}
