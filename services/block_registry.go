package services

import (
	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/models"
	"gorm.io/gorm"
)

// BlockUser creates the directed edge blocker -> blocked. Idempotent: an
// existing edge is left in place and reported as success.
func BlockUser(blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	block := models.Block{BlockerID: blockerID, BlockedID: blockedID}
	err := database.DB.
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		FirstOrCreate(&block).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}

// UnblockUser removes the directed edge. A missing edge is not an error.
func UnblockUser(blockerID, blockedID uuid.UUID) error {
	err := database.DB.
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
	if err != nil {
		return storageError(err)
	}
	return nil
}

// IsBlocked reports whether blocker has blocked blocked. The send gate is
// exactly IsBlocked(recipient, sender): only the recipient's own block
// refuses delivery.
func IsBlocked(db *gorm.DB, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, storageError(err)
	}
	return count > 0, nil
}

// IsBlockedEither reports whether either side has withdrawn from the pair.
// Read surfaces use it to flag a dead conversation; it never gates sends.
func IsBlockedEither(db *gorm.DB, userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, storageError(err)
	}
	return count > 0, nil
}
