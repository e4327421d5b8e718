package jobs

import (
	"log"

	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/models"
)

// CleanupStaleVisibilityFlags removes visibility flags whose conversation no
// longer has any messages, typically left behind by an administrative erase.
// A stale flag is harmless for correctness but accumulates forever otherwise.
func CleanupStaleVisibilityFlags() {
	log.Println("Running job: CleanupStaleVisibilityFlags...")

	var flags []models.ConversationVisibility
	if err := database.DB.Find(&flags).Error; err != nil {
		log.Printf("Error loading visibility flags: %v", err)
		return
	}

	removed := 0
	for _, flag := range flags {
		var count int64
		err := database.DB.Model(&models.Message{}).
			Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
				flag.UserID, flag.CounterpartID, flag.CounterpartID, flag.UserID).
			Count(&count).Error
		if err != nil {
			log.Printf("Error counting messages for flag %d: %v", flag.ID, err)
			continue
		}
		if count > 0 {
			continue
		}
		if err := database.DB.Delete(&models.ConversationVisibility{}, flag.ID).Error; err != nil {
			log.Printf("Error deleting stale flag %d: %v", flag.ID, err)
			continue
		}
		removed++
	}

	if removed == 0 {
		log.Println("No stale visibility flags found.")
		return
	}
	log.Printf("Removed %d stale visibility flag(s).", removed)
}
