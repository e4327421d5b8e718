package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/services"
)

// AdminEraseConversation hard-deletes a pair's message history on both
// sides. This is the legal/compliance erase path, not user-facing deletion:
// users hide their own copy through DELETE /messages/conversations instead.
func AdminEraseConversation(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	adminID := claims["user_id"].(string)

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
	}
	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	if err := services.EraseConversation(userID, partnerID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to erase conversation"})
	}

	log.Printf("Admin %s erased conversation between %s and %s", adminID, userID, partnerID)
	return c.JSON(fiber.Map{"message": "Conversation erased"})
}
