package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/services"
)

type SendMessageRequest struct {
	// Recipient is either an email address or a user id. The messages page
	// starts brand-new chats by email and replies by id.
	Recipient  string  `json:"recipient" validate:"required"`
	Text       string  `json:"text" validate:"required"`
	PropertyID *string `json:"property_id,omitempty"`
}

type BlockRequest struct {
	TargetID string `json:"target_id" validate:"required,uuid"`
}

func GetChatPartners(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	partners, err := services.ListPartners(userID)
	if err != nil {
		return messagingError(c, err)
	}
	return c.JSON(partners)
}

func GetChatHistory(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	messages, err := services.FetchChat(userID, partnerID)
	if err != nil {
		return messagingError(c, err)
	}
	return c.JSON(messages)
}

func SendMessage(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var propertyID *uuid.UUID
	if req.PropertyID != nil && *req.PropertyID != "" {
		id, err := uuid.Parse(*req.PropertyID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid property ID"})
		}
		propertyID = &id
	}

	message, err := services.SendMessage(userID, req.Recipient, propertyID, req.Text)
	if err != nil {
		return messagingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func SearchMessages(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	messages, err := services.SearchMessages(userID, c.Query("q"))
	if err != nil {
		return messagingError(c, err)
	}
	return c.JSON(messages)
}

func DeleteConversation(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	partnerID, err := uuid.Parse(c.Params("partnerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid partner ID"})
	}

	if err := services.DeleteConversation(userID, partnerID); err != nil {
		return messagingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Conversation deleted"})
}

func BlockUser(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	var req BlockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	targetID, _ := uuid.Parse(req.TargetID)

	if err := services.BlockUser(userID, targetID); err != nil {
		return messagingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User blocked"})
}

func UnblockUser(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	targetID, err := uuid.Parse(c.Params("targetId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target ID"})
	}

	if err := services.UnblockUser(userID, targetID); err != nil {
		return messagingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unblocked"})
}

func GetBlockStatus(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))

	targetID, err := uuid.Parse(c.Params("targetId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid target ID"})
	}

	blockedByMe, err := services.IsBlocked(database.DB, userID, targetID)
	if err != nil {
		return messagingError(c, err)
	}
	either, err := services.IsBlockedEither(database.DB, userID, targetID)
	if err != nil {
		return messagingError(c, err)
	}

	return c.JSON(fiber.Map{
		"blocked_by_me": blockedByMe,
		"blocked":       either,
	})
}

// messagingError translates service errors to HTTP statuses. BlockedError
// must stay distinguishable from NotFoundError so the client never renders
// "user does not exist" for a block.
func messagingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfMessage),
		errors.Is(err, services.ErrSelfBlock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrRecipientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient not found"})
	case errors.Is(err, services.ErrBlocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This user is not accepting messages from you"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong"})
	}
}
