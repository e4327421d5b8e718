package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/models"
	"github.com/shamilaliyev/DreamStay/notifications"
	"gorm.io/gorm"
)

// ConversationSummary is one row of a user's conversation directory. It is
// derived from the message log on every fetch and never stored, so the
// directory cannot drift from the messages themselves.
type ConversationSummary struct {
	PartnerID     uuid.UUID `json:"partner_id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	LastMessageID uint      `json:"last_message_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	Blocked       bool      `json:"blocked"`
}

// SendMessage resolves the recipient by email or id, refuses delivery when
// the recipient has blocked the sender, and appends the message. The block
// check and the append run in one transaction so a concurrent block can
// never observe a half-written message.
func SendMessage(senderID uuid.UUID, recipient string, propertyID *uuid.UUID, text string) (*models.Message, error) {
	recipientUser, err := resolveRecipient(recipient)
	if err != nil {
		return nil, err
	}

	var message *models.Message
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		blocked, err := IsBlocked(tx, recipientUser.ID, senderID)
		if err != nil {
			return err
		}
		if blocked {
			return ErrBlocked
		}

		message, err = AppendMessage(tx, senderID, recipientUser.ID, propertyID, text)
		return err
	})
	if err != nil {
		return nil, err
	}

	var sender models.User
	if err := database.DB.Where("id = ?", senderID).First(&sender).Error; err == nil {
		go notifications.SendEmail(
			recipientUser.Name,
			recipientUser.Email,
			"New message on DreamStay",
			fmt.Sprintf("<h1>New Message</h1><p>%s sent you a message. Log in to DreamStay to reply.</p>", sender.Name),
		)
	}

	return message, nil
}

// ListPartners builds the caller's conversation directory: one entry per
// counterpart with at least one message the caller has not hidden, newest
// conversation first.
func ListPartners(userID uuid.UUID) ([]ConversationSummary, error) {
	messages, err := ListForUser(database.DB, userID)
	if err != nil {
		return nil, err
	}

	hidden, err := hiddenSinceMap(database.DB, userID)
	if err != nil {
		return nil, err
	}

	// ListForUser is newest-first, so the first message seen per counterpart
	// is the latest of that conversation.
	var order []uuid.UUID
	latest := make(map[uuid.UUID]models.Message)
	for _, message := range messages {
		counterpartID := message.SenderID
		if counterpartID == userID {
			counterpartID = message.RecipientID
		}
		if _, seen := latest[counterpartID]; seen {
			continue
		}
		if isHiddenAt(hidden[counterpartID], message.CreatedAt) {
			continue
		}
		latest[counterpartID] = message
		order = append(order, counterpartID)
	}

	summaries := make([]ConversationSummary, 0, len(order))
	for _, counterpartID := range order {
		var partner models.User
		err := database.DB.Where("id = ?", counterpartID).First(&partner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, storageError(err)
		}

		blocked, err := IsBlockedEither(database.DB, userID, counterpartID)
		if err != nil {
			return nil, err
		}

		message := latest[counterpartID]
		summaries = append(summaries, ConversationSummary{
			PartnerID:     partner.ID,
			Name:          partner.Name,
			Role:          partner.Role,
			LastMessageID: message.ID,
			LastMessageAt: message.CreatedAt,
			Blocked:       blocked,
		})
	}
	return summaries, nil
}

// FetchChat returns the two-way history with one counterpart, oldest first,
// without anything the caller deleted. Messages newer than the caller's hide
// stamp come back on their own.
func FetchChat(userID, counterpartID uuid.UUID) ([]models.Message, error) {
	messages, err := ListBetween(database.DB, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	since, err := hiddenSince(database.DB, userID, counterpartID)
	if err != nil {
		return nil, err
	}
	if since.IsZero() {
		return messages, nil
	}

	visible := make([]models.Message, 0, len(messages))
	for _, message := range messages {
		if isHiddenAt(since, message.CreatedAt) {
			continue
		}
		visible = append(visible, message)
	}
	return visible, nil
}

// SearchMessages matches the query as a case-insensitive substring over the
// caller's own sent and received messages, newest first. Hidden history is
// excluded under the same rule as FetchChat. An empty query returns nothing:
// search is opt-in, not "show all".
func SearchMessages(userID uuid.UUID, query string) ([]models.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Message{}, nil
	}

	// The query is literal text, not a pattern: % and _ must not act as
	// LIKE wildcards.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	pattern := "%" + escaped + "%"
	var messages []models.Message
	err := database.DB.
		Where(`(sender_id = ? OR recipient_id = ?) AND LOWER(text) LIKE ? ESCAPE '\'`, userID, userID, pattern).
		Order("created_at desc").
		Order("id desc").
		Find(&messages).Error
	if err != nil {
		return nil, storageError(err)
	}

	hidden, err := hiddenSinceMap(database.DB, userID)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Message, 0, len(messages))
	for _, message := range messages {
		counterpartID := message.SenderID
		if counterpartID == userID {
			counterpartID = message.RecipientID
		}
		if isHiddenAt(hidden[counterpartID], message.CreatedAt) {
			continue
		}
		visible = append(visible, message)
	}
	return visible, nil
}

// DeleteConversation removes the conversation from the caller's directory
// and chat views only. The counterpart keeps their full copy.
func DeleteConversation(userID, counterpartID uuid.UUID) error {
	return HideConversation(userID, counterpartID)
}

// EraseConversation hard-removes the pair's history for both sides, plus
// the now-pointless visibility flags. Reserved for the administrative and
// legal erase path; ordinary deletion goes through DeleteConversation.
func EraseConversation(userA, userB uuid.UUID) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := DeleteBetween(tx, userA, userB); err != nil {
			return err
		}
		err := tx.
			Where("(user_id = ? AND counterpart_id = ?) OR (user_id = ? AND counterpart_id = ?)",
				userA, userB, userB, userA).
			Delete(&models.ConversationVisibility{}).Error
		if err != nil {
			return storageError(err)
		}
		return nil
	})
}

// resolveRecipient accepts either an email address or a user id, matching
// the two ways the client starts a chat.
func resolveRecipient(recipient string) (*models.User, error) {
	recipient = strings.TrimSpace(recipient)

	var user models.User
	if strings.Contains(recipient, "@") {
		err := database.DB.Where("email = ?", recipient).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		if err != nil {
			return nil, storageError(err)
		}
	} else {
		id, err := uuid.Parse(recipient)
		if err != nil {
			return nil, ErrRecipientNotFound
		}
		err = database.DB.Where("id = ?", id).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		if err != nil {
			return nil, storageError(err)
		}
	}

	if !user.IsActive {
		return nil, ErrRecipientNotFound
	}
	return &user, nil
}
