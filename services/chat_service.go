package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hamboms/kbob-dating-app/broadcast"
	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/store"
	"github.com/hamboms/kbob-dating-app/utils"
)

// ChatService handles the ephemeral chat attached to a match: history,
// sending and the leave teardown that dissolves the match itself.
type ChatService struct {
	Messages  store.MessageStore
	Ledger    store.InteractionStore
	Broadcast broadcast.Publisher

	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RoomHistory returns the room's messages oldest first. Only the two
// users named by the room id may read it.
func (s *ChatService) RoomHistory(ctx context.Context, roomID, callerID string) ([]models.ChatMessage, error) {
	if err := s.authorize(roomID, callerID); err != nil {
		return nil, err
	}
	messages, err := s.Messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	// Sort on the real timestamp; the store's id order breaks ties.
	sort.SliceStable(messages, func(i, j int) bool {
		return models.ParseTime(messages[i].CreatedAt).Before(models.ParseTime(messages[j].CreatedAt))
	})
	return messages, nil
}

// SendMessage persists a message and then fans it out to connected
// clients. The fan-out is best-effort: a dropped broadcast never undoes
// or hides a stored message.
func (s *ChatService) SendMessage(ctx context.Context, roomID, authorID, authorName, text string) (*models.ChatMessage, error) {
	if err := s.authorize(roomID, authorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", models.ErrInvalidInput)
	}

	msg := &models.ChatMessage{
		RoomID:     roomID,
		MessageID:  newMessageID(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  models.FormatTime(s.now()),
	}
	if err := s.Messages.Put(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	if err := s.Broadcast.Publish(ctx, roomID, "new-message", msg); err != nil {
		log.Printf("Failed to broadcast message %s to room %s: %v", msg.MessageID, roomID, err)
	}
	return msg, nil
}

// LeaveChat tears the room down for both sides: the like rows in both
// directions and every message go. Each step deletes rows that may
// already be gone, so calling it twice is harmless.
func (s *ChatService) LeaveChat(ctx context.Context, userID, partnerID string) error {
	roomID, err := utils.RoomID(userID, partnerID)
	if err != nil {
		return err
	}
	if err := s.Ledger.DeleteLikePair(ctx, userID, partnerID); err != nil {
		return fmt.Errorf("failed to dissolve match: %w", err)
	}
	if err := s.Messages.DeleteRoom(ctx, roomID); err != nil {
		return fmt.Errorf("failed to delete room messages: %w", err)
	}
	return nil
}

func (s *ChatService) authorize(roomID, userID string) error {
	a, b, err := utils.SplitRoomID(roomID)
	if err != nil {
		return err
	}
	if userID != a && userID != b {
		return fmt.Errorf("%w: not a participant of this chat", models.ErrForbidden)
	}
	return nil
}

// newMessageID returns a time-ordered id so the message table's sort key
// follows insertion order.
func newMessageID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
