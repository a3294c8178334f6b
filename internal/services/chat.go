package services

import (
	"context"
	"fmt"
	"strings"

	"robeurope-backend/internal/models"
	"robeurope-backend/internal/store"
	"robeurope-backend/internal/ws"
)

// ChatService handles send/fetch/react for team and competition chat rooms.
// Persistence goes through the external stores; a message is only broadcast
// after its write succeeded.
type ChatService struct {
	messages  store.MessageStore
	reactions store.ReactionStore
	authz     store.MembershipAuthorizer
	hub       *ws.Hub
}

func NewChatService(messages store.MessageStore, reactions store.ReactionStore, authz store.MembershipAuthorizer, hub *ws.Hub) *ChatService {
	return &ChatService{messages: messages, reactions: reactions, authz: authz, hub: hub}
}

func (s *ChatService) SendMessage(ctx context.Context, room ws.RoomKey, sender ws.Identity, content string, attachments []models.Attachment) (*models.Message, error) {
	ok, err := s.authz.IsMember(ctx, room, sender.UserID)
	if err != nil {
		return nil, fmt.Errorf("membership check: %w", err)
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	if strings.TrimSpace(content) == "" && len(attachments) == 0 {
		return nil, &ValidationError{Reason: "message needs text or at least one attachment"}
	}

	msg := &models.Message{
		RoomKind:    string(room.Kind),
		RoomID:      room.EntityID,
		AuthorID:    sender.UserID,
		AuthorName:  sender.DisplayName,
		Content:     content,
		Attachments: attachments,
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		// fail closed: an unpersisted message is never broadcast
		return nil, err
	}

	msg.Reactions = []models.Reaction{}
	s.hub.Broadcast(room, ws.WSMessage{
		Type: fmt.Sprintf("%s_message", room.Kind),
		Data: msg,
	})
	return msg, nil
}

// ReactionEvent is the broadcast payload for a reaction toggle.
type ReactionEvent struct {
	MessageID uint   `json:"message_id"`
	UserID    uint   `json:"user_id"`
	Emoji     string `json:"emoji"`
}

func (s *ChatService) ToggleReaction(ctx context.Context, messageID, userID uint, emoji string) (bool, error) {
	if emoji == "" {
		return false, &ValidationError{Reason: "emoji required"}
	}

	msg, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, &ValidationError{Reason: "message not found"}
	}

	added, err := s.reactions.ToggleReaction(ctx, messageID, userID, emoji)
	if err != nil {
		return false, err
	}

	event := fmt.Sprintf("%s_reaction_removed", msg.RoomKind)
	if added {
		event = fmt.Sprintf("%s_reaction_added", msg.RoomKind)
	}
	s.hub.Broadcast(ws.RoomKey{Kind: ws.RoomKind(msg.RoomKind), EntityID: msg.RoomID}, ws.WSMessage{
		Type: event,
		Data: ReactionEvent{MessageID: messageID, UserID: userID, Emoji: emoji},
	})
	return added, nil
}

// GetMessages fetches a reverse-chronological page from the store and returns
// it oldest first, ready to render as history.
func (s *ChatService) GetMessages(ctx context.Context, room ws.RoomKey, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	msgs, err := s.messages.ListMessages(ctx, room, limit, offset)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
