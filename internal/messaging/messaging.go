// Package messaging lists and appends messages in chats the caller belongs to.
package messaging

import (
	"chatline/backend/internal/apperr"
	"chatline/backend/internal/config"
	"chatline/backend/internal/conversation"
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"chatline/backend/internal/validation"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

// Publisher announces stored messages to other processes.
type Publisher interface {
	PublishMessage(ctx context.Context, msg models.Message) error
}

// Service handles message listing and posting.
type Service struct {
	Storage   storage.Storage
	Publisher Publisher
	Log       *slog.Logger
}

// NewService creates a new message service. pub may be nil.
func NewService(s storage.Storage, pub Publisher, log *slog.Logger) *Service {
	return &Service{Storage: s, Publisher: pub, Log: log}
}

// List returns the chat with its full membership and every message, oldest first.
func (s *Service) List(ctx context.Context, callerID, chatID uint) (*models.ChatMessages, error) {
	chat, err := conversation.Authorize(ctx, s.Storage, callerID, chatID)
	if err != nil {
		return nil, err
	}

	members, err := s.Storage.ListParticipants(ctx, []uint{chatID}, 0)
	if err != nil {
		return nil, apperr.Storage("list participants", err)
	}
	messages, err := s.Storage.ListMessages(ctx, chatID)
	if err != nil {
		return nil, apperr.Storage("list messages", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}

	view := conversation.NewView(*chat, members[chatID])
	others := lo.Reject(view.Users, func(p models.Participant, _ int) bool { return p.ID == callerID })
	view.Name = conversation.DisplayName(*chat, others)
	view.MessagesCount = int64(len(messages))
	if last, ok := lo.Last(messages); ok {
		view.LastMessage = &models.LastMessage{
			ID:        last.ID,
			Content:   last.Content,
			CreatedAt: last.CreatedAt,
			UserID:    last.UserID,
		}
	}

	return &models.ChatMessages{
		Chat:     view,
		Messages: messages,
	}, nil
}

// Append stores a message from the caller. The body is trimmed and must hold
// between 1 and config.MaxMessageLength characters.
func (s *Service) Append(ctx context.Context, callerID, chatID uint, body string) (*models.Message, error) {
	if _, err := conversation.Authorize(ctx, s.Storage, callerID, chatID); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	err := validation.Var("content", body, fmt.Sprintf("required,max=%d", config.MaxMessageLength), validation.Messages{
		"content.required": "The message content is required.",
		"content.max":      fmt.Sprintf("The message may not be greater than %d characters.", config.MaxMessageLength),
	})
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ChatID:  chatID,
		UserID:  callerID,
		Content: body,
	}
	if err := s.Storage.CreateMessage(ctx, msg); err != nil {
		return nil, apperr.Storage("create message", err)
	}

	if s.Publisher != nil {
		if err := s.Publisher.PublishMessage(ctx, *msg); err != nil {
			s.Log.Warn("messaging: failed to publish message", "chat_id", chatID, "message_id", msg.ID, "error", err)
		}
	}
	return msg, nil
}
