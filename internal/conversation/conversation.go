// Package conversation implements the chat lifecycle: creating private and
// group chats, de-duplicating private chats, and listing a caller's chats.
package conversation

import (
	"chatline/backend/internal/apperr"
	"chatline/backend/internal/config"
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"chatline/backend/internal/validation"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
)

// CreateInput is the request to open a chat with MemberIDs. The caller is
// added implicitly and must not be listed.
type CreateInput struct {
	Type      string  `json:"type" validate:"required,oneof=private group"`
	Name      *string `json:"name"`
	MemberIDs []uint  `json:"users" validate:"required,min=1,unique,dive,required"`
}

var createMessages = validation.Messages{
	"users.required":   "At least one user must be selected",
	"users.min":        "At least one user must be selected",
	"users.unique":     "The selected users must be distinct",
	"users.*.required": "The selected user does not exist",
	"type.oneof":       "Chat type must be private or group",
}

// Service handles chat creation and listing.
type Service struct {
	Storage storage.Storage
	Log     *slog.Logger
}

// NewService creates a new chat lifecycle service.
func NewService(s storage.Storage, log *slog.Logger) *Service {
	return &Service{Storage: s, Log: log}
}

// Create opens a chat. Creating a private chat for a pair that already has
// one returns that chat with Existing set instead of failing.
func (s *Service) Create(ctx context.Context, callerID uint, in CreateInput) (*models.ChatView, error) {
	in.Name = normalizeName(in.Name)
	if err := validateCreate(callerID, in); err != nil {
		return nil, err
	}

	found, err := s.Storage.CountUsers(ctx, in.MemberIDs)
	if err != nil {
		return nil, apperr.Storage("count users", err)
	}
	if found != int64(len(in.MemberIDs)) {
		return nil, &apperr.ValidationError{
			Message: "The selected user does not exist",
			Fields:  map[string]string{"users": "The selected user does not exist"},
		}
	}

	chat := &models.Chat{
		Type:      models.ChatType(in.Type),
		Name:      in.Name,
		CreatedBy: callerID,
	}

	if chat.IsPrivate() {
		key := models.PrivatePairKey(callerID, in.MemberIDs[0])
		existing, err := s.findPrivate(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.Log.Debug("conversation: private chat already exists", "chat_id", existing.ID)
			return s.existing(ctx, callerID, *existing)
		}
		chat.PairKey = &key
	}

	members := append([]uint{callerID}, in.MemberIDs...)
	err = s.Storage.CreateChat(ctx, chat, members)
	if errors.Is(err, storage.ErrDuplicatePair) {
		// Lost a race with a concurrent create for the same pair.
		existing, err := s.findPrivate(ctx, *chat.PairKey)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperr.Storage("create chat", storage.ErrDuplicatePair)
		}
		return s.existing(ctx, callerID, *existing)
	}
	if err != nil {
		return nil, apperr.Storage("create chat", err)
	}

	s.Log.Info("conversation: chat created", "chat_id", chat.ID, "type", chat.Type, "created_by", callerID)

	views, err := s.views(ctx, callerID, []models.Chat{*chat})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns the caller's chats, most recently active first.
func (s *Service) List(ctx context.Context, callerID uint) ([]models.ChatView, error) {
	chats, err := s.Storage.ListChatsForUser(ctx, callerID)
	if err != nil {
		return nil, apperr.Storage("list chats", err)
	}
	return s.views(ctx, callerID, chats)
}

// Get returns one chat the caller belongs to, shaped like a List entry.
func (s *Service) Get(ctx context.Context, callerID, chatID uint) (*models.ChatView, error) {
	chat, err := Authorize(ctx, s.Storage, callerID, chatID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, callerID, []models.Chat{*chat})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Authorize loads a chat and checks the caller belongs to it. A missing chat
// is ErrNotFound, an existing chat the caller is not in is ErrForbidden.
func Authorize(ctx context.Context, s storage.Storage, callerID, chatID uint) (*models.Chat, error) {
	chat, err := s.GetChat(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("chat")
	}
	if err != nil {
		return nil, apperr.Storage("get chat", err)
	}

	member, err := s.IsMember(ctx, chatID, callerID)
	if err != nil {
		return nil, apperr.Storage("check membership", err)
	}
	if !member {
		return nil, apperr.Forbidden("you are not a member of this chat")
	}
	return chat, nil
}

func (s *Service) findPrivate(ctx context.Context, key string) (*models.Chat, error) {
	chat, err := s.Storage.FindPrivateChat(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("find private chat", err)
	}
	return chat, nil
}

func (s *Service) existing(ctx context.Context, callerID uint, chat models.Chat) (*models.ChatView, error) {
	views, err := s.views(ctx, callerID, []models.Chat{chat})
	if err != nil {
		return nil, err
	}
	views[0].Existing = true
	return &views[0], nil
}

// views attaches the non-caller members, message count, last message and
// display name to each chat.
func (s *Service) views(ctx context.Context, callerID uint, chats []models.Chat) ([]models.ChatView, error) {
	ids := lo.Map(chats, func(c models.Chat, _ int) uint { return c.ID })

	others, err := s.Storage.ListParticipants(ctx, ids, callerID)
	if err != nil {
		return nil, apperr.Storage("list participants", err)
	}
	counts, err := s.Storage.CountMessages(ctx, ids)
	if err != nil {
		return nil, apperr.Storage("count messages", err)
	}
	last, err := s.Storage.LastMessages(ctx, ids)
	if err != nil {
		return nil, apperr.Storage("last messages", err)
	}

	return lo.Map(chats, func(chat models.Chat, _ int) models.ChatView {
		view := NewView(chat, others[chat.ID])
		view.MessagesCount = counts[chat.ID]
		if msg, ok := last[chat.ID]; ok {
			view.LastMessage = &msg
		}
		return view
	}), nil
}

// NewView builds the caller-facing shape of a chat from its members.
func NewView(chat models.Chat, members []models.Participant) models.ChatView {
	if members == nil {
		members = []models.Participant{}
	}
	return models.ChatView{
		ID:        chat.ID,
		Type:      chat.Type,
		Name:      DisplayName(chat, members),
		CreatedBy: chat.CreatedBy,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		Users:     members,
	}
}

func validateCreate(callerID uint, in CreateInput) error {
	if err := validation.Struct(in, createMessages); err != nil {
		return err
	}
	if in.Name != nil {
		tag := fmt.Sprintf("min=%d,max=%d", config.GroupNameMin, config.GroupNameMax)
		err := validation.Var("name", *in.Name, tag, validation.Messages{
			"name.min": fmt.Sprintf("Group name must be at least %d characters", config.GroupNameMin),
		})
		if err != nil {
			return err
		}
	}
	if lo.Contains(in.MemberIDs, callerID) {
		return apperr.Invalid("You cannot add yourself to the chat")
	}
	if models.ChatType(in.Type) == models.ChatTypePrivate && len(in.MemberIDs) != 1 {
		return apperr.Invalid("Private chat requires exactly one user")
	}
	return nil
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
