package storage

import (
	"chatline/backend/internal/models"
	"context"
	"errors"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GetChat returns ErrNotFound when the chat does not exist.
func (s *Service) GetChat(ctx context.Context, chatID uint) (*models.Chat, error) {
	var chat models.Chat
	if err := s.DB.WithContext(ctx).First(&chat, chatID).Error; err != nil {
		return nil, notFound(err)
	}
	return &chat, nil
}

// FindPrivateChat looks a private chat up by its normalised member pair.
func (s *Service) FindPrivateChat(ctx context.Context, pairKey string) (*models.Chat, error) {
	var chat models.Chat
	err := s.DB.WithContext(ctx).
		Where("type = ? AND pair_key = ?", models.ChatTypePrivate, pairKey).
		First(&chat).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &chat, nil
}

// CreateChat inserts the chat and one membership row per member in a single
// transaction. Either everything is committed or nothing is. A private chat
// whose pair already exists fails with ErrDuplicatePair.
func (s *Service) CreateChat(ctx context.Context, chat *models.Chat, memberIDs []uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}

		members := lo.Map(lo.Uniq(memberIDs), func(userID uint, _ int) models.ChatUser {
			return models.ChatUser{ChatID: chat.ID, UserID: userID}
		})
		return tx.Create(&members).Error
	})
	if err != nil {
		chat.ID = 0
		if errors.Is(err, gorm.ErrDuplicatedKey) && chat.PairKey != nil {
			return ErrDuplicatePair
		}
		s.Log.Error("storage: failed to create chat", "type", chat.Type, "error", err)
		return err
	}
	return nil
}

// ListChatsForUser returns the chats userID belongs to, most recently updated first.
func (s *Service) ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.DB.WithContext(ctx).
		Select("chats.*").
		Joins("JOIN chat_users ON chat_users.chat_id = chats.id AND chat_users.user_id = ?", userID).
		Order("chats.updated_at DESC").
		Order("chats.id DESC").
		Find(&chats).Error
	if err != nil {
		s.Log.Error("storage: failed to list chats", "user_id", userID, "error", err)
		return nil, err
	}
	return chats, nil
}
