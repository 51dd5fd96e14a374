package storage

import (
	"chatline/backend/internal/models"
	"context"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type messageCount struct {
	ChatID uint
	Total  int64
}

// CountMessages returns the number of messages per chat.
func (s *Service) CountMessages(ctx context.Context, chatIDs []uint) (map[uint]int64, error) {
	if len(chatIDs) == 0 {
		return map[uint]int64{}, nil
	}

	var rows []messageCount
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Select("chat_id, COUNT(*) AS total").
		Where("chat_id IN ?", chatIDs).
		Group("chat_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return lo.SliceToMap(rows, func(row messageCount) (uint, int64) {
		return row.ChatID, row.Total
	}), nil
}

// LastMessages returns the newest message of every chat that has one.
func (s *Service) LastMessages(ctx context.Context, chatIDs []uint) (map[uint]models.LastMessage, error) {
	if len(chatIDs) == 0 {
		return map[uint]models.LastMessage{}, nil
	}

	db := s.DB.WithContext(ctx)
	newest := db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("chat_id IN ?", chatIDs).
		Group("chat_id")

	var messages []models.Message
	if err := db.Where("id IN (?)", newest).Find(&messages).Error; err != nil {
		return nil, err
	}
	return lo.SliceToMap(messages, func(m models.Message) (uint, models.LastMessage) {
		return m.ChatID, models.LastMessage{
			ID:        m.ID,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			UserID:    m.UserID,
		}
	}), nil
}

// ListMessages returns a chat's messages, oldest first, with authors loaded.
func (s *Service) ListMessages(ctx context.Context, chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.WithContext(ctx).
		Preload("User").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		s.Log.Error("storage: failed to list messages", "chat_id", chatID, "error", err)
		return nil, err
	}
	return messages, nil
}

// CreateMessage stores the message and moves the chat's updated_at to the
// message time in the same transaction, then loads the author.
func (s *Service) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Chat").Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", msg.ChatID).
			UpdateColumn("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		s.Log.Error("storage: failed to save message", "chat_id", msg.ChatID, "error", err)
		return err
	}

	author, err := s.GetUserByID(ctx, msg.UserID)
	if err != nil {
		return err
	}
	msg.User = author
	return nil
}

// PublishMessage publishes a stored message on the chat's Redis channel.
// Without a Redis client it is a no-op.
func (s *Service) PublishMessage(ctx context.Context, msg models.Message) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, ChatChannel(msg.ChatID), payload).Err()
}

// ChatChannel is the Redis pub/sub channel for a chat.
func ChatChannel(chatID uint) string {
	return fmt.Sprintf("chat:%d", chatID)
}
