package storage

import (
	"chatline/backend/internal/models"
	"context"
)

// IsMember reports whether userID belongs to chatID.
func (s *Service) IsMember(ctx context.Context, chatID, userID uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.ChatUser{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type participantRow struct {
	ChatID uint
	ID     uint
	Name   string
	Email  string
}

// ListParticipants returns the members of each chat keyed by chat id, leaving
// out excludeID. Pass 0 to get the full membership.
func (s *Service) ListParticipants(ctx context.Context, chatIDs []uint, excludeID uint) (map[uint][]models.Participant, error) {
	result := make(map[uint][]models.Participant, len(chatIDs))
	if len(chatIDs) == 0 {
		return result, nil
	}

	var rows []participantRow
	err := s.DB.WithContext(ctx).Table("chat_users").
		Select("chat_users.chat_id, users.id, users.name, users.email").
		Joins("JOIN users ON users.id = chat_users.user_id").
		Where("chat_users.chat_id IN ?", chatIDs).
		Where("users.id <> ?", excludeID).
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		s.Log.Error("storage: failed to list participants", "error", err)
		return nil, err
	}

	for _, row := range rows {
		result[row.ChatID] = append(result[row.ChatID], models.Participant{
			ID:    row.ID,
			Name:  row.Name,
			Email: row.Email,
		})
	}
	return result, nil
}
