package conversation_test

import (
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStorage mocks the storage methods the chat lifecycle touches. Calling
// any other storage.Storage method panics on the nil embedded interface.
type MockStorage struct {
	mock.Mock
	storage.Storage
}

func (m *MockStorage) CountUsers(ctx context.Context, ids []uint) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) FindPrivateChat(ctx context.Context, pairKey string) (*models.Chat, error) {
	args := m.Called(ctx, pairKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockStorage) CreateChat(ctx context.Context, chat *models.Chat, memberIDs []uint) error {
	args := m.Called(ctx, chat, memberIDs)
	return args.Error(0)
}

func (m *MockStorage) ListParticipants(ctx context.Context, chatIDs []uint, excludeID uint) (map[uint][]models.Participant, error) {
	args := m.Called(ctx, chatIDs, excludeID)
	return args.Get(0).(map[uint][]models.Participant), args.Error(1)
}

func (m *MockStorage) CountMessages(ctx context.Context, chatIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, chatIDs)
	return args.Get(0).(map[uint]int64), args.Error(1)
}

func (m *MockStorage) LastMessages(ctx context.Context, chatIDs []uint) (map[uint]models.LastMessage, error) {
	args := m.Called(ctx, chatIDs)
	return args.Get(0).(map[uint]models.LastMessage), args.Error(1)
}
