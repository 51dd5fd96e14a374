// Package directory provides read-only access to registered accounts.
package directory

import (
	"chatline/backend/internal/apperr"
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"context"
	"errors"
	"log/slog"
)

// Service lists and fetches users on behalf of a caller.
type Service struct {
	Storage storage.Storage
	Log     *slog.Logger
}

// NewService creates a new directory service.
func NewService(s storage.Storage, log *slog.Logger) *Service {
	return &Service{Storage: s, Log: log}
}

// List returns every user except the caller, ordered by name. A non-blank
// search narrows the list to names or emails containing it.
func (s *Service) List(ctx context.Context, callerID uint, search string) ([]models.User, error) {
	users, err := s.Storage.ListUsers(ctx, callerID, search)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return users, nil
}

// Get returns another user. The caller's own id is reported as not found;
// Me is the way to read the caller's own account.
func (s *Service) Get(ctx context.Context, id, callerID uint) (*models.User, error) {
	if id == callerID {
		return nil, apperr.NotFound("user")
	}
	return s.lookup(ctx, id, apperr.NotFound("user"))
}

// Me returns the caller's account. A token for a vanished account is unauthorized.
func (s *Service) Me(ctx context.Context, callerID uint) (*models.User, error) {
	return s.lookup(ctx, callerID, apperr.ErrUnauthorized)
}

func (s *Service) lookup(ctx context.Context, id uint, missing error) (*models.User, error) {
	user, err := s.Storage.GetUserByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, missing
	}
	if err != nil {
		s.Log.Error("directory: failed to fetch user", "user_id", id, "error", err)
		return nil, apperr.Storage("get user", err)
	}
	return user, nil
}
