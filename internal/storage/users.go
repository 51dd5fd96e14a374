package storage

import (
	"chatline/backend/internal/models"
	"context"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListUsers returns every user except excludeID, ordered by name. A non-blank
// search matches name or email as a case-insensitive substring.
func (s *Service) ListUsers(ctx context.Context, excludeID uint, search string) ([]models.User, error) {
	query := s.DB.WithContext(ctx).Where("id <> ?", excludeID)

	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var users []models.User
	if err := query.Order("name ASC").Order("id ASC").Find(&users).Error; err != nil {
		s.Log.Error("storage: failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetUserByID returns ErrNotFound when the user does not exist.
func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// CountUsers counts how many of the given ids exist.
func (s *Service) CountUsers(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// CreateUser inserts a user. Used by the admin CLI and tests.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}
