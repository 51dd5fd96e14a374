// Package storagetest opens throwaway SQLite-backed storage for tests.
package storagetest

import (
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenDB opens a private in-memory SQLite database. The pool is limited to a
// single connection so every query sees the same database.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), storage.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// New returns a migrated storage service without Redis.
func New(t testing.TB) *storage.Service {
	t.Helper()

	s := storage.NewStorageService(OpenDB(t), nil, Logger())
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// SeedUser creates a user and returns it.
func SeedUser(t testing.TB, s storage.Storage, name, email string) models.User {
	t.Helper()

	user := models.User{Name: name, Email: email}
	require.NoError(t, s.CreateUser(context.Background(), &user))
	return user
}
