package storage

import (
	"chatline/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicatePair = errors.New("private chat for this pair already exists")
)

type Storage interface {
	ListUsers(ctx context.Context, excludeID uint, search string) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CountUsers(ctx context.Context, ids []uint) (int64, error)
	CreateUser(ctx context.Context, user *models.User) error

	GetChat(ctx context.Context, chatID uint) (*models.Chat, error)
	FindPrivateChat(ctx context.Context, pairKey string) (*models.Chat, error)
	CreateChat(ctx context.Context, chat *models.Chat, memberIDs []uint) error
	ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error)

	IsMember(ctx context.Context, chatID, userID uint) (bool, error)
	ListParticipants(ctx context.Context, chatIDs []uint, excludeID uint) (map[uint][]models.Participant, error)

	CountMessages(ctx context.Context, chatIDs []uint) (map[uint]int64, error)
	LastMessages(ctx context.Context, chatIDs []uint) (map[uint]models.LastMessage, error)
	ListMessages(ctx context.Context, chatID uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error

	PublishMessage(ctx context.Context, msg models.Message) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Log   *slog.Logger
}

// NewStorageService Constructor. rdb may be nil, which disables publishing.
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		DB:    db,
		Redis: rdb,
		Log:   log,
	}
}

// GormConfig is the configuration every connection is opened with.
// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	}
}

// OpenPostgres connects to PostgreSQL and sizes the pool.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig(logger.Warn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func (s *Service) Migrate(ctx context.Context) error {
	err := s.DB.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatUser{},
		&models.Message{},
	)
	if err != nil {
		s.Log.Error("storage: migration failed", "error", err)
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the database and Redis connections.
func (s *Service) Close() error {
	var errs []error
	if sqlDB, err := s.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	return errors.Join(errs...)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
