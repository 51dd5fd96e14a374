package main

import (
	"chatline/backend/internal/auth"
	"chatline/backend/internal/config"
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const usage = `Usage: admin <command> [args]

Commands:
  migrate                     create or update the schema
  create-user <name> <email>  add a user to the directory
  token <user_id>             print a bearer token for a user`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes one command. Connections opened here are closed before it returns.
func run(command string, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	ctx := context.Background()

	switch command {
	case "migrate":
		s, err := open(cfg, log)
		if err != nil {
			return err
		}
		defer closeStorage(s, log)
		if err := s.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("Schema is up to date.")
	case "create-user":
		if len(args) != 2 {
			return errors.New("usage: admin create-user <name> <email>")
		}
		s, err := open(cfg, log)
		if err != nil {
			return err
		}
		defer closeStorage(s, log)
		user, err := createUser(ctx, s, args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Printf("User %d (%s) has been created.\n", user.ID, user.Email)
	case "token":
		if len(args) != 1 {
			return errors.New("usage: admin token <user_id>")
		}
		token, err := issueToken(cfg, args[0])
		if err != nil {
			return err
		}
		fmt.Println(token)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
	return nil
}

func open(cfg *config.Config, log *slog.Logger) (*storage.Service, error) {
	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return storage.NewStorageService(db, nil, log), nil // No redis needed for admin CLI
}

func closeStorage(s *storage.Service, log *slog.Logger) {
	if err := s.Close(); err != nil {
		log.Warn("failed to close database", "error", err)
	}
}

func issueToken(cfg *config.Config, raw string) (string, error) {
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || userID == 0 {
		return "", errors.New("invalid user ID, please provide a positive integer")
	}
	return auth.GenerateToken(cfg.JWTSecret, uint(userID), cfg.TokenTTL)
}

func createUser(ctx context.Context, s storage.Storage, name, email string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}
	user := &models.User{Name: name, Email: strings.ToLower(email)}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
