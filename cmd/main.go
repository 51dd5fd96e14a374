package main

import (
	"chatline/backend/internal/api/handler"
	"chatline/backend/internal/config"
	"chatline/backend/internal/conversation"
	"chatline/backend/internal/directory"
	"chatline/backend/internal/messaging"
	"chatline/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("chatline backend stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)
	log.Info("starting chatline backend", "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. PostgreSQL
	db, err := storage.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	// 2. Redis, optional
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
	}

	s := storage.NewStorageService(db, rdb, log)
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn("failed to close connections", "error", err)
		}
	}()

	// 3. Migrations
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	log.Info("database ready", "redis", cfg.RedisEnabled())

	// 4. Services and routes
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handler.NewHandler(
		directory.NewService(s, log),
		conversation.NewService(s, log),
		messaging.NewService(s, s, log),
		cfg.JWTSecret,
		cfg.Debug,
		log,
	)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        h.NewRouter(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
