// Package handler exposes the chat services over a JSON REST API.
package handler

import (
	"chatline/backend/internal/conversation"
	"chatline/backend/internal/directory"
	"chatline/backend/internal/messaging"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Handler holds the services behind the API routes.
type Handler struct {
	Users    *directory.Service
	Chats    *conversation.Service
	Messages *messaging.Service
	Secret   string
	Debug    bool
	Log      *slog.Logger
}

func NewHandler(users *directory.Service, chats *conversation.Service, messages *messaging.Service, secret string, debug bool, log *slog.Logger) *Handler {
	return &Handler{
		Users:    users,
		Chats:    chats,
		Messages: messages,
		Secret:   secret,
		Debug:    debug,
		Log:      log,
	}
}

// Register mounts every route under /api behind bearer authentication.
func (h *Handler) Register(r *gin.Engine) {
	r.Use(RequestLogger(h.Log), gin.Recovery())

	api := r.Group("/api")
	api.Use(JwtAuth(h.Secret))
	{
		api.GET("/user", h.Me)
		api.GET("/users", h.ListUsers)
		api.GET("/users/:id", h.GetUser)

		api.GET("/chats", h.ListChats)
		api.POST("/chats", h.CreateChat)
		api.GET("/chats/:chatId", h.GetChat)

		api.GET("/chats/:chatId/messages", h.ListMessages)
		api.POST("/chats/:chatId/messages", h.CreateMessage)
	}
}

// NewRouter builds a gin engine with the API registered.
func (h *Handler) NewRouter() *gin.Engine {
	r := gin.New()
	h.Register(r)
	return r
}
