package handler

import (
	"chatline/backend/internal/apperr"
	"chatline/backend/internal/conversation"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListChats(c *gin.Context) {
	chats, err := h.Chats.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondList(c, "Chats retrieved successfully", chats, len(chats))
}

// CreateChat answers 201 for a new chat and 200 when an existing private
// chat with the same member is returned.
func (h *Handler) CreateChat(c *gin.Context) {
	var in conversation.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperr.Invalid("The request body is not valid JSON."))
		return
	}

	chat, err := h.Chats.Create(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	if chat.Existing {
		respond(c, http.StatusOK, "Chat already exists", chat)
		return
	}
	respond(c, http.StatusCreated, "Chat created successfully", chat)
}

func (h *Handler) GetChat(c *gin.Context) {
	chatID, ok := pathID(c, "chatId", "chat")
	if !ok {
		return
	}
	chat, err := h.Chats.Get(c.Request.Context(), callerID(c), chatID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Chat retrieved successfully", chat)
}
