package handler

import (
	"chatline/backend/internal/apperr"
	"chatline/backend/internal/conversation"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// messageRequest accepts the body under either "content" or "message".
type messageRequest struct {
	Content *string `json:"content"`
	Message *string `json:"message"`
}

func (r messageRequest) body() string {
	if r.Content != nil {
		return *r.Content
	}
	if r.Message != nil {
		return *r.Message
	}
	return ""
}

func (h *Handler) ListMessages(c *gin.Context) {
	chatID, ok := pathID(c, "chatId", "chat")
	if !ok {
		return
	}
	result, err := h.Messages.List(c.Request.Context(), callerID(c), chatID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Messages retrieved successfully", result)
}

func (h *Handler) CreateMessage(c *gin.Context) {
	chatID, ok := pathID(c, "chatId", "chat")
	if !ok {
		return
	}
	// An empty body is left to Append, which checks access before content.
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		if _, err := conversation.Authorize(c.Request.Context(), h.Messages.Storage, callerID(c), chatID); err != nil {
			h.fail(c, err)
			return
		}
		h.fail(c, apperr.Invalid("The request body is not valid JSON."))
		return
	}

	msg, err := h.Messages.Append(c.Request.Context(), callerID(c), chatID, req.body())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Message sent successfully", msg)
}
