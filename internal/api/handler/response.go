package handler

import (
	"chatline/backend/internal/apperr"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data"`
	Count   *int              `json:"count,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondList(c *gin.Context, message string, data any, count int) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data, Count: &count})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// fail maps a service error onto a status code and an error envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, envelope{Message: verr.Error(), Errors: verr.Fields})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, envelope{Message: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, envelope{Message: capitalize(err.Error())})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, envelope{Message: "You do not have access to this chat"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, envelope{Message: "Unauthenticated."})
	default:
		h.Log.Error("request failed", "path", c.FullPath(), "error", err)
		body := envelope{Message: "Server error"}
		if h.Debug {
			body.Error = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// pathID parses a positive numeric path parameter. ok is false when the
// parameter is malformed, in which case a 404 has already been written.
func pathID(c *gin.Context, name, entity string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, envelope{Message: capitalize(entity) + " not found"})
		return 0, false
	}
	return uint(id), true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
