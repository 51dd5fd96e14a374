package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	user, err := h.Users.Me(c.Request.Context(), callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", user)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context(), callerID(c), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respondList(c, "Users retrieved successfully", users, len(users))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.Users.Get(c.Request.Context(), id, callerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "User retrieved successfully", user)
}
