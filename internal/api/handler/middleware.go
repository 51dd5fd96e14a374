package handler

import (
	"chatline/backend/internal/auth"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey       = "user_id"
	requestIDHeader = "X-Request-ID"
)

// JwtAuth rejects requests without a valid bearer token and stores the
// caller's id in the context under "user_id".
func JwtAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		userID, err := auth.ValidateToken(secret, strings.TrimSpace(token))
		if err != nil {
			abort(c, http.StatusUnauthorized, "Unauthenticated.")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequestLogger stamps each request with an id and logs it once it completes.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		log.Info("http request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"user_id", c.GetUint(userIDKey),
		)
	}
}

func callerID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
