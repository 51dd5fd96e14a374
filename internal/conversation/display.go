package conversation

import (
	"chatline/backend/internal/config"
	"chatline/backend/internal/models"
	"strings"

	"github.com/samber/lo"
)

// DisplayName is the name a caller sees for a chat. An unnamed private chat
// takes the other member's name, or a fixed label when nobody else resolves.
// Group names are returned as stored, even when empty.
func DisplayName(chat models.Chat, others []models.Participant) *string {
	if !chat.IsPrivate() || (chat.Name != nil && strings.TrimSpace(*chat.Name) != "") {
		return chat.Name
	}
	if len(others) > 0 {
		return lo.ToPtr(others[0].Name)
	}
	return lo.ToPtr(config.PrivateChatFallbackName)
}
