package config

const (
	// Messages
	MaxMessageLength = 1000

	// Chats
	GroupNameMin            = 2
	GroupNameMax            = 100
	PrivateChatFallbackName = "Private Chat"
)
