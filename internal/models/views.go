package models

import "time"

// Participant is the public slice of a User shown inside chats.
type Participant struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LastMessage is the preview attached to a chat listing.
type LastMessage struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
}

// ChatView is a chat as seen by one caller.
type ChatView struct {
	ID            uint          `json:"id"`
	Type          ChatType      `json:"type"`
	Name          *string       `json:"name"`
	CreatedBy     uint          `json:"created_by"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Users         []Participant `json:"users"`
	MessagesCount int64         `json:"messages_count"`
	LastMessage   *LastMessage  `json:"last_message"`

	// Existing is set when a private create returned an already existing chat.
	Existing bool `json:"-"`
}

// ChatMessages is a chat with its full membership and message history.
type ChatMessages struct {
	Chat     ChatView  `json:"chat"`
	Messages []Message `json:"messages"`
}
