package models

import (
	"fmt"
	"time"
)

// ChatType distinguishes two-person chats from named groups.
type ChatType string

const (
	ChatTypePrivate ChatType = "private"
	ChatTypeGroup   ChatType = "group"
)

// Chat is a conversation. Membership lives in ChatUser.
type Chat struct {
	ID   uint     `gorm:"primaryKey" json:"id"`
	Type ChatType `gorm:"size:16;not null;index" json:"type"`
	// Name is optional. For private chats the display name is derived from
	// the other member when Name is empty.
	Name *string `gorm:"size:100" json:"name"`
	// PairKey is the normalised member pair of a private chat and NULL for
	// groups. Its unique index keeps one private chat per pair.
	PairKey   *string   `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// IsPrivate reports whether the chat is a two-person chat.
func (c Chat) IsPrivate() bool {
	return c.Type == ChatTypePrivate
}

// PrivatePairKey returns the order-independent key for a pair of users.
func PrivatePairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
