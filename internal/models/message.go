package models

import "time"

// Message is a chat message. Messages are never updated or deleted.
type Message struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	ChatID uint `gorm:"not null;index:idx_chat_created" json:"chat_id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Content is the message body, at most config.MaxMessageLength characters.
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_chat_created" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty"`
	Chat *Chat `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
