package models

import "time"

// ChatUser is the membership join row. The composite primary key makes every
// (chat, user) pair unique.
type ChatUser struct {
	ChatID    uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"primaryKey;index"`
	CreatedAt time.Time
	Chat      *Chat `gorm:"constraint:OnDelete:CASCADE"`
	User      *User `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName pins the join table name.
func (ChatUser) TableName() string {
	return "chat_users"
}
