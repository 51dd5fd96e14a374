package models

import "time"

// User is a registered account. Accounts are owned by the identity subsystem;
// this service only reads them (the admin CLI can seed them).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
