package models

import "time"

// User is a registered platform member. Only the fields the notification subsystem needs live
// here; profile and credential data belong to the authentication service.
type User struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}
