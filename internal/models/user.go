package models

import "time"

// User represents a registered account. Users are created once at
// registration and never updated or deleted afterwards.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	FullName     string    `json:"full_name" gorm:"type:varchar(200)" validate:"required,max=200"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(200)" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"`
	Role         string    `json:"role" gorm:"type:varchar(50)" validate:"required,oneof=Admin User"`
	CreatedAt    time.Time `json:"created_at"`
}
