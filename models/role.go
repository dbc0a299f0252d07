package models

import "github.com/google/uuid"

// Role represents a user role within the platform.
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"unique;not null" json:"name"`
}

const (
	RoleUser      = "User"
	RoleAdmin     = "Admin"
	RoleAnonymous = "Anonymous"
)
