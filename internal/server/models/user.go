// Package models holds the records persisted by the development server.
package models

import "time"

// User is a registered account. Email is unique.
type User struct {
	ID           int64
	Email        string
	Name         string
	Phone        string
	Image        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// ProfileUpdate is a partial profile change; nil fields are left as they are.
type ProfileUpdate struct {
	Image *string
	Phone *string
}
