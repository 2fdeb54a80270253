package models

import "time"

// User - участник мероприятия или администратор.
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"is_admin" db:"is_admin"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Progress *Progress `json:"progress,omitempty" db:"-"`
}

// UserSummary is the admin list row.
type UserSummary struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
