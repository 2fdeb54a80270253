package models

import "time"

// Application - заявка на стажировку. Одна на пользователя, не изменяется после отправки.
type Application struct {
	ID         int         `json:"id" db:"id"`
	UserID     int         `json:"user_id" db:"user_id"`
	FullName   string      `json:"full_name" db:"full_name"`
	Email      string      `json:"email" db:"email"`
	Phone      string      `json:"phone" db:"phone"`
	Direction  TestOutcome `json:"direction" db:"direction"`
	Motivation *string     `json:"motivation" db:"motivation"`
	ResumePath *string     `json:"resume_path" db:"resume_path"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	UserEmail string `json:"user_email,omitempty" db:"-"`
}
