package models

const (
	DefaultEventName   = "X5 Tech Career Day 2024"
	DefaultWelcomeText = "Добро пожаловать в X5 For Students! Пройдите задания и получите шанс на стажировку в X5 Tech."
)

type EventSettings struct {
	ID          int     `json:"id" db:"id"`
	EventName   string  `json:"event_name" db:"event_name"`
	WelcomeText *string `json:"welcome_text" db:"welcome_text"`
}

// Analytics - счётчики воронки для админки.
type Analytics struct {
	Registrations  int `json:"registrations"`
	TestsCompleted int `json:"tests_completed"`
	GamesCompleted int `json:"games_completed"`
	Applications   int `json:"applications"`
}
