package services

import "errors"

// Общие ошибки сервисов. Handlers маппят их на HTTP-статусы и поле "kind".
var (
	ErrNotFound = errors.New("requested resource not found")

	// Валидация
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrInvalidFile      = errors.New("invalid file")

	// Идемпотентность
	ErrAlreadyCompleted = errors.New("already completed")
	ErrAlreadyClaimed   = errors.New("prize already claimed")
	ErrAlreadyExists    = errors.New("already exists")

	// Бизнес-правила
	ErrOutOfStock        = errors.New("prize is out of stock")
	ErrInsufficientFunds = errors.New("not enough points")

	// Аутентификация и авторизация
	ErrAuthenticationFailed   = errors.New("authentication failed")
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email address is already in use")
	ErrUserInactive           = errors.New("user account is inactive")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Store gave up after bounded retries (lock conflicts, deadlocks).
	ErrTransient = errors.New("temporary failure, please retry")
)
