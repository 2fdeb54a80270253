package services

import "errors"

// Kind - машиночитаемый тип ошибки, уходит клиенту в поле "kind".
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInvalidChoice     Kind = "invalid_choice"
	KindInvalidFile       Kind = "invalid_file"
	KindAlreadyCompleted  Kind = "already_completed"
	KindAlreadyClaimed    Kind = "already_claimed"
	KindAlreadyExists     Kind = "already_exists"
	KindOutOfStock        Kind = "out_of_stock"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindNotFound          Kind = "not_found"
	KindAuth              Kind = "auth"
	KindForbidden         Kind = "forbidden"
	KindTransient         Kind = "transient"
	KindRateLimited       Kind = "rate_limited"
	KindInternal          Kind = "internal"
)

var kindBySentinel = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidChoice, KindInvalidChoice},
	{ErrInvalidFile, KindInvalidFile},
	{ErrValidationFailed, KindValidation},
	{ErrAlreadyCompleted, KindAlreadyCompleted},
	{ErrAlreadyClaimed, KindAlreadyClaimed},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrAuthEmailTaken, KindAlreadyExists},
	{ErrOutOfStock, KindOutOfStock},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrNotFound, KindNotFound},
	{ErrAuthenticationFailed, KindAuth},
	{ErrAuthInvalidCredentials, KindAuth},
	{ErrUserInactive, KindForbidden},
	{ErrForbiddenOperation, KindForbidden},
	{ErrTransient, KindTransient},
}

// ErrorKind returns the kind of the first known sentinel in err's chain.
func ErrorKind(err error) Kind {
	for _, k := range kindBySentinel {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
