package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/career-day/services"
)

var ErrNoIdentity = errors.New("identity not found in context")

func GetIdentityFromContext(ctx context.Context) (*services.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*services.Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	identity, err := GetIdentityFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return identity.UserID, nil
}

// WithIdentity нужен тестам хендлеров, чтобы обойти проверку токена.
func WithIdentity(ctx context.Context, identity *services.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
