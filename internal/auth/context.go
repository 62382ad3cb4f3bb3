package auth

import (
	"context"

	"github.com/prn-tf/chronicle/internal/domain"
)

type contextKey string

const (
	tokenContextKey contextKey = "chronicle-token"
	userContextKey  contextKey = "chronicle-user"
)

// WithToken stores the candidate bearer token on the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFrom retrieves the candidate bearer token from the context.
// The second return is false for anonymous requests.
func TokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// WithUser stores the acting user on the context.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom retrieves the acting user from the context. The second return is
// false when the request is anonymous, including the case of a verified
// token whose subject no longer exists; every consumer must handle it.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
