package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/domain"
)

// BearerScheme is the expected Authorization header scheme prefix.
const BearerScheme = "Bearer "

// UserFinder is the subset of the user store the resolver needs.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// ErrorWriter produces the client-visible error shape. The HTTP layer
// injects its classifier here so that every failure, middleware included,
// goes through the single mapping point.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware is the per-request authentication pipeline: token extraction
// followed by acting-user resolution.
type Middleware struct {
	tokens     *TokenService
	users      UserFinder
	writeError ErrorWriter
	logger     zerolog.Logger
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(tokens *TokenService, users UserFinder, writeError ErrorWriter, logger zerolog.Logger) *Middleware {
	return &Middleware{
		tokens:     tokens,
		users:      users,
		writeError: writeError,
		logger:     logger.With().Str("component", "auth").Logger(),
	}
}

// TokenExtractor captures the candidate bearer token from the Authorization
// header into the request context. Absence of a token is not an error at
// this stage; the request proceeds as anonymous.
func (m *Middleware) TokenExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, BearerScheme) {
			r = r.WithContext(WithToken(r.Context(), strings.TrimPrefix(header, BearerScheme)))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireToken resolves the acting user on routes that demand a token.
//
// A missing candidate token fails the request. A token that verifies but
// whose subject no longer exists lets the request proceed with no acting
// user attached; downstream guards then treat it as unauthenticated.
func (m *Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := TokenFrom(r.Context())
		if !ok {
			m.writeError(w, r, ErrMissingToken)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token verification failed")
			m.writeError(w, r, err)
			return
		}

		userID, err := claims.Subject()
		if err != nil {
			m.writeError(w, r, err)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				// Token subject was deleted after issuance. Proceed
				// unauthenticated rather than failing the read of the
				// acting user.
				next.ServeHTTP(w, r)
				return
			}
			m.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to resolve acting user")
			m.writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
