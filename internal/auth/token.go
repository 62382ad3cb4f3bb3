package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
)

// Claims is the session token payload: the username and user id of the
// authenticated user on top of the registered claim set.
//
// Tokens carry no expiry claim and there is no server-side revocation
// store: a token stays valid until the signing secret rotates. This is a
// deliberate property of the system, not an omission to patch here.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// TokenService issues and verifies signed session tokens. The signing
// secret is injected at construction and read-only afterwards.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

// Issue creates a signed token encoding the user's username and id.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: user.Username,
		UserID:   user.ID.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's structure and signature and returns its claims.
// Failures are reported as *TokenInvalidError carrying the library message.
// No expiry is checked because none is set.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &TokenInvalidError{Err: errors.New("jwt must be provided")}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, &TokenInvalidError{Err: err}
	}
	if !token.Valid {
		return nil, &TokenInvalidError{Err: errors.New("invalid token")}
	}

	return claims, nil
}

// Subject parses the user id out of verified claims. An empty or malformed
// userId claim means the token does not identify anyone.
func (c *Claims) Subject() (uuid.UUID, error) {
	if c.UserID == "" {
		return uuid.Nil, ErrMissingToken
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, ErrMissingToken
	}
	return id, nil
}
