// Package auth provides bearer-token authentication and resource-ownership
// authorization for Chronicle.
package auth

import "errors"

// Authentication and authorization errors.
var (
	// ErrMissingToken indicates a protected route was called without a
	// usable bearer token.
	ErrMissingToken = errors.New("token invalid")

	// ErrNoActingUser indicates a mutation was attempted without an
	// authenticated acting user.
	ErrNoActingUser = errors.New("token invalid")

	// ErrNotOwner indicates the acting user does not own the target
	// resource.
	ErrNotOwner = errors.New("you dont own this resource")

	// ErrBlogGone indicates the mutation target does not exist. Callers
	// translate this per operation: delete treats it as a no-op success,
	// update reports the blog as missing.
	ErrBlogGone = errors.New("blog does not exist")
)

// TokenInvalidError wraps a token verification failure. The underlying
// token-library message is part of the external error contract.
type TokenInvalidError struct {
	Err error
}

// Error implements the error interface.
func (e *TokenInvalidError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *TokenInvalidError) Unwrap() error {
	return e.Err
}

// IsTokenInvalid reports whether err is a token verification failure.
func IsTokenInvalid(err error) bool {
	var te *TokenInvalidError
	return errors.As(err, &te)
}
