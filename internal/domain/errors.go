package domain

import "errors"

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates authentication failed. The same error
	// is returned for an unknown username and a wrong password so that no
	// distinguishing signal leaks to the caller.
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// ErrBlogNotFound indicates the requested blog does not exist.
	ErrBlogNotFound = errors.New("Blog does not exist")
)

// ValidationError carries a schema or field constraint violation. Its
// message is returned verbatim to the client with a 400 status.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
