// Package service provides business logic services for Chronicle.
package service

import "errors"

// Common service errors.
var (
	// ErrInternalError marks unexpected failures from lower layers. The
	// HTTP layer maps it to a generic 500 response.
	ErrInternalError = errors.New("internal server error")
)
