package lock

import (
	"context"
	"time"
)

// NoopLocker implements Locker without any actual locking.
// Useful for tests and deployments where serialization is not needed.
type NoopLocker struct{}

// NewNoopLocker creates a new no-op locker.
func NewNoopLocker() *NoopLocker {
	return &NoopLocker{}
}

// Acquire always succeeds.
func (l *NoopLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

// AcquireWithRetry always succeeds.
func (l *NoopLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return true, nil
}

// Release always succeeds.
func (l *NoopLocker) Release(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// IsHeld always reports unheld.
func (l *NoopLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	return false, nil
}

// Ensure NoopLocker implements Locker.
var _ Locker = (*NoopLocker)(nil)
