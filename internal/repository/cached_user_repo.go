package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/domain"
)

// userCacheTTL bounds how long a stale user (e.g. an outdated owned-blog
// index) can be served from cache.
const userCacheTTL = 5 * time.Minute

// CachedUserRepository is a read-through cache decorator around a
// UserRepository. The auth resolver looks up the acting user on every
// protected request; caching by id keeps that off the database.
type CachedUserRepository struct {
	inner  UserRepository
	cache  Cache
	logger zerolog.Logger
}

// NewCachedUserRepository wraps inner with a read-through cache.
func NewCachedUserRepository(inner UserRepository, cache Cache, logger zerolog.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		inner:  inner,
		cache:  cache,
		logger: logger.With().Str("component", "user_cache").Logger(),
	}
}

func userCacheKey(id uuid.UUID) string {
	return "user:id:" + id.String()
}

// Create creates the user and primes nothing; the first lookup fills the cache.
func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

// GetByID serves from cache when possible, falling back to the inner
// repository. Cache failures degrade to direct reads, never to errors.
func (r *CachedUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	key := userCacheKey(id)

	if raw, err := r.cache.Get(ctx, key); err == nil {
		var user domain.User
		if err := json.Unmarshal(raw, &user); err == nil {
			return &user, nil
		}
		// Corrupt entry; drop it and fall through to the store.
		_ = r.cache.Delete(ctx, key)
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn().Err(err).Msg("user cache read failed")
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(user); err == nil {
		if err := r.cache.Set(ctx, key, raw, userCacheTTL); err != nil {
			r.logger.Warn().Err(err).Msg("user cache write failed")
		}
	}

	return user, nil
}

// GetByUsername is not cached; it is only on the login path.
func (r *CachedUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.inner.GetByUsername(ctx, username)
}

// List bypasses the cache.
func (r *CachedUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.inner.List(ctx)
}

// ExistsByUsername bypasses the cache.
func (r *CachedUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.inner.ExistsByUsername(ctx, username)
}

// AppendOwnedBlog writes through and invalidates the cached user so the
// owned-blog index is not served stale.
func (r *CachedUserRepository) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	if err := r.inner.AppendOwnedBlog(ctx, userID, blogID); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, userCacheKey(userID)); err != nil {
		r.logger.Warn().Err(err).Msg("user cache invalidation failed")
	}
	return nil
}

// RemoveOwnedBlog writes through and invalidates the cached user.
func (r *CachedUserRepository) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	if err := r.inner.RemoveOwnedBlog(ctx, userID, blogID); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, userCacheKey(userID)); err != nil {
		r.logger.Warn().Err(err).Msg("user cache invalidation failed")
	}
	return nil
}

// Ensure CachedUserRepository implements UserRepository.
var _ UserRepository = (*CachedUserRepository)(nil)
