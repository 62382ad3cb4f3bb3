package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/chronicle/internal/cache/memory"
	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/repository"
)

// countingUserRepo tracks how often the inner store is hit.
type countingUserRepo struct {
	users   map[uuid.UUID]*domain.User
	getByID int
}

func newCountingUserRepo() *countingUserRepo {
	return &countingUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *countingUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *countingUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.getByID++
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *countingUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *countingUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *countingUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *countingUserRepo) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Blogs = append(u.Blogs, blogID)
	return nil
}

func (m *countingUserRepo) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return nil
	}
	kept := u.Blogs[:0]
	for _, id := range u.Blogs {
		if id != blogID {
			kept = append(kept, id)
		}
	}
	u.Blogs = kept
	return nil
}

func TestCachedUserRepository_ReadThrough(t *testing.T) {
	t.Parallel()

	inner := newCountingUserRepo()
	cache := memory.NewCache()
	defer cache.Stop()

	repo := repository.NewCachedUserRepository(inner, cache, zerolog.Nop())
	ctx := context.Background()

	alice := domain.NewUser("alice", "Alice", "$2a$10$hash")
	require.NoError(t, repo.Create(ctx, alice))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)
	require.Equal(t, 1, inner.getByID)

	// Second read is served from cache.
	got, err = repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, 1, inner.getByID)
}

func TestCachedUserRepository_AppendInvalidates(t *testing.T) {
	t.Parallel()

	inner := newCountingUserRepo()
	cache := memory.NewCache()
	defer cache.Stop()

	repo := repository.NewCachedUserRepository(inner, cache, zerolog.Nop())
	ctx := context.Background()

	bob := domain.NewUser("bob", "", "$2a$10$hash")
	require.NoError(t, repo.Create(ctx, bob))

	_, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)

	blogID := uuid.New()
	require.NoError(t, repo.AppendOwnedBlog(ctx, bob.ID, blogID))

	got, err := repo.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Contains(t, got.Blogs, blogID)
	require.Equal(t, 2, inner.getByID, "append must invalidate the cached user")
}

func TestCachedUserRepository_AppendUnknownUser(t *testing.T) {
	t.Parallel()

	cache := memory.NewCache()
	defer cache.Stop()

	repo := repository.NewCachedUserRepository(newCountingUserRepo(), cache, zerolog.Nop())
	err := repo.AppendOwnedBlog(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
