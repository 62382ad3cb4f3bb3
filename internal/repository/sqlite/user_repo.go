package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/repository"
)

// UserRepository implements repository.UserRepository using SQLite.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(),
		user.Username,
		user.Name,
		user.PasswordHash,
		user.CreatedAt.UTC().Format(time.RFC3339Nano),
		user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID, including the owned-blog index.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := r.loadOwnedBlogs(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByUsername retrieves a user by username, including the owned-blog index.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := r.loadOwnedBlogs(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// List returns all users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, name, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for _, user := range users {
		if err := r.loadOwnedBlogs(ctx, user); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// ExistsByUsername checks whether a username is already taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE username = ?`, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// AppendOwnedBlog records a blog in the user's owned-blog index.
func (r *UserRepository) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, userID.String()).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return domain.ErrUserNotFound
	}

	query := `
		INSERT INTO owned_blogs (user_id, blog_id, position)
		SELECT ?, ?, COALESCE(MAX(position) + 1, 0)
		FROM owned_blogs
		WHERE user_id = ?
	`

	_, err = r.db.ExecContext(ctx, query, userID.String(), blogID.String(), userID.String())
	if err != nil {
		if isUniqueViolation(err) {
			// Already indexed, nothing to do.
			return nil
		}
		return fmt.Errorf("failed to append owned blog: %w", err)
	}

	return nil
}

// RemoveOwnedBlog deletes a blog from the user's owned-blog index.
func (r *UserRepository) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM owned_blogs WHERE user_id = ? AND blog_id = ?`,
		userID.String(), blogID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove owned blog: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanUser(row rowScanner) (*domain.User, error) {
	var (
		user         domain.User
		idStr        string
		createdAtStr string
		updatedAtStr string
	)

	err := row.Scan(
		&idStr,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in database: %w", err)
	}
	user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	user.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}

	user.Blogs = []uuid.UUID{}
	return &user, nil
}

func (r *UserRepository) loadOwnedBlogs(ctx context.Context, user *domain.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT blog_id FROM owned_blogs WHERE user_id = ? ORDER BY position ASC`,
		user.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to load owned blogs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blogIDStr string
		if err := rows.Scan(&blogIDStr); err != nil {
			return fmt.Errorf("failed to scan owned blog: %w", err)
		}
		blogID, err := uuid.Parse(blogIDStr)
		if err != nil {
			return fmt.Errorf("invalid blog id in index: %w", err)
		}
		user.Blogs = append(user.Blogs, blogID)
	}
	return rows.Err()
}

// Ensure UserRepository implements the interface.
var _ repository.UserRepository = (*UserRepository)(nil)
