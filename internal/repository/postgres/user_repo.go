package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
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
		WHERE id = $1
	`

	user := &domain.User{Blogs: []uuid.UUID{}}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		WHERE username = $1
	`

	user := &domain.User{Blogs: []uuid.UUID{}}
	err := r.db.Pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{Blogs: []uuid.UUID{}}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Name,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
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
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// AppendOwnedBlog records a blog in the user's owned-blog index.
func (r *UserRepository) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	query := `
		INSERT INTO owned_blogs (user_id, blog_id, position)
		SELECT $1, $2, COALESCE(MAX(position) + 1, 0)
		FROM owned_blogs
		WHERE user_id = $1
		ON CONFLICT (user_id, blog_id) DO NOTHING
	`

	_, err = r.db.Pool.Exec(ctx, query, userID, blogID)
	if err != nil {
		return fmt.Errorf("failed to append owned blog: %w", err)
	}

	return nil
}

// RemoveOwnedBlog deletes a blog from the user's owned-blog index.
func (r *UserRepository) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM owned_blogs WHERE user_id = $1 AND blog_id = $2`,
		userID, blogID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove owned blog: %w", err)
	}
	return nil
}

func (r *UserRepository) loadOwnedBlogs(ctx context.Context, user *domain.User) error {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT blog_id FROM owned_blogs WHERE user_id = $1 ORDER BY position ASC`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load owned blogs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blogID uuid.UUID
		if err := rows.Scan(&blogID); err != nil {
			return fmt.Errorf("failed to scan owned blog: %w", err)
		}
		user.Blogs = append(user.Blogs, blogID)
	}
	return rows.Err()
}

// isUniqueViolation checks for PostgreSQL unique constraint violations.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ensure UserRepository implements the interface.
var _ repository.UserRepository = (*UserRepository)(nil)
