// Package repository defines data access interfaces for Chronicle.
// These interfaces abstract database operations, allowing for different
// implementations (SQLite, PostgreSQL, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user. Returns domain.ErrUserAlreadyExists when
	// the username is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID, including the owned-blog index.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)

	// ExistsByUsername checks if a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// AppendOwnedBlog appends a blog id to the user's owned-blog index.
	// Returns domain.ErrUserNotFound when the user does not exist.
	AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error

	// RemoveOwnedBlog removes a blog id from the user's owned-blog index.
	// Removing an id that is not indexed is not an error.
	RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

// BlogRepository defines the interface for blog data access.
type BlogRepository interface {
	// Create persists a new blog with its owner already set.
	Create(ctx context.Context, blog *domain.Blog) error

	// GetByID retrieves a blog by ID, including its comments.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)

	// List returns all blogs, newest first, comments included.
	List(ctx context.Context) ([]*domain.Blog, error)

	// Update updates title, author, url, likes, and owner of an existing
	// blog. Returns domain.ErrBlogNotFound when the blog does not exist.
	Update(ctx context.Context, blog *domain.Blog) error

	// Delete deletes a blog by ID. Returns ErrNotFound when it is missing;
	// callers decide whether that is an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// AppendComment appends a comment to a blog.
	AppendComment(ctx context.Context, blogID uuid.UUID, comment domain.Comment) error
}

// Repositories holds all repository instances for one database backend.
type Repositories struct {
	User UserRepository
	Blog BlogRepository
}

// DatabaseHealth is the interface for database lifecycle and health checks.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
