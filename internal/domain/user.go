// Package domain contains the core business entities for Chronicle.
// These are pure Go structs with no external dependencies beyond the
// identifier type, representing the fundamental concepts of the blog service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system.
// Users own blogs; ownership is authoritative on Blog.UserID, while Blogs
// below is a denormalized back-reference maintained on blog creation.
type User struct {
	// ID is the unique identifier for the user, assigned at creation.
	ID uuid.UUID `json:"id"`

	// Username is the unique username for login and display.
	// Constraints: minimum 3 characters, globally unique.
	Username string `json:"username"`

	// Name is an optional display name.
	Name string `json:"name,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This is never exposed in API responses.
	PasswordHash string `json:"-"`

	// Blogs holds the identifiers of blogs this user created, in creation
	// order. Append-only from the user's perspective.
	Blogs []uuid.UUID `json:"blogs"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh identifier and empty blog list.
func NewUser(username, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
		Blogs:        []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Owns reports whether the user is the owner of the given blog.
func (u *User) Owns(b *Blog) bool {
	return b != nil && u.ID == b.UserID
}
