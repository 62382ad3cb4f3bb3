package domain

import (
	"time"

	"github.com/google/uuid"
)

// Blog represents a single blog post owned by exactly one user.
type Blog struct {
	// ID is the unique identifier for the blog, assigned at creation.
	ID uuid.UUID `json:"id"`

	// Title is the blog title. Required.
	Title string `json:"title"`

	// Author is the displayed author name. Required.
	Author string `json:"author"`

	// URL points to the blog content. Required.
	URL string `json:"url"`

	// Likes is the like counter. Defaults to 0 when absent on creation.
	Likes int `json:"likes"`

	// UserID identifies the owning user. Set once at creation and
	// authoritative for every ownership decision. It is only reassigned
	// through an explicit update, never implicitly.
	UserID uuid.UUID `json:"userId"`

	// Comments is the ordered, append-only sequence of comments.
	Comments []Comment `json:"comments"`

	// CreatedAt is the timestamp when the blog was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp when the blog was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a free-form comment payload attached to a blog.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBlog creates a new Blog owned by the given user.
func NewBlog(title, author, url string, likes int, ownerID uuid.UUID) *Blog {
	now := time.Now().UTC()
	return &Blog{
		ID:        uuid.New(),
		Title:     title,
		Author:    author,
		URL:       url,
		Likes:     likes,
		UserID:    ownerID,
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewComment creates a comment with a fresh identifier.
func NewComment(text string) Comment {
	return Comment{
		ID:        uuid.New(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
