package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/repository"
)

// BlogRepository implements repository.BlogRepository using PostgreSQL.
type BlogRepository struct {
	db *DB
}

// NewBlogRepository creates a new PostgreSQL blog repository.
func NewBlogRepository(db *DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a new blog.
func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		blog.ID,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.UserID,
		blog.CreatedAt,
		blog.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog: %w", err)
	}

	return nil
}

// GetByID retrieves a blog by ID, including its comments.
func (r *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id, created_at, updated_at
		FROM blogs
		WHERE id = $1
	`

	blog := &domain.Blog{Comments: []domain.Comment{}}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&blog.ID,
		&blog.Title,
		&blog.Author,
		&blog.URL,
		&blog.Likes,
		&blog.UserID,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBlogNotFound
		}
		return nil, fmt.Errorf("failed to get blog by id: %w", err)
	}

	if err := r.loadComments(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// List returns all blogs, newest first, comments included.
func (r *BlogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	query := `
		SELECT id, title, author, url, likes, user_id, created_at, updated_at
		FROM blogs
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		blog := &domain.Blog{Comments: []domain.Comment{}}
		err := rows.Scan(
			&blog.ID,
			&blog.Title,
			&blog.Author,
			&blog.URL,
			&blog.Likes,
			&blog.UserID,
			&blog.CreatedAt,
			&blog.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blogs: %w", err)
	}

	for _, blog := range blogs {
		if err := r.loadComments(ctx, blog); err != nil {
			return nil, err
		}
	}

	return blogs, nil
}

// Update overwrites title, author, url, likes, and owner of an existing blog.
func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, user_id = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Pool.Exec(ctx, query,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.UserID,
		blog.UpdatedAt,
		blog.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrBlogNotFound
	}

	return nil
}

// Delete removes a blog and its comments.
func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AppendComment appends a comment to a blog.
func (r *BlogRepository) AppendComment(ctx context.Context, blogID uuid.UUID, comment domain.Comment) error {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM blogs WHERE id = $1)`, blogID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check blog: %w", err)
	}
	if !exists {
		return domain.ErrBlogNotFound
	}

	query := `
		INSERT INTO comments (id, blog_id, text, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = r.db.Pool.Exec(ctx, query, comment.ID, blogID, comment.Text, comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}

	return nil
}

func (r *BlogRepository) loadComments(ctx context.Context, blog *domain.Blog) error {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, text, created_at FROM comments WHERE blog_id = $1 ORDER BY created_at ASC`,
		blog.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(&comment.ID, &comment.Text, &comment.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		blog.Comments = append(blog.Comments, comment)
	}
	return rows.Err()
}

// Ensure BlogRepository implements the interface.
var _ repository.BlogRepository = (*BlogRepository)(nil)
