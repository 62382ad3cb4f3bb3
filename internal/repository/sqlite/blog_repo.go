package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/repository"
)

// BlogRepository implements repository.BlogRepository using SQLite.
type BlogRepository struct {
	db *DB
}

// NewBlogRepository creates a new SQLite blog repository.
func NewBlogRepository(db *DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a new blog.
func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, title, author, url, likes, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		blog.ID.String(),
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.UserID.String(),
		blog.CreatedAt.UTC().Format(time.RFC3339Nano),
		blog.UpdatedAt.UTC().Format(time.RFC3339Nano),
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
		WHERE id = ?
	`

	blog, err := r.scanBlog(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if isNoRows(err) {
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

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		blog, err := r.scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog: %w", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blogs: %w", err)
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
		SET title = ?, author = ?, url = ?, likes = ?, user_id = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.UserID.String(),
		blog.UpdatedAt.UTC().Format(time.RFC3339Nano),
		blog.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrBlogNotFound
	}

	return nil
}

// Delete removes a blog and its comments.
func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AppendComment appends a comment to a blog.
func (r *BlogRepository) AppendComment(ctx context.Context, blogID uuid.UUID, comment domain.Comment) error {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM blogs WHERE id = ?`, blogID.String()).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check blog: %w", err)
	}
	if count == 0 {
		return domain.ErrBlogNotFound
	}

	query := `
		INSERT INTO comments (id, blog_id, text, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		comment.ID.String(),
		blogID.String(),
		comment.Text,
		comment.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append comment: %w", err)
	}

	return nil
}

func (r *BlogRepository) scanBlog(row rowScanner) (*domain.Blog, error) {
	var (
		blog         domain.Blog
		idStr        string
		userIDStr    string
		createdAtStr string
		updatedAtStr string
	)

	err := row.Scan(
		&idStr,
		&blog.Title,
		&blog.Author,
		&blog.URL,
		&blog.Likes,
		&userIDStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	blog.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid blog id in database: %w", err)
	}
	blog.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id in database: %w", err)
	}
	blog.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	blog.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}

	blog.Comments = []domain.Comment{}
	return &blog, nil
}

func (r *BlogRepository) loadComments(ctx context.Context, blog *domain.Blog) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, created_at FROM comments WHERE blog_id = ? ORDER BY created_at ASC`,
		blog.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			comment      domain.Comment
			idStr        string
			createdAtStr string
		)
		if err := rows.Scan(&idStr, &comment.Text, &createdAtStr); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.ID, err = uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid comment id in database: %w", err)
		}
		comment.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return fmt.Errorf("invalid comment created_at in database: %w", err)
		}
		blog.Comments = append(blog.Comments, comment)
	}
	return rows.Err()
}

// Ensure BlogRepository implements the interface.
var _ repository.BlogRepository = (*BlogRepository)(nil)
