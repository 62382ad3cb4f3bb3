package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/lock"
	"github.com/prn-tf/chronicle/internal/repository"
)

// Lock settings for the blog/owned-index dual write.
const (
	ownedIndexLockTTL     = 5 * time.Second
	ownedIndexLockRetries = 10
	ownedIndexRetryDelay  = 50 * time.Millisecond
)

// BlogService handles blog CRUD, comments, and ownership enforcement.
type BlogService struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	locker   lock.Locker
	logger   zerolog.Logger
}

// NewBlogService creates a new BlogService.
func NewBlogService(blogRepo repository.BlogRepository, userRepo repository.UserRepository, locker lock.Locker, logger zerolog.Logger) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		userRepo: userRepo,
		locker:   locker,
		logger:   logger.With().Str("service", "blog").Logger(),
	}
}

// CreateBlogInput contains the data needed to create a blog.
type CreateBlogInput struct {
	Title  string
	Author string
	URL    string

	// Likes is optional; nil defaults to zero.
	Likes *int

	// Owner is the acting user the blog is attributed to.
	Owner *domain.User
}

// Create persists a new blog and records it in the owner's blog index.
// The two writes are serialized per owner so concurrent creates cannot
// drop index entries.
func (s *BlogService) Create(ctx context.Context, input CreateBlogInput) (*domain.Blog, error) {
	if input.Owner == nil {
		return nil, auth.ErrNoActingUser
	}
	if input.Title == "" || input.URL == "" {
		return nil, domain.NewValidationError("title and url are required")
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	blog := domain.NewBlog(input.Title, input.Author, input.URL, likes, input.Owner.ID)

	lockKey := lock.Keys.UserBlogs(input.Owner.ID)
	acquired, err := s.locker.AcquireWithRetry(ctx, lockKey, ownedIndexLockTTL, ownedIndexLockRetries, ownedIndexRetryDelay)
	if err != nil {
		s.logger.Error().Err(err).Str("lock_key", lockKey).Msg("failed to acquire owner lock")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: owner index busy", ErrInternalError)
	}
	defer func() {
		if _, err := s.locker.Release(ctx, lockKey); err != nil {
			s.logger.Warn().Err(err).Str("lock_key", lockKey).Msg("failed to release owner lock")
		}
	}()

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.userRepo.AppendOwnedBlog(ctx, input.Owner.ID, blog.ID); err != nil {
		s.logger.Error().Err(err).
			Str("blog_id", blog.ID.String()).
			Str("user_id", input.Owner.ID.String()).
			Msg("failed to index owned blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("blog_id", blog.ID.String()).
		Str("user_id", input.Owner.ID.String()).
		Str("title", blog.Title).
		Msg("blog created")

	return blog, nil
}

// Get retrieves a blog by ID.
func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrBlogNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("blog_id", id.String()).Msg("failed to get blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return blog, nil
}

// List returns all blogs, newest first.
func (s *BlogService) List(ctx context.Context) ([]*domain.Blog, error) {
	blogs, err := s.blogRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list blogs")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return blogs, nil
}

// UpdateBlogInput contains the data for a full blog update.
type UpdateBlogInput struct {
	ID     uuid.UUID
	Title  string
	Author string
	URL    string
	Likes  int

	// UserID optionally reassigns the owner; nil keeps the current one.
	UserID *uuid.UUID

	// Actor is the acting user; nil means the request carried no
	// resolvable identity.
	Actor *domain.User
}

// Update overwrites a blog's mutable fields. Only the current owner may
// update; a missing blog is domain.ErrBlogNotFound.
func (s *BlogService) Update(ctx context.Context, input UpdateBlogInput) (*domain.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, input.ID)
	if err != nil {
		if err == domain.ErrBlogNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("blog_id", input.ID.String()).Msg("failed to load blog for update")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := auth.Authorize(input.Actor, blog); err != nil {
		return nil, err
	}

	blog.Title = input.Title
	blog.Author = input.Author
	blog.URL = input.URL
	blog.Likes = input.Likes
	if input.UserID != nil {
		blog.UserID = *input.UserID
	}
	blog.UpdatedAt = time.Now().UTC()

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		if err == domain.ErrBlogNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("blog_id", blog.ID.String()).Msg("failed to update blog")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("blog_id", blog.ID.String()).Msg("blog updated")
	return blog, nil
}

// Delete removes a blog. Only the owner may delete; deleting a blog that
// no longer exists succeeds, so retried deletes stay idempotent.
func (s *BlogService) Delete(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrBlogNotFound {
			return nil
		}
		s.logger.Error().Err(err).Str("blog_id", id.String()).Msg("failed to load blog for delete")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := auth.Authorize(actor, blog); err != nil {
		return err
	}

	lockKey := lock.Keys.UserBlogs(blog.UserID)
	acquired, err := s.locker.AcquireWithRetry(ctx, lockKey, ownedIndexLockTTL, ownedIndexLockRetries, ownedIndexRetryDelay)
	if err != nil {
		s.logger.Error().Err(err).Str("lock_key", lockKey).Msg("failed to acquire owner lock")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if !acquired {
		return fmt.Errorf("%w: owner index busy", ErrInternalError)
	}
	defer func() {
		if _, err := s.locker.Release(ctx, lockKey); err != nil {
			s.logger.Warn().Err(err).Str("lock_key", lockKey).Msg("failed to release owner lock")
		}
	}()

	if err := s.blogRepo.Delete(ctx, id); err != nil && err != repository.ErrNotFound {
		s.logger.Error().Err(err).Str("blog_id", id.String()).Msg("failed to delete blog")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	if err := s.userRepo.RemoveOwnedBlog(ctx, blog.UserID, id); err != nil {
		// The blog row is gone; a stale index entry is tolerable.
		s.logger.Warn().Err(err).
			Str("blog_id", id.String()).
			Str("user_id", blog.UserID.String()).
			Msg("failed to deindex owned blog")
	}

	s.logger.Info().
		Str("blog_id", id.String()).
		Str("user_id", blog.UserID.String()).
		Msg("blog deleted")

	return nil
}

// AddComment appends a free-form comment to a blog. Comments carry no
// author; the route only requires a valid token, not ownership.
func (s *BlogService) AddComment(ctx context.Context, blogID uuid.UUID, text string) (*domain.Comment, error) {
	if text == "" {
		return nil, domain.NewValidationError("comment text is required")
	}

	comment := domain.NewComment(text)
	if err := s.blogRepo.AppendComment(ctx, blogID, comment); err != nil {
		if err == domain.ErrBlogNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).Str("blog_id", blogID.String()).Msg("failed to append comment")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("blog_id", blogID.String()).Msg("comment added")
	return &comment, nil
}
