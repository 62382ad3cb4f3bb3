package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/service"
)

// BlogHandler serves blog CRUD and comment endpoints.
type BlogHandler struct {
	blogs  *service.BlogService
	users  *service.UserService
	errors *ErrorWriter
	logger zerolog.Logger
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogs *service.BlogService, users *service.UserService, errors *ErrorWriter, logger zerolog.Logger) *BlogHandler {
	return &BlogHandler{
		blogs:  blogs,
		users:  users,
		errors: errors,
		logger: logger.With().Str("handler", "blog").Logger(),
	}
}

type blogRequest struct {
	Title  string     `json:"title"`
	Author string     `json:"author"`
	URL    string     `json:"url"`
	Likes  *int       `json:"likes"`
	UserID *uuid.UUID `json:"userId"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// ownerView is the embedded owner shape on blog responses.
type ownerView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
	Name     string    `json:"name,omitempty"`
}

// blogView is the client-visible blog shape with the owner expanded.
type blogView struct {
	ID       uuid.UUID        `json:"id"`
	Title    string           `json:"title"`
	Author   string           `json:"author"`
	URL      string           `json:"url"`
	Likes    int              `json:"likes"`
	User     ownerView        `json:"user"`
	Comments []domain.Comment `json:"comments"`
}

// newBlogView expands the owner reference. A failed owner lookup leaves
// only the id populated; it never fails the read.
func (h *BlogHandler) newBlogView(r *http.Request, blog *domain.Blog) blogView {
	owner := ownerView{ID: blog.UserID}
	if user, err := h.users.GetByID(r.Context(), blog.UserID); err == nil {
		owner.Username = user.Username
		owner.Name = user.Name
	} else {
		h.logger.Warn().Err(err).
			Str("blog_id", blog.ID.String()).
			Str("user_id", blog.UserID.String()).
			Msg("failed to expand blog owner")
	}

	comments := blog.Comments
	if comments == nil {
		comments = []domain.Comment{}
	}

	return blogView{
		ID:       blog.ID,
		Title:    blog.Title,
		Author:   blog.Author,
		URL:      blog.URL,
		Likes:    blog.Likes,
		User:     owner,
		Comments: comments,
	}
}

// blogID parses the {id} path parameter.
func blogID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, ErrMalformedID
	}
	return id, nil
}

// List handles GET /api/blogs.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.List(r.Context())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	views := make([]blogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, h.newBlogView(r, blog))
	}
	writeJSON(w, http.StatusOK, views)
}

// Get handles GET /api/blogs/{id}.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	blog, err := h.blogs.Get(r.Context(), id)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.newBlogView(r, blog))
}

// Create handles POST /api/blogs.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, ErrMalformedBody)
		return
	}

	// Absent on anonymous requests whose token subject no longer exists.
	actor, _ := auth.UserFrom(r.Context())

	blog, err := h.blogs.Create(r.Context(), service.CreateBlogInput{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.Likes,
		Owner:  actor,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.newBlogView(r, blog))
}

// Update handles PUT /api/blogs/{id}.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	var req blogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, ErrMalformedBody)
		return
	}

	actor, _ := auth.UserFrom(r.Context())

	likes := 0
	if req.Likes != nil {
		likes = *req.Likes
	}

	blog, err := h.blogs.Update(r.Context(), service.UpdateBlogInput{
		ID:     id,
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  likes,
		UserID: req.UserID,
		Actor:  actor,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.newBlogView(r, blog))
}

// Delete handles DELETE /api/blogs/{id}.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	actor, _ := auth.UserFrom(r.Context())

	if err := h.blogs.Delete(r.Context(), id, actor); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddComment handles POST /api/blogs/{id}/comments.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, ErrMalformedBody)
		return
	}

	comment, err := h.blogs.AddComment(r.Context(), id, req.Text)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}
