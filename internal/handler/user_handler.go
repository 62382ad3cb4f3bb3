package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/service"
)

// UserHandler serves user registration and listing.
type UserHandler struct {
	users  *service.UserService
	errors *ErrorWriter
	logger zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, errors *ErrorWriter, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		errors: errors,
		logger: logger.With().Str("handler", "user").Logger(),
	}
}

type createUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// userView is the client-visible user shape. The password hash never
// leaves the server.
type userView struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name,omitempty"`
	Blogs    []uuid.UUID `json:"blogs"`
}

func newUserView(u *domain.User) userView {
	blogs := u.Blogs
	if blogs == nil {
		blogs = []uuid.UUID{}
	}
	return userView{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Blogs:    blogs,
	}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, ErrMalformedBody)
		return
	}

	output, err := h.users.Create(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserView(output.User))
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	writeJSON(w, http.StatusOK, views)
}
