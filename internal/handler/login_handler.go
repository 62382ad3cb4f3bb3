package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/service"
)

// LoginHandler exchanges credentials for a signed session token.
type LoginHandler struct {
	users  *service.UserService
	tokens *auth.TokenService
	errors *ErrorWriter
	logger zerolog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(users *service.UserService, tokens *auth.TokenService, errors *ErrorWriter, logger zerolog.Logger) *LoginHandler {
	return &LoginHandler{
		users:  users,
		tokens: tokens,
		errors: errors,
		logger: logger.With().Str("handler", "login").Logger(),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login handles POST /api/login.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.WriteError(w, r, ErrMalformedBody)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error().Err(err).Str("username", user.Username).Msg("failed to issue token")
		h.errors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	})
}
