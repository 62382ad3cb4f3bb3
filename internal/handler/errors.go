// Package handler provides the HTTP surface of the Chronicle API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/observability"
)

// Request decoding errors produced by the handlers themselves.
var (
	// ErrMalformedID indicates a path identifier that is not a valid id.
	ErrMalformedID = errors.New("malformatted id")

	// ErrMalformedBody indicates a request body that could not be decoded.
	// Its client-visible mapping is intentionally the generic token message;
	// clients have long depended on that shape.
	ErrMalformedBody = errors.New("malformed request body")
)

// errorResponse is the uniform error body: {"error": "..."}.
type errorResponse struct {
	Error string `json:"error"`
}

// ErrorWriter converts internal errors into the fixed client-visible
// error taxonomy. It is the single mapping point for the whole API,
// including the auth middleware, which receives WriteError by injection.
type ErrorWriter struct {
	logger zerolog.Logger
}

// NewErrorWriter creates an ErrorWriter.
func NewErrorWriter(logger zerolog.Logger) *ErrorWriter {
	return &ErrorWriter{logger: logger.With().Str("component", "errors").Logger()}
}

// WriteError classifies err and writes the corresponding response.
//
// The mapping is part of the external contract and must stay stable:
//
//	validation failure        -> 400, verbatim message
//	malformed id              -> 400, "malformatted id"
//	invalid token             -> 401, token library message
//	malformed body            -> 401, "invalid token"
//	missing token / no actor  -> 401, "token invalid"
//	not the owner             -> 401, "you dont own this resource"
//	invalid credentials       -> 401, "Invalid username or password"
//	blog missing (update)     -> 404, "Blog does not exist"
//	anything else             -> 500, "internal server error"
func (ew *ErrorWriter) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := ew.classify(err)

	if status >= http.StatusInternalServerError {
		ew.logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	} else {
		ew.logger.Debug().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		observability.AuthFailuresTotal.Inc()
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func (ew *ErrorWriter) classify(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrMalformedID):
		return http.StatusBadRequest, "malformatted id"
	case auth.IsTokenInvalid(err):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrMalformedBody):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrNoActingUser):
		return http.StatusUnauthorized, "token invalid"
	case errors.Is(err, auth.ErrNotOwner):
		return http.StatusUnauthorized, "you dont own this resource"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, domain.ErrBlogNotFound):
		return http.StatusNotFound, "Blog does not exist"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
