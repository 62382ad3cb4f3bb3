package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/domain"
)

func TestErrorWriter_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "validation error passes its message through",
			err:        domain.NewValidationError("password has to be at least 6 characters"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "password has to be at least 6 characters",
		},
		{
			name:       "malformed id",
			err:        ErrMalformedID,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "malformatted id",
		},
		{
			name:       "token verification failure carries the library message",
			err:        &auth.TokenInvalidError{Err: errors.New("token is malformed: token contains an invalid number of segments")},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "token is malformed: token contains an invalid number of segments",
		},
		{
			name:       "malformed body keeps the legacy token message",
			err:        ErrMalformedBody,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "invalid token",
		},
		{
			name:       "missing token",
			err:        auth.ErrMissingToken,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "token invalid",
		},
		{
			name:       "no acting user",
			err:        auth.ErrNoActingUser,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "token invalid",
		},
		{
			name:       "ownership rejection",
			err:        auth.ErrNotOwner,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "you dont own this resource",
		},
		{
			name:       "invalid credentials",
			err:        domain.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid username or password",
		},
		{
			name:       "missing blog",
			err:        domain.ErrBlogNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Blog does not exist",
		},
		{
			name:       "unclassified errors stay generic",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	ew := NewErrorWriter(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)

			ew.WriteError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if msg := errorMessage(t, rec); msg != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, msg)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}
		})
	}
}

func TestErrorWriter_WrappedErrors(t *testing.T) {
	ew := NewErrorWriter(zerolog.Nop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/x", nil)

	// Sentinels must classify even when wrapped.
	ew.WriteError(rec, req, errors.Join(errors.New("context"), auth.ErrNotOwner))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrapped ErrNotOwner, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "you dont own this resource" {
		t.Errorf("unexpected message %q", msg)
	}
}
