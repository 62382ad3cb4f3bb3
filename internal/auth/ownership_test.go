package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/prn-tf/chronicle/internal/domain"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	owner := &domain.User{ID: uuid.New(), Username: "alice"}
	other := &domain.User{ID: uuid.New(), Username: "bob"}
	blog := &domain.Blog{ID: uuid.New(), Title: "t", Author: "a", URL: "u", UserID: owner.ID}

	tests := []struct {
		name  string
		actor *domain.User
		blog  *domain.Blog
		want  error
	}{
		{"missing blog", owner, nil, ErrBlogGone},
		{"missing blog and anonymous", nil, nil, ErrBlogGone},
		{"anonymous actor", nil, blog, ErrNoActingUser},
		{"non-owner", other, blog, ErrNotOwner},
		{"owner", owner, blog, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Authorize(tt.actor, tt.blog)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Fatalf("Authorize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorize_AnonymousCheckedBeforeOwnership(t *testing.T) {
	t.Parallel()

	blog := &domain.Blog{ID: uuid.New(), UserID: uuid.New()}
	if err := Authorize(nil, blog); !errors.Is(err, ErrNoActingUser) {
		t.Fatalf("anonymous caller must see ErrNoActingUser, got %v", err)
	}
}
