package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prn-tf/chronicle/internal/domain"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	users     map[uuid.UUID]*domain.User
	createErr error
	getErr    error
	appendErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, exists := m.users[id]; exists {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	var result []*domain.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	u, exists := m.users[userID]
	if !exists {
		return domain.ErrUserNotFound
	}
	u.Blogs = append(u.Blogs, blogID)
	return nil
}

func (m *MockUserRepository) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	u, exists := m.users[userID]
	if !exists {
		return nil
	}
	kept := u.Blogs[:0]
	for _, id := range u.Blogs {
		if id != blogID {
			kept = append(kept, id)
		}
	}
	u.Blogs = kept
	return nil
}

// Helper to seed a user with a real bcrypt hash.
func (m *MockUserRepository) AddUser(t *testing.T, username, name, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := domain.NewUser(username, name, string(hash))
	m.users[user.ID] = user
	return user
}

func newTestUserService(repo *MockUserRepository) *UserService {
	return NewUserService(repo, bcrypt.MinCost, 6, zerolog.Nop())
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     CreateUserInput
		wantMsg   string
		setupRepo func(*MockUserRepository)
	}{
		{
			name:  "success",
			input: CreateUserInput{Username: "alice", Name: "Alice", Password: "sekret99"},
		},
		{
			name:    "short password rejected before hashing",
			input:   CreateUserInput{Username: "alice", Name: "Alice", Password: "pw"},
			wantMsg: "password has to be at least 6 characters",
		},
		{
			name:    "short username",
			input:   CreateUserInput{Username: "al", Name: "Alice", Password: "sekret99"},
			wantMsg: "username has to be at least 3 characters",
		},
		{
			name:    "duplicate username",
			input:   CreateUserInput{Username: "taken", Name: "Other", Password: "sekret99"},
			wantMsg: "expected `username` to be unique",
			setupRepo: func(m *MockUserRepository) {
				existing := domain.NewUser("taken", "First", "$2a$04$existinghash")
				m.users[existing.ID] = existing
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewMockUserRepository()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}

			svc := newTestUserService(repo)
			output, err := svc.Create(context.Background(), tt.input)

			if tt.wantMsg != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantMsg)
				}
				if !domain.IsValidation(err) {
					t.Errorf("expected a validation error, got %v", err)
				}
				if err.Error() != tt.wantMsg {
					t.Errorf("expected error %q, got %q", tt.wantMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.User == nil {
				t.Fatal("expected user in output")
			}
			if output.User.Username != tt.input.Username {
				t.Errorf("expected username %s, got %s", tt.input.Username, output.User.Username)
			}
			if output.User.PasswordHash == tt.input.Password {
				t.Error("password must not be stored in plaintext")
			}
			if err := bcrypt.CompareHashAndPassword([]byte(output.User.PasswordHash), []byte(tt.input.Password)); err != nil {
				t.Errorf("stored hash does not match password: %v", err)
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := NewMockUserRepository()
	repo.AddUser(t, "alice", "Alice", "sekret99")
	svc := newTestUserService(repo)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), "alice", "sekret99")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("expected alice, got %s", user.Username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice", "wrong99")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username yields the same error", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody", "sekret99")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserService_Create_RepoFailure(t *testing.T) {
	repo := NewMockUserRepository()
	repo.createErr = errors.New("disk full")
	svc := newTestUserService(repo)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "alice", Name: "Alice", Password: "sekret99",
	})
	if !errors.Is(err, ErrInternalError) {
		t.Errorf("expected ErrInternalError, got %v", err)
	}
}
