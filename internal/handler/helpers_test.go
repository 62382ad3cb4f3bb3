package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/chronicle/internal/auth"
	"github.com/prn-tf/chronicle/internal/domain"
	"github.com/prn-tf/chronicle/internal/lock"
	"github.com/prn-tf/chronicle/internal/repository"
	"github.com/prn-tf/chronicle/internal/service"
)

// memUserRepo is an in-memory repository.UserRepository for handler tests.
type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUserRepo) AppendOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Blogs = append(u.Blogs, blogID)
	return nil
}

func (m *memUserRepo) RemoveOwnedBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
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

// memBlogRepo is an in-memory repository.BlogRepository for handler tests.
type memBlogRepo struct {
	blogs map[uuid.UUID]*domain.Blog
}

func newMemBlogRepo() *memBlogRepo {
	return &memBlogRepo{blogs: make(map[uuid.UUID]*domain.Blog)}
}

func (m *memBlogRepo) Create(ctx context.Context, blog *domain.Blog) error {
	m.blogs[blog.ID] = blog
	return nil
}

func (m *memBlogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	if b, ok := m.blogs[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBlogNotFound
}

func (m *memBlogRepo) List(ctx context.Context) ([]*domain.Blog, error) {
	var out []*domain.Blog
	for _, b := range m.blogs {
		out = append(out, b)
	}
	return out, nil
}

func (m *memBlogRepo) Update(ctx context.Context, blog *domain.Blog) error {
	if _, ok := m.blogs[blog.ID]; !ok {
		return domain.ErrBlogNotFound
	}
	m.blogs[blog.ID] = blog
	return nil
}

func (m *memBlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}

func (m *memBlogRepo) AppendComment(ctx context.Context, blogID uuid.UUID, comment domain.Comment) error {
	b, ok := m.blogs[blogID]
	if !ok {
		return domain.ErrBlogNotFound
	}
	b.Comments = append(b.Comments, comment)
	return nil
}

// testAPI bundles a fully wired router with direct access to its stores.
type testAPI struct {
	handler  http.Handler
	userRepo *memUserRepo
	blogRepo *memBlogRepo
	tokens   *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := zerolog.Nop()
	userRepo := newMemUserRepo()
	blogRepo := newMemBlogRepo()

	tokens := auth.NewTokenService([]byte("handler-test-secret"))
	userService := service.NewUserService(userRepo, 4, 6, logger)
	blogService := service.NewBlogService(blogRepo, userRepo, lock.NewNoopLocker(), logger)

	errors := NewErrorWriter(logger)
	middleware := auth.NewMiddleware(tokens, userRepo, errors.WriteError, logger)

	router := NewRouter(RouterConfig{
		LoginHandler:   NewLoginHandler(userService, tokens, errors, logger),
		UserHandler:    NewUserHandler(userService, errors, logger),
		BlogHandler:    NewBlogHandler(blogService, userService, errors, logger),
		AuthMiddleware: middleware,
		ErrorWriter:    errors,
		MetricsEnabled: false,
		Logger:         logger,
	})

	return &testAPI{
		handler:  router.Handler(),
		userRepo: userRepo,
		blogRepo: blogRepo,
		tokens:   tokens,
	}
}

// do performs a request against the router and returns the recorder.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its view.
func (a *testAPI) register(t *testing.T, username, name, password string) userView {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": username, "name": name, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", username, rec.Code, rec.Body.String())
	}

	var view userView
	decodeBody(t, rec, &view)
	return view
}

// login authenticates through the API and returns the token.
func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// errorMessage extracts the "error" field of a response body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decodeBody(t, rec, &resp)
	return resp.Error
}
