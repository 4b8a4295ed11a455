package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/todoapp/internal/common"
	"github.com/dmitrijs2005/todoapp/internal/dbx"
	"github.com/dmitrijs2005/todoapp/internal/logging"
	"github.com/dmitrijs2005/todoapp/internal/server/auth"
	"github.com/dmitrijs2005/todoapp/internal/server/config"
	"github.com/dmitrijs2005/todoapp/internal/server/models"
	usersrepo "github.com/dmitrijs2005/todoapp/internal/server/repositories/users"
	"github.com/dmitrijs2005/todoapp/internal/server/services"
)

// --- fakes ---

type memUsersRepo struct {
	users  []*models.User
	nextID int64
}

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users = append(r.users, u)
	return u, nil
}

func (r *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

type memTodosRepo struct {
	todos  []*models.Todo
	nextID int64
}

func (r *memTodosRepo) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.Todo, error) {
	var result []*models.Todo
	for _, t := range r.todos {
		if t.OwnerID == ownerID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *memTodosRepo) GetByID(ctx context.Context, id, ownerID int64) (*models.Todo, error) {
	for _, t := range r.todos {
		if t.ID == id && t.OwnerID == ownerID {
			return t, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memTodosRepo) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	r.nextID++
	todo.ID = r.nextID
	todo.CreatedAt = time.Now()
	r.todos = append(r.todos, todo)
	return todo, nil
}

func (r *memTodosRepo) Update(ctx context.Context, id, ownerID int64, patch *models.TodoPatch) (*models.Todo, error) {
	t, err := r.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	return t, nil
}

func (r *memTodosRepo) Delete(ctx context.Context, id, ownerID int64) error {
	for i, t := range r.todos {
		if t.ID == id && t.OwnerID == ownerID {
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// --- helpers ---

func newTestRouter(t *testing.T) (*gin.Engine, *memUsersRepo, *memTodosRepo) {
	t.Helper()

	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	usersRepo := &memUsersRepo{}
	todosRepo := &memTodosRepo{}

	// An empty sqlite DB carries the registration transaction; the fake
	// repositories hold the actual rows.
	db, err := sql.Open("sqlite", "file:httpapi_tests?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHandler(
		services.NewUserService(db, func(dbx.DBTX) usersrepo.Repository { return usersRepo }, cfg),
		services.NewTodoService(todosRepo, nil),
		logger,
	)
	return h.NewRouter(), usersRepo, todosRepo
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/signup", "",
		map[string]string{"username": username, "email": username + "@example.com", "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("signup status %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/login", "",
		map[string]string{"username": username, "password": "pw"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	return resp.AccessToken
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Detail
}

// --- tests ---

func TestSignup_DuplicateUsername(t *testing.T) {
	router, _, _ := newTestRouter(t)
	signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/signup", "",
		map[string]string{"username": "alice", "email": "other@example.com", "password": "pw"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if got := detailOf(t, w); got != "Username already registered" {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router, _, _ := newTestRouter(t)
	signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/signup", "",
		map[string]string{"username": "bob", "email": "alice@example.com", "password": "pw"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
	if got := detailOf(t, w); got != "Email already registered" {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _, _ := newTestRouter(t)
	signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/login", "",
		map[string]string{"username": "alice", "password": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if got := detailOf(t, w); got != "Incorrect username or password" {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var u userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Username != "alice" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestProtected_NoToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/todos/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestProtected_ExpiredToken(t *testing.T) {
	router, _, _ := newTestRouter(t)
	signupAndLogin(t, router, "alice")

	expired, err := auth.GenerateToken("alice", []byte("test-secret"), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	w := doJSON(t, router, http.MethodGet, "/todos/", expired, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if got := detailOf(t, w); got != "Could not validate credentials" {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestTodos_CRUDRoundTrip(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/todos/", token,
		map[string]any{"title": "milk", "description": "2 liters", "priority": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}
	var created todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == 0 || created.Priority != 1 || created.Completed {
		t.Fatalf("unexpected todo: %+v", created)
	}

	w = doJSON(t, router, http.MethodGet, "/todos/", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	var list []todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "milk" {
		t.Fatalf("unexpected list: %+v", list)
	}

	w = doJSON(t, router, http.MethodPut, "/todos/1", token,
		map[string]any{"completed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("update status %d: %s", w.Code, w.Body.String())
	}
	var updated todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if !updated.Completed || updated.Title != "milk" {
		t.Fatalf("partial update lost fields: %+v", updated)
	}

	w = doJSON(t, router, http.MethodDelete, "/todos/1", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/todos/", token, nil)
	var after []todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("expected empty list, got %+v", after)
	}
}

func TestTodos_OwnershipIsolation(t *testing.T) {
	router, _, _ := newTestRouter(t)
	aliceToken := signupAndLogin(t, router, "alice")
	bobToken := signupAndLogin(t, router, "bob")

	w := doJSON(t, router, http.MethodPost, "/todos/", aliceToken,
		map[string]any{"title": "secret", "priority": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("create status %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/todos/", bobToken, nil)
	var list []todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("bob can see alice's todos: %+v", list)
	}

	w = doJSON(t, router, http.MethodPut, "/todos/1", bobToken,
		map[string]any{"completed": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-owner update status %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodDelete, "/todos/1", bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-owner delete status %d, want 404", w.Code)
	}
}

func TestGetTodo_ByID(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/todos/", token,
		map[string]any{"title": "milk", "priority": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("create status %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/todos/1", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d: %s", w.Code, w.Body.String())
	}
	var got todoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode todo: %v", err)
	}
	if got.ID != 1 || got.Title != "milk" {
		t.Fatalf("unexpected todo: %+v", got)
	}

	w = doJSON(t, router, http.MethodGet, "/todos/99", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing todo status %d, want 404", w.Code)
	}
}

func TestUpdateTodo_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPut, "/todos/99", token,
		map[string]any{"completed": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
	if got := detailOf(t, w); got != "Todo not found" {
		t.Fatalf("unexpected detail: %q", got)
	}
}

func TestCreateTodo_EmptyTitle(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := signupAndLogin(t, router, "alice")

	w := doJSON(t, router, http.MethodPost, "/todos/", token,
		map[string]any{"title": "", "priority": 2})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
}
