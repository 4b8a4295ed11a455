package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/todoapp/internal/client/models"
	"github.com/dmitrijs2005/todoapp/internal/common"
)

// HTTPClient talks JSON over HTTP to a fixed base origin.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

func NewHTTPClient(baseURL string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{},
	}
}

// Do performs a single request against the API. It sets the JSON content
// type and, when a credential is stored, the bearer Authorization header,
// then returns the raw response for the caller to interpret. It does not
// retry and does not inspect status codes.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.client.Do(req)
}

// detailBody is the error envelope the server uses for rejections.
type detailBody struct {
	Detail string `json:"detail"`
}

// doJSON runs Do and maps the outcome: transport failures become
// common.ErrServerUnavailable, 401 becomes common.ErrUnauthorized, other
// non-2xx statuses become *Error carrying the server detail message. On
// success the body is decoded into out (when out is non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var d detailBody
		// A malformed error body still yields the generic fallback.
		_ = json.NewDecoder(resp.Body).Decode(&d)
		return &Error{Status: resp.StatusCode, Detail: d.Detail}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", common.ErrServerUnavailable, err)
		}
	}
	return nil
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, username, email, password string) error {
	body := signupRequest{Username: username, Email: email, Password: password}
	return c.doJSON(ctx, http.MethodPost, "/signup", body, nil)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates and returns the issued bearer token. Storing the
// token is the caller's concern so a failed login never leaves a partial
// credential behind.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	body := loginRequest{Username: username, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.doJSON(ctx, http.MethodGet, "/todos/", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *HTTPClient) CreateTodo(ctx context.Context, todo models.NewTodo) error {
	return c.doJSON(ctx, http.MethodPost, "/todos/", todo, nil)
}

func (c *HTTPClient) UpdateTodo(ctx context.Context, id int64, patch models.TodoPatch) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/todos/%d", id), patch, nil)
}

func (c *HTTPClient) DeleteTodo(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/todos/%d", id), nil, nil)
}
