package session

import (
	"context"
	"fmt"
)

// tokenKey is the single metadata key holding the raw bearer token string.
const tokenKey = "access_token"

// Manager wraps the repository with token-specific accessors. It is the
// explicit replacement for module-scoped credential state: callers hold a
// Manager and thread it through, nothing is package-global.
type Manager struct {
	repo Repository
}

func NewManager(repo Repository) *Manager {
	return &Manager{repo: repo}
}

// Token returns the stored credential, or "" when none is stored.
func (m *Manager) Token(ctx context.Context) (string, error) {
	v, err := m.repo.Get(ctx, tokenKey)
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return string(v), nil
}

// SetToken persists a credential, overwriting any prior value.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	if err := m.repo.Set(ctx, tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// RemoveToken deletes the stored credential.
func (m *Manager) RemoveToken(ctx context.Context) error {
	if err := m.repo.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a non-empty credential is stored.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	token, err := m.Token(ctx)
	if err != nil {
		return false
	}
	return token != ""
}
