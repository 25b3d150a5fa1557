package mocks

import (
	"context"
	"sync"

	"github.com/you/adminconsole/domain"
)

// MockTokenStore implements domain.TokenStore in memory for testing
type MockTokenStore struct {
	SaveFunc  func(ctx context.Context, token string) error
	LoadFunc  func(ctx context.Context) (string, error)
	ClearFunc func(ctx context.Context) error

	mu         sync.Mutex
	token      string
	SaveCalls  int
	ClearCalls int
}

// NewMockTokenStore creates a MockTokenStore holding token ("" for empty)
func NewMockTokenStore(token string) *MockTokenStore {
	return &MockTokenStore{token: token}
}

// Save stores the token
func (m *MockTokenStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Load returns the stored token
func (m *MockTokenStore) Load(ctx context.Context) (string, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Clear removes the stored token
func (m *MockTokenStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.ClearCalls++
	m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// Stored returns the token currently held, bypassing LoadFunc
func (m *MockTokenStore) Stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Compile-time interface compliance verification
var _ domain.TokenStore = (*MockTokenStore)(nil)
