package mocks

import (
	"context"
	"sync"

	"github.com/you/adminconsole/domain"
)

// ResourceCall records one call made against MockResourceClient
type ResourceCall struct {
	Method   string
	Token    string
	Resource string
	ID       string
	Body     map[string]any
}

// MockResourceClient implements domain.ResourceClient for testing
type MockResourceClient struct {
	ListFunc   func(ctx context.Context, token, resource string, q domain.ListQuery) (*domain.Page, error)
	GetFunc    func(ctx context.Context, token, resource, id string) (map[string]any, error)
	CreateFunc func(ctx context.Context, token, resource string, body map[string]any) (map[string]any, error)
	UpdateFunc func(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error)
	PatchFunc  func(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error)
	DeleteFunc func(ctx context.Context, token, resource, id string) error

	mu    sync.Mutex
	calls []ResourceCall
}

// NewMockResourceClient creates a MockResourceClient that succeeds with empty results
func NewMockResourceClient() *MockResourceClient {
	return &MockResourceClient{}
}

// Calls returns the recorded calls in order
func (m *MockResourceClient) Calls() []ResourceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ResourceCall(nil), m.calls...)
}

func (m *MockResourceClient) record(c ResourceCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *MockResourceClient) List(ctx context.Context, token, resource string, q domain.ListQuery) (*domain.Page, error) {
	m.record(ResourceCall{Method: "List", Token: token, Resource: resource})
	if m.ListFunc != nil {
		return m.ListFunc(ctx, token, resource, q)
	}
	return &domain.Page{Items: []map[string]any{}, Page: 1}, nil
}

func (m *MockResourceClient) Get(ctx context.Context, token, resource, id string) (map[string]any, error) {
	m.record(ResourceCall{Method: "Get", Token: token, Resource: resource, ID: id})
	if m.GetFunc != nil {
		return m.GetFunc(ctx, token, resource, id)
	}
	return map[string]any{"_id": id}, nil
}

func (m *MockResourceClient) Create(ctx context.Context, token, resource string, body map[string]any) (map[string]any, error) {
	m.record(ResourceCall{Method: "Create", Token: token, Resource: resource, Body: body})
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, token, resource, body)
	}
	return body, nil
}

func (m *MockResourceClient) Update(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error) {
	m.record(ResourceCall{Method: "Update", Token: token, Resource: resource, ID: id, Body: body})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, token, resource, id, body)
	}
	return body, nil
}

func (m *MockResourceClient) Patch(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error) {
	m.record(ResourceCall{Method: "Patch", Token: token, Resource: resource, ID: id, Body: body})
	if m.PatchFunc != nil {
		return m.PatchFunc(ctx, token, resource, id, body)
	}
	return body, nil
}

func (m *MockResourceClient) Delete(ctx context.Context, token, resource, id string) error {
	m.record(ResourceCall{Method: "Delete", Token: token, Resource: resource, ID: id})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token, resource, id)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.ResourceClient = (*MockResourceClient)(nil)
