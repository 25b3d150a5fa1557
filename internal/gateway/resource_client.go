package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/you/adminconsole/domain"
)

// ResourceClientImpl implements domain.ResourceClient: the same five calls for every
// dashboard resource (GET list, GET /:id, POST, PUT /:id, PATCH /:id, DELETE /:id).
type ResourceClientImpl struct {
	client *Client
}

// NewResourceClient creates a new resource client
func NewResourceClient(client *Client) domain.ResourceClient {
	return &ResourceClientImpl{client: client}
}

type listResponse struct {
	Data       []map[string]any `json:"data"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

type itemResponse struct {
	Data map[string]any `json:"data"`
}

// List implements domain.ResourceClient
func (r *ResourceClientImpl) List(ctx context.Context, token, resource string, q domain.ListQuery) (*domain.Page, error) {
	if !domain.IsResource(resource) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}

	var result listResponse
	if err := r.client.do(ctx, http.MethodGet, "/"+resource, listValues(q), token, nil, &result); err != nil {
		return nil, resourceError(err)
	}

	page := &domain.Page{
		Items:      result.Data,
		Total:      result.Total,
		Page:       result.Page,
		TotalPages: result.TotalPages,
	}
	if page.Items == nil {
		page.Items = []map[string]any{}
	}
	return page, nil
}

// Get implements domain.ResourceClient
func (r *ResourceClientImpl) Get(ctx context.Context, token, resource, id string) (map[string]any, error) {
	return r.item(ctx, http.MethodGet, token, resource, id, nil)
}

// Create implements domain.ResourceClient
func (r *ResourceClientImpl) Create(ctx context.Context, token, resource string, body map[string]any) (map[string]any, error) {
	if !domain.IsResource(resource) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	var result itemResponse
	if err := r.client.do(ctx, http.MethodPost, "/"+resource, nil, token, body, &result); err != nil {
		return nil, resourceError(err)
	}
	return result.Data, nil
}

// Update implements domain.ResourceClient
func (r *ResourceClientImpl) Update(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error) {
	return r.item(ctx, http.MethodPut, token, resource, id, body)
}

// Patch implements domain.ResourceClient
func (r *ResourceClientImpl) Patch(ctx context.Context, token, resource, id string, body map[string]any) (map[string]any, error) {
	return r.item(ctx, http.MethodPatch, token, resource, id, body)
}

// Delete implements domain.ResourceClient
func (r *ResourceClientImpl) Delete(ctx context.Context, token, resource, id string) error {
	if !domain.IsResource(resource) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	if err := r.client.do(ctx, http.MethodDelete, itemPath(resource, id), nil, token, nil, nil); err != nil {
		return resourceError(err)
	}
	return nil
}

func (r *ResourceClientImpl) item(ctx context.Context, method, token, resource, id string, body map[string]any) (map[string]any, error) {
	if !domain.IsResource(resource) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	var payload any
	if body != nil {
		payload = body
	}
	var result itemResponse
	if err := r.client.do(ctx, method, itemPath(resource, id), nil, token, payload, &result); err != nil {
		return nil, resourceError(err)
	}
	return result.Data, nil
}

func itemPath(resource, id string) string {
	return "/" + resource + "/" + url.PathEscape(id)
}

func listValues(q domain.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

func resourceError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &domain.ResourceError{Status: se.Status, Message: se.Message}
	}
	return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
}
