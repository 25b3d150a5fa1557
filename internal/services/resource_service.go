package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/you/adminconsole/domain"
)

// Bulk action ops
const (
	BulkOpDelete = "delete"
	BulkOpStatus = "status"
	BulkOpSet    = "set"
)

// ResourceServiceImpl implements domain.ResourceService: CRUD calls carrying the
// session's bearer token. A 401 from the backend ends the session.
type ResourceServiceImpl struct {
	client   domain.ResourceClient
	sessions domain.SessionManager
	logger   *slog.Logger
}

// NewResourceService creates a new resource service
func NewResourceService(client domain.ResourceClient, sessions domain.SessionManager, logger *slog.Logger) *ResourceServiceImpl {
	return &ResourceServiceImpl{client: client, sessions: sessions, logger: logger}
}

// List implements domain.ResourceService
func (s *ResourceServiceImpl) List(ctx context.Context, resource string, q domain.ListQuery) (*domain.Page, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	page, err := s.client.List(ctx, token, resource, q)
	return page, s.check(ctx, err)
}

// Get implements domain.ResourceService
func (s *ResourceServiceImpl) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	item, err := s.client.Get(ctx, token, resource, id)
	return item, s.check(ctx, err)
}

// Create implements domain.ResourceService
func (s *ResourceServiceImpl) Create(ctx context.Context, resource string, body map[string]any) (map[string]any, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	item, err := s.client.Create(ctx, token, resource, body)
	return item, s.check(ctx, err)
}

// Update implements domain.ResourceService
func (s *ResourceServiceImpl) Update(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	item, err := s.client.Update(ctx, token, resource, id, body)
	return item, s.check(ctx, err)
}

// Patch implements domain.ResourceService
func (s *ResourceServiceImpl) Patch(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	item, err := s.client.Patch(ctx, token, resource, id, body)
	return item, s.check(ctx, err)
}

// Delete implements domain.ResourceService
func (s *ResourceServiceImpl) Delete(ctx context.Context, resource, id string) error {
	token, err := s.token()
	if err != nil {
		return err
	}
	return s.check(ctx, s.client.Delete(ctx, token, resource, id))
}

// Bulk applies the actions to every id, in id order. All status/set actions are merged
// into one PATCH per id; a delete, which must be the last action, follows it. The first
// failure stops the run and the result names the ids already done.
func (s *ResourceServiceImpl) Bulk(ctx context.Context, resource string, req domain.BulkRequest) (*domain.BulkResult, error) {
	if !domain.IsResource(resource) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownResource, resource)
	}
	patch, del, err := composeBulk(req.Actions)
	if err != nil {
		return nil, err
	}

	result := &domain.BulkResult{Succeeded: []string{}}
	for _, id := range req.IDs {
		if len(patch) > 0 {
			if _, err := s.Patch(ctx, resource, id, patch); err != nil {
				return s.bulkFailed(ctx, result, resource, id, err)
			}
		}
		if del {
			if err := s.Delete(ctx, resource, id); err != nil {
				return s.bulkFailed(ctx, result, resource, id, err)
			}
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

func (s *ResourceServiceImpl) bulkFailed(ctx context.Context, result *domain.BulkResult, resource, id string, err error) (*domain.BulkResult, error) {
	s.logger.WarnContext(ctx, "bulk action stopped", "resource", resource, "id", id,
		"succeeded", len(result.Succeeded), "error", err)
	result.FailedID = id
	result.Error = err.Error()
	return result, err
}

// composeBulk folds the action list into one patch body and a trailing delete flag
func composeBulk(actions []domain.BulkAction) (map[string]any, bool, error) {
	patch := map[string]any{}
	del := false
	for _, a := range actions {
		if del {
			return nil, false, fmt.Errorf("%w: delete must be the last action", domain.ErrUnknownBulkOp)
		}
		switch a.Op {
		case BulkOpDelete:
			del = true
		case BulkOpStatus:
			if a.Status == "" {
				return nil, false, fmt.Errorf("%w: status action without status", domain.ErrUnknownBulkOp)
			}
			patch["status"] = a.Status
		case BulkOpSet:
			for k, v := range a.Fields {
				patch[k] = v
			}
		default:
			return nil, false, fmt.Errorf("%w: %q", domain.ErrUnknownBulkOp, a.Op)
		}
	}
	if len(patch) == 0 && !del {
		return nil, false, fmt.Errorf("%w: no actions", domain.ErrUnknownBulkOp)
	}
	return patch, del, nil
}

func (s *ResourceServiceImpl) token() (string, error) {
	token := s.sessions.Token()
	if token == "" {
		return "", domain.ErrNotAuthenticated
	}
	return token, nil
}

// check ends the session when the backend refuses the token
func (s *ResourceServiceImpl) check(ctx context.Context, err error) error {
	var resErr *domain.ResourceError
	if errors.As(err, &resErr) && resErr.Status == http.StatusUnauthorized {
		s.logger.InfoContext(ctx, "backend rejected session token")
		s.sessions.Reject(ctx)
	}
	return err
}

// Compile-time interface compliance verification
var _ domain.ResourceService = (*ResourceServiceImpl)(nil)
