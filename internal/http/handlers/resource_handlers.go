package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

// Listing defaults
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// reserved list query parameters; everything else is a filter
var listParams = map[string]bool{"page": true, "limit": true, "search": true, "sort": true}

// ResourceHandlers serves CRUD for the dashboard resources
type ResourceHandlers struct {
	svc domain.ResourceService
}

// NewResourceHandlers creates new resource handlers
func NewResourceHandlers(svc domain.ResourceService) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// resource reads and validates the :resource path parameter
func resource(c *gin.Context) (string, bool) {
	name := c.Param("resource")
	if !domain.IsResource(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown resource"})
		return "", false
	}
	return name, true
}

// List handles paginated listing
func (h *ResourceHandlers) List(c *gin.Context) {
	name, ok := resource(c)
	if !ok {
		return
	}
	q, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.svc.List(c.Request.Context(), name, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": page})
}

func parseListQuery(c *gin.Context) (domain.ListQuery, error) {
	q := domain.ListQuery{
		Page:   1,
		Limit:  DefaultPageSize,
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
	}
	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, errInvalidParam("page")
		}
		q.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, errInvalidParam("limit")
		}
		q.Limit = min(n, MaxPageSize)
	}
	for k, v := range c.Request.URL.Query() {
		if listParams[k] || len(v) == 0 || v[0] == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters[k] = v[0]
	}
	return q, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string { return "invalid " + string(e) + " parameter" }

// Get handles fetching one item
func (h *ResourceHandlers) Get(c *gin.Context) {
	name, ok := resource(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), name, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

// Create handles item creation
func (h *ResourceHandlers) Create(c *gin.Context) {
	name, ok := resource(c)
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.svc.Create(c.Request.Context(), name, body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

// Update handles full replacement (PUT)
func (h *ResourceHandlers) Update(c *gin.Context) {
	h.write(c, h.svc.Update)
}

// Patch handles partial updates such as status changes
func (h *ResourceHandlers) Patch(c *gin.Context) {
	h.write(c, h.svc.Patch)
}

type writeFunc func(ctx context.Context, resource, id string, body map[string]any) (map[string]any, error)

func (h *ResourceHandlers) write(c *gin.Context, fn writeFunc) {
	name, ok := resource(c)
	if !ok {
		return
	}
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := fn(c.Request.Context(), name, c.Param("id"), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

// Delete handles item removal
func (h *ResourceHandlers) Delete(c *gin.Context) {
	name, ok := resource(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), name, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Bulk applies composed actions to several items. On failure the partial result is
// returned next to the error.
func (h *ResourceHandlers) Bulk(c *gin.Context) {
	name, ok := resource(c)
	if !ok {
		return
	}
	var req domain.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.svc.Bulk(c.Request.Context(), name, req)
	if err != nil {
		if result == nil {
			writeError(c, err)
			return
		}
		status, message := errorResponse(err)
		c.JSON(status, gin.H{"error": message, "data": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
