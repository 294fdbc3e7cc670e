package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/domain"
	"domus/internal/infrastructure/http/v1/dto"
)

// CatalogOps is the service surface a catalog handler drives. Aggregate
// services satisfy it through the embedded generic catalog service, and
// their own Create/Update overrides take precedence where defined.
type CatalogOps[T entity.Validatable] interface {
	Create(ctx context.Context, item T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
// Domain entities carry JSON tags and serialize directly; only inbound
// payloads go through request DTOs.
type CatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	*BaseHandler
	service CatalogOps[T]

	mapCreate func(req CreateDTO) T
	mapUpdate func(req UpdateDTO, existing T) T
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Validatable, CreateDTO any, UpdateDTO any] struct {
	Service   CatalogOps[T]
	MapCreate func(req CreateDTO) T
	MapUpdate func(req UpdateDTO, existing T) T
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Validatable, CreateDTO any, UpdateDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, UpdateDTO],
) *CatalogHandler[T, CreateDTO, UpdateDTO] {
	return &CatalogHandler[T, CreateDTO, UpdateDTO]{
		BaseHandler: base,
		service:     cfg.Service,
		mapCreate:   cfg.MapCreate,
		mapUpdate:   cfg.MapUpdate,
	}
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	item := h.mapCreate(req)

	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req UpdateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.mapUpdate(req, existing)

	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseFilter builds a list filter from common query parameters.
func (h *CatalogHandler[T, CreateDTO, UpdateDTO]) parseFilter(c *gin.Context) (domain.ListFilter, bool) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", filter.Limit)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	if orderBy := c.Query("orderBy"); orderBy != "" {
		filter.OrderBy = orderBy
	}

	for _, scope := range []struct {
		param  string
		target **id.ID
	}{
		{"buildingId", &filter.BuildingID},
		{"apartmentId", &filter.ApartmentID},
	} {
		if raw := c.Query(scope.param); raw != "" {
			parsed, err := id.Parse(raw)
			if err != nil {
				h.Error(c, validationErr(scope.param))
				return filter, false
			}
			*scope.target = &parsed
		}
	}

	filter.Status = c.Query("status")
	if isActive := c.Query("isActive"); isActive != "" {
		val := isActive == "true"
		filter.IsActive = &val
	}

	return filter, true
}

func validationErr(param string) error {
	return apperror.NewValidation("invalid " + param + " format").WithDetail("param", param)
}
