package handlers

import (
	"github.com/gin-gonic/gin"

	"domus/internal/domain/catalogs/building"
	"domus/internal/infrastructure/http/v1/dto"
)

// BuildingHandler handles building endpoints.
type BuildingHandler struct {
	*CatalogHandler[*building.Building, dto.CreateBuildingRequest, dto.UpdateBuildingRequest]
	service *building.Service
}

// NewBuildingHandler creates a new building handler.
func NewBuildingHandler(base *BaseHandler, service *building.Service) *BuildingHandler {
	return &BuildingHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*building.Building, dto.CreateBuildingRequest, dto.UpdateBuildingRequest]{
			Service: service,
			MapCreate: func(req dto.CreateBuildingRequest) *building.Building {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateBuildingRequest, existing *building.Building) *building.Building {
				return req.Apply(existing)
			},
		}),
		service: service,
	}
}

// Refresh handles POST /buildings/:id/refresh - recompute derived
// aggregates (apartment count, balance, debt) from owned rows.
func (h *BuildingHandler) Refresh(c *gin.Context) {
	buildingID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.RefreshAggregates(c.Request.Context(), buildingID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "aggregates refreshed")
}
