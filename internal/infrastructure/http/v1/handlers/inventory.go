package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles cash inventory endpoints.
type InventoryHandler struct {
	*CatalogHandler[*ledger.Inventory, dto.CreateInventoryRequest, dto.UpdateInventoryRequest]
	service *ledger.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *ledger.Service) *InventoryHandler {
	return &InventoryHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*ledger.Inventory, dto.CreateInventoryRequest, dto.UpdateInventoryRequest]{
			Service: service,
			MapCreate: func(req dto.CreateInventoryRequest) *ledger.Inventory {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateInventoryRequest, existing *ledger.Inventory) *ledger.Inventory {
				return req.Apply(existing)
			},
		}),
		service: service,
	}
}

// GetMain handles GET /inventories/main?buildingId=...
func (h *InventoryHandler) GetMain(c *gin.Context) {
	raw := c.Query("buildingId")
	if raw == "" {
		h.Error(c, apperror.NewValidation("buildingId is required"))
		return
	}
	buildingID, err := id.Parse(raw)
	if err != nil {
		h.Error(c, validationErr("buildingId"))
		return
	}

	inv, err := h.service.GetMain(c.Request.Context(), buildingID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// MakeMain handles POST /inventories/:id/make-main - moves the main flag
// of the owning building onto this inventory.
func (h *InventoryHandler) MakeMain(c *gin.Context) {
	ctx := c.Request.Context()

	inventoryID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(ctx, inventoryID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.TransferMainStatus(ctx, inv.BuildingID, inventoryID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "main inventory updated")
}
