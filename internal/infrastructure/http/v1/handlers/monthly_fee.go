package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/infrastructure/http/v1/dto"
)

// MonthlyFeeHandler handles monthly fee endpoints.
type MonthlyFeeHandler struct {
	*CatalogHandler[*monthlyfee.MonthlyFee, dto.CreateMonthlyFeeRequest, dto.UpdateMonthlyFeeRequest]
	service *monthlyfee.Service
}

// NewMonthlyFeeHandler creates a new monthly fee handler.
func NewMonthlyFeeHandler(base *BaseHandler, service *monthlyfee.Service) *MonthlyFeeHandler {
	return &MonthlyFeeHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*monthlyfee.MonthlyFee, dto.CreateMonthlyFeeRequest, dto.UpdateMonthlyFeeRequest]{
			Service: service,
			MapCreate: func(req dto.CreateMonthlyFeeRequest) *monthlyfee.MonthlyFee {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateMonthlyFeeRequest, existing *monthlyfee.MonthlyFee) *monthlyfee.MonthlyFee {
				return req.Apply(existing)
			},
		}),
		service: service,
	}
}

// GetAllocations handles GET /fees/:id/allocations - the fee together
// with its per-apartment allocation rows.
func (h *MonthlyFeeHandler) GetAllocations(c *gin.Context) {
	feeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	fee, allocs, err := h.service.GetWithAllocations(c.Request.Context(), feeID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MonthlyFeeWithAllocations{
		Fee:         fee,
		Allocations: allocs,
	})
}

// Recompute handles POST /fees/:id/recompute - rebuild allocations from
// the current apartment roster.
func (h *MonthlyFeeHandler) Recompute(c *gin.Context) {
	feeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Recompute(c.Request.Context(), feeID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "allocations recomputed")
}
