package handlers

import (
	"github.com/gin-gonic/gin"

	"domus/internal/domain/catalogs/resident"
	"domus/internal/infrastructure/http/v1/dto"
)

// ResidentHandler handles resident endpoints.
type ResidentHandler struct {
	*CatalogHandler[*resident.Resident, dto.CreateResidentRequest, dto.UpdateResidentRequest]
	service *resident.Service
}

// NewResidentHandler creates a new resident handler.
func NewResidentHandler(base *BaseHandler, service *resident.Service) *ResidentHandler {
	return &ResidentHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*resident.Resident, dto.CreateResidentRequest, dto.UpdateResidentRequest]{
			Service: service,
			MapCreate: func(req dto.CreateResidentRequest) *resident.Resident {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateResidentRequest, existing *resident.Resident) *resident.Resident {
				return req.Apply(existing)
			},
		}),
		service: service,
	}
}

// SetMainContact handles POST /residents/:id/main-contact. The previous
// main contact of the apartment loses the flag.
func (h *ResidentHandler) SetMainContact(c *gin.Context) {
	residentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.SetMainContact(c.Request.Context(), residentID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "main contact updated")
}
