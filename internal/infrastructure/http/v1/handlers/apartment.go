package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/domain/catalogs/apartment"
	"domus/internal/domain/catalogs/resident"
	"domus/internal/infrastructure/http/v1/dto"
)

// ApartmentHandler handles apartment endpoints.
type ApartmentHandler struct {
	*CatalogHandler[*apartment.Apartment, dto.CreateApartmentRequest, dto.UpdateApartmentRequest]
	service   *apartment.Service
	residents *resident.Service
}

// NewApartmentHandler creates a new apartment handler.
func NewApartmentHandler(base *BaseHandler, service *apartment.Service, residents *resident.Service) *ApartmentHandler {
	return &ApartmentHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*apartment.Apartment, dto.CreateApartmentRequest, dto.UpdateApartmentRequest]{
			Service: service,
			MapCreate: func(req dto.CreateApartmentRequest) *apartment.Apartment {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateApartmentRequest, existing *apartment.Apartment) *apartment.Apartment {
				return req.Apply(existing)
			},
		}),
		service:   service,
		residents: residents,
	}
}

// ListResidents handles GET /apartments/:id/residents.
func (h *ApartmentHandler) ListResidents(c *gin.Context) {
	apartmentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	items, err := h.residents.ListByApartment(c.Request.Context(), apartmentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
