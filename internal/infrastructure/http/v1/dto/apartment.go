package dto

import (
	"domus/internal/core/id"
	"domus/internal/domain/catalogs/apartment"
)

// CreateApartmentRequest creates an apartment within a building.
type CreateApartmentRequest struct {
	BuildingID  id.ID   `json:"buildingId" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Number      string  `json:"number" binding:"required"`
	Floor       int     `json:"floor"`
	Quadrature  float64 `json:"quadrature"`
	CommonParts float64 `json:"commonParts"`
	IdealParts  float64 `json:"idealParts"`
	Pets        int     `json:"pets"`
	Status      string  `json:"status"`
}

// ToEntity maps the request to a domain apartment.
func (r CreateApartmentRequest) ToEntity() *apartment.Apartment {
	a := apartment.New(r.BuildingID, r.Number, apartment.ApartmentType(r.Type))
	a.Floor = r.Floor
	a.Quadrature = r.Quadrature
	a.CommonParts = r.CommonParts
	a.IdealParts = r.IdealParts
	a.Pets = r.Pets
	if r.Status != "" {
		a.Status = apartment.Status(r.Status)
	}
	return a
}

// UpdateApartmentRequest updates mutable apartment fields. Debt and
// residents count stay server-managed.
type UpdateApartmentRequest struct {
	Type        string  `json:"type" binding:"required"`
	Number      string  `json:"number" binding:"required"`
	Floor       int     `json:"floor"`
	Quadrature  float64 `json:"quadrature"`
	CommonParts float64 `json:"commonParts"`
	IdealParts  float64 `json:"idealParts"`
	Pets        int     `json:"pets"`
	Status      string  `json:"status" binding:"required"`
}

// Apply copies the request onto an existing apartment.
func (r UpdateApartmentRequest) Apply(a *apartment.Apartment) *apartment.Apartment {
	a.Type = apartment.ApartmentType(r.Type)
	a.Number = r.Number
	a.Floor = r.Floor
	a.Quadrature = r.Quadrature
	a.CommonParts = r.CommonParts
	a.IdealParts = r.IdealParts
	a.Pets = r.Pets
	a.Status = apartment.Status(r.Status)
	return a
}
