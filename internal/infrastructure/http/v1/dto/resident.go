package dto

import (
	"domus/internal/core/id"
	"domus/internal/domain/catalogs/resident"
)

// CreateResidentRequest registers a resident in an apartment.
type CreateResidentRequest struct {
	ApartmentID   id.ID  `json:"apartmentId" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Surname       string `json:"surname" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Role          string `json:"role" binding:"required"`
	IsMainContact bool   `json:"isMainContact"`
}

// ToEntity maps the request to a domain resident.
func (r CreateResidentRequest) ToEntity() *resident.Resident {
	res := resident.New(r.ApartmentID, r.Name, r.Surname, resident.Role(r.Role))
	res.Phone = r.Phone
	res.Email = r.Email
	res.IsMainContact = r.IsMainContact
	return res
}

// UpdateResidentRequest updates mutable resident fields.
type UpdateResidentRequest struct {
	Name          string `json:"name" binding:"required"`
	Surname       string `json:"surname" binding:"required"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Role          string `json:"role" binding:"required"`
	IsMainContact bool   `json:"isMainContact"`
}

// Apply copies the request onto an existing resident.
func (r UpdateResidentRequest) Apply(res *resident.Resident) *resident.Resident {
	res.Name = r.Name
	res.Surname = r.Surname
	res.Phone = r.Phone
	res.Email = r.Email
	res.Role = resident.Role(r.Role)
	res.IsMainContact = r.IsMainContact
	return res
}
