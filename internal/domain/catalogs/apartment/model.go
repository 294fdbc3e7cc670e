// Package apartment provides the Apartment catalog.
// Apartments belong to a building, own residents and accumulate debt.
package apartment

import (
	"context"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// ApartmentType defines the unit category.
type ApartmentType string

const (
	TypeApartment ApartmentType = "apartment"
	TypeAtelier   ApartmentType = "atelier"
	TypeOffice    ApartmentType = "office"
	TypeGarage    ApartmentType = "garage"
	TypeShop      ApartmentType = "shop"
	TypeOther     ApartmentType = "other"
)

// Status defines the occupancy state.
type Status string

const (
	StatusOccupied    Status = "occupied"
	StatusVacant      Status = "vacant"
	StatusMaintenance Status = "maintenance"
	StatusReserved    Status = "reserved"
)

// Apartment is a unit within a building.
type Apartment struct {
	entity.BaseEntity

	BuildingID id.ID         `db:"building_id" json:"buildingId"`
	Type       ApartmentType `db:"type" json:"type"`
	Number     string        `db:"number" json:"number"`
	Floor      int           `db:"floor" json:"floor"`

	// Share metrics used as fee allocation coefficients
	Quadrature  float64 `db:"quadrature" json:"quadrature"`
	CommonParts float64 `db:"common_parts" json:"commonParts"`
	IdealParts  float64 `db:"ideal_parts" json:"idealParts"`

	ResidentsCount int `db:"residents_count" json:"residentsCount"`
	Pets           int `db:"pets" json:"pets"`

	Status Status      `db:"status" json:"status"`
	Debt   types.Money `db:"debt" json:"debt"`
}

// New creates an Apartment with defaults.
func New(buildingID id.ID, number string, atype ApartmentType) *Apartment {
	return &Apartment{
		BaseEntity: entity.NewBaseEntity(),
		BuildingID: buildingID,
		Number:     number,
		Type:       atype,
		Status:     StatusVacant,
		Debt:       types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (a *Apartment) Validate(ctx context.Context) error {
	if id.IsNil(a.BuildingID) {
		return apperror.NewValidation("building is required").WithDetail("field", "buildingId")
	}
	if a.Number == "" {
		return apperror.NewValidation("number is required").WithDetail("field", "number")
	}
	if !isValidType(a.Type) {
		return apperror.NewValidation("invalid apartment type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}
	if !isValidStatus(a.Status) {
		return apperror.NewValidation("invalid apartment status").
			WithDetail("field", "status").
			WithDetail("value", string(a.Status))
	}
	if a.Quadrature < 0 || a.CommonParts < 0 || a.IdealParts < 0 {
		return apperror.NewValidation("share metrics must not be negative").
			WithDetail("fields", []string{"quadrature", "commonParts", "idealParts"})
	}
	if a.ResidentsCount < 0 || a.Pets < 0 {
		return apperror.NewValidation("counts must not be negative").
			WithDetail("fields", []string{"residentsCount", "pets"})
	}
	return nil
}

// Coefficient returns the allocation coefficient for a payment basis key.
// Unknown keys yield 0; the fee engine validates basis values.
func (a *Apartment) Coefficient(basis string) float64 {
	switch basis {
	case "apartment":
		return 1
	case "resident":
		return float64(a.ResidentsCount)
	case "pet":
		return float64(a.Pets)
	case "common_parts":
		return a.CommonParts
	case "quadrature":
		return a.Quadrature
	}
	return 0
}

func isValidType(t ApartmentType) bool {
	switch t {
	case TypeApartment, TypeAtelier, TypeOffice, TypeGarage, TypeShop, TypeOther:
		return true
	}
	return false
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusOccupied, StatusVacant, StatusMaintenance, StatusReserved:
		return true
	}
	return false
}
