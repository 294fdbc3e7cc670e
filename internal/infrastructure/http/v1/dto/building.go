package dto

import (
	"time"

	"domus/internal/core/types"
	"domus/internal/domain/catalogs/building"
)

// CreateBuildingRequest creates a new building.
type CreateBuildingRequest struct {
	Code string `json:"code"`
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`

	Country    string `json:"country" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	PostalCode string `json:"postalCode"`

	MonthlyFee types.Money `json:"monthlyFee"`

	TaxGenerationPeriod string     `json:"taxGenerationPeriod"`
	TaxGenerationDay    int        `json:"taxGenerationDay"`
	NextTaxDate         *time.Time `json:"nextTaxDate"`

	HomebookStartDate time.Time `json:"homebookStartDate" binding:"required"`

	Status string `json:"status"`
}

// ToEntity maps the request to a domain building.
func (r CreateBuildingRequest) ToEntity() *building.Building {
	b := building.New(r.Name, building.BuildingType(r.Type))
	b.Code = r.Code
	b.Country = r.Country
	b.City = r.City
	b.Street = r.Street
	b.Number = r.Number
	b.PostalCode = r.PostalCode
	b.MonthlyFee = r.MonthlyFee
	if r.TaxGenerationPeriod != "" {
		b.TaxGenerationPeriod = building.TaxPeriod(r.TaxGenerationPeriod)
	}
	if r.TaxGenerationDay != 0 {
		b.TaxGenerationDay = r.TaxGenerationDay
	}
	b.NextTaxDate = r.NextTaxDate
	b.HomebookStartDate = r.HomebookStartDate
	if r.Status != "" {
		b.Status = building.Status(r.Status)
	}
	return b
}

// UpdateBuildingRequest updates mutable building fields. Financial
// aggregates (balance, debt, apartment count) stay server-managed.
type UpdateBuildingRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`

	Country    string `json:"country" binding:"required"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	PostalCode string `json:"postalCode"`

	MonthlyFee types.Money `json:"monthlyFee"`

	TaxGenerationPeriod string     `json:"taxGenerationPeriod" binding:"required"`
	TaxGenerationDay    int        `json:"taxGenerationDay" binding:"required"`
	NextTaxDate         *time.Time `json:"nextTaxDate"`

	HomebookStartDate time.Time `json:"homebookStartDate" binding:"required"`

	Status string `json:"status" binding:"required"`
}

// Apply copies the request onto an existing building.
func (r UpdateBuildingRequest) Apply(b *building.Building) *building.Building {
	b.Name = r.Name
	b.Type = building.BuildingType(r.Type)
	b.Country = r.Country
	b.City = r.City
	b.Street = r.Street
	b.Number = r.Number
	b.PostalCode = r.PostalCode
	b.MonthlyFee = r.MonthlyFee
	b.TaxGenerationPeriod = building.TaxPeriod(r.TaxGenerationPeriod)
	b.TaxGenerationDay = r.TaxGenerationDay
	if r.NextTaxDate != nil {
		b.NextTaxDate = r.NextTaxDate
	}
	b.HomebookStartDate = r.HomebookStartDate
	b.Status = building.Status(r.Status)
	return b
}
