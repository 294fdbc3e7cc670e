// Package building provides the Building aggregate root.
// A building owns apartments, cash inventories, monthly fees and calendar
// events; deleting it cascades to all of them.
package building

import (
	"context"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/types"
)

// BuildingType defines the usage category of a building.
type BuildingType string

const (
	TypeResidential BuildingType = "residential"
	TypeCommercial  BuildingType = "commercial"
	TypeOffice      BuildingType = "office"
	TypeMixed       BuildingType = "mixed"
)

// Status defines the operational state of a building.
type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// TaxPeriod defines how often building taxes are generated.
type TaxPeriod string

const (
	TaxMonthly   TaxPeriod = "monthly"
	TaxQuarterly TaxPeriod = "quarterly"
	TaxYearly    TaxPeriod = "yearly"
)

// Building is the root aggregate of the back office.
type Building struct {
	entity.BaseEntity

	Code string       `db:"code" json:"code"`
	Name string       `db:"name" json:"name"`
	Type BuildingType `db:"type" json:"type"`

	// Address
	Country    string `db:"country" json:"country"`
	City       string `db:"city" json:"city"`
	Street     string `db:"street" json:"street"`
	Number     string `db:"number" json:"number"`
	PostalCode string `db:"postal_code" json:"postalCode,omitempty"`

	// Financial snapshot (derived aggregates, refreshed by services)
	Balance    types.Money `db:"balance" json:"balance"`
	MonthlyFee types.Money `db:"monthly_fee" json:"monthlyFee"`
	Debt       types.Money `db:"debt" json:"debt"`

	// ApartmentCount mirrors count of owned apartments (soft invariant)
	ApartmentCount int `db:"apartment_count" json:"apartmentCount"`

	// Tax generation settings
	TaxGenerationPeriod TaxPeriod  `db:"tax_generation_period" json:"taxGenerationPeriod"`
	TaxGenerationDay    int        `db:"tax_generation_day" json:"taxGenerationDay"`
	NextTaxDate         *time.Time `db:"next_tax_date" json:"nextTaxDate,omitempty"`

	HomebookStartDate time.Time `db:"homebook_start_date" json:"homebookStartDate"`

	Status Status `db:"status" json:"status"`
}

// New creates a Building with required fields and defaults.
func New(name string, btype BuildingType) *Building {
	return &Building{
		BaseEntity:          entity.NewBaseEntity(),
		Name:                name,
		Type:                btype,
		Balance:             types.Zero(),
		MonthlyFee:          types.Zero(),
		Debt:                types.Zero(),
		TaxGenerationPeriod: TaxMonthly,
		TaxGenerationDay:    1,
		Status:              StatusActive,
	}
}

// Validate implements entity.Validatable.
func (b *Building) Validate(ctx context.Context) error {
	if b.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !isValidType(b.Type) {
		return apperror.NewValidation("invalid building type").
			WithDetail("field", "type").
			WithDetail("value", string(b.Type))
	}
	if b.Country == "" || b.City == "" || b.Street == "" || b.Number == "" {
		return apperror.NewValidation("full address is required").
			WithDetail("fields", []string{"country", "city", "street", "number"})
	}
	if b.HomebookStartDate.IsZero() {
		return apperror.NewValidation("homebook start date is required").
			WithDetail("field", "homebookStartDate")
	}
	if !isValidStatus(b.Status) {
		return apperror.NewValidation("invalid building status").
			WithDetail("field", "status").
			WithDetail("value", string(b.Status))
	}
	if err := validateTaxDay(b.TaxGenerationPeriod, b.TaxGenerationDay); err != nil {
		return err
	}
	return nil
}

// ComputeNextTaxDate derives the next generation date after `after` from the
// configured period and day.
func (b *Building) ComputeNextTaxDate(after time.Time) time.Time {
	after = after.UTC()
	switch b.TaxGenerationPeriod {
	case TaxQuarterly:
		// Day counted from the start of the current quarter.
		quarterStart := time.Date(after.Year(), ((after.Month()-1)/3)*3+1, 1, 0, 0, 0, 0, time.UTC)
		next := quarterStart.AddDate(0, 0, b.TaxGenerationDay-1)
		if !next.After(after) {
			next = quarterStart.AddDate(0, 3, b.TaxGenerationDay-1)
		}
		return next
	case TaxYearly:
		yearStart := time.Date(after.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		next := yearStart.AddDate(0, 0, b.TaxGenerationDay-1)
		if !next.After(after) {
			next = yearStart.AddDate(1, 0, b.TaxGenerationDay-1)
		}
		return next
	default: // monthly
		monthStart := time.Date(after.Year(), after.Month(), 1, 0, 0, 0, 0, time.UTC)
		next := monthStart.AddDate(0, 0, b.TaxGenerationDay-1)
		if !next.After(after) {
			next = monthStart.AddDate(0, 1, b.TaxGenerationDay-1)
		}
		return next
	}
}

func validateTaxDay(period TaxPeriod, day int) error {
	var max int
	switch period {
	case TaxMonthly:
		max = 31
	case TaxQuarterly:
		max = 90
	case TaxYearly:
		max = 365
	default:
		return apperror.NewValidation("invalid tax generation period").
			WithDetail("field", "taxGenerationPeriod").
			WithDetail("value", string(period))
	}
	if day < 1 || day > max {
		return apperror.NewValidation("tax generation day out of range for period").
			WithDetail("field", "taxGenerationDay").
			WithDetail("period", string(period)).
			WithDetail("max", max)
	}
	return nil
}

func isValidType(t BuildingType) bool {
	switch t {
	case TypeResidential, TypeCommercial, TypeOffice, TypeMixed:
		return true
	}
	return false
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}
