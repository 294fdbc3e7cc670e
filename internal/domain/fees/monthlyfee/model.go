// Package monthlyfee provides fee definitions and the allocation engine
// that distributes a fee across a building's apartments.
package monthlyfee

import (
	"context"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// PaymentBasis selects the metric used as per-apartment coefficient.
type PaymentBasis string

const (
	BasisApartment   PaymentBasis = "apartment"
	BasisResident    PaymentBasis = "resident"
	BasisPet         PaymentBasis = "pet"
	BasisCommonParts PaymentBasis = "common_parts"
	BasisQuadrature  PaymentBasis = "quadrature"
)

// ApplicationMode controls how BaseAmount is interpreted.
type ApplicationMode string

const (
	// ModePerUnit charges BaseAmount per coefficient unit: an apartment
	// owes BaseAmount * coefficient.
	ModePerUnit ApplicationMode = "monthly_fee"
	// ModeTotal treats BaseAmount as a building total, split across
	// apartments proportionally to their coefficients.
	ModeTotal ApplicationMode = "total"
)

// MonthlyFee is a fee definition scoped to a building. A nil TargetMonth
// means the fee recurs every month.
type MonthlyFee struct {
	entity.BaseEntity

	BuildingID           id.ID           `db:"building_id" json:"buildingId"`
	Name                 string          `db:"name" json:"name"`
	PaymentBasis         PaymentBasis    `db:"payment_basis" json:"paymentBasis"`
	ApplicationMode      ApplicationMode `db:"application_mode" json:"applicationMode"`
	BaseAmount           types.Money     `db:"base_amount" json:"baseAmount"`
	IsDistributedEvenly  bool            `db:"is_distributed_evenly" json:"isDistributedEvenly"`
	TargetMonth          *types.Month    `db:"target_month" json:"targetMonth,omitempty"`
	IsActive             bool            `db:"is_active" json:"isActive"`
}

// New creates an active recurring fee.
func New(buildingID id.ID, name string, basis PaymentBasis, mode ApplicationMode, amount types.Money) *MonthlyFee {
	return &MonthlyFee{
		BaseEntity:          entity.NewBaseEntity(),
		BuildingID:          buildingID,
		Name:                name,
		PaymentBasis:        basis,
		ApplicationMode:     mode,
		BaseAmount:          amount,
		IsDistributedEvenly: true,
		IsActive:            true,
	}
}

// Validate implements entity.Validatable.
func (f *MonthlyFee) Validate(ctx context.Context) error {
	if id.IsNil(f.BuildingID) {
		return apperror.NewValidation("building is required").WithDetail("field", "buildingId")
	}
	if f.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	switch f.PaymentBasis {
	case BasisApartment, BasisResident, BasisPet, BasisCommonParts, BasisQuadrature:
	default:
		return apperror.NewValidation("invalid payment basis").
			WithDetail("field", "paymentBasis").
			WithDetail("value", string(f.PaymentBasis))
	}
	switch f.ApplicationMode {
	case ModePerUnit, ModeTotal:
	default:
		return apperror.NewValidation("invalid application mode").
			WithDetail("field", "applicationMode").
			WithDetail("value", string(f.ApplicationMode))
	}
	if f.BaseAmount.IsNegative() {
		return apperror.NewValidation("base amount must not be negative").
			WithDetail("field", "baseAmount").
			WithDetail("value", f.BaseAmount.String())
	}
	return nil
}

// IsRecurring reports whether payments should be generated every month.
func (f *MonthlyFee) IsRecurring() bool {
	return f.TargetMonth == nil
}

// AppliesTo reports whether the fee charges the given month.
func (f *MonthlyFee) AppliesTo(month types.Month) bool {
	if f.TargetMonth == nil {
		return true
	}
	return *f.TargetMonth == month
}

// Allocation is the computed per-apartment share of a fee. One row per
// (fee, apartment) pair; recomputation overwrites in place.
type Allocation struct {
	entity.BaseEntity

	MonthlyFeeID     id.ID       `db:"monthly_fee_id" json:"monthlyFeeId"`
	ApartmentID      id.ID       `db:"apartment_id" json:"apartmentId"`
	Coefficient      float64     `db:"coefficient" json:"coefficient"`
	CalculatedAmount types.Money `db:"calculated_amount" json:"calculatedAmount"`
	Description      string      `db:"description" json:"description"`
}

// Validate implements entity.Validatable.
func (a *Allocation) Validate(ctx context.Context) error {
	if id.IsNil(a.MonthlyFeeID) {
		return apperror.NewValidation("monthly fee is required").WithDetail("field", "monthlyFeeId")
	}
	if id.IsNil(a.ApartmentID) {
		return apperror.NewValidation("apartment is required").WithDetail("field", "apartmentId")
	}
	if a.Coefficient < 0 {
		return apperror.NewValidation("coefficient must not be negative").
			WithDetail("field", "coefficient")
	}
	return nil
}
