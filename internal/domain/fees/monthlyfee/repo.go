package monthlyfee

import (
	"context"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

// Repository persists monthly fees.
type Repository interface {
	domain.CatalogRepository[*MonthlyFee]

	// ListByBuilding returns fees of a building, optionally only active ones.
	ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*MonthlyFee, error)

	// ListChargeable returns active fees that charge the given month:
	// recurring fees plus one-off fees targeting exactly that month.
	ListChargeable(ctx context.Context, month types.Month) ([]*MonthlyFee, error)

	// HasExpenseLinks reports whether any recurring expense references the
	// fee, to enforce restricted deletion.
	HasExpenseLinks(ctx context.Context, feeID id.ID) (bool, error)
}

// AllocationRepository persists per-apartment allocations.
type AllocationRepository interface {
	// Upsert writes allocations, overwriting existing (fee, apartment) rows.
	Upsert(ctx context.Context, allocations []*Allocation) error

	// ListByFee returns all allocations of a fee.
	ListByFee(ctx context.Context, feeID id.ID) ([]*Allocation, error)

	// ListByApartment returns allocations charged to an apartment.
	ListByApartment(ctx context.Context, apartmentID id.ID) ([]*Allocation, error)
}
