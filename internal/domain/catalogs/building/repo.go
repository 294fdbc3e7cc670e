package building

import (
	"context"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

// Repository defines the interface for Building persistence.
type Repository interface {
	domain.CatalogRepository[*Building]

	// RefreshApartmentCount recomputes apartment_count from the apartments table.
	RefreshApartmentCount(ctx context.Context, buildingID id.ID) error

	// RefreshFinancials recomputes balance (sum of inventory amounts) and
	// debt (sum of apartment debts).
	RefreshFinancials(ctx context.Context, buildingID id.ID) error

	// AdjustDebt adds delta to the building debt aggregate.
	AdjustDebt(ctx context.Context, buildingID id.ID, delta types.Money) error
}
