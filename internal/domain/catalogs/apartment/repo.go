package apartment

import (
	"context"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

// Repository defines the interface for Apartment persistence.
type Repository interface {
	domain.CatalogRepository[*Apartment]

	// ListByBuilding returns every apartment of a building, ordered by number.
	// Used as the roster snapshot for fee allocation.
	ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Apartment, error)

	// AdjustDebt adds delta to the apartment's debt (negative delta on payment).
	AdjustDebt(ctx context.Context, apartmentID id.ID, delta types.Money) error

	// SetResidentsCount syncs the cached resident counter.
	SetResidentsCount(ctx context.Context, apartmentID id.ID, count int) error
}
