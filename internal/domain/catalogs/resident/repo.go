package resident

import (
	"context"

	"domus/internal/core/id"
	"domus/internal/domain"
)

// Repository defines the interface for Resident persistence.
type Repository interface {
	domain.CatalogRepository[*Resident]

	// ListByApartment returns residents of one apartment.
	ListByApartment(ctx context.Context, apartmentID id.ID) ([]*Resident, error)

	// CountByApartment returns the number of residents in an apartment.
	CountByApartment(ctx context.Context, apartmentID id.ID) (int, error)

	// ClearMainContact drops the main-contact flag for all residents of an
	// apartment (before promoting a new one).
	ClearMainContact(ctx context.Context, apartmentID id.ID) error
}
