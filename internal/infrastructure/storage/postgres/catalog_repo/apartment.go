package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/catalogs/apartment"
	"domus/internal/infrastructure/storage/postgres"
)

const apartmentTable = "cat_apartments"

// ApartmentRepo implements apartment.Repository.
type ApartmentRepo struct {
	*BaseCatalogRepo[*apartment.Apartment]
}

// NewApartmentRepo creates a new apartment repository.
func NewApartmentRepo(txm *postgres.TxManager) *ApartmentRepo {
	return &ApartmentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*apartment.Apartment](
			txm,
			apartmentTable,
			postgres.ExtractDBColumns[apartment.Apartment](),
			[]string{"number"},
			func() *apartment.Apartment { return &apartment.Apartment{} },
		),
	}
}

// ListByBuilding returns every apartment of a building, ordered by number.
func (r *ApartmentRepo) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*apartment.Apartment, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[apartment.Apartment]()...).
		From(apartmentTable).
		Where(squirrel.Eq{"building_id": buildingID}).
		OrderBy("number ASC")

	return r.FindMany(ctx, q)
}

// AdjustDebt adds delta to the apartment's debt.
func (r *ApartmentRepo) AdjustDebt(ctx context.Context, apartmentID id.ID, delta types.Money) error {
	q := r.Builder().
		Update(apartmentTable).
		Set("debt", squirrel.Expr("debt + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": apartmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust apartment debt: %w", err)
	}
	return nil
}

// SetResidentsCount syncs the cached resident counter.
func (r *ApartmentRepo) SetResidentsCount(ctx context.Context, apartmentID id.ID, count int) error {
	q := r.Builder().
		Update(apartmentTable).
		Set("residents_count", count).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": apartmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set residents count: %w", err)
	}
	return nil
}
