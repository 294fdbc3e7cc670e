package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"domus/internal/core/id"
	"domus/internal/domain/catalogs/resident"
	"domus/internal/infrastructure/storage/postgres"
)

const residentTable = "cat_residents"

// ResidentRepo implements resident.Repository.
type ResidentRepo struct {
	*BaseCatalogRepo[*resident.Resident]
}

// NewResidentRepo creates a new resident repository.
func NewResidentRepo(txm *postgres.TxManager) *ResidentRepo {
	return &ResidentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*resident.Resident](
			txm,
			residentTable,
			postgres.ExtractDBColumns[resident.Resident](),
			[]string{"name", "surname", "email", "phone"},
			func() *resident.Resident { return &resident.Resident{} },
		),
	}
}

// ListByApartment returns residents of one apartment.
func (r *ResidentRepo) ListByApartment(ctx context.Context, apartmentID id.ID) ([]*resident.Resident, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[resident.Resident]()...).
		From(residentTable).
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		OrderBy("surname ASC, name ASC")

	return r.FindMany(ctx, q)
}

// CountByApartment returns the number of residents in an apartment.
func (r *ResidentRepo) CountByApartment(ctx context.Context, apartmentID id.ID) (int, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(residentTable).
		Where(squirrel.Eq{"apartment_id": apartmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count residents: %w", err)
	}
	return count, nil
}

// ClearMainContact drops the main-contact flag for all residents of an apartment.
func (r *ResidentRepo) ClearMainContact(ctx context.Context, apartmentID id.ID) error {
	q := r.Builder().
		Update(residentTable).
		Set("is_main_contact", false).
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.Eq{"is_main_contact": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("clear main contact: %w", err)
	}
	return nil
}
