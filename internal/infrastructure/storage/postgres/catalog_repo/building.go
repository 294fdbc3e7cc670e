package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/catalogs/building"
	"domus/internal/infrastructure/storage/postgres"
)

const buildingTable = "cat_buildings"

// BuildingRepo implements building.Repository.
type BuildingRepo struct {
	*BaseCatalogRepo[*building.Building]
}

// NewBuildingRepo creates a new building repository.
func NewBuildingRepo(txm *postgres.TxManager) *BuildingRepo {
	return &BuildingRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*building.Building](
			txm,
			buildingTable,
			postgres.ExtractDBColumns[building.Building](),
			[]string{"name", "code", "city", "street"},
			func() *building.Building { return &building.Building{} },
		),
	}
}

// RefreshApartmentCount recomputes apartment_count from the apartments table.
func (r *BuildingRepo) RefreshApartmentCount(ctx context.Context, buildingID id.ID) error {
	sql := fmt.Sprintf(`
		UPDATE %s SET
			apartment_count = (SELECT COUNT(*) FROM %s WHERE building_id = $1),
			updated_at = now()
		WHERE id = $1
	`, buildingTable, apartmentTable)

	_, err := r.Querier(ctx).Exec(ctx, sql, buildingID)
	if err != nil {
		return fmt.Errorf("refresh apartment count: %w", err)
	}
	return nil
}

// RefreshFinancials recomputes balance (sum of inventory amounts) and
// debt (sum of apartment debts).
func (r *BuildingRepo) RefreshFinancials(ctx context.Context, buildingID id.ID) error {
	sql := fmt.Sprintf(`
		UPDATE %s SET
			balance = COALESCE((SELECT SUM(amount) FROM cat_inventories WHERE building_id = $1 AND is_active = true), 0),
			debt = COALESCE((SELECT SUM(debt) FROM %s WHERE building_id = $1), 0),
			updated_at = now()
		WHERE id = $1
	`, buildingTable, apartmentTable)

	_, err := r.Querier(ctx).Exec(ctx, sql, buildingID)
	if err != nil {
		return fmt.Errorf("refresh financials: %w", err)
	}
	return nil
}

// AdjustDebt adds delta to the building debt aggregate.
func (r *BuildingRepo) AdjustDebt(ctx context.Context, buildingID id.ID, delta types.Money) error {
	q := r.Builder().
		Update(buildingTable).
		Set("debt", squirrel.Expr("debt + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": buildingID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	_, err = r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust building debt: %w", err)
	}
	return nil
}
