package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/storage/postgres"
)

const inventoryTable = "cat_inventories"

// InventoryRepo implements ledger.InventoryRepository.
type InventoryRepo struct {
	*BaseCatalogRepo[*ledger.Inventory]
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*ledger.Inventory](
			txm,
			inventoryTable,
			postgres.ExtractDBColumns[ledger.Inventory](),
			nil,
			func() *ledger.Inventory { return &ledger.Inventory{} },
		),
	}
}

// ListByBuilding returns all inventories of a building.
func (r *InventoryRepo) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*ledger.Inventory, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[ledger.Inventory]()...).
		From(inventoryTable).
		Where(squirrel.Eq{"building_id": buildingID}).
		OrderBy("is_main DESC, name ASC")

	return r.FindMany(ctx, q)
}

// GetMain returns the main inventory of a building.
func (r *InventoryRepo) GetMain(ctx context.Context, buildingID id.ID) (*ledger.Inventory, error) {
	inv := &ledger.Inventory{}

	q := r.Builder().
		Select(postgres.ExtractDBColumns[ledger.Inventory]()...).
		From(inventoryTable).
		Where(squirrel.Eq{"building_id": buildingID}).
		Where(squirrel.Eq{"is_main": true}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), inv, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("main inventory", buildingID.String())
		}
		return nil, fmt.Errorf("get main inventory: %w", err)
	}

	return inv, nil
}

// AdjustAmount applies a signed delta to the inventory row.
// Call GetForUpdate first so the balance check and the adjustment see
// the same row.
func (r *InventoryRepo) AdjustAmount(ctx context.Context, inventoryID id.ID, delta types.Money) error {
	q := r.Builder().
		Update(inventoryTable).
		Set("amount", squirrel.Expr("amount + ?", delta)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": inventoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust inventory amount: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(inventoryTable, inventoryID.String())
	}
	return nil
}

// SetMainFlag flips the main flag on a single inventory.
func (r *InventoryRepo) SetMainFlag(ctx context.Context, inventoryID id.ID, isMain bool) error {
	q := r.Builder().
		Update(inventoryTable).
		Set("is_main", isMain).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": inventoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set main flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(inventoryTable, inventoryID.String())
	}
	return nil
}

// HasTransactions reports whether any journal entry references the inventory.
func (r *InventoryRepo) HasTransactions(ctx context.Context, inventoryID id.ID) (bool, error) {
	sql := `
		SELECT 1 FROM doc_transactions
		WHERE from_inventory_id = $1 OR to_inventory_id = $1
		LIMIT 1
	`

	var exists int
	err := r.Querier(ctx).QueryRow(ctx, sql, inventoryID).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has transactions: %w", err)
	}
	return true, nil
}

// Ensure interface compliance.
var _ ledger.InventoryRepository = (*InventoryRepo)(nil)
