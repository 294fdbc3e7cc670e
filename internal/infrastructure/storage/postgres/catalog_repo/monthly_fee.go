package catalog_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/infrastructure/storage/postgres"
)

const (
	monthlyFeeTable    = "cat_monthly_fees"
	feeAllocationTable = "cat_monthly_fee_allocations"
)

// MonthlyFeeRepo implements monthlyfee.Repository.
type MonthlyFeeRepo struct {
	*BaseCatalogRepo[*monthlyfee.MonthlyFee]
}

// NewMonthlyFeeRepo creates a new monthly fee repository.
func NewMonthlyFeeRepo(txm *postgres.TxManager) *MonthlyFeeRepo {
	return &MonthlyFeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*monthlyfee.MonthlyFee](
			txm,
			monthlyFeeTable,
			postgres.ExtractDBColumns[monthlyfee.MonthlyFee](),
			nil,
			func() *monthlyfee.MonthlyFee { return &monthlyfee.MonthlyFee{} },
		),
	}
}

// ListByBuilding returns fees of a building, optionally only active ones.
func (r *MonthlyFeeRepo) ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*monthlyfee.MonthlyFee, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[monthlyfee.MonthlyFee]()...).
		From(monthlyFeeTable).
		Where(squirrel.Eq{"building_id": buildingID}).
		OrderBy("name ASC")

	if onlyActive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	return r.FindMany(ctx, q)
}

// ListChargeable returns active fees that charge the given month:
// recurring fees plus one-off fees targeting exactly that month.
func (r *MonthlyFeeRepo) ListChargeable(ctx context.Context, month types.Month) ([]*monthlyfee.MonthlyFee, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[monthlyfee.MonthlyFee]()...).
		From(monthlyFeeTable).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"target_month": nil},
			squirrel.Eq{"target_month": month},
		}).
		OrderBy("building_id ASC", "name ASC")

	return r.FindMany(ctx, q)
}

// HasExpenseLinks reports whether any recurring expense references the fee.
func (r *MonthlyFeeRepo) HasExpenseLinks(ctx context.Context, feeID id.ID) (bool, error) {
	sql := fmt.Sprintf(`
		SELECT 1 FROM %s WHERE monthly_fee_id = $1 LIMIT 1
	`, recurringExpenseTable)

	var exists int
	err := r.Querier(ctx).QueryRow(ctx, sql, feeID).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has expense links: %w", err)
	}
	return true, nil
}

// Ensure interface compliance.
var _ monthlyfee.Repository = (*MonthlyFeeRepo)(nil)

// AllocationRepo implements monthlyfee.AllocationRepository.
type AllocationRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewAllocationRepo creates a new allocation repository.
func NewAllocationRepo(txm *postgres.TxManager) *AllocationRepo {
	return &AllocationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var allocationCols = postgres.ExtractDBColumns[monthlyfee.Allocation]()

// Upsert writes allocations, overwriting existing (fee, apartment) rows.
func (r *AllocationRepo) Upsert(ctx context.Context, allocations []*monthlyfee.Allocation) error {
	if len(allocations) == 0 {
		return nil
	}

	q := r.builder.Insert(feeAllocationTable).Columns(allocationCols...)
	for _, a := range allocations {
		data := postgres.StructToMap(a)
		values := make([]any, 0, len(allocationCols))
		for _, col := range allocationCols {
			values = append(values, data[col])
		}
		q = q.Values(values...)
	}

	q = q.Suffix(fmt.Sprintf(`
		ON CONFLICT (monthly_fee_id, apartment_id) DO UPDATE SET
			%s,
			version = %s.version + 1,
			updated_at = now()
	`, upsertSet([]string{"coefficient", "calculated_amount", "description"}), feeAllocationTable))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("upsert allocations: %w", err)
	}
	return nil
}

// ListByFee returns all allocations of a fee.
func (r *AllocationRepo) ListByFee(ctx context.Context, feeID id.ID) ([]*monthlyfee.Allocation, error) {
	return r.list(ctx, squirrel.Eq{"monthly_fee_id": feeID})
}

// ListByApartment returns allocations charged to an apartment.
func (r *AllocationRepo) ListByApartment(ctx context.Context, apartmentID id.ID) ([]*monthlyfee.Allocation, error) {
	return r.list(ctx, squirrel.Eq{"apartment_id": apartmentID})
}

func (r *AllocationRepo) list(ctx context.Context, cond squirrel.Eq) ([]*monthlyfee.Allocation, error) {
	q := r.builder.
		Select(allocationCols...).
		From(feeAllocationTable).
		Where(cond).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*monthlyfee.Allocation
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return items, nil
}

// upsertSet builds "col = EXCLUDED.col" pairs for an ON CONFLICT clause.
func upsertSet(cols []string) string {
	pairs := make([]string, 0, len(cols))
	for _, col := range cols {
		pairs = append(pairs, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	return strings.Join(pairs, ",\n\t\t\t")
}

// Ensure interface compliance.
var _ monthlyfee.AllocationRepository = (*AllocationRepo)(nil)
