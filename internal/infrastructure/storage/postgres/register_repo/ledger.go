// Package register_repo provides PostgreSQL implementations for the
// append-only money journal and its reports.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/storage/postgres"
)

const transactionsTable = "doc_transactions"

var transactionCols = postgres.ExtractDBColumns[ledger.Transaction]()

// LedgerRepo implements ledger.TransactionRepository.
// Journal entries are append-only; there is no update or delete path.
type LedgerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new journal repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a journal entry.
func (r *LedgerRepo) Create(ctx context.Context, tr *ledger.Transaction) error {
	data := postgres.StructToMap(tr)

	filteredData := make(map[string]any, len(transactionCols))
	for _, col := range transactionCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.
		Insert(transactionsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate(transactionsTable, "number", tr.Number).WithCause(err)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

// GetByID returns a journal entry.
func (r *LedgerRepo) GetByID(ctx context.Context, trID id.ID) (*ledger.Transaction, error) {
	tr := &ledger.Transaction{}

	q := r.builder.
		Select(transactionCols...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": trID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), tr, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", trID.String())
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return tr, nil
}

// List returns journal entries newest first.
func (r *LedgerRepo) List(ctx context.Context, filter ledger.TransactionFilter) ([]*ledger.Transaction, error) {
	q := r.builder.
		Select(transactionCols...).
		From(transactionsTable)

	if filter.BuildingID != nil {
		q = q.Where(squirrel.Eq{"building_id": *filter.BuildingID})
	}
	if filter.InventoryID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_inventory_id": *filter.InventoryID},
			squirrel.Eq{"to_inventory_id": *filter.InventoryID},
		})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.ReferenceID != nil {
		q = q.Where(squirrel.Eq{"reference_id": *filter.ReferenceID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC", "number DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*ledger.Transaction
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return items, nil
}

// GetTurnover aggregates inflow and outflow for a period.
// A transfer inside the scope counts on both sides and nets to zero
// in the closing balance.
func (r *LedgerRepo) GetTurnover(ctx context.Context, filter ledger.TurnoverFilter) (ledger.Turnover, error) {
	result := ledger.Turnover{
		BuildingID:  filter.BuildingID,
		InventoryID: filter.InventoryID,
	}

	args := []any{filter.BuildingID, filter.FromDate, filter.ToDate}
	inflowCond, outflowCond := legConditions(filter.InventoryID, 4)
	if filter.InventoryID != nil {
		args = append(args, *filter.InventoryID)
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN %s THEN amount ELSE 0 END), 0) as inflow,
			COALESCE(SUM(CASE WHEN %s THEN amount ELSE 0 END), 0) as outflow
		FROM %s
		WHERE building_id = $1 AND created_at >= $2 AND created_at < $3
	`, inflowCond, outflowCond, transactionsTable)

	querier := r.txm.GetQuerier(ctx)
	err := querier.QueryRow(ctx, sql, args...).Scan(&result.Inflow, &result.Outflow)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}

	// Opening balance: all movement before the period start.
	openingArgs := []any{filter.BuildingID, filter.FromDate}
	openInflowCond, openOutflowCond := legConditions(filter.InventoryID, 3)
	if filter.InventoryID != nil {
		openingArgs = append(openingArgs, *filter.InventoryID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN %s THEN amount ELSE 0 END) -
			SUM(CASE WHEN %s THEN amount ELSE 0 END),
			0
		)
		FROM %s
		WHERE building_id = $1 AND created_at < $2
	`, openInflowCond, openOutflowCond, transactionsTable)

	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&result.OpeningBalance)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}

	result.ClosingBalance = result.OpeningBalance.Add(result.Inflow).Sub(result.Outflow)

	return result, nil
}

// legConditions returns the CASE predicates for inflow and outflow.
// argIndex is the positional placeholder of the inventory id, when set.
func legConditions(inventoryID *id.ID, argIndex int) (inflow, outflow string) {
	if inventoryID == nil {
		return "to_inventory_id IS NOT NULL", "from_inventory_id IS NOT NULL"
	}
	return fmt.Sprintf("to_inventory_id = $%d", argIndex),
		fmt.Sprintf("from_inventory_id = $%d", argIndex)
}

// Ensure interface compliance.
var _ ledger.TransactionRepository = (*LedgerRepo)(nil)
