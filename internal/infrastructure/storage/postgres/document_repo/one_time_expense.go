package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"domus/internal/domain/expenses"
	"domus/internal/infrastructure/storage/postgres"
)

const oneTimeExpenseTable = "doc_one_time_expenses"

var oneTimeExpenseCols = postgres.ExtractDBColumns[expenses.OneTimeExpense]()

// OneTimeExpenseRepo implements expenses.OneTimeRepository.
type OneTimeExpenseRepo struct {
	*BaseDocumentRepo[*expenses.OneTimeExpense]
}

// NewOneTimeExpenseRepo creates a new one-time expense repository.
func NewOneTimeExpenseRepo(txm *postgres.TxManager) *OneTimeExpenseRepo {
	return &OneTimeExpenseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*expenses.OneTimeExpense](
			txm,
			oneTimeExpenseTable,
			oneTimeExpenseCols,
			func() *expenses.OneTimeExpense { return &expenses.OneTimeExpense{} },
		),
	}
}

// List returns one-time expenses matching the filter.
func (r *OneTimeExpenseRepo) List(ctx context.Context, filter expenses.OneTimeFilter) ([]*expenses.OneTimeExpense, error) {
	q := r.Builder().
		Select(oneTimeExpenseCols...).
		From(oneTimeExpenseTable)

	if filter.InventoryID != nil {
		q = q.Where(squirrel.Eq{"inventory_id": *filter.InventoryID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"expense_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"expense_date": *filter.ToDate})
	}

	q = q.OrderBy("expense_date DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return r.FindMany(ctx, q)
}

// Ensure interface compliance.
var _ expenses.OneTimeRepository = (*OneTimeExpenseRepo)(nil)
