package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"domus/internal/core/id"
	"domus/internal/domain/expenses"
	"domus/internal/infrastructure/storage/postgres"
)

const recurringExpenseTable = "cat_recurring_expenses"

// RecurringExpenseRepo implements expenses.RecurringRepository.
type RecurringExpenseRepo struct {
	*BaseCatalogRepo[*expenses.RecurringExpense]
}

// NewRecurringExpenseRepo creates a new recurring expense repository.
func NewRecurringExpenseRepo(txm *postgres.TxManager) *RecurringExpenseRepo {
	return &RecurringExpenseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*expenses.RecurringExpense](
			txm,
			recurringExpenseTable,
			postgres.ExtractDBColumns[expenses.RecurringExpense](),
			[]string{"name", "contractor"},
			func() *expenses.RecurringExpense { return &expenses.RecurringExpense{} },
		),
	}
}

// ListByBuilding returns recurring expenses of a building.
func (r *RecurringExpenseRepo) ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*expenses.RecurringExpense, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[expenses.RecurringExpense]()...).
		From(recurringExpenseTable).
		Where(squirrel.Eq{"building_id": buildingID}).
		OrderBy("name ASC")

	if onlyActive {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	return r.FindMany(ctx, q)
}

// Ensure interface compliance.
var _ expenses.RecurringRepository = (*RecurringExpenseRepo)(nil)
