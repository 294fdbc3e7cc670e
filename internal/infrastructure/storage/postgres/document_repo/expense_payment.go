package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"domus/internal/core/id"
	"domus/internal/domain/expenses"
	"domus/internal/infrastructure/storage/postgres"
)

const expensePaymentTable = "doc_expense_payments"

var expensePaymentCols = postgres.ExtractDBColumns[expenses.ExpensePayment]()

// ExpensePaymentRepo implements expenses.PaymentRepository.
type ExpensePaymentRepo struct {
	*BaseDocumentRepo[*expenses.ExpensePayment]
}

// NewExpensePaymentRepo creates a new expense payment repository.
func NewExpensePaymentRepo(txm *postgres.TxManager) *ExpensePaymentRepo {
	return &ExpensePaymentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*expenses.ExpensePayment](
			txm,
			expensePaymentTable,
			expensePaymentCols,
			func() *expenses.ExpensePayment { return &expenses.ExpensePayment{} },
		),
	}
}

// ListByExpenses returns payments of the given expenses, newest first.
func (r *ExpensePaymentRepo) ListByExpenses(ctx context.Context, expenseIDs []id.ID) ([]*expenses.ExpensePayment, error) {
	if len(expenseIDs) == 0 {
		return nil, nil
	}

	q := r.Builder().
		Select(expensePaymentCols...).
		From(expensePaymentTable).
		Where(squirrel.Eq{"recurring_expense_id": expenseIDs}).
		OrderBy("payment_date DESC", "created_at DESC")

	return r.FindMany(ctx, q)
}

// Ensure interface compliance.
var _ expenses.PaymentRepository = (*ExpensePaymentRepo)(nil)
