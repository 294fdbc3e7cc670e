package expenses

import (
	"context"
	"time"

	"domus/internal/core/id"
	"domus/internal/domain"
)

// RecurringRepository persists recurring expenses.
type RecurringRepository interface {
	domain.CatalogRepository[*RecurringExpense]

	// ListByBuilding returns recurring expenses of a building.
	ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*RecurringExpense, error)
}

// PaymentRepository persists recurring expense payments.
type PaymentRepository interface {
	// Create inserts an expense payment.
	Create(ctx context.Context, p *ExpensePayment) error

	// GetByID returns an expense payment.
	GetByID(ctx context.Context, paymentID id.ID) (*ExpensePayment, error)

	// ListByExpenses returns payments of the given expenses, newest first.
	ListByExpenses(ctx context.Context, expenseIDs []id.ID) ([]*ExpensePayment, error)
}

// OneTimeFilter narrows one-time expense queries.
type OneTimeFilter struct {
	InventoryID *id.ID
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// OneTimeRepository persists one-time expenses.
type OneTimeRepository interface {
	// Create inserts a one-time expense.
	Create(ctx context.Context, e *OneTimeExpense) error

	// GetByID returns a one-time expense.
	GetByID(ctx context.Context, expenseID id.ID) (*OneTimeExpense, error)

	// List returns one-time expenses matching the filter.
	List(ctx context.Context, filter OneTimeFilter) ([]*OneTimeExpense, error)
}
