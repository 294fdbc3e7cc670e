package payment

import (
	"context"
	"time"

	"domus/internal/core/id"
	"domus/internal/core/types"
)

// ListFilter narrows payment queries.
type ListFilter struct {
	ApartmentID  *id.ID
	MonthlyFeeID *id.ID
	Month        *types.Month
	Status       *Status
	Limit        int
	Offset       int
}

// Repository persists monthly payments.
type Repository interface {
	// Create inserts an obligation. The unique (apartment, fee, month)
	// constraint surfaces as a duplicate error.
	Create(ctx context.Context, p *Payment) error

	// GetByID returns an obligation.
	GetByID(ctx context.Context, paymentID id.ID) (*Payment, error)

	// GetForUpdate locks the obligation row for the current transaction.
	GetForUpdate(ctx context.Context, paymentID id.ID) (*Payment, error)

	// Update persists amount and status changes with optimistic locking.
	Update(ctx context.Context, p *Payment) error

	// Exists reports whether the (apartment, fee, month) obligation exists.
	Exists(ctx context.Context, apartmentID, feeID id.ID, month types.Month) (bool, error)

	// List returns obligations matching the filter, newest month first.
	List(ctx context.Context, filter ListFilter) ([]*Payment, error)

	// MarkOverdue flips unsettled obligations past their due date to
	// overdue and returns the number of rows changed.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
