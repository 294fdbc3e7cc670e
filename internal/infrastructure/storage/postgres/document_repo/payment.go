package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/fees/payment"
	"domus/internal/infrastructure/storage/postgres"
)

const paymentTable = "doc_payments"

var paymentCols = postgres.ExtractDBColumns[payment.Payment]()

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	*BaseDocumentRepo[*payment.Payment]
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*payment.Payment](
			txm,
			paymentTable,
			paymentCols,
			func() *payment.Payment { return &payment.Payment{} },
		),
	}
}

// GetForUpdate locks the obligation row for the current transaction.
func (r *PaymentRepo) GetForUpdate(ctx context.Context, paymentID id.ID) (*payment.Payment, error) {
	p := &payment.Payment{}

	q := r.Builder().
		Select(paymentCols...).
		From(paymentTable).
		Where(squirrel.Eq{"id": paymentID}).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.Querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID.String())
		}
		return nil, fmt.Errorf("get for update: %w", err)
	}

	return p, nil
}

// Update persists amount and status changes with optimistic locking.
func (r *PaymentRepo) Update(ctx context.Context, p *payment.Payment) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(paymentCols))
	for _, col := range paymentCols {
		switch col {
		case "id", "version", "created_at", "updated_at":
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Update(paymentTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("payment", p.ID.String())
	}

	return nil
}

// Exists reports whether the (apartment, fee, month) obligation exists.
func (r *PaymentRepo) Exists(ctx context.Context, apartmentID, feeID id.ID, month types.Month) (bool, error) {
	q := r.Builder().
		Select("1").
		From(paymentTable).
		Where(squirrel.Eq{
			"apartment_id":   apartmentID,
			"monthly_fee_id": feeID,
			"payment_month":  month,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return true, nil
}

// List returns obligations matching the filter, newest month first.
func (r *PaymentRepo) List(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	q := r.Builder().
		Select(paymentCols...).
		From(paymentTable)

	if filter.ApartmentID != nil {
		q = q.Where(squirrel.Eq{"apartment_id": *filter.ApartmentID})
	}
	if filter.MonthlyFeeID != nil {
		q = q.Where(squirrel.Eq{"monthly_fee_id": *filter.MonthlyFeeID})
	}
	if filter.Month != nil {
		q = q.Where(squirrel.Eq{"payment_month": *filter.Month})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	q = q.OrderBy("payment_month DESC", "created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return r.FindMany(ctx, q)
}

// MarkOverdue flips unsettled obligations past their due date to overdue.
func (r *PaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	q := r.Builder().
		Update(paymentTable).
		Set("status", payment.StatusOverdue).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Lt{"due_date": asOf}).
		Where(squirrel.Gt{"balance": 0}).
		Where(squirrel.NotEq{"status": payment.StatusOverdue})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return result.RowsAffected(), nil
}

// Ensure interface compliance.
var _ payment.Repository = (*PaymentRepo)(nil)
