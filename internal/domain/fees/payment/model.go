// Package payment tracks per-apartment monthly obligations and their
// settlement against a monthly fee.
package payment

import (
	"context"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// Status is the settlement state of a monthly obligation.
type Status string

const (
	StatusPending       Status = "pending"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
	StatusOverdue       Status = "overdue"
)

// Payment is one apartment's obligation for one fee and one month.
// The (apartment, fee, month) triple is unique.
type Payment struct {
	entity.BaseEntity

	ApartmentID     id.ID       `db:"apartment_id" json:"apartmentId"`
	MonthlyFeeID    id.ID       `db:"monthly_fee_id" json:"monthlyFeeId"`
	PaymentMonth    types.Month `db:"payment_month" json:"paymentMonth"`
	AmountOwed      types.Money `db:"amount_owed" json:"amountOwed"`
	AmountPaid      types.Money `db:"amount_paid" json:"amountPaid"`
	Balance         types.Money `db:"balance" json:"balance"`
	Status          Status      `db:"status" json:"status"`
	DueDate         time.Time   `db:"due_date" json:"dueDate"`
	PaidDate        *time.Time  `db:"paid_date" json:"paidDate,omitempty"`
	PaymentMethodID *id.ID      `db:"payment_method_id" json:"paymentMethodId,omitempty"`
}

// New creates a pending obligation.
func New(apartmentID, feeID id.ID, month types.Month, owed types.Money, dueDate time.Time) *Payment {
	p := &Payment{
		BaseEntity:   entity.NewBaseEntity(),
		ApartmentID:  apartmentID,
		MonthlyFeeID: feeID,
		PaymentMonth: month,
		AmountOwed:   types.RoundMoney(owed),
		AmountPaid:   types.Zero(),
		Status:       StatusPending,
		DueDate:      dueDate,
	}
	p.Balance = p.AmountOwed
	return p
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.ApartmentID) {
		return apperror.NewValidation("apartment is required").WithDetail("field", "apartmentId")
	}
	if id.IsNil(p.MonthlyFeeID) {
		return apperror.NewValidation("monthly fee is required").WithDetail("field", "monthlyFeeId")
	}
	if p.AmountOwed.IsNegative() {
		return apperror.NewValidation("amount owed must not be negative").
			WithDetail("field", "amountOwed")
	}
	if p.AmountPaid.IsNegative() {
		return apperror.NewValidation("amount paid must not be negative").
			WithDetail("field", "amountPaid")
	}
	if !p.Balance.Equal(p.AmountOwed.Sub(p.AmountPaid)) {
		return apperror.NewValidation("balance must equal amount owed minus amount paid").
			WithDetail("balance", p.Balance.String())
	}
	return nil
}

// IsSettled reports whether the obligation is fully paid. Paid is terminal:
// amounts and status never change afterwards.
func (p *Payment) IsSettled() bool {
	return p.Status == StatusPaid
}

// Apply records a partial or full payment and re-derives the status.
// Status never moves by hand; it always follows the amounts. Amounts
// above the outstanding balance are rejected, so the balance never
// goes negative and the debt counters stay in range.
func (p *Payment) Apply(amount types.Money, methodID *id.ID, now time.Time) error {
	if p.IsSettled() {
		return apperror.NewBusinessRule(apperror.CodePaymentSettled, "payment is already settled").
			WithDetail("paymentId", p.ID.String())
	}
	if !amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("value", amount.String())
	}
	amount = types.RoundMoney(amount)
	if amount.GreaterThan(p.Balance) {
		return apperror.NewValidation("payment amount exceeds outstanding balance").
			WithDetail("value", amount.String()).
			WithDetail("balance", p.Balance.String())
	}

	p.AmountPaid = p.AmountPaid.Add(amount)
	p.Balance = p.AmountOwed.Sub(p.AmountPaid)
	if methodID != nil {
		p.PaymentMethodID = methodID
	}
	p.Refresh(now)
	if p.Status == StatusPaid {
		paid := now
		p.PaidDate = &paid
	}
	return nil
}

// Refresh re-derives the status from the amounts and the due date.
// Used by Apply and by the overdue sweep.
func (p *Payment) Refresh(now time.Time) {
	switch {
	case !p.Balance.IsPositive():
		p.Status = StatusPaid
	case p.DueDate.Before(now):
		p.Status = StatusOverdue
	case p.AmountPaid.IsPositive():
		p.Status = StatusPartiallyPaid
	default:
		p.Status = StatusPending
	}
}
