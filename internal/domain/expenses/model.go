// Package expenses provides recurring and one-time building expenses and
// their settlement through the ledger.
package expenses

import (
	"context"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// DocumentType classifies the document issued for an expense payment.
type DocumentType string

const (
	DocumentInvoice DocumentType = "invoice"
	DocumentReceipt DocumentType = "receipt"
)

// RecurringExpense is a monthly cost of a building (cleaning contract,
// elevator service). When AddToMonthlyFees is set, the cost is recovered
// through the linked monthly fee.
type RecurringExpense struct {
	entity.BaseEntity

	BuildingID       id.ID       `db:"building_id" json:"buildingId"`
	Name             string      `db:"name" json:"name"`
	MonthlyAmount    types.Money `db:"monthly_amount" json:"monthlyAmount"`
	PaymentMethodID  id.ID       `db:"payment_method_id" json:"paymentMethodId"`
	AddToMonthlyFees bool        `db:"add_to_monthly_fees" json:"addToMonthlyFees"`
	MonthlyFeeID     *id.ID      `db:"monthly_fee_id" json:"monthlyFeeId,omitempty"`
	IsActive         bool        `db:"is_active" json:"isActive"`
	Contractor       string      `db:"contractor" json:"contractor"`
	PaymentDay       int         `db:"payment_day" json:"paymentDay"`
	Reason           string      `db:"reason" json:"reason"`
}

// NewRecurring creates an active recurring expense.
func NewRecurring(buildingID id.ID, name string, amount types.Money, methodID id.ID) *RecurringExpense {
	return &RecurringExpense{
		BaseEntity:      entity.NewBaseEntity(),
		BuildingID:      buildingID,
		Name:            name,
		MonthlyAmount:   amount,
		PaymentMethodID: methodID,
		PaymentDay:      1,
		IsActive:        true,
	}
}

// Validate implements entity.Validatable. The fee link requirement is
// enforced here rather than at the form layer so every API client hits it.
func (e *RecurringExpense) Validate(ctx context.Context) error {
	if id.IsNil(e.BuildingID) {
		return apperror.NewValidation("building is required").WithDetail("field", "buildingId")
	}
	if e.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !e.MonthlyAmount.IsPositive() {
		return apperror.NewValidation("monthly amount must be positive").
			WithDetail("field", "monthlyAmount")
	}
	if id.IsNil(e.PaymentMethodID) {
		return apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethodId")
	}
	if e.AddToMonthlyFees && (e.MonthlyFeeID == nil || id.IsNil(*e.MonthlyFeeID)) {
		return apperror.NewValidation("monthly fee link is required when the expense is added to monthly fees").
			WithDetail("field", "monthlyFeeId")
	}
	if e.PaymentDay < 1 || e.PaymentDay > 31 {
		return apperror.NewValidation("payment day must be between 1 and 31").
			WithDetail("field", "paymentDay").
			WithDetail("value", e.PaymentDay)
	}
	return nil
}

// ExpensePayment records one settlement of a recurring expense.
type ExpensePayment struct {
	entity.BaseEntity

	RecurringExpenseID id.ID         `db:"recurring_expense_id" json:"recurringExpenseId"`
	Name               string        `db:"name" json:"name"`
	Amount             types.Money   `db:"amount" json:"amount"`
	PaymentMethodID    id.ID         `db:"payment_method_id" json:"paymentMethodId"`
	ConnectPayment     bool          `db:"connect_payment" json:"connectPayment"`
	MonthlyFeeID       *id.ID        `db:"monthly_fee_id" json:"monthlyFeeId,omitempty"`
	Reason             string        `db:"reason" json:"reason"`
	PaymentDate        time.Time     `db:"payment_date" json:"paymentDate"`
	IssueDocument      bool          `db:"issue_document" json:"issueDocument"`
	DocumentType       *DocumentType `db:"document_type" json:"documentType,omitempty"`
}

// Validate implements entity.Validatable.
func (p *ExpensePayment) Validate(ctx context.Context) error {
	if id.IsNil(p.RecurringExpenseID) {
		return apperror.NewValidation("recurring expense is required").
			WithDetail("field", "recurringExpenseId")
	}
	if !p.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	if id.IsNil(p.PaymentMethodID) {
		return apperror.NewValidation("payment method is required").
			WithDetail("field", "paymentMethodId")
	}
	if p.IssueDocument && p.DocumentType == nil {
		return apperror.NewValidation("document type is required when a document is issued").
			WithDetail("field", "documentType")
	}
	if p.DocumentType != nil {
		switch *p.DocumentType {
		case DocumentInvoice, DocumentReceipt:
		default:
			return apperror.NewValidation("invalid document type").
				WithDetail("field", "documentType").
				WithDetail("value", string(*p.DocumentType))
		}
	}
	return nil
}

// OneTimeExpense is a single cash outflow paid from a specific inventory.
type OneTimeExpense struct {
	entity.BaseEntity

	Name            string      `db:"name" json:"name"`
	ContragentID    *id.ID      `db:"contragent_id" json:"contragentId,omitempty"`
	ExpenseDate     time.Time   `db:"expense_date" json:"expenseDate"`
	Amount          types.Money `db:"amount" json:"amount"`
	InventoryID     id.ID       `db:"inventory_id" json:"inventoryId"`
	PaymentMethodID *id.ID      `db:"payment_method_id" json:"paymentMethodId,omitempty"`
	Note            string      `db:"note" json:"note"`
}

// Validate implements entity.Validatable.
func (e *OneTimeExpense) Validate(ctx context.Context) error {
	if e.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}
	if id.IsNil(e.InventoryID) {
		return apperror.NewValidation("inventory is required").WithDetail("field", "inventoryId")
	}
	if e.ExpenseDate.IsZero() {
		return apperror.NewValidation("expense date is required").WithDetail("field", "expenseDate")
	}
	return nil
}
