package dto

import (
	"time"

	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/expenses"
)

// CreateRecurringExpenseRequest creates a recurring building expense.
type CreateRecurringExpenseRequest struct {
	BuildingID       id.ID       `json:"buildingId" binding:"required"`
	Name             string      `json:"name" binding:"required"`
	MonthlyAmount    types.Money `json:"monthlyAmount" binding:"required"`
	PaymentMethodID  id.ID       `json:"paymentMethodId" binding:"required"`
	AddToMonthlyFees bool        `json:"addToMonthlyFees"`
	MonthlyFeeID     *id.ID      `json:"monthlyFeeId"`
	Contractor       string      `json:"contractor"`
	PaymentDay       int         `json:"paymentDay"`
	Reason           string      `json:"reason"`
}

// ToEntity maps the request to a domain expense.
func (r CreateRecurringExpenseRequest) ToEntity() *expenses.RecurringExpense {
	e := expenses.NewRecurring(r.BuildingID, r.Name, r.MonthlyAmount, r.PaymentMethodID)
	e.AddToMonthlyFees = r.AddToMonthlyFees
	e.MonthlyFeeID = r.MonthlyFeeID
	e.Contractor = r.Contractor
	if r.PaymentDay != 0 {
		e.PaymentDay = r.PaymentDay
	}
	e.Reason = r.Reason
	return e
}

// UpdateRecurringExpenseRequest updates a recurring expense.
type UpdateRecurringExpenseRequest struct {
	Name             string      `json:"name" binding:"required"`
	MonthlyAmount    types.Money `json:"monthlyAmount" binding:"required"`
	PaymentMethodID  id.ID       `json:"paymentMethodId" binding:"required"`
	AddToMonthlyFees bool        `json:"addToMonthlyFees"`
	MonthlyFeeID     *id.ID      `json:"monthlyFeeId"`
	IsActive         bool        `json:"isActive"`
	Contractor       string      `json:"contractor"`
	PaymentDay       int         `json:"paymentDay"`
	Reason           string      `json:"reason"`
}

// Apply copies the request onto an existing expense.
func (r UpdateRecurringExpenseRequest) Apply(e *expenses.RecurringExpense) *expenses.RecurringExpense {
	e.Name = r.Name
	e.MonthlyAmount = r.MonthlyAmount
	e.PaymentMethodID = r.PaymentMethodID
	e.AddToMonthlyFees = r.AddToMonthlyFees
	e.MonthlyFeeID = r.MonthlyFeeID
	e.IsActive = r.IsActive
	e.Contractor = r.Contractor
	e.PaymentDay = r.PaymentDay
	e.Reason = r.Reason
	return e
}

// PayRecurringExpenseRequest settles one month of a recurring expense.
type PayRecurringExpenseRequest struct {
	Amount          types.Money `json:"amount" binding:"required"`
	PaymentMethodID *id.ID      `json:"paymentMethodId"`
	PaymentDate     *time.Time  `json:"paymentDate"`
	Reason          string      `json:"reason"`
	IssueDocument   bool        `json:"issueDocument"`
	DocumentType    string      `json:"documentType"`
}

// ToInput maps the request to a pay input.
func (r PayRecurringExpenseRequest) ToInput() expenses.PayRecurringInput {
	in := expenses.PayRecurringInput{
		Amount:        r.Amount,
		MethodID:      r.PaymentMethodID,
		Reason:        r.Reason,
		IssueDocument: r.IssueDocument,
	}
	if r.PaymentDate != nil {
		in.PaymentDate = *r.PaymentDate
	} else {
		in.PaymentDate = time.Now()
	}
	if r.DocumentType != "" {
		dt := expenses.DocumentType(r.DocumentType)
		in.DocumentType = &dt
	}
	return in
}

// CreateOneTimeExpenseRequest records an ad hoc expense against an inventory.
type CreateOneTimeExpenseRequest struct {
	Name            string      `json:"name" binding:"required"`
	ContragentID    *id.ID      `json:"contragentId"`
	ExpenseDate     *time.Time  `json:"expenseDate"`
	Amount          types.Money `json:"amount" binding:"required"`
	InventoryID     id.ID       `json:"inventoryId" binding:"required"`
	PaymentMethodID *id.ID      `json:"paymentMethodId"`
	Note            string      `json:"note"`
}

// ToEntity maps the request to a domain one-time expense.
func (r CreateOneTimeExpenseRequest) ToEntity() *expenses.OneTimeExpense {
	e := &expenses.OneTimeExpense{
		BaseEntity:      entity.NewBaseEntity(),
		Name:            r.Name,
		ContragentID:    r.ContragentID,
		Amount:          r.Amount,
		InventoryID:     r.InventoryID,
		PaymentMethodID: r.PaymentMethodID,
		Note:            r.Note,
	}
	if r.ExpenseDate != nil {
		e.ExpenseDate = *r.ExpenseDate
	} else {
		e.ExpenseDate = time.Now()
	}
	return e
}

// OneTimeExpenseListQuery filters one-time expenses.
type OneTimeExpenseListQuery struct {
	InventoryID *id.ID     `form:"inventoryId"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Limit       int        `form:"limit"`
	Offset      int        `form:"offset"`
}

// ToFilter maps the query to a domain filter.
func (q OneTimeExpenseListQuery) ToFilter() expenses.OneTimeFilter {
	return expenses.OneTimeFilter{
		InventoryID: q.InventoryID,
		FromDate:    q.From,
		ToDate:      q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}
