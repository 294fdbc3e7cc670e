package dto

import (
	"time"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/fees/payment"
)

// RecordPaymentRequest applies money to an obligation.
type RecordPaymentRequest struct {
	Amount          types.Money `json:"amount" binding:"required"`
	PaymentMethodID *id.ID      `json:"paymentMethodId"`
}

// GeneratePaymentsRequest creates obligations for a month.
type GeneratePaymentsRequest struct {
	Month   types.Month `json:"month" binding:"required"`
	DueDate time.Time   `json:"dueDate" binding:"required"`
}

// PaymentListQuery filters the obligation listing.
type PaymentListQuery struct {
	ApartmentID  *id.ID `form:"apartmentId"`
	MonthlyFeeID *id.ID `form:"monthlyFeeId"`
	Month        string `form:"month"`
	Status       string `form:"status"`
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
}

// ToFilter maps the query to a domain filter.
func (q PaymentListQuery) ToFilter() (payment.ListFilter, error) {
	f := payment.ListFilter{
		ApartmentID:  q.ApartmentID,
		MonthlyFeeID: q.MonthlyFeeID,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
	if q.Month != "" {
		m, err := types.ParseMonth(q.Month)
		if err != nil {
			return f, err
		}
		f.Month = &m
	}
	if q.Status != "" {
		s := payment.Status(q.Status)
		f.Status = &s
	}
	return f, nil
}
