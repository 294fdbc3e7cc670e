package dto

import (
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/fees/monthlyfee"
)

// CreateMonthlyFeeRequest creates a recurring or one-month fee.
type CreateMonthlyFeeRequest struct {
	BuildingID          id.ID        `json:"buildingId" binding:"required"`
	Name                string       `json:"name" binding:"required"`
	PaymentBasis        string       `json:"paymentBasis" binding:"required"`
	ApplicationMode     string       `json:"applicationMode" binding:"required"`
	BaseAmount          types.Money  `json:"baseAmount" binding:"required"`
	IsDistributedEvenly bool         `json:"isDistributedEvenly"`
	TargetMonth         *types.Month `json:"targetMonth"`
}

// ToEntity maps the request to a domain fee.
func (r CreateMonthlyFeeRequest) ToEntity() *monthlyfee.MonthlyFee {
	fee := monthlyfee.New(r.BuildingID, r.Name,
		monthlyfee.PaymentBasis(r.PaymentBasis),
		monthlyfee.ApplicationMode(r.ApplicationMode),
		r.BaseAmount)
	fee.IsDistributedEvenly = r.IsDistributedEvenly
	fee.TargetMonth = r.TargetMonth
	return fee
}

// UpdateMonthlyFeeRequest updates a fee; allocations are recomputed.
type UpdateMonthlyFeeRequest struct {
	Name                string       `json:"name" binding:"required"`
	PaymentBasis        string       `json:"paymentBasis" binding:"required"`
	ApplicationMode     string       `json:"applicationMode" binding:"required"`
	BaseAmount          types.Money  `json:"baseAmount" binding:"required"`
	IsDistributedEvenly bool         `json:"isDistributedEvenly"`
	TargetMonth         *types.Month `json:"targetMonth"`
	IsActive            bool         `json:"isActive"`
}

// Apply copies the request onto an existing fee.
func (r UpdateMonthlyFeeRequest) Apply(fee *monthlyfee.MonthlyFee) *monthlyfee.MonthlyFee {
	fee.Name = r.Name
	fee.PaymentBasis = monthlyfee.PaymentBasis(r.PaymentBasis)
	fee.ApplicationMode = monthlyfee.ApplicationMode(r.ApplicationMode)
	fee.BaseAmount = r.BaseAmount
	fee.IsDistributedEvenly = r.IsDistributedEvenly
	fee.TargetMonth = r.TargetMonth
	fee.IsActive = r.IsActive
	return fee
}

// MonthlyFeeWithAllocations bundles a fee with its allocation rows.
type MonthlyFeeWithAllocations struct {
	Fee         *monthlyfee.MonthlyFee   `json:"fee"`
	Allocations []*monthlyfee.Allocation `json:"allocations"`
}
