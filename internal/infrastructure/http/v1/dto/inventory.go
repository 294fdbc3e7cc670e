package dto

import (
	"time"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain/ledger"
)

// CreateInventoryRequest creates a cash inventory for a building.
// Balance always starts at zero; money arrives through transactions.
type CreateInventoryRequest struct {
	BuildingID   id.ID  `json:"buildingId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	VisibleInApp *bool  `json:"visibleInApp"`
}

// ToEntity maps the request to a domain inventory.
func (r CreateInventoryRequest) ToEntity() *ledger.Inventory {
	inv := ledger.NewInventory(r.BuildingID, r.Name)
	if r.VisibleInApp != nil {
		inv.VisibleInApp = *r.VisibleInApp
	}
	return inv
}

// UpdateInventoryRequest updates mutable inventory fields. Amount and
// the main flag stay server-managed.
type UpdateInventoryRequest struct {
	Name         string `json:"name" binding:"required"`
	VisibleInApp bool   `json:"visibleInApp"`
	IsActive     bool   `json:"isActive"`
}

// Apply copies the request onto an existing inventory.
func (r UpdateInventoryRequest) Apply(inv *ledger.Inventory) *ledger.Inventory {
	inv.Name = r.Name
	inv.VisibleInApp = r.VisibleInApp
	inv.IsActive = r.IsActive
	return inv
}

// TransferMainRequest moves the main flag to another inventory of the
// same building.
type TransferMainRequest struct {
	ToInventoryID id.ID `json:"toInventoryId" binding:"required"`
}

// RecordTransactionRequest appends a journal entry.
type RecordTransactionRequest struct {
	BuildingID      id.ID       `json:"buildingId" binding:"required"`
	Type            string      `json:"type" binding:"required"`
	Amount          types.Money `json:"amount" binding:"required"`
	FromInventoryID *id.ID      `json:"fromInventoryId"`
	ToInventoryID   *id.ID      `json:"toInventoryId"`
	PaymentMethodID *id.ID      `json:"paymentMethodId"`
	ReferenceID     *id.ID      `json:"referenceId"`
	Description     string      `json:"description"`
}

// ToInput maps the request to a transaction input.
func (r RecordTransactionRequest) ToInput() ledger.TransactionInput {
	return ledger.TransactionInput{
		BuildingID:      r.BuildingID,
		Type:            ledger.TransactionType(r.Type),
		Amount:          r.Amount,
		FromInventoryID: r.FromInventoryID,
		ToInventoryID:   r.ToInventoryID,
		PaymentMethodID: r.PaymentMethodID,
		ReferenceID:     r.ReferenceID,
		Description:     r.Description,
	}
}

// TransactionListQuery filters the journal listing.
type TransactionListQuery struct {
	BuildingID  *id.ID     `form:"buildingId"`
	InventoryID *id.ID     `form:"inventoryId"`
	Type        string     `form:"type"`
	ReferenceID *id.ID     `form:"referenceId"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Limit       int        `form:"limit"`
	Offset      int        `form:"offset"`
}

// ToFilter maps the query to a domain filter.
func (q TransactionListQuery) ToFilter() ledger.TransactionFilter {
	f := ledger.TransactionFilter{
		BuildingID:  q.BuildingID,
		InventoryID: q.InventoryID,
		ReferenceID: q.ReferenceID,
		FromDate:    q.From,
		ToDate:      q.To,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	if q.Type != "" {
		t := ledger.TransactionType(q.Type)
		f.Type = &t
	}
	return f
}

// TurnoverQuery scopes a turnover report.
type TurnoverQuery struct {
	BuildingID  id.ID     `form:"buildingId" binding:"required"`
	InventoryID *id.ID    `form:"inventoryId"`
	From        time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To          time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// ToFilter maps the query to a domain filter.
func (q TurnoverQuery) ToFilter() ledger.TurnoverFilter {
	return ledger.TurnoverFilter{
		BuildingID:  q.BuildingID,
		InventoryID: q.InventoryID,
		FromDate:    q.From,
		ToDate:      q.To,
	}
}
