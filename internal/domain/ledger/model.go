// Package ledger provides cash inventories and the immutable transaction
// journal that moves money between them.
package ledger

import (
	"context"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// MainInventoryName is the name given to the inventory seeded with a
// new building.
const MainInventoryName = "Main"

// Inventory is a named pool of money attached to a building. Exactly one
// inventory per building carries the main flag; payments land there.
type Inventory struct {
	entity.BaseEntity

	BuildingID   id.ID       `db:"building_id" json:"buildingId"`
	Name         string      `db:"name" json:"name"`
	Amount       types.Money `db:"amount" json:"amount"`
	IsMain       bool        `db:"is_main" json:"isMain"`
	VisibleInApp bool        `db:"visible_in_app" json:"visibleInApp"`
	IsActive     bool        `db:"is_active" json:"isActive"`
}

// NewInventory creates an active inventory with zero balance.
func NewInventory(buildingID id.ID, name string) *Inventory {
	return &Inventory{
		BaseEntity:   entity.NewBaseEntity(),
		BuildingID:   buildingID,
		Name:         name,
		Amount:       types.Zero(),
		VisibleInApp: true,
		IsActive:     true,
	}
}

// Validate implements entity.Validatable.
func (inv *Inventory) Validate(ctx context.Context) error {
	if id.IsNil(inv.BuildingID) {
		return apperror.NewValidation("building is required").WithDetail("field", "buildingId")
	}
	if inv.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// TransactionType classifies a ledger entry by which legs it carries.
type TransactionType string

const (
	// TypeTransfer moves money between two inventories of one building.
	TypeTransfer TransactionType = "transfer"
	// TypeDeposit brings outside money into an inventory.
	TypeDeposit TransactionType = "deposit"
	// TypeWithdrawal takes money out of an inventory.
	TypeWithdrawal TransactionType = "withdrawal"
	// TypePaymentReceived credits a resident payment to an inventory.
	TypePaymentReceived TransactionType = "payment_received"
	// TypeExpensePaid debits an inventory for a paid expense.
	TypeExpensePaid TransactionType = "expense_paid"
)

// Transaction is an immutable journal entry. Once written it is never
// updated or deleted; corrections are new compensating entries.
type Transaction struct {
	ID              id.ID           `db:"id" json:"id"`
	Number          string          `db:"number" json:"number"`
	BuildingID      id.ID           `db:"building_id" json:"buildingId"`
	Type            TransactionType `db:"type" json:"type"`
	Amount          types.Money     `db:"amount" json:"amount"`
	FromInventoryID *id.ID          `db:"from_inventory_id" json:"fromInventoryId,omitempty"`
	ToInventoryID   *id.ID          `db:"to_inventory_id" json:"toInventoryId,omitempty"`
	PaymentMethodID *id.ID          `db:"payment_method_id" json:"paymentMethodId,omitempty"`
	ReferenceID     *id.ID          `db:"reference_id" json:"referenceId,omitempty"`
	Description     string          `db:"description" json:"description"`
	CreatedBy       id.ID           `db:"created_by" json:"createdBy"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// Validate checks the leg structure required by the transaction type:
// transfers carry both legs, deposits and payment receipts only a
// destination, withdrawals and expense payments only a source.
func (t *Transaction) Validate(ctx context.Context) error {
	if id.IsNil(t.BuildingID) {
		return apperror.NewValidation("building is required").WithDetail("field", "buildingId")
	}
	if !t.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", t.Amount.String())
	}

	hasFrom := t.FromInventoryID != nil && !id.IsNil(*t.FromInventoryID)
	hasTo := t.ToInventoryID != nil && !id.IsNil(*t.ToInventoryID)

	switch t.Type {
	case TypeTransfer:
		if !hasFrom || !hasTo {
			return apperror.NewValidation("transfer requires both source and destination inventories").
				WithDetail("type", string(t.Type))
		}
		if *t.FromInventoryID == *t.ToInventoryID {
			return apperror.NewValidation("transfer source and destination must differ").
				WithDetail("inventoryId", t.FromInventoryID.String())
		}
	case TypeDeposit, TypePaymentReceived:
		if !hasTo {
			return apperror.NewValidation("destination inventory is required").
				WithDetail("type", string(t.Type))
		}
		if hasFrom {
			return apperror.NewValidation("source inventory is not allowed for this type").
				WithDetail("type", string(t.Type))
		}
	case TypeWithdrawal, TypeExpensePaid:
		if !hasFrom {
			return apperror.NewValidation("source inventory is required").
				WithDetail("type", string(t.Type))
		}
		if hasTo {
			return apperror.NewValidation("destination inventory is not allowed for this type").
				WithDetail("type", string(t.Type))
		}
	default:
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}

	return nil
}
