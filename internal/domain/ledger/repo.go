package ledger

import (
	"context"
	"time"

	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

// InventoryRepository persists inventories. Amount mutations go through
// AdjustAmount so balances only change inside a recorded transaction.
type InventoryRepository interface {
	domain.CatalogRepository[*Inventory]

	// ListByBuilding returns all inventories of a building.
	ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Inventory, error)

	// GetMain returns the main inventory of a building.
	GetMain(ctx context.Context, buildingID id.ID) (*Inventory, error)

	// GetForUpdate locks the inventory row for the current transaction.
	GetForUpdate(ctx context.Context, inventoryID id.ID) (*Inventory, error)

	// AdjustAmount applies a signed delta to the locked inventory row.
	AdjustAmount(ctx context.Context, inventoryID id.ID, delta types.Money) error

	// SetMainFlag flips the main flag on a single inventory.
	SetMainFlag(ctx context.Context, inventoryID id.ID, isMain bool) error

	// HasTransactions reports whether any journal entry references the
	// inventory, to enforce restricted deletion.
	HasTransactions(ctx context.Context, inventoryID id.ID) (bool, error)
}

// TransactionFilter narrows journal queries.
type TransactionFilter struct {
	BuildingID  *id.ID
	InventoryID *id.ID
	Type        *TransactionType
	ReferenceID *id.ID
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// TurnoverFilter scopes a turnover report.
type TurnoverFilter struct {
	BuildingID  id.ID
	InventoryID *id.ID
	FromDate    time.Time
	ToDate      time.Time
}

// Turnover summarizes money movement for a period.
type Turnover struct {
	BuildingID     id.ID       `json:"buildingId"`
	InventoryID    *id.ID      `json:"inventoryId,omitempty"`
	OpeningBalance types.Money `json:"openingBalance"`
	Inflow         types.Money `json:"inflow"`
	Outflow        types.Money `json:"outflow"`
	ClosingBalance types.Money `json:"closingBalance"`
}

// TransactionRepository persists journal entries. Entries are append-only;
// there is no update or delete.
type TransactionRepository interface {
	// Create inserts a journal entry.
	Create(ctx context.Context, tr *Transaction) error

	// GetByID returns a journal entry.
	GetByID(ctx context.Context, trID id.ID) (*Transaction, error)

	// List returns journal entries newest first.
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)

	// GetTurnover aggregates inflow and outflow for a period.
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)
}
