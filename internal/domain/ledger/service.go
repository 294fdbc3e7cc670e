package ledger

import (
	"context"
	"fmt"
	"time"

	"domus/internal/core/apperror"
	appcontext "domus/internal/core/context"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/core/types"
	"domus/internal/domain"
	"domus/pkg/logger"
	"domus/pkg/numerator"
)

// PaymentMethodChecker verifies a payment method exists and is active.
type PaymentMethodChecker interface {
	CheckActive(ctx context.Context, methodID id.ID) error
}

// AuditRecorder records a domain audit event. Failures are logged, never
// propagated: audit must not break money movement.
type AuditRecorder interface {
	Record(ctx context.Context, action, entityType string, entityID id.ID, payload any)
}

// Service provides business logic for inventories and the transaction journal.
type Service struct {
	*domain.CatalogService[*Inventory]
	inventories  InventoryRepository
	transactions TransactionRepository
	methods      PaymentMethodChecker
	numerator    *numerator.Service
	audit        AuditRecorder
}

// NewService creates a ledger service.
func NewService(
	inventories InventoryRepository,
	transactions TransactionRepository,
	txm tx.Manager,
	methods PaymentMethodChecker,
	num *numerator.Service,
	audit AuditRecorder,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Inventory]{
		Repo:       inventories,
		TxManager:  txm,
		EntityName: "inventory",
	})

	svc := &Service{
		CatalogService: base,
		inventories:    inventories,
		transactions:   transactions,
		methods:        methods,
		numerator:      num,
		audit:          audit,
	}

	base.Hooks().OnBeforeCreate(svc.checkMainUnique)
	base.Hooks().OnBeforeDelete(svc.checkDeletable)

	return svc
}

// checkMainUnique rejects a second main inventory for the building. Main
// status moves only through TransferMainStatus.
func (s *Service) checkMainUnique(ctx context.Context, inv *Inventory) error {
	if !inv.IsMain {
		return nil
	}
	existing, err := s.inventories.GetMain(ctx, inv.BuildingID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("check main inventory: %w", err)
	}
	if existing != nil && existing.ID != inv.ID {
		return apperror.NewMainInventoryExists(inv.BuildingID.String())
	}
	return nil
}

// checkDeletable blocks deletion of the main inventory and of any
// inventory referenced by journal entries.
func (s *Service) checkDeletable(ctx context.Context, inv *Inventory) error {
	if inv.IsMain {
		return apperror.NewValidation("main inventory cannot be deleted").
			WithDetail("inventoryId", inv.ID.String())
	}
	has, err := s.inventories.HasTransactions(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("check transactions: %w", err)
	}
	if has {
		return apperror.NewRestrictDelete("inventory", inv.ID.String(), "transactions")
	}
	if !inv.Amount.IsZero() {
		return apperror.NewValidation("inventory with non-zero balance cannot be deleted").
			WithDetail("inventoryId", inv.ID.String()).
			WithDetail("amount", inv.Amount.String())
	}
	return nil
}

// SeedMain creates the default main inventory for a freshly created
// building. Runs inside the building creation transaction.
func (s *Service) SeedMain(ctx context.Context, buildingID id.ID) error {
	inv := NewInventory(buildingID, MainInventoryName)
	inv.IsMain = true

	if err := s.inventories.Create(ctx, inv); err != nil {
		return fmt.Errorf("create main inventory: %w", err)
	}

	logger.Info(ctx, "main inventory seeded", "building_id", buildingID, "inventory_id", inv.ID)
	return nil
}

// ListByBuilding returns all inventories of a building.
func (s *Service) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Inventory, error) {
	return s.inventories.ListByBuilding(ctx, buildingID)
}

// GetMain returns the main inventory of a building.
func (s *Service) GetMain(ctx context.Context, buildingID id.ID) (*Inventory, error) {
	inv, err := s.inventories.GetMain(ctx, buildingID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("main inventory", buildingID.String())
		}
		return nil, err
	}
	return inv, nil
}

// TransferMainStatus moves the main flag from the current main inventory
// to another inventory of the same building. Both flag flips happen in one
// transaction so the building never has zero or two main inventories.
func (s *Service) TransferMainStatus(ctx context.Context, buildingID, toInventoryID id.ID) error {
	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.inventories.GetMain(ctx, buildingID)
		if err != nil {
			return fmt.Errorf("get main inventory: %w", err)
		}
		if current.ID == toInventoryID {
			return nil
		}

		target, err := s.inventories.GetForUpdate(ctx, toInventoryID)
		if err != nil {
			return s.normalizeInventoryErr(err, toInventoryID)
		}
		if target.BuildingID != buildingID {
			return apperror.NewValidation("inventory belongs to another building").
				WithDetail("inventoryId", toInventoryID.String())
		}
		if !target.IsActive {
			return apperror.NewValidation("inactive inventory cannot become main").
				WithDetail("inventoryId", toInventoryID.String())
		}

		if err := s.inventories.SetMainFlag(ctx, current.ID, false); err != nil {
			return fmt.Errorf("unset main flag: %w", err)
		}
		if err := s.inventories.SetMainFlag(ctx, target.ID, true); err != nil {
			return fmt.Errorf("set main flag: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "main inventory status transferred",
		"building_id", buildingID, "to_inventory_id", toInventoryID)
	s.recordAudit(ctx, "transfer_main_status", "inventory", toInventoryID, nil)
	return nil
}

// TransactionInput describes a journal entry to record.
type TransactionInput struct {
	BuildingID      id.ID
	Type            TransactionType
	Amount          types.Money
	FromInventoryID *id.ID
	ToInventoryID   *id.ID
	PaymentMethodID *id.ID
	ReferenceID     *id.ID
	Description     string
}

// RecordTransaction validates, numbers and applies a journal entry. Leg
// application and the journal insert share one transaction: either both
// inventories move and the entry exists, or nothing happened. Inventory
// rows are locked in a stable order to avoid deadlocks between concurrent
// transfers.
func (s *Service) RecordTransaction(ctx context.Context, in TransactionInput) (*Transaction, error) {
	tr := &Transaction{
		ID:              id.New(),
		BuildingID:      in.BuildingID,
		Type:            in.Type,
		Amount:          types.RoundMoney(in.Amount),
		FromInventoryID: in.FromInventoryID,
		ToInventoryID:   in.ToInventoryID,
		PaymentMethodID: in.PaymentMethodID,
		ReferenceID:     in.ReferenceID,
		Description:     in.Description,
		CreatedAt:       time.Now().UTC(),
	}
	if uid, err := id.Parse(appcontext.GetUserID(ctx)); err == nil {
		tr.CreatedBy = uid
	}
	if err := tr.Validate(ctx); err != nil {
		return nil, err
	}

	if in.PaymentMethodID != nil && s.methods != nil {
		if err := s.methods.CheckActive(ctx, *in.PaymentMethodID); err != nil {
			return nil, err
		}
	}

	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numerator.GetNextNumber(ctx,
			numerator.DefaultConfig("TRX"), nil, tr.CreatedAt)
		if err != nil {
			return fmt.Errorf("generate transaction number: %w", err)
		}
		tr.Number = number

		if err := s.applyLegs(ctx, tr); err != nil {
			return err
		}

		if err := s.transactions.Create(ctx, tr); err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction recorded",
		"number", tr.Number,
		"type", tr.Type,
		"amount", tr.Amount,
		"building_id", tr.BuildingID,
	)
	s.recordAudit(ctx, "record_transaction", "transaction", tr.ID, tr)

	return tr, nil
}

// applyLegs locks the involved inventories and moves the money. Locks are
// taken in inventory ID order.
func (s *Service) applyLegs(ctx context.Context, tr *Transaction) error {
	var legs []legOp
	if tr.FromInventoryID != nil {
		legs = append(legs, legOp{inventoryID: *tr.FromInventoryID, delta: tr.Amount.Neg()})
	}
	if tr.ToInventoryID != nil {
		legs = append(legs, legOp{inventoryID: *tr.ToInventoryID, delta: tr.Amount})
	}
	if len(legs) == 2 && legs[1].inventoryID.String() < legs[0].inventoryID.String() {
		legs[0], legs[1] = legs[1], legs[0]
	}

	locked := make(map[id.ID]*Inventory, len(legs))
	for _, leg := range legs {
		inv, err := s.inventories.GetForUpdate(ctx, leg.inventoryID)
		if err != nil {
			return s.normalizeInventoryErr(err, leg.inventoryID)
		}
		if inv.BuildingID != tr.BuildingID {
			return apperror.NewValidation("inventory belongs to another building").
				WithDetail("inventoryId", inv.ID.String()).
				WithDetail("buildingId", tr.BuildingID.String())
		}
		if !inv.IsActive {
			return apperror.NewValidation("inventory is not active").
				WithDetail("inventoryId", inv.ID.String())
		}
		locked[inv.ID] = inv
	}

	if tr.FromInventoryID != nil {
		src := locked[*tr.FromInventoryID]
		if src.Amount.LessThan(tr.Amount) {
			return apperror.NewInsufficientFunds(src.ID.String(), tr.Amount.String(), src.Amount.String())
		}
	}

	for _, leg := range legs {
		if err := s.inventories.AdjustAmount(ctx, leg.inventoryID, leg.delta); err != nil {
			return fmt.Errorf("adjust inventory %s: %w", leg.inventoryID, err)
		}
	}
	return nil
}

type legOp struct {
	inventoryID id.ID
	delta       types.Money
}

func (s *Service) normalizeInventoryErr(err error, inventoryID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("inventory", inventoryID.String())
	}
	return err
}

// GetTransaction returns a single journal entry.
func (s *Service) GetTransaction(ctx context.Context, trID id.ID) (*Transaction, error) {
	tr, err := s.transactions.GetByID(ctx, trID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("transaction", trID.String())
		}
		return nil, err
	}
	return tr, nil
}

// ListTransactions returns journal entries matching the filter.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.transactions.List(ctx, filter)
}

// GetTurnover builds a period turnover report from the journal.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	if filter.ToDate.Before(filter.FromDate) {
		return Turnover{}, apperror.NewValidation("report period end precedes start").
			WithDetail("from", filter.FromDate.Format("2006-01-02")).
			WithDetail("to", filter.ToDate.Format("2006-01-02"))
	}
	return s.transactions.GetTurnover(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, action, entityType string, entityID id.ID, payload any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, action, entityType, entityID, payload)
}
