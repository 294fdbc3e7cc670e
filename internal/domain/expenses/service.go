package expenses

import (
	"context"
	"fmt"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/core/types"
	"domus/internal/domain"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/domain/ledger"
	"domus/pkg/logger"
)

// LedgerGateway debits inventories for paid expenses.
// Implemented by the ledger service.
type LedgerGateway interface {
	GetByID(ctx context.Context, inventoryID id.ID) (*ledger.Inventory, error)
	GetMain(ctx context.Context, buildingID id.ID) (*ledger.Inventory, error)
	RecordTransaction(ctx context.Context, in ledger.TransactionInput) (*ledger.Transaction, error)
}

// FeeResolver verifies monthly fee links.
// Implemented by the monthly fee service.
type FeeResolver interface {
	GetByID(ctx context.Context, feeID id.ID) (*monthlyfee.MonthlyFee, error)
}

// MethodChecker verifies payment methods are active.
// Implemented by the payment method service.
type MethodChecker interface {
	CheckActive(ctx context.Context, methodID id.ID) error
}

// Service provides business logic for building expenses.
type Service struct {
	*domain.CatalogService[*RecurringExpense]
	recurring RecurringRepository
	payments  PaymentRepository
	oneTime   OneTimeRepository
	ledger    LedgerGateway
	fees      FeeResolver
	methods   MethodChecker
}

// NewService creates an expense service.
func NewService(
	recurring RecurringRepository,
	payments PaymentRepository,
	oneTime OneTimeRepository,
	txm tx.Manager,
	led LedgerGateway,
	fees FeeResolver,
	methods MethodChecker,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*RecurringExpense]{
		Repo:       recurring,
		TxManager:  txm,
		EntityName: "recurring expense",
	})

	svc := &Service{
		CatalogService: base,
		recurring:      recurring,
		payments:       payments,
		oneTime:        oneTime,
		ledger:         led,
		fees:           fees,
		methods:        methods,
	}

	base.Hooks().OnBeforeCreate(svc.checkReferences)
	base.Hooks().OnBeforeUpdate(svc.checkReferences)

	return svc
}

// checkReferences verifies the payment method is active and the linked fee
// exists and belongs to the same building.
func (s *Service) checkReferences(ctx context.Context, e *RecurringExpense) error {
	if err := s.methods.CheckActive(ctx, e.PaymentMethodID); err != nil {
		return err
	}
	if e.MonthlyFeeID != nil && !id.IsNil(*e.MonthlyFeeID) {
		fee, err := s.fees.GetByID(ctx, *e.MonthlyFeeID)
		if err != nil {
			return err
		}
		if fee.BuildingID != e.BuildingID {
			return apperror.NewValidation("linked monthly fee belongs to another building").
				WithDetail("monthlyFeeId", e.MonthlyFeeID.String())
		}
	}
	return nil
}

// ListByBuilding returns recurring expenses of a building.
func (s *Service) ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*RecurringExpense, error) {
	return s.recurring.ListByBuilding(ctx, buildingID, onlyActive)
}

// PayRecurringInput captures one settlement of a recurring expense.
type PayRecurringInput struct {
	Amount        types.Money
	MethodID      *id.ID // defaults to the expense's method
	PaymentDate   time.Time
	Reason        string
	IssueDocument bool
	DocumentType  *DocumentType
}

// PayRecurring settles a recurring expense: the payment row and the
// expense_paid journal entry debiting the building's main inventory are
// written in one transaction.
func (s *Service) PayRecurring(ctx context.Context, expenseID id.ID, in PayRecurringInput) (*ExpensePayment, error) {
	expense, err := s.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !expense.IsActive {
		return nil, apperror.NewValidation("recurring expense is not active").
			WithDetail("expenseId", expenseID.String())
	}

	amount := in.Amount
	if amount.IsZero() {
		amount = expense.MonthlyAmount
	}
	methodID := expense.PaymentMethodID
	if in.MethodID != nil && !id.IsNil(*in.MethodID) {
		methodID = *in.MethodID
	}
	if err := s.methods.CheckActive(ctx, methodID); err != nil {
		return nil, err
	}

	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now().UTC()
	}

	p := &ExpensePayment{
		BaseEntity:         entity.NewBaseEntity(),
		RecurringExpenseID: expense.ID,
		Name:               expense.Name,
		Amount:             types.RoundMoney(amount),
		PaymentMethodID:    methodID,
		ConnectPayment:     expense.AddToMonthlyFees,
		MonthlyFeeID:       expense.MonthlyFeeID,
		Reason:             in.Reason,
		PaymentDate:        paymentDate,
		IssueDocument:      in.IssueDocument,
		DocumentType:       in.DocumentType,
	}
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		main, err := s.ledger.GetMain(ctx, expense.BuildingID)
		if err != nil {
			return fmt.Errorf("get main inventory: %w", err)
		}

		if err := s.payments.Create(ctx, p); err != nil {
			return fmt.Errorf("create expense payment: %w", err)
		}

		if _, err := s.ledger.RecordTransaction(ctx, ledger.TransactionInput{
			BuildingID:      expense.BuildingID,
			Type:            ledger.TypeExpensePaid,
			Amount:          p.Amount,
			FromInventoryID: &main.ID,
			PaymentMethodID: &methodID,
			ReferenceID:     &p.ID,
			Description:     fmt.Sprintf("recurring expense: %s", expense.Name),
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recurring expense paid",
		"expense_id", expense.ID, "payment_id", p.ID, "amount", p.Amount)
	return p, nil
}

// ListPayments returns payments of the given recurring expenses.
func (s *Service) ListPayments(ctx context.Context, expenseIDs []id.ID) ([]*ExpensePayment, error) {
	if len(expenseIDs) == 0 {
		return nil, nil
	}
	return s.payments.ListByExpenses(ctx, expenseIDs)
}

// RecordOneTime writes a one-time expense and its expense_paid journal
// entry debiting the chosen inventory in one transaction.
func (s *Service) RecordOneTime(ctx context.Context, e *OneTimeExpense) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if e.PaymentMethodID != nil && !id.IsNil(*e.PaymentMethodID) {
		if err := s.methods.CheckActive(ctx, *e.PaymentMethodID); err != nil {
			return err
		}
	}

	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.ledger.GetByID(ctx, e.InventoryID)
		if err != nil {
			return err
		}

		if err := s.oneTime.Create(ctx, e); err != nil {
			return fmt.Errorf("create one-time expense: %w", err)
		}

		if _, err := s.ledger.RecordTransaction(ctx, ledger.TransactionInput{
			BuildingID:      inv.BuildingID,
			Type:            ledger.TypeExpensePaid,
			Amount:          e.Amount,
			FromInventoryID: &e.InventoryID,
			PaymentMethodID: e.PaymentMethodID,
			ReferenceID:     &e.ID,
			Description:     fmt.Sprintf("one-time expense: %s", e.Name),
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "one-time expense recorded",
		"expense_id", e.ID, "amount", e.Amount, "inventory_id", e.InventoryID)
	return nil
}

// GetOneTime returns a one-time expense.
func (s *Service) GetOneTime(ctx context.Context, expenseID id.ID) (*OneTimeExpense, error) {
	e, err := s.oneTime.GetByID(ctx, expenseID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("one-time expense", expenseID.String())
		}
		return nil, err
	}
	return e, nil
}

// ListOneTime returns one-time expenses matching the filter.
func (s *Service) ListOneTime(ctx context.Context, filter OneTimeFilter) ([]*OneTimeExpense, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.oneTime.List(ctx, filter)
}
