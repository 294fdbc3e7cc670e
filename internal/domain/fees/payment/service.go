package payment

import (
	"context"
	"fmt"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/core/types"
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/domain/ledger"
	"domus/pkg/logger"
)

// FeeSource supplies chargeable fees and their allocations.
// Implemented by the monthly fee service.
type FeeSource interface {
	ListChargeable(ctx context.Context, month types.Month) ([]*monthlyfee.MonthlyFee, error)
	GetWithAllocations(ctx context.Context, feeID id.ID) (*monthlyfee.MonthlyFee, []*monthlyfee.Allocation, error)
}

// LedgerRecorder credits received payments to the building's main inventory.
// Implemented by the ledger service.
type LedgerRecorder interface {
	GetMain(ctx context.Context, buildingID id.ID) (*ledger.Inventory, error)
	RecordTransaction(ctx context.Context, in ledger.TransactionInput) (*ledger.Transaction, error)
}

// ApartmentDebtor resolves apartments and maintains their debt counter.
// Implemented by the apartment service.
type ApartmentDebtor interface {
	BuildingOf(ctx context.Context, apartmentID id.ID) (id.ID, error)
	AdjustDebt(ctx context.Context, apartmentID id.ID, delta types.Money) error
}

// Service drives the monthly payment lifecycle: generation, settlement
// and the overdue sweep.
type Service struct {
	payments   Repository
	fees       FeeSource
	ledger     LedgerRecorder
	apartments ApartmentDebtor
	txManager  tx.Manager
}

// NewService creates a payment service.
func NewService(payments Repository, fees FeeSource, led LedgerRecorder, apartments ApartmentDebtor, txm tx.Manager) *Service {
	return &Service{
		payments:   payments,
		fees:       fees,
		ledger:     led,
		apartments: apartments,
		txManager:  txm,
	}
}

// GetByID returns one obligation.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID.String())
		}
		return nil, err
	}
	return p, nil
}

// List returns obligations matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Payment, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.payments.List(ctx, filter)
}

// RecordPayment settles part or all of an obligation. In one transaction
// the obligation row is locked and updated, the received amount is credited
// to the building's main inventory as a payment_received journal entry, and
// the apartment debt counter goes down by the same amount.
func (s *Service) RecordPayment(ctx context.Context, paymentID id.ID, amount types.Money, methodID *id.ID) (*Payment, error) {
	var result *Payment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("payment", paymentID.String())
			}
			return err
		}

		if err := p.Apply(amount, methodID, time.Now().UTC()); err != nil {
			return err
		}

		if err := s.payments.Update(ctx, p); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}

		buildingID, err := s.apartments.BuildingOf(ctx, p.ApartmentID)
		if err != nil {
			return fmt.Errorf("resolve building: %w", err)
		}
		main, err := s.ledger.GetMain(ctx, buildingID)
		if err != nil {
			return fmt.Errorf("get main inventory: %w", err)
		}

		if _, err := s.ledger.RecordTransaction(ctx, ledger.TransactionInput{
			BuildingID:      buildingID,
			Type:            ledger.TypePaymentReceived,
			Amount:          amount,
			ToInventoryID:   &main.ID,
			PaymentMethodID: methodID,
			ReferenceID:     &p.ID,
			Description:     fmt.Sprintf("payment for %s", p.PaymentMonth),
		}); err != nil {
			return err
		}

		if err := s.apartments.AdjustDebt(ctx, p.ApartmentID, amount.Neg()); err != nil {
			return fmt.Errorf("adjust apartment debt: %w", err)
		}

		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment recorded",
		"payment_id", result.ID,
		"amount", amount,
		"status", result.Status,
		"balance", result.Balance,
	)
	return result, nil
}

// GeneratePayments materializes obligations for every chargeable fee of the
// month. Idempotent: existing (apartment, fee, month) rows are skipped, so
// the worker and a manual trigger can both call it safely. Returns the
// number of rows created.
func (s *Service) GeneratePayments(ctx context.Context, month types.Month, dueDate time.Time) (int, error) {
	fees, err := s.fees.ListChargeable(ctx, month)
	if err != nil {
		return 0, fmt.Errorf("list chargeable fees: %w", err)
	}

	created := 0
	for _, fee := range fees {
		n, err := s.generateForFee(ctx, fee.ID, month, dueDate)
		if err != nil {
			return created, fmt.Errorf("generate for fee %s: %w", fee.ID, err)
		}
		created += n
	}

	if created > 0 {
		logger.Info(ctx, "monthly payments generated",
			"month", month, "fees", len(fees), "created", created)
	}
	return created, nil
}

// GenerateForFee materializes obligations for a single fee. Same
// idempotency rules as GeneratePayments.
func (s *Service) GenerateForFee(ctx context.Context, feeID id.ID, month types.Month, dueDate time.Time) (int, error) {
	created, err := s.generateForFee(ctx, feeID, month, dueDate)
	if err != nil {
		return 0, fmt.Errorf("generate for fee %s: %w", feeID, err)
	}
	if created > 0 {
		logger.Info(ctx, "payments generated for fee",
			"fee_id", feeID, "month", month, "created", created)
	}
	return created, nil
}

func (s *Service) generateForFee(ctx context.Context, feeID id.ID, month types.Month, dueDate time.Time) (int, error) {
	created := 0
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		_, allocs, err := s.fees.GetWithAllocations(ctx, feeID)
		if err != nil {
			return err
		}
		for _, alloc := range allocs {
			exists, err := s.payments.Exists(ctx, alloc.ApartmentID, feeID, month)
			if err != nil {
				return fmt.Errorf("check obligation: %w", err)
			}
			if exists {
				continue
			}

			p := New(alloc.ApartmentID, feeID, month, alloc.CalculatedAmount, dueDate)
			if err := s.payments.Create(ctx, p); err != nil {
				return fmt.Errorf("create obligation: %w", err)
			}
			if p.AmountOwed.IsPositive() {
				if err := s.apartments.AdjustDebt(ctx, alloc.ApartmentID, p.AmountOwed); err != nil {
					return fmt.Errorf("adjust apartment debt: %w", err)
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// OverdueSweep flips unsettled obligations past their due date to overdue.
// Invoked on a worker schedule.
func (s *Service) OverdueSweep(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := s.payments.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	if n > 0 {
		logger.Info(ctx, "overdue sweep completed", "as_of", asOf.Format("2006-01-02"), "updated", n)
	}
	return n, nil
}
