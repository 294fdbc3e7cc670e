package building

import (
	"context"
	"fmt"
	"time"

	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/domain"
	"domus/pkg/logger"
	"domus/pkg/numerator"
)

// MainInventorySeeder creates the default main inventory for a new building.
// Implemented by the ledger service; defined here to avoid a package cycle.
type MainInventorySeeder interface {
	SeedMain(ctx context.Context, buildingID id.ID) error
}

// Service provides business logic for the Building aggregate.
type Service struct {
	*domain.CatalogService[*Building]
	repo      Repository
	seeder    MainInventorySeeder
	numerator *numerator.Service
}

// NewService creates a new Building service.
func NewService(repo Repository, txm tx.Manager, seeder MainInventorySeeder, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Building]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "building",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		seeder:         seeder,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate fills generated fields before persistence.
func (s *Service) prepareForCreate(ctx context.Context, b *Building) error {
	if b.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("BLD"),
			&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		b.Code = code
	}
	if b.NextTaxDate == nil {
		next := b.ComputeNextTaxDate(time.Now())
		b.NextTaxDate = &next
	}
	return nil
}

// Create persists the building together with its main inventory.
// A building without a main inventory violates the ledger invariant, so both
// rows are written in one transaction.
func (s *Service) Create(ctx context.Context, b *Building) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	if err := s.prepareForCreate(ctx, b); err != nil {
		return err
	}

	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create building: %w", err)
		}
		if err := s.seeder.SeedMain(ctx, b.ID); err != nil {
			return fmt.Errorf("seed main inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "building created", "id", b.ID, "code", b.Code, "name", b.Name)
	return nil
}

// RefreshAggregates recomputes derived counters and financial snapshot.
// Called by apartment and ledger services after mutations.
func (s *Service) RefreshAggregates(ctx context.Context, buildingID id.ID) error {
	return s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.RefreshApartmentCount(ctx, buildingID); err != nil {
			return fmt.Errorf("refresh apartment count: %w", err)
		}
		if err := s.repo.RefreshFinancials(ctx, buildingID); err != nil {
			return fmt.Errorf("refresh financials: %w", err)
		}
		return nil
	})
}

// AdvanceTaxDate rolls next_tax_date forward once the current date is reached.
// Invoked by the worker; a no-op when the date is still in the future.
func (s *Service) AdvanceTaxDate(ctx context.Context, buildingID id.ID, now time.Time) error {
	b, err := s.GetByID(ctx, buildingID)
	if err != nil {
		return err
	}
	if b.NextTaxDate != nil && b.NextTaxDate.After(now) {
		return nil
	}
	next := b.ComputeNextTaxDate(now)
	b.NextTaxDate = &next
	return s.Update(ctx, b)
}
