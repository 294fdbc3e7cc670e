package monthlyfee

import (
	"context"
	"fmt"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/core/types"
	"domus/internal/domain"
	"domus/pkg/logger"
)

// ApartmentRoster supplies the building's apartments as coefficient rows.
// Implemented by the apartment service; defined here to avoid a cycle.
type ApartmentRoster interface {
	CoefficientRows(ctx context.Context, buildingID id.ID, basis string) ([]CoefficientRow, error)
}

// Service provides business logic for monthly fees and their allocations.
type Service struct {
	*domain.CatalogService[*MonthlyFee]
	fees        Repository
	allocations AllocationRepository
	roster      ApartmentRoster
}

// NewService creates a monthly fee service.
func NewService(fees Repository, allocations AllocationRepository, txm tx.Manager, roster ApartmentRoster) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*MonthlyFee]{
		Repo:       fees,
		TxManager:  txm,
		EntityName: "monthly fee",
	})

	svc := &Service{
		CatalogService: base,
		fees:           fees,
		allocations:    allocations,
		roster:         roster,
	}

	base.Hooks().OnBeforeDelete(svc.checkDeletable)

	return svc
}

// checkDeletable blocks deletion while a recurring expense links the fee.
// Allocations themselves cascade with the fee.
func (s *Service) checkDeletable(ctx context.Context, fee *MonthlyFee) error {
	linked, err := s.fees.HasExpenseLinks(ctx, fee.ID)
	if err != nil {
		return fmt.Errorf("check expense links: %w", err)
	}
	if linked {
		return apperror.NewRestrictDelete("monthly fee", fee.ID.String(), "recurring expenses")
	}
	return nil
}

// Create persists the fee and its initial allocations in one transaction.
func (s *Service) Create(ctx context.Context, fee *MonthlyFee) error {
	if err := fee.Validate(ctx); err != nil {
		return err
	}

	err := s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.fees.Create(ctx, fee); err != nil {
			return fmt.Errorf("create monthly fee: %w", err)
		}
		return s.recompute(ctx, fee)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "monthly fee created",
		"id", fee.ID, "name", fee.Name,
		"basis", fee.PaymentBasis, "mode", fee.ApplicationMode,
	)
	return nil
}

// Update persists fee changes and recomputes allocations in one transaction.
// Changing the base amount or the basis invalidates every share.
func (s *Service) Update(ctx context.Context, fee *MonthlyFee) error {
	if err := fee.Validate(ctx); err != nil {
		return err
	}

	return s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.fees.Update(ctx, fee); err != nil {
			return fmt.Errorf("update monthly fee: %w", err)
		}
		return s.recompute(ctx, fee)
	})
}

// Recompute refreshes allocations for one fee. Called when the apartment
// roster of the building changes.
func (s *Service) Recompute(ctx context.Context, feeID id.ID) error {
	fee, err := s.GetByID(ctx, feeID)
	if err != nil {
		return err
	}
	return s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		return s.recompute(ctx, fee)
	})
}

// RecomputeForBuilding refreshes allocations for every active fee of a
// building after a roster change.
func (s *Service) RecomputeForBuilding(ctx context.Context, buildingID id.ID) error {
	fees, err := s.fees.ListByBuilding(ctx, buildingID, true)
	if err != nil {
		return fmt.Errorf("list fees: %w", err)
	}
	return s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		for _, fee := range fees {
			if err := s.recompute(ctx, fee); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) recompute(ctx context.Context, fee *MonthlyFee) error {
	rows, err := s.roster.CoefficientRows(ctx, fee.BuildingID, string(fee.PaymentBasis))
	if err != nil {
		return fmt.Errorf("load apartment roster: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	if !fee.IsDistributedEvenly {
		if err := s.applyCustomCoefficients(ctx, fee, rows); err != nil {
			return err
		}
	}

	shares, err := ComputeShares(fee, rows)
	if err != nil {
		return err
	}

	existing, err := s.allocations.ListByFee(ctx, fee.ID)
	if err != nil {
		return fmt.Errorf("list allocations: %w", err)
	}
	byApartment := make(map[id.ID]*Allocation, len(existing))
	for _, a := range existing {
		byApartment[a.ApartmentID] = a
	}

	out := make([]*Allocation, 0, len(shares))
	for _, share := range shares {
		alloc, ok := byApartment[share.ApartmentID]
		if !ok {
			alloc = &Allocation{
				BaseEntity:   entity.NewBaseEntity(),
				MonthlyFeeID: fee.ID,
				ApartmentID:  share.ApartmentID,
			}
		}
		alloc.Coefficient = share.Coefficient
		alloc.CalculatedAmount = share.Amount
		out = append(out, alloc)
	}

	if err := s.allocations.Upsert(ctx, out); err != nil {
		return fmt.Errorf("upsert allocations: %w", err)
	}
	return nil
}

// applyCustomCoefficients replaces basis-derived coefficients with the ones
// stored on existing allocation rows. Apartments without a stored row keep
// their derived coefficient.
func (s *Service) applyCustomCoefficients(ctx context.Context, fee *MonthlyFee, rows []CoefficientRow) error {
	existing, err := s.allocations.ListByFee(ctx, fee.ID)
	if err != nil {
		return fmt.Errorf("list allocations: %w", err)
	}
	custom := make(map[id.ID]float64, len(existing))
	for _, a := range existing {
		custom[a.ApartmentID] = a.Coefficient
	}
	for i := range rows {
		if c, ok := custom[rows[i].ApartmentID]; ok {
			rows[i].Coefficient = c
		}
	}
	return nil
}

// OnRosterChanged refreshes allocations after an apartment roster change.
func (s *Service) OnRosterChanged(ctx context.Context, buildingID id.ID) error {
	return s.RecomputeForBuilding(ctx, buildingID)
}

// GetWithAllocations returns a fee together with its allocation rows.
func (s *Service) GetWithAllocations(ctx context.Context, feeID id.ID) (*MonthlyFee, []*Allocation, error) {
	fee, err := s.GetByID(ctx, feeID)
	if err != nil {
		return nil, nil, err
	}
	allocs, err := s.allocations.ListByFee(ctx, feeID)
	if err != nil {
		return nil, nil, fmt.Errorf("list allocations: %w", err)
	}
	return fee, allocs, nil
}

// ListByBuilding returns fees of a building.
func (s *Service) ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*MonthlyFee, error) {
	return s.fees.ListByBuilding(ctx, buildingID, onlyActive)
}

// ListChargeable returns active fees charging the given month.
func (s *Service) ListChargeable(ctx context.Context, month types.Month) ([]*MonthlyFee, error) {
	return s.fees.ListChargeable(ctx, month)
}
