package apartment

import (
	"context"
	"fmt"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/core/types"
	"domus/internal/domain"
)

// BuildingAggregates keeps the owning building's derived counters fresh.
// Implemented by the building service.
type BuildingAggregates interface {
	RefreshAggregates(ctx context.Context, buildingID id.ID) error
}

// BuildingChecker verifies a building reference exists.
type BuildingChecker interface {
	Exists(ctx context.Context, buildingID id.ID) (bool, error)
}

// RosterListener is notified after the apartment roster of a building
// changes. The fee service recomputes allocations on this signal.
type RosterListener interface {
	OnRosterChanged(ctx context.Context, buildingID id.ID) error
}

// Service provides business logic for apartments.
type Service struct {
	*domain.CatalogService[*Apartment]
	repo      Repository
	buildings BuildingChecker
	aggs      BuildingAggregates
	listeners []RosterListener
}

// NewService creates a new Apartment service.
func NewService(repo Repository, txm tx.Manager, buildings BuildingChecker, aggs BuildingAggregates) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Apartment]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "apartment",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		buildings:      buildings,
		aggs:           aggs,
	}

	base.Hooks().OnBeforeCreate(svc.checkBuilding)
	base.Hooks().OnAfterCreate(svc.afterMutation)
	base.Hooks().OnAfterUpdate(svc.afterMutation)
	base.Hooks().OnAfterDelete(svc.afterMutation)

	return svc
}

// AddRosterListener registers a listener for roster changes.
func (s *Service) AddRosterListener(l RosterListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Service) checkBuilding(ctx context.Context, a *Apartment) error {
	ok, err := s.buildings.Exists(ctx, a.BuildingID)
	if err != nil {
		return fmt.Errorf("check building: %w", err)
	}
	if !ok {
		return apperror.NewNotFound("building", a.BuildingID.String())
	}
	return nil
}

func (s *Service) afterMutation(ctx context.Context, a *Apartment) error {
	if err := s.aggs.RefreshAggregates(ctx, a.BuildingID); err != nil {
		return err
	}
	for _, l := range s.listeners {
		if err := l.OnRosterChanged(ctx, a.BuildingID); err != nil {
			return err
		}
	}
	return nil
}

// ListByBuilding returns the building's apartment roster.
func (s *Service) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Apartment, error) {
	return s.repo.ListByBuilding(ctx, buildingID)
}

// BuildingOf resolves the owning building of an apartment.
func (s *Service) BuildingOf(ctx context.Context, apartmentID id.ID) (id.ID, error) {
	a, err := s.GetByID(ctx, apartmentID)
	if err != nil {
		return id.Nil(), err
	}
	return a.BuildingID, nil
}

// AdjustDebt applies a signed delta to the apartment debt counter.
// Negative deltas come from recorded payments.
func (s *Service) AdjustDebt(ctx context.Context, apartmentID id.ID, delta types.Money) error {
	return s.repo.AdjustDebt(ctx, apartmentID, delta)
}
