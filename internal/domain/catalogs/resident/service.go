package resident

import (
	"context"
	"fmt"

	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/domain"
)

// ResidentCountSync keeps the apartment's cached residents_count equal to the
// actual roster size. Implemented by the apartment repository.
type ResidentCountSync interface {
	SetResidentsCount(ctx context.Context, apartmentID id.ID, count int) error
}

// Service provides business logic for residents.
//
// The main-contact invariant (at most one per apartment) is enforced here:
// promoting a resident demotes the previous main contact in the same
// transaction. residents_count on the apartment is synced after every
// mutation so the roster invariant holds without form-level checks.
type Service struct {
	*domain.CatalogService[*Resident]
	repo      Repository
	countSync ResidentCountSync
}

// NewService creates a new Resident service.
func NewService(repo Repository, txm tx.Manager, countSync ResidentCountSync) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Resident]{
		Repo:       repo,
		TxManager:  txm,
		EntityName: "resident",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		countSync:      countSync,
	}

	base.Hooks().OnBeforeCreate(svc.prepareMainContact)
	base.Hooks().OnBeforeUpdate(svc.prepareMainContact)
	base.Hooks().OnAfterCreate(svc.syncCount)
	base.Hooks().OnAfterUpdate(svc.syncCount)
	base.Hooks().OnAfterDelete(svc.syncCount)

	return svc
}

// prepareMainContact demotes the current main contact when a new one is
// set. The hook runs inside the mutation's transaction, so a failed
// insert or update rolls the demote back with it.
func (s *Service) prepareMainContact(ctx context.Context, r *Resident) error {
	if !r.IsMainContact {
		return nil
	}
	if err := s.repo.ClearMainContact(ctx, r.ApartmentID); err != nil {
		return fmt.Errorf("clear main contact: %w", err)
	}
	return nil
}

func (s *Service) syncCount(ctx context.Context, r *Resident) error {
	count, err := s.repo.CountByApartment(ctx, r.ApartmentID)
	if err != nil {
		return fmt.Errorf("count residents: %w", err)
	}
	return s.countSync.SetResidentsCount(ctx, r.ApartmentID, count)
}

// SetMainContact atomically promotes a resident to main contact.
func (s *Service) SetMainContact(ctx context.Context, residentID id.ID) error {
	return s.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := s.GetByID(ctx, residentID)
		if err != nil {
			return err
		}
		if r.IsMainContact {
			return nil
		}
		if err := s.repo.ClearMainContact(ctx, r.ApartmentID); err != nil {
			return fmt.Errorf("clear main contact: %w", err)
		}
		r.IsMainContact = true
		if err := s.repo.Update(ctx, r); err != nil {
			return fmt.Errorf("promote main contact: %w", err)
		}
		return nil
	})
}

// ListByApartment returns the apartment's residents.
func (s *Service) ListByApartment(ctx context.Context, apartmentID id.ID) ([]*Resident, error) {
	return s.repo.ListByApartment(ctx, apartmentID)
}
