package paymentmethod

import (
	"context"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/internal/domain"
)

// Repository persists payment methods.
type Repository interface {
	domain.CatalogRepository[*PaymentMethod]
}

// Service manages the payment method catalog.
type Service struct {
	*domain.CatalogService[*PaymentMethod]
	repo Repository
}

// NewService creates a payment method service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*PaymentMethod]{
			Repo:       repo,
			TxManager:  txm,
			EntityName: "payment method",
		}),
		repo: repo,
	}
}

// GetActive returns a method and fails when it is inactive. Transactions
// and expenses must not reference disabled methods.
func (s *Service) GetActive(ctx context.Context, methodID id.ID) (*PaymentMethod, error) {
	m, err := s.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, apperror.NewBusinessRule(apperror.CodeInactiveReference, "payment method is not active").
			WithDetail("paymentMethodId", methodID.String())
	}
	return m, nil
}

// CheckActive reports an error when the method is missing or disabled.
// Used by the ledger and expense services before money moves.
func (s *Service) CheckActive(ctx context.Context, methodID id.ID) error {
	_, err := s.GetActive(ctx, methodID)
	return err
}
