// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"
	"fmt"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
	"domus/internal/core/tx"
)

// CatalogService provides business logic for catalog entities.
// Entity-specific services embed it and register hooks for enrichment.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// TxManager exposes the transaction manager to embedding services.
func (s *CatalogService[T]) TxManager() tx.Manager {
	return s.txManager
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", entityID)
}

// Create creates a new catalog entity. Hooks run inside the same
// transaction as the insert, so a side effect of a before hook (say,
// demoting the previous main contact) rolls back with a failed write,
// and a failed after hook (aggregate refresh, allocation recompute)
// rolls back the write instead of leaving derived state stale.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, entity); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
			return fmt.Errorf("after-create %s: %w", s.entityName, err)
		}
		return nil
	})
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID.String())
	}
	return entity, nil
}

// Update updates an existing entity. Hooks join the update's
// transaction the same way Create's do.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, entity); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		if err := s.hooks.Run(ctx, AfterUpdate, entity); err != nil {
			return fmt.Errorf("after-update %s: %w", s.entityName, err)
		}
		return nil
	})
}

// Delete removes the entity (cascades per schema).
func (s *CatalogService[T]) Delete(ctx context.Context, entityID id.ID) error {
	// Load first so before-delete hooks can inspect the entity.
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return s.normalizeGetErr(err, entityID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, entityID); err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, AfterDelete, entity); err != nil {
			return fmt.Errorf("after-delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return fmt.Errorf("delete %s: %w", s.entityName, err)
	}
	return nil
}

// List retrieves entities with filtering and pagination.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}
	result, err := s.repo.List(ctx, filter)
	if err != nil {
		return result, fmt.Errorf("list %s: %w", s.entityName, err)
	}
	return result, nil
}
