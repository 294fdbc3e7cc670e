// Package domain holds the generic catalog service, the repository
// contracts it builds on, and the shared list/filter types.
package domain

import (
	"context"

	"domus/internal/core/entity"
	"domus/internal/core/id"
)

// ListFilter is the common filter for list operations. Repositories
// apply only the fields that make sense for their entity and ignore
// the rest.
type ListFilter struct {
	Search string  // substring match on the entity's searchable fields
	IDs    []id.ID // restrict to these ids

	// Scoping: buildings own apartments, inventories and fees;
	// apartments own residents and payments.
	BuildingID  *id.ID
	ApartmentID *id.ID

	Status   string
	IsActive *bool

	OrderBy string // column name, "-" prefix for descending
	Limit   int
	Offset  int
}

func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult is a page of entities plus the unpaginated total.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository is the persistence contract of CatalogService.
// Update uses optimistic locking on the entity version. Delete follows
// the schema's foreign keys; RESTRICT violations come back as conflict
// errors.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// HookEvent names a point in the entity lifecycle.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook runs at a lifecycle point, inside the operation's transaction.
// An error aborts the operation.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry is how concrete services attach their domain rules to
// the generic CatalogService: number assignment before create, counter
// sync after mutations, reference checks before delete.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{hooks: make(map[HookEvent][]Hook[T])}
}

func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes the event's hooks in registration order, stopping at
// the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) { r.On(BeforeCreate, hook) }
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T])  { r.On(AfterCreate, hook) }
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) { r.On(BeforeUpdate, hook) }
func (r *HookRegistry[T]) OnAfterUpdate(hook Hook[T])  { r.On(AfterUpdate, hook) }
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) { r.On(BeforeDelete, hook) }
func (r *HookRegistry[T]) OnAfterDelete(hook Hook[T])  { r.On(AfterDelete, hook) }
