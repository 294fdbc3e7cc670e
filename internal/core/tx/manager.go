// Package tx abstracts transaction scoping away from domain services.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction. An error from fn
// rolls the transaction back; nil commits it. Nested calls join the
// transaction already carried by the context instead of opening a new one.
//
// The pgx implementation lives in infrastructure/storage/postgres.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
