package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"domus/internal/core/tx"
	"domus/pkg/logger"
)

var tracer = otel.Tracer("domus/tx")

var _ tx.Manager = (*TxManager)(nil)

// statementTimeout bounds every statement inside a transaction so a stuck
// query cannot hold row locks forever.
const statementTimeout = 30 * time.Second

// TxManager scopes pgx transactions to the context. Repositories obtain
// their querier through GetQuerier, so the same repository code runs
// inside and outside transactions.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over the pool.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool}
}

type txKey struct{}

// RunInTransaction executes fn inside a read-committed transaction.
// A call made while a transaction is already carried by the context joins
// it: the whole outermost call commits or rolls back as one unit.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "transaction",
		trace.WithAttributes(attribute.String("tx.isolation", string(pgx.ReadCommitted))))
	defer span.End()

	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	dbTx, err := m.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := dbTx.Exec(ctx,
		fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", statementTimeout.Milliseconds())); err != nil {
		_ = dbTx.Rollback(ctx)
		return fmt.Errorf("set statement_timeout: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, dbTx)); err != nil {
		// Rollback on a fresh context so it still runs after cancellation.
		if rbErr := dbTx.Rollback(context.Background()); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "original_error", err)
		}
		return err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Querier is the subset of pgx operations repositories need. Both pgx.Tx
// and pgxpool.Pool satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction carried by the context, or the pool.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if dbTx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return dbTx
	}
	return m.pool
}
