package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/shift"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateUniqueViolation      = "23505"
)

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTxWithOptions(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	// Execute function
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return mapTxError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}

// mapTxError surfaces lost updates as a retryable domain error.
func mapTxError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return fmt.Errorf("%w: %v", shift.ErrConcurrentModification, err)
		}
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db}
}

// WithinTransaction implements database.Transactor. Lock keys become
// transaction-scoped advisory locks, released on commit or rollback.
func (t *transactor) WithinTransaction(ctx context.Context, opts database.TxOptions, fn func(txCtx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		if err := acquireLocks(ctx, tx, opts.LockKeys); err != nil {
			return err
		}
		return fn(ctx)
	}

	txOpts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if opts.Serializable {
		txOpts.IsoLevel = pgx.Serializable
	}

	return WithTransaction(ctx, t.db, txOpts, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		if err := acquireLocks(txCtx, tx, opts.LockKeys); err != nil {
			return err
		}
		return fn(txCtx)
	})
}

func acquireLocks(ctx context.Context, tx pgx.Tx, keys []string) error {
	// Fixed order so two callers locking the same keys cannot deadlock.
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, key := range sorted {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return fmt.Errorf("failed to acquire lock %q: %w", key, err)
		}
	}
	return nil
}
