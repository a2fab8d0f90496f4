// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/deiadventures/guildhall/internal/domain"
)

// writeLockKey is the pg_advisory_xact_lock key taken by every write
// transaction.
const writeLockKey int64 = 0x6775696c64 // "guild"

var tracer = otel.Tracer("github.com/deiadventures/guildhall/internal/store")

// Mode selects how a transaction begins.
type Mode int

const (
	// Read transactions are READ ONLY and never take the write lock.
	Read Mode = iota
	// Write transactions are READ WRITE and take the write lock before fn runs.
	Write
)

func (m Mode) String() string {
	if m == Write {
		return "write"
	}
	return "read"
}

func (m Mode) txOptions() pgx.TxOptions {
	if m == Write {
		return pgx.TxOptions{AccessMode: pgx.ReadWrite}
	}
	return pgx.TxOptions{AccessMode: pgx.ReadOnly}
}

// Tx is the query surface handed to repository and engine functions. pgx.Tx
// satisfies it.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFunc runs inside a transaction.
type TxFunc func(ctx context.Context, tx Tx) error

// conn is the part of *pgx.Conn the Store needs. pgxmock.PgxConnIface
// satisfies it as well.
type conn interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store is the process-wide storage handle.
type Store struct {
	mu       sync.Mutex
	conn     conn
	poisoned atomic.Bool
}

// Options tune Open.
type Options struct {
	// ConnectRetries is the number of extra connection attempts.
	ConnectRetries uint64
	// ConnectBackoff is the base delay of the exponential backoff.
	ConnectBackoff time.Duration
	// SkipMigrations leaves the schema alone. Used by tooling that only reads.
	SkipMigrations bool
}

// Open connects to databaseURL, retrying with exponential backoff, and brings
// the schema up to date before returning the handle.
func Open(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	if opts.ConnectBackoff <= 0 {
		opts.ConnectBackoff = 500 * time.Millisecond
	}

	var c *pgx.Conn
	backoff := retry.WithMaxRetries(opts.ConnectRetries, retry.NewExponential(opts.ConnectBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		c, err = pgx.Connect(ctx, databaseURL)
		if err != nil {
			slog.WarnContext(ctx, "database connection attempt failed", "error", err)
			return retry.RetryableError(err)
		}
		if err := c.Ping(ctx); err != nil {
			_ = c.Close(ctx) //nolint:errcheck // retrying with a fresh connection
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	if !opts.SkipMigrations {
		if err := migrateToLatest(databaseURL); err != nil {
			_ = c.Close(ctx) //nolint:errcheck // migration error takes precedence
			return nil, err
		}
	}

	return NewWithConn(c), nil
}

func migrateToLatest(databaseURL string) (err error) {
	migrator, err := NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return migrator.EnsureCurrent()
}

// NewWithConn wraps an already open connection.
func NewWithConn(c conn) *Store {
	return &Store{conn: c}
}

// Read runs fn in a read-only transaction.
func (s *Store) Read(ctx context.Context, fn TxFunc) error {
	return s.InTransaction(ctx, Read, fn)
}

// Write runs fn in a read-write transaction.
func (s *Store) Write(ctx context.Context, fn TxFunc) error {
	return s.InTransaction(ctx, Write, fn)
}

// InTransaction holds the connection for the duration of fn. The transaction
// commits when fn returns nil and rolls back otherwise.
//
// Cancellation of ctx is not propagated into the transaction: once started it
// runs to completion and a caller that gave up simply never sees the result.
//
// A panic inside fn rolls back, poisons the Store and is re-raised.
func (s *Store) InTransaction(ctx context.Context, mode Mode, fn TxFunc) error {
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracer.Start(ctx, "store."+mode.String())
	defer span.End()

	waitStart := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	recordLockWait(mode, time.Since(waitStart))

	Invariant(!s.poisoned.Load(), "storage handle used after an earlier transaction panicked")

	tx, err := s.conn.BeginTx(ctx, mode.txOptions())
	if err != nil {
		recordTransaction(mode, outcomeBeginFailed)
		span.SetStatus(codes.Error, "begin failed")
		return domain.StorageError("begin transaction", err)
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned.Store(true)
			_ = tx.Rollback(ctx) //nolint:errcheck // already unwinding
			recordTransaction(mode, outcomePanic)
			panic(r)
		}
	}()

	if mode == Write {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", writeLockKey); err != nil {
			s.rollback(ctx, tx)
			recordTransaction(mode, outcomeBeginFailed)
			return domain.StorageError("acquire write lock", err)
		}
	}

	if err := fn(ctx, tx); err != nil {
		s.rollback(ctx, tx)
		recordTransaction(mode, outcomeRollback)
		span.SetAttributes(attribute.String("guildhall.error_code", domain.CodeOf(err)))
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		recordTransaction(mode, outcomeCommitFailed)
		span.SetStatus(codes.Error, "commit failed")
		return domain.StorageError("commit transaction", err)
	}
	recordTransaction(mode, outcomeCommit)
	return nil
}

func (s *Store) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil {
		slog.ErrorContext(ctx, "transaction rollback failed", "error", err)
	}
}

// ReadValue runs fn in a read transaction and returns its result.
func ReadValue[T any](ctx context.Context, s *Store, fn func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	return inTransactionValue(ctx, s, Read, fn)
}

// WriteValue runs fn in a write transaction and returns its result.
func WriteValue[T any](ctx context.Context, s *Store, fn func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	return inTransactionValue(ctx, s, Write, fn)
}

func inTransactionValue[T any](ctx context.Context, s *Store, mode Mode, fn func(ctx context.Context, tx Tx) (T, error)) (T, error) {
	var out T
	err := s.InTransaction(ctx, mode, func(ctx context.Context, tx Tx) error {
		v, err := fn(ctx, tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Ping checks the connection. It waits for any running transaction.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poisoned.Load() {
		return oops.Code("STORE_POISONED").Errorf("storage handle is poisoned")
	}
	if err := s.conn.Ping(ctx); err != nil {
		return domain.StorageError("ping", err)
	}
	return nil
}

// Close waits for any running transaction and closes the connection.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.Close(ctx); err != nil {
		return oops.Code("DB_CLOSE_FAILED").Wrap(err)
	}
	return nil
}
