package dest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"mongolift/internal/dialect"
)

// Executor wraps the destination connection. Transactions are serialized
// per table: concurrent batches targeting different tables proceed in
// parallel, concurrent batches for the same table are mutually excluded
// at transaction granularity.
type Executor struct {
	db *sql.DB
	d  dialect.Dialect

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open connects via the dialect's database/sql driver and pings the
// destination.
func Open(d dialect.Dialect, dsn string) (*Executor, error) {
	db, err := sql.Open(d.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open destination: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect destination: %w", err)
	}
	return New(db, d), nil
}

// New wraps an already-open connection.
func New(db *sql.DB, d dialect.Dialect) *Executor {
	return &Executor{db: db, d: d, locks: make(map[string]*sync.Mutex)}
}

func (e *Executor) Dialect() dialect.Dialect { return e.d }

func (e *Executor) Close() error { return e.db.Close() }

// ExecDDL executes a single definition statement outside any batch
// transaction.
func (e *Executor) ExecDDL(ctx context.Context, stmt string) error {
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec ddl: %w", err)
	}
	return nil
}

func (e *Executor) tableLock(table string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[table]
	if !ok {
		l = &sync.Mutex{}
		e.locks[table] = l
	}
	return l
}

// Batch is one open transaction scoped to a whole batch of rows for a
// single table. Exactly one of Commit or Rollback must be called.
type Batch struct {
	tx   *sql.Tx
	stmt *sql.Stmt
	lock *sync.Mutex
	done bool
}

// BeginBatch acquires the table's transaction slot, opens a transaction
// and prepares the parameterized insert inside it.
func (e *Executor) BeginBatch(ctx context.Context, table, insertSQL string) (*Batch, error) {
	lock := e.tableLock(table)
	lock.Lock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		lock.Unlock()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &Batch{tx: tx, stmt: stmt, lock: lock}, nil
}

// Insert binds one row to the prepared insert within the batch
// transaction.
func (b *Batch) Insert(ctx context.Context, row []any) error {
	if _, err := b.stmt.ExecContext(ctx, row...); err != nil {
		return fmt.Errorf("insert row: %w", err)
	}
	return nil
}

func (b *Batch) Commit() error {
	if b.done {
		return nil
	}
	b.done = true
	defer b.lock.Unlock()
	b.stmt.Close()
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (b *Batch) Rollback() error {
	if b.done {
		return nil
	}
	b.done = true
	defer b.lock.Unlock()
	b.stmt.Close()
	if err := b.tx.Rollback(); err != nil {
		return fmt.Errorf("rollback batch: %w", err)
	}
	return nil
}
