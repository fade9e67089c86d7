package fastorm

import "context"

// Row is one queried row, keyed by result column name.
type Row map[string]any

// Result reports the outcome of a write statement.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Executor runs compiled statements against the database. It owns the
// connection and the transaction discipline; the mapping layer only hands
// it parameterized SQL. runtime/client provides the SQLite implementation,
// and tests substitute fakes.
type Executor interface {
	// Exec runs a write statement (INSERT, UPDATE, DELETE, DDL).
	Exec(ctx context.Context, stmt string, args []any) (Result, error)

	// Query runs a read statement and returns every row.
	Query(ctx context.Context, stmt string, args []any) ([]Row, error)

	// Begin, Commit and Rollback are pass-through transaction boundaries.
	// Calling them out of order fails with ErrTransaction.
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
}
