// Package client implements the fastorm Executor over an embedded SQLite
// database.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/internal/debug"
)

// SQLite owns one database connection and, at most, one open transaction.
// While a transaction is open every statement routes through it. The
// client is the process's single logical executor; it is not safe for
// concurrent use.
type SQLite struct {
	db *sql.DB
	tx *sql.Tx
}

// Open opens (or creates) the database file and enables foreign-key
// enforcement, which SQLite leaves off by default.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return &SQLite{db: db}, nil
}

// FromDB wraps an existing connection.
func FromDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Ping verifies the connection.
func (c *SQLite) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection.
func (c *SQLite) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection.
func (c *SQLite) DB() *sql.DB {
	return c.db
}

// Exec runs a write statement and reports the affected rows and the
// last assigned rowid.
func (c *SQLite) Exec(ctx context.Context, stmt string, args []any) (fastorm.Result, error) {
	debug.Statement("exec", stmt, args)
	res, err := c.runner().ExecContext(ctx, stmt, args...)
	if err != nil {
		return fastorm.Result{}, fastorm.NewStatementError(stmt, args, classify(err))
	}

	var out fastorm.Result
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// Query runs a read statement and returns every row as a column-name to
// value mapping.
func (c *SQLite) Query(ctx context.Context, stmt string, args []any) ([]fastorm.Row, error) {
	debug.Statement("query", stmt, args)
	rows, err := c.runner().QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fastorm.NewStatementError(stmt, args, classify(err))
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fastorm.NewStatementError(stmt, args, err)
	}

	var out []fastorm.Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fastorm.NewStatementError(stmt, args, err)
		}
		row := make(fastorm.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fastorm.NewStatementError(stmt, args, err)
	}
	return out, nil
}

// Begin opens a transaction. Beginning inside an open transaction fails
// with ErrTransaction.
func (c *SQLite) Begin(ctx context.Context) error {
	if c.tx != nil {
		return fmt.Errorf("%w: transaction already open", fastorm.ErrTransaction)
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", fastorm.ErrTransaction, err)
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction, failing with ErrTransaction if
// none is open.
func (c *SQLite) Commit() error {
	if c.tx == nil {
		return fmt.Errorf("%w: commit without begin", fastorm.ErrTransaction)
	}
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("%w: %v", fastorm.ErrTransaction, err)
	}
	return nil
}

// Rollback discards the open transaction, failing with ErrTransaction if
// none is open.
func (c *SQLite) Rollback() error {
	if c.tx == nil {
		return fmt.Errorf("%w: rollback without begin", fastorm.ErrTransaction)
	}
	err := c.tx.Rollback()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("%w: %v", fastorm.ErrTransaction, err)
	}
	return nil
}

// runner is the open transaction if there is one, the bare connection
// otherwise.
func (c *SQLite) runner() runner {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// classify maps driver errors onto the fastorm taxonomy so callers can
// match with errors.Is instead of inspecting driver types.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", fastorm.ErrConstraintViolation, err)
	}
	return err
}
