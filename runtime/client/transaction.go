package client

import (
	"context"
	"fmt"
)

// TransactionFunc runs inside a transaction; the client's statements
// route through the transaction while it executes.
type TransactionFunc func(c *SQLite) error

// Transaction runs fn inside a transaction. On an error or panic the
// transaction rolls back; otherwise it commits.
func (c *SQLite) Transaction(ctx context.Context, fn TransactionFunc) error {
	if err := c.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = c.Rollback()
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(c); err != nil {
		if rbErr := c.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return c.Commit()
}
