// Package builder provides the fluent query builder API.
package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/query/sqlgen"
	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/schema"
)

// Builder accumulates clauses over one schema and executes the compiled
// statement through one Executor. Every chainable method mutates the
// builder and returns it; a builder composes exactly one logical query
// and is not reset after execution, so callers construct a fresh one per
// query.
//
// Argument errors (a bad order direction, a negative limit) stick to the
// builder and are returned by All, First, Count, and Exists before any
// statement reaches the Executor.
type Builder struct {
	schema  *schema.Schema
	exec    fastorm.Executor
	clauses sqlgen.Clauses
	err     error
}

// New creates a builder over the schema's table.
func New(s *schema.Schema, exec fastorm.Executor) *Builder {
	return &Builder{schema: s, exec: exec}
}

// Where appends a predicate fragment with its positional parameters.
// Multiple calls AND together in call order.
func (b *Builder) Where(fragment string, args ...any) *Builder {
	b.clauses.Predicates = append(b.clauses.Predicates, sqlgen.Predicate{
		Fragment: fragment,
		Args:     args,
	})
	return b
}

// Join appends an INNER JOIN.
func (b *Builder) Join(table, on string) *Builder {
	return b.join(sqlgen.InnerJoin, table, on)
}

// LeftJoin appends a LEFT JOIN.
func (b *Builder) LeftJoin(table, on string) *Builder {
	return b.join(sqlgen.LeftJoin, table, on)
}

// RightJoin appends a RIGHT JOIN.
func (b *Builder) RightJoin(table, on string) *Builder {
	return b.join(sqlgen.RightJoin, table, on)
}

func (b *Builder) join(kind sqlgen.JoinKind, table, on string) *Builder {
	b.clauses.Joins = append(b.clauses.Joins, sqlgen.Join{
		Kind:  kind,
		Table: table,
		On:    on,
	})
	return b
}

// Select overrides the default projection. The last call wins; rows
// returned under a custom projection hydrate into read-only synthetic
// records.
func (b *Builder) Select(columns ...string) *Builder {
	b.clauses.Columns = columns
	return b
}

// OrderBy appends an ordering key. Direction defaults to ascending;
// anything other than ASC or DESC is an ErrInvalidArgument.
func (b *Builder) OrderBy(column string, direction ...string) *Builder {
	dir := "ASC"
	if len(direction) > 0 {
		switch strings.ToUpper(direction[0]) {
		case "ASC":
			dir = "ASC"
		case "DESC":
			dir = "DESC"
		default:
			b.fail(fmt.Errorf("%w: order direction %q", fastorm.ErrInvalidArgument, direction[0]))
			return b
		}
	}
	b.clauses.OrderBy = append(b.clauses.OrderBy, sqlgen.OrderBy{
		Column:    column,
		Direction: dir,
	})
	return b
}

// GroupBy appends grouping columns.
func (b *Builder) GroupBy(columns ...string) *Builder {
	b.clauses.GroupBy = append(b.clauses.GroupBy, columns...)
	return b
}

// Having sets the HAVING predicate.
func (b *Builder) Having(fragment string, args ...any) *Builder {
	b.clauses.Having = &sqlgen.Predicate{Fragment: fragment, Args: args}
	return b
}

// Limit caps the number of returned rows.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		b.fail(fmt.Errorf("%w: negative limit %d", fastorm.ErrInvalidArgument, n))
		return b
	}
	b.clauses.Limit = &n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		b.fail(fmt.Errorf("%w: negative offset %d", fastorm.ErrInvalidArgument, n))
		return b
	}
	b.clauses.Offset = &n
	return b
}

// All compiles and runs the SELECT, hydrating each row into a record in
// database result order.
func (b *Builder) All(ctx context.Context) ([]*record.Record, error) {
	if b.err != nil {
		return nil, b.err
	}

	q := sqlgen.SelectQuery(b.schema, &b.clauses)
	rows, err := b.exec.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return nil, err
	}

	records := make([]*record.Record, 0, len(rows))
	custom := len(b.clauses.Columns) > 0
	for _, row := range rows {
		if custom {
			records = append(records, record.Synthetic(b.schema, row))
			continue
		}
		rec, err := record.Hydrate(b.schema, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// First runs the query with LIMIT 1 and returns the single record, or
// ErrNotFound when no row matched. Zero rows is an absence, never a
// statement failure.
func (b *Builder) First(ctx context.Context) (*record.Record, error) {
	records, err := b.Limit(1).All(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fastorm.ErrNotFound
	}
	return records[0], nil
}

// Count compiles and runs the COUNT form. Ordering, limit, and offset
// set on the builder do not affect the result.
func (b *Builder) Count(ctx context.Context) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}

	q := sqlgen.CountQuery(b.schema, &b.clauses)
	rows, err := b.exec.Query(ctx, q.SQL, q.Args)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, v := range rows[0] {
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		}
	}
	return 0, fmt.Errorf("%w: count returned no integer", fastorm.ErrInvalidArgument)
}

// Exists reports whether any row matches the accumulated predicates.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	n, err := b.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// fail records the first argument error; later clauses keep chaining but
// the terminal methods will refuse to execute.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
