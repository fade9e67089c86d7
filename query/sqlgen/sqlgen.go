// Package sqlgen compiles a schema plus an accumulated clause set into
// parameterized SQLite statements. Values only ever travel through the
// positional argument list, never through the statement string.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/schema"
)

// Query is a compiled statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// SelectQuery compiles a SELECT over the schema. The default projection
// is every schema column, table-qualified so joined tables cannot shadow
// them.
func SelectQuery(s *schema.Schema, c *Clauses) *Query {
	var parts []string
	var args []any

	parts = append(parts, "SELECT "+projection(s, c))
	parts = append(parts, "FROM "+quote(s.Table()))

	for _, j := range c.Joins {
		parts = append(parts, fmt.Sprintf("%s JOIN %s ON %s", j.Kind, j.Table, j.On))
	}

	if where, whereArgs := buildWhere(c.Predicates); where != "" {
		parts = append(parts, "WHERE "+where)
		args = append(args, whereArgs...)
	}

	if len(c.GroupBy) > 0 {
		parts = append(parts, "GROUP BY "+strings.Join(c.GroupBy, ", "))
	}

	if c.Having != nil {
		parts = append(parts, "HAVING "+c.Having.Fragment)
		args = append(args, c.Having.Args...)
	}

	if len(c.OrderBy) > 0 {
		orderParts := make([]string, len(c.OrderBy))
		for i, ob := range c.OrderBy {
			orderParts[i] = fmt.Sprintf("%s %s", ob.Column, ob.Direction)
		}
		parts = append(parts, "ORDER BY "+strings.Join(orderParts, ", "))
	}

	switch {
	case c.Limit != nil:
		parts = append(parts, "LIMIT ?")
		args = append(args, *c.Limit)
	case c.Offset != nil:
		// SQLite requires a LIMIT before OFFSET; -1 means unbounded.
		parts = append(parts, "LIMIT -1")
	}
	if c.Offset != nil {
		parts = append(parts, "OFFSET ?")
		args = append(args, *c.Offset)
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

// CountQuery compiles the COUNT form: same joins and predicates, with
// projection forced to COUNT(*) and ordering, limits, and grouping
// dropped since they cannot change a row count.
func CountQuery(s *schema.Schema, c *Clauses) *Query {
	var parts []string
	var args []any

	parts = append(parts, "SELECT COUNT(*)")
	parts = append(parts, "FROM "+quote(s.Table()))

	for _, j := range c.Joins {
		parts = append(parts, fmt.Sprintf("%s JOIN %s ON %s", j.Kind, j.Table, j.On))
	}

	if where, whereArgs := buildWhere(c.Predicates); where != "" {
		parts = append(parts, "WHERE "+where)
		args = append(args, whereArgs...)
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

// InsertQuery compiles an INSERT for the record. The column list is every
// assigned, non-NULL value in schema order; an absent primary key is left
// out so the database assigns it.
func InsertQuery(r *record.Record) (*Query, error) {
	if r.Synthetic() {
		return nil, fmt.Errorf("%w: synthetic records cannot be inserted", fastorm.ErrInvalidArgument)
	}

	s := r.Schema()
	var columns []string
	var args []any
	for _, col := range s.Columns() {
		v, ok := r.Value(col.Name)
		if !ok || v == nil {
			continue
		}
		columns = append(columns, quote(col.Name))
		args = append(args, v)
	}

	if len(columns) == 0 {
		return &Query{SQL: fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quote(s.Table()))}, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(s.Table()), strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return &Query{SQL: sql, Args: args}, nil
}

// UpdateQuery compiles an UPDATE keyed by the record's primary key: SET
// every assigned column except the key, WHERE the key equals its value.
// Fails with ErrMissingKey when the key value is absent.
func UpdateQuery(r *record.Record) (*Query, error) {
	if r.Synthetic() {
		return nil, fmt.Errorf("%w: synthetic records cannot be updated", fastorm.ErrInvalidArgument)
	}

	s := r.Schema()
	pk, err := s.PrimaryKey()
	if err != nil {
		return nil, err
	}
	pkValue, ok := r.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w: cannot update %s", fastorm.ErrMissingKey, s.Table())
	}

	var setParts []string
	var args []any
	for _, col := range s.Columns() {
		if col.PrimaryKey {
			continue
		}
		v, assigned := r.Value(col.Name)
		if !assigned {
			continue
		}
		setParts = append(setParts, quote(col.Name)+" = ?")
		args = append(args, v)
	}
	if len(setParts) == 0 {
		return nil, fmt.Errorf("%w: record has no columns to update", fastorm.ErrInvalidArgument)
	}
	args = append(args, pkValue)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quote(s.Table()), strings.Join(setParts, ", "), quote(pk.Name))
	return &Query{SQL: sql, Args: args}, nil
}

// DeleteQuery compiles a DELETE keyed by the record's primary key, with
// the same ErrMissingKey rule as UpdateQuery.
func DeleteQuery(r *record.Record) (*Query, error) {
	if r.Synthetic() {
		return nil, fmt.Errorf("%w: synthetic records cannot be deleted", fastorm.ErrInvalidArgument)
	}

	s := r.Schema()
	pk, err := s.PrimaryKey()
	if err != nil {
		return nil, err
	}
	pkValue, ok := r.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w: cannot delete from %s", fastorm.ErrMissingKey, s.Table())
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(s.Table()), quote(pk.Name))
	return &Query{SQL: sql, Args: []any{pkValue}}, nil
}

func projection(s *schema.Schema, c *Clauses) string {
	if len(c.Columns) > 0 {
		return strings.Join(c.Columns, ", ")
	}
	cols := s.Columns()
	qualified := make([]string, len(cols))
	for i, col := range cols {
		qualified[i] = quote(s.Table()) + "." + quote(col.Name)
	}
	return strings.Join(qualified, ", ")
}

func buildWhere(predicates []Predicate) (string, []any) {
	if len(predicates) == 0 {
		return "", nil
	}
	fragments := make([]string, len(predicates))
	var args []any
	for i, p := range predicates {
		fragments[i] = p.Fragment
		args = append(args, p.Args...)
	}
	return strings.Join(fragments, " AND "), args
}

func quote(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}
