// Package runtime persists record instances and resolves foreign-key
// relations between them.
package runtime

import (
	"context"
	"fmt"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/query/builder"
	"github.com/fastorm/fastorm/query/sqlgen"
	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/schema"
)

// Engine is the persistence engine: it compiles create/update/delete
// statements for single records and hands them to the Executor. It also
// serves as the query entry point for every schema in its registry.
type Engine struct {
	registry *schema.Registry
	exec     fastorm.Executor
}

// New creates an engine over a registry and an executor.
func New(registry *schema.Registry, exec fastorm.Executor) *Engine {
	return &Engine{registry: registry, exec: exec}
}

// Registry returns the engine's schema registry.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Executor returns the engine's executor.
func (e *Engine) Executor() fastorm.Executor {
	return e.exec
}

// Query starts a new query composition over the schema.
func (e *Engine) Query(s *schema.Schema) *builder.Builder {
	return builder.New(s, e.exec)
}

// CreateTable runs the schema's CREATE TABLE IF NOT EXISTS statement.
// Idempotent.
func (e *Engine) CreateTable(ctx context.Context, s *schema.Schema) error {
	_, err := e.exec.Exec(ctx, s.CreateTableSQL(), nil)
	return err
}

// CreateAllTables creates every registered table in definition order,
// which guarantees foreign-key targets exist before their referents.
func (e *Engine) CreateAllTables(ctx context.Context) error {
	for _, s := range e.registry.Schemas() {
		if err := e.CreateTable(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Save persists the record: INSERT when its primary-key value is absent,
// UPDATE otherwise. After an INSERT the database-assigned key is stored
// back on the record, so a second Save updates the same row instead of
// inserting again.
func (e *Engine) Save(ctx context.Context, r *record.Record) error {
	if r.Deleted() {
		return fmt.Errorf("%w: cannot save", fastorm.ErrStaleInstance)
	}
	if r.Synthetic() {
		return fmt.Errorf("%w: synthetic records are not persistable", fastorm.ErrInvalidArgument)
	}

	if _, err := r.Schema().PrimaryKey(); err != nil {
		return err
	}

	if _, exists := r.PrimaryKey(); exists {
		q, err := sqlgen.UpdateQuery(r)
		if err != nil {
			return err
		}
		_, err = e.exec.Exec(ctx, q.SQL, q.Args)
		return err
	}

	q, err := sqlgen.InsertQuery(r)
	if err != nil {
		return err
	}
	res, err := e.exec.Exec(ctx, q.SQL, q.Args)
	if err != nil {
		return err
	}
	if res.LastInsertID != 0 {
		return r.SetPrimaryKey(res.LastInsertID)
	}
	return nil
}

// Delete removes the record's row, keyed by primary key. The record is
// then marked deleted; any further Save or Delete on it fails with
// ErrStaleInstance.
func (e *Engine) Delete(ctx context.Context, r *record.Record) error {
	if r.Deleted() {
		return fmt.Errorf("%w: cannot delete", fastorm.ErrStaleInstance)
	}

	q, err := sqlgen.DeleteQuery(r)
	if err != nil {
		return err
	}
	if _, err := e.exec.Exec(ctx, q.SQL, q.Args); err != nil {
		return err
	}
	r.MarkDeleted()
	return nil
}
