package schema

import (
	"fmt"

	"github.com/fastorm/fastorm"
)

// Registry holds every defined schema, keyed by table name. Schemas are
// defined once, usually at startup, and read for the process lifetime.
// Concurrent calls to Define must be synchronized by the caller.
type Registry struct {
	byTable map[string]*Schema
	order   []*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTable: make(map[string]*Schema),
	}
}

// Define validates and registers a schema. It fails with
// ErrDuplicateSchema if the table name is already taken, and with
// ErrInvalidArgument for malformed columns or foreign keys. Foreign-key
// targets must already be defined; there are no forward references.
func (r *Registry) Define(table string, columns []Column, foreignKeys []ForeignKey) (*Schema, error) {
	if _, exists := r.byTable[table]; exists {
		return nil, fmt.Errorf("%w: %s", fastorm.ErrDuplicateSchema, table)
	}

	s, err := newSchema(table, columns, foreignKeys)
	if err != nil {
		return nil, err
	}

	r.byTable[table] = s
	r.order = append(r.order, s)
	return s, nil
}

// Lookup returns the schema registered under table.
func (r *Registry) Lookup(table string) (*Schema, bool) {
	s, ok := r.byTable[table]
	return s, ok
}

// Schemas returns every registered schema in definition order. Because
// foreign-key targets must predate their referents, this order is safe
// for table creation.
func (r *Registry) Schemas() []*Schema {
	return r.order
}
