// Package record holds in-memory record instances: one value per column,
// bound to a schema, tracked through the save/delete lifecycle.
package record

import (
	"fmt"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/schema"
)

// Record is one in-memory row. Columns that were never assigned are
// absent, which is distinct from an explicit NULL: absent columns are
// left out of INSERT statements so database defaults can apply.
//
// Records never share state. Hydrating the same row twice yields two
// independent copies.
type Record struct {
	schema    *schema.Schema
	values    map[string]any
	synthetic bool
	deleted   bool
}

// New creates a fresh, unpersisted record with no columns assigned.
func New(s *schema.Schema) *Record {
	return &Record{
		schema: s,
		values: make(map[string]any),
	}
}

// Hydrate builds a record from a queried row. Unknown result columns are
// ignored; known columns are coerced to their declared storage type.
func Hydrate(s *schema.Schema, row fastorm.Row) (*Record, error) {
	r := New(s)
	for _, col := range s.Columns() {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		if err := r.Set(col.Name, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Synthetic builds a read-only record from a custom-projection row. Its
// columns need not match the schema, and it can never be persisted.
// Projection columns carry no declared type, so driver []byte values
// (how the sqlite driver hands back TEXT) are stored as strings.
func Synthetic(s *schema.Schema, row fastorm.Row) *Record {
	values := make(map[string]any, len(row))
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			values[k] = string(b)
			continue
		}
		values[k] = v
	}
	return &Record{schema: s, values: values, synthetic: true}
}

// Schema returns the owning schema descriptor.
func (r *Record) Schema() *schema.Schema {
	return r.schema
}

// Synthetic reports whether the record came from a custom projection.
func (r *Record) Synthetic() bool {
	return r.synthetic
}

// Deleted reports whether the record was removed from the database.
func (r *Record) Deleted() bool {
	return r.deleted
}

// MarkDeleted flags the record as removed. Further persistence calls on
// it fail with ErrStaleInstance.
func (r *Record) MarkDeleted() {
	r.deleted = true
}

// Set assigns a column value, coercing it to the declared storage type.
// NULL is rejected on non-nullable columns, and synthetic records are
// read-only.
func (r *Record) Set(name string, value any) error {
	if r.synthetic {
		return fmt.Errorf("%w: synthetic records are read-only", fastorm.ErrInvalidArgument)
	}
	col, ok := r.schema.Column(name)
	if !ok {
		return fmt.Errorf("%w: table %s has no column %s", fastorm.ErrInvalidArgument, r.schema.Table(), name)
	}
	if value == nil {
		if !col.Nullable {
			return fmt.Errorf("%w: column %s.%s is not nullable", fastorm.ErrInvalidArgument, r.schema.Table(), name)
		}
		r.values[name] = nil
		return nil
	}
	coerced, err := coerce(col.Type, value)
	if err != nil {
		return fmt.Errorf("column %s.%s: %w", r.schema.Table(), name, err)
	}
	r.values[name] = coerced
	return nil
}

// Value returns the raw value and whether the column was ever assigned.
func (r *Record) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// IsNull reports whether the column is assigned and holds NULL.
func (r *Record) IsNull(name string) bool {
	v, ok := r.values[name]
	return ok && v == nil
}

// Int returns an INTEGER column value.
func (r *Record) Int(name string) (int64, error) {
	v, err := r.typed(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: column %s is not INTEGER", fastorm.ErrInvalidArgument, name)
	}
	return n, nil
}

// Float returns a REAL column value.
func (r *Record) Float(name string) (float64, error) {
	v, err := r.typed(name)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: column %s is not REAL", fastorm.ErrInvalidArgument, name)
	}
	return f, nil
}

// Text returns a TEXT column value.
func (r *Record) Text(name string) (string, error) {
	v, err := r.typed(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: column %s is not TEXT", fastorm.ErrInvalidArgument, name)
	}
	return s, nil
}

// Blob returns a BLOB column value.
func (r *Record) Blob(name string) ([]byte, error) {
	v, err := r.typed(name)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: column %s is not BLOB", fastorm.ErrInvalidArgument, name)
	}
	return b, nil
}

func (r *Record) typed(name string) (any, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: column %s is not assigned", fastorm.ErrInvalidArgument, name)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: column %s is NULL", fastorm.ErrInvalidArgument, name)
	}
	return v, nil
}

// PrimaryKey returns the record's primary-key value if the schema
// declares an integer primary key and the record holds one.
func (r *Record) PrimaryKey() (int64, bool) {
	pk, err := r.schema.PrimaryKey()
	if err != nil {
		return 0, false
	}
	v, ok := r.values[pk.Name]
	if !ok || v == nil {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

// SetPrimaryKey stores a database-assigned key on the record.
func (r *Record) SetPrimaryKey(id int64) error {
	pk, err := r.schema.PrimaryKey()
	if err != nil {
		return err
	}
	return r.Set(pk.Name, id)
}

// coerce narrows a Go scalar to the column's storage representation.
func coerce(t schema.Type, value any) (any, error) {
	switch t {
	case schema.Integer:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case uint32:
			return int64(v), nil
		case bool:
			if v {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case schema.Real:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case int:
			return float64(v), nil
		}
	case schema.Text:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		}
	case schema.Blob:
		if v, ok := value.([]byte); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot store %T as %s", fastorm.ErrInvalidArgument, value, t)
}
