// Package schema declares record schemas: column sets, constraints, and
// foreign-key references between tables.
package schema

import (
	"fmt"

	"github.com/fastorm/fastorm"
)

// Type is a column storage type. SQLite's affinity set is small and fixed.
type Type string

const (
	Integer Type = "INTEGER"
	Text    Type = "TEXT"
	Real    Type = "REAL"
	Blob    Type = "BLOB"
)

func (t Type) valid() bool {
	switch t {
	case Integer, Text, Real, Blob:
		return true
	}
	return false
}

// Column defines one column of a schema. A primary-key column must be
// Integer (the database assigns keys on insert) and is implicitly
// non-nullable and unique. Default is an optional literal; nil means no
// default.
type Column struct {
	Name       string
	Type       Type
	PrimaryKey bool
	Nullable   bool
	Unique     bool
	Default    any
}

// ForeignKey declares that a column holds primary-key values of another
// schema. The target is resolved at declaration time: References must be
// a schema that is already defined.
type ForeignKey struct {
	Column     string
	References *Schema
}

// Schema describes one record kind. Immutable after Define.
type Schema struct {
	table       string
	columns     []Column
	byName      map[string]int
	foreignKeys []ForeignKey
}

// Table returns the table name.
func (s *Schema) Table() string {
	return s.table
}

// Columns returns the ordered column definitions.
func (s *Schema) Columns() []Column {
	return s.columns
}

// Column returns the named column definition.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// PrimaryKey returns the schema's single primary-key column, or
// ErrNoPrimaryKey if none is declared.
func (s *Schema) PrimaryKey() (Column, error) {
	for _, col := range s.columns {
		if col.PrimaryKey {
			return col, nil
		}
	}
	return Column{}, fmt.Errorf("%w: table %s", fastorm.ErrNoPrimaryKey, s.table)
}

// ForeignKeys returns the declared foreign keys in declaration order.
func (s *Schema) ForeignKeys() []ForeignKey {
	return s.foreignKeys
}

// ForeignKeysTo returns the foreign keys on this schema that reference
// target, in declaration order.
func (s *Schema) ForeignKeysTo(target *Schema) []ForeignKey {
	var out []ForeignKey
	for _, fk := range s.foreignKeys {
		if fk.References == target {
			out = append(out, fk)
		}
	}
	return out
}

func newSchema(table string, columns []Column, foreignKeys []ForeignKey) (*Schema, error) {
	if table == "" {
		return nil, fmt.Errorf("%w: empty table name", fastorm.ErrInvalidArgument)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table %s has no columns", fastorm.ErrInvalidArgument, table)
	}

	s := &Schema{
		table:  table,
		byName: make(map[string]int, len(columns)),
	}

	pkSeen := false
	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("%w: table %s has an unnamed column", fastorm.ErrInvalidArgument, table)
		}
		if !col.Type.valid() {
			return nil, fmt.Errorf("%w: column %s.%s has unknown type %q", fastorm.ErrInvalidArgument, table, col.Name, col.Type)
		}
		if _, dup := s.byName[col.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %s.%s", fastorm.ErrInvalidArgument, table, col.Name)
		}
		if col.PrimaryKey {
			if pkSeen {
				return nil, fmt.Errorf("%w: table %s declares more than one primary key", fastorm.ErrInvalidArgument, table)
			}
			if col.Type != Integer {
				return nil, fmt.Errorf("%w: primary key %s.%s must be INTEGER", fastorm.ErrInvalidArgument, table, col.Name)
			}
			pkSeen = true
			col.Nullable = false
			col.Unique = true
		}
		s.byName[col.Name] = len(s.columns)
		s.columns = append(s.columns, col)
	}

	for _, fk := range foreignKeys {
		col, ok := s.Column(fk.Column)
		if !ok {
			return nil, fmt.Errorf("%w: foreign key on unknown column %s.%s", fastorm.ErrInvalidArgument, table, fk.Column)
		}
		if col.Type != Integer {
			return nil, fmt.Errorf("%w: foreign key column %s.%s must be INTEGER", fastorm.ErrInvalidArgument, table, fk.Column)
		}
		if fk.References == nil {
			return nil, fmt.Errorf("%w: foreign key %s.%s references an undefined schema", fastorm.ErrInvalidArgument, table, fk.Column)
		}
		if _, err := fk.References.PrimaryKey(); err != nil {
			return nil, fmt.Errorf("foreign key %s.%s: %w", table, fk.Column, err)
		}
		s.foreignKeys = append(s.foreignKeys, fk)
	}

	return s, nil
}
