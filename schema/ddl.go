package schema

import (
	"fmt"
	"strings"
)

// CreateTableSQL renders the CREATE TABLE IF NOT EXISTS statement for the
// schema. The primary key becomes the SQLite rowid alias so the database
// assigns keys on insert. Nullable foreign keys get ON DELETE SET NULL,
// non-nullable ones ON DELETE CASCADE.
func (s *Schema) CreateTableSQL() string {
	defs := make([]string, 0, len(s.columns)+len(s.foreignKeys))

	for _, col := range s.columns {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", quote(col.Name), col.Type)
		if col.PrimaryKey {
			b.WriteString(" PRIMARY KEY AUTOINCREMENT")
		} else {
			if !col.Nullable {
				b.WriteString(" NOT NULL")
			}
			if col.Unique {
				b.WriteString(" UNIQUE")
			}
		}
		if col.Default != nil {
			fmt.Fprintf(&b, " DEFAULT %s", literal(col.Default))
		}
		defs = append(defs, b.String())
	}

	for _, fk := range s.foreignKeys {
		col, _ := s.Column(fk.Column)
		targetPK, _ := fk.References.PrimaryKey()
		onDelete := "CASCADE"
		if col.Nullable {
			onDelete = "SET NULL"
		}
		defs = append(defs, fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s(%s) ON DELETE %s",
			quote(fk.Column), quote(fk.References.table), quote(targetPK.Name), onDelete))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(s.table), strings.Join(defs, ", "))
}

func quote(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

// literal renders a declared default value into DDL. Strings get their
// quotes doubled.
func literal(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", val)
	}
}
