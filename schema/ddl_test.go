package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	reg := NewRegistry()
	users, err := reg.Define("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text},
		{Name: "email", Type: Text, Unique: true},
		{Name: "age", Type: Integer, Nullable: true},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t,
		`CREATE TABLE IF NOT EXISTS "users" (`+
			`"id" INTEGER PRIMARY KEY AUTOINCREMENT, `+
			`"name" TEXT NOT NULL, `+
			`"email" TEXT NOT NULL UNIQUE, `+
			`"age" INTEGER)`,
		users.CreateTableSQL())
}

func TestCreateTableSQLForeignKeys(t *testing.T) {
	reg := NewRegistry()
	users, err := reg.Define("users", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
	}, nil)
	require.NoError(t, err)

	posts, err := reg.Define("posts", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "author_id", Type: Integer},
		{Name: "editor_id", Type: Integer, Nullable: true},
	}, []ForeignKey{
		{Column: "author_id", References: users},
		{Column: "editor_id", References: users},
	})
	require.NoError(t, err)

	sql := posts.CreateTableSQL()
	// Non-nullable FK cascades, nullable FK nulls out.
	assert.Contains(t, sql, `FOREIGN KEY("author_id") REFERENCES "users"("id") ON DELETE CASCADE`)
	assert.Contains(t, sql, `FOREIGN KEY("editor_id") REFERENCES "users"("id") ON DELETE SET NULL`)
}

func TestCreateTableSQLDefaults(t *testing.T) {
	reg := NewRegistry()
	s, err := reg.Define("settings", []Column{
		{Name: "id", Type: Integer, PrimaryKey: true},
		{Name: "retries", Type: Integer, Default: 3},
		{Name: "label", Type: Text, Default: "it's fine"},
		{Name: "enabled", Type: Integer, Default: true},
	}, nil)
	require.NoError(t, err)

	sql := s.CreateTableSQL()
	assert.Contains(t, sql, `"retries" INTEGER NOT NULL DEFAULT 3`)
	assert.Contains(t, sql, `"label" TEXT NOT NULL DEFAULT 'it''s fine'`)
	assert.Contains(t, sql, `"enabled" INTEGER NOT NULL DEFAULT 1`)
}
