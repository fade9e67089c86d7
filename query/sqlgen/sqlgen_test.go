package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/schema"
)

func usersSchema(t *testing.T) *schema.Schema {
	t.Helper()
	reg := schema.NewRegistry()
	s, err := reg.Define("users", []schema.Column{
		{Name: "id", Type: schema.Integer, PrimaryKey: true},
		{Name: "name", Type: schema.Text},
		{Name: "email", Type: schema.Text, Unique: true},
	}, nil)
	require.NoError(t, err)
	return s
}

func intp(n int) *int { return &n }

func TestSelectQuery(t *testing.T) {
	s := usersSchema(t)

	tests := []struct {
		name     string
		clauses  Clauses
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "bare select",
			clauses: Clauses{},
			wantSQL: `SELECT "users"."id", "users"."name", "users"."email" FROM "users"`,
		},
		{
			name: "predicates join with AND in call order",
			clauses: Clauses{
				Predicates: []Predicate{
					{Fragment: "name = ?", Args: []any{"Ana"}},
					{Fragment: "email = ?", Args: []any{"ana@x.com"}},
				},
			},
			wantSQL:  `SELECT "users"."id", "users"."name", "users"."email" FROM "users" WHERE name = ? AND email = ?`,
			wantArgs: []any{"Ana", "ana@x.com"},
		},
		{
			name: "custom projection with join",
			clauses: Clauses{
				Columns: []string{"users.name", "posts.title"},
				Joins: []Join{
					{Kind: InnerJoin, Table: "posts", On: "posts.user_id = users.id"},
				},
			},
			wantSQL: `SELECT users.name, posts.title FROM "users" INNER JOIN posts ON posts.user_id = users.id`,
		},
		{
			name: "order limit offset",
			clauses: Clauses{
				OrderBy: []OrderBy{
					{Column: "name", Direction: "ASC"},
					{Column: "id", Direction: "DESC"},
				},
				Limit:  intp(5),
				Offset: intp(10),
			},
			wantSQL:  `SELECT "users"."id", "users"."name", "users"."email" FROM "users" ORDER BY name ASC, id DESC LIMIT ? OFFSET ?`,
			wantArgs: []any{5, 10},
		},
		{
			name: "offset without limit",
			clauses: Clauses{
				Offset: intp(10),
			},
			wantSQL:  `SELECT "users"."id", "users"."name", "users"."email" FROM "users" LIMIT -1 OFFSET ?`,
			wantArgs: []any{10},
		},
		{
			name: "group by and having",
			clauses: Clauses{
				Columns: []string{"email", "COUNT(*) AS n"},
				GroupBy: []string{"email"},
				Having:  &Predicate{Fragment: "COUNT(*) > ?", Args: []any{1}},
			},
			wantSQL:  `SELECT email, COUNT(*) AS n FROM "users" GROUP BY email HAVING COUNT(*) > ?`,
			wantArgs: []any{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := SelectQuery(s, &tt.clauses)
			assert.Equal(t, tt.wantSQL, q.SQL)
			assert.Equal(t, tt.wantArgs, q.Args)
		})
	}
}

func TestCountQueryDropsOrderingAndLimit(t *testing.T) {
	s := usersSchema(t)
	clauses := Clauses{
		Predicates: []Predicate{{Fragment: "name = ?", Args: []any{"Ana"}}},
		OrderBy:    []OrderBy{{Column: "name", Direction: "ASC"}},
		Limit:      intp(5),
		Offset:     intp(2),
		Columns:    []string{"name"},
	}

	q := CountQuery(s, &clauses)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE name = ?`, q.SQL)
	assert.Equal(t, []any{"Ana"}, q.Args)
}

func TestCountQueryKeepsJoins(t *testing.T) {
	s := usersSchema(t)
	clauses := Clauses{
		Joins: []Join{{Kind: LeftJoin, Table: "posts", On: "posts.user_id = users.id"}},
	}

	q := CountQuery(s, &clauses)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" LEFT JOIN posts ON posts.user_id = users.id`, q.SQL)
}

func TestInsertQuery(t *testing.T) {
	s := usersSchema(t)

	r := record.New(s)
	require.NoError(t, r.Set("name", "Ana"))
	require.NoError(t, r.Set("email", "ana@x.com"))

	q, err := InsertQuery(r)
	require.NoError(t, err)
	// Absent primary key is excluded so the database assigns it; columns
	// follow schema order, not assignment order.
	assert.Equal(t, `INSERT INTO "users" ("name", "email") VALUES (?, ?)`, q.SQL)
	assert.Equal(t, []any{"Ana", "ana@x.com"}, q.Args)
}

func TestInsertQueryWithExplicitKey(t *testing.T) {
	s := usersSchema(t)

	r := record.New(s)
	require.NoError(t, r.Set("id", 42))
	require.NoError(t, r.Set("name", "Ana"))
	require.NoError(t, r.Set("email", "ana@x.com"))

	q, err := InsertQuery(r)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("id", "name", "email") VALUES (?, ?, ?)`, q.SQL)
	assert.Equal(t, []any{int64(42), "Ana", "ana@x.com"}, q.Args)
}

func TestUpdateQuery(t *testing.T) {
	s := usersSchema(t)

	r := record.New(s)
	require.NoError(t, r.Set("id", 1))
	require.NoError(t, r.Set("name", "Ana"))
	require.NoError(t, r.Set("email", "ana@x.com"))

	q, err := UpdateQuery(r)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = ?, "email" = ? WHERE "id" = ?`, q.SQL)
	assert.Equal(t, []any{"Ana", "ana@x.com", int64(1)}, q.Args)
}

func TestUpdateQueryMissingKey(t *testing.T) {
	s := usersSchema(t)

	r := record.New(s)
	require.NoError(t, r.Set("name", "Ana"))

	_, err := UpdateQuery(r)
	require.ErrorIs(t, err, fastorm.ErrMissingKey)
}

func TestDeleteQuery(t *testing.T) {
	s := usersSchema(t)

	r := record.New(s)
	require.NoError(t, r.Set("id", 7))

	q, err := DeleteQuery(r)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = ?`, q.SQL)
	assert.Equal(t, []any{int64(7)}, q.Args)
}

func TestDeleteQueryMissingKey(t *testing.T) {
	s := usersSchema(t)

	_, err := DeleteQuery(record.New(s))
	require.ErrorIs(t, err, fastorm.ErrMissingKey)
}

func TestWriteQueriesRejectSynthetic(t *testing.T) {
	s := usersSchema(t)
	r := record.Synthetic(s, fastorm.Row{"n": int64(1)})

	_, err := InsertQuery(r)
	require.ErrorIs(t, err, fastorm.ErrInvalidArgument)
	_, err = UpdateQuery(r)
	require.ErrorIs(t, err, fastorm.ErrInvalidArgument)
	_, err = DeleteQuery(r)
	require.ErrorIs(t, err, fastorm.ErrInvalidArgument)
}
