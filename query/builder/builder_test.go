package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/schema"
)

// fakeExecutor records every statement and replays canned rows.
type fakeExecutor struct {
	stmts []string
	args  [][]any
	rows  []fastorm.Row
	err   error
}

func (f *fakeExecutor) Exec(ctx context.Context, stmt string, args []any) (fastorm.Result, error) {
	f.stmts = append(f.stmts, stmt)
	f.args = append(f.args, args)
	return fastorm.Result{}, f.err
}

func (f *fakeExecutor) Query(ctx context.Context, stmt string, args []any) ([]fastorm.Row, error) {
	f.stmts = append(f.stmts, stmt)
	f.args = append(f.args, args)
	return f.rows, f.err
}

func (f *fakeExecutor) Begin(ctx context.Context) error { return nil }
func (f *fakeExecutor) Commit() error                   { return nil }
func (f *fakeExecutor) Rollback() error                 { return nil }

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

func TestWhereChainingPreservesOrder(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{}

	_, err := New(s, exec).
		Where("name = ?", "Ana").
		Where("email = ?", "ana@x.com").
		All(context.Background())
	require.NoError(t, err)

	require.Len(t, exec.stmts, 1)
	assert.Contains(t, exec.stmts[0], "WHERE name = ? AND email = ?")
	assert.Equal(t, []any{"Ana", "ana@x.com"}, exec.args[0])
}

func TestAllHydratesInResultOrder(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{rows: []fastorm.Row{
		{"id": int64(2), "name": "Bea", "email": "bea@x.com"},
		{"id": int64(1), "name": "Ana", "email": "ana@x.com"},
	}}

	records, err := New(s, exec).All(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, _ := records[0].PrimaryKey()
	second, _ := records[1].PrimaryKey()
	assert.Equal(t, int64(2), first)
	assert.Equal(t, int64(1), second)
	assert.False(t, records[0].Synthetic())
}

func TestSelectProjectionLastCallWins(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{rows: []fastorm.Row{{"name": "Ana"}}}

	records, err := New(s, exec).
		Select("id", "email").
		Select("name").
		All(context.Background())
	require.NoError(t, err)

	assert.Contains(t, exec.stmts[0], "SELECT name FROM")
	require.Len(t, records, 1)
	assert.True(t, records[0].Synthetic(), "custom projection rows are read-only")
}

func TestFirst(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{rows: []fastorm.Row{
		{"id": int64(1), "name": "Ana", "email": "ana@x.com"},
	}}

	rec, err := New(s, exec).Where("email = ?", "ana@x.com").First(context.Background())
	require.NoError(t, err)

	id, _ := rec.PrimaryKey()
	assert.Equal(t, int64(1), id)
	assert.Contains(t, exec.stmts[0], "LIMIT ?")
	assert.Equal(t, []any{"ana@x.com", 1}, exec.args[0])
}

func TestFirstNotFound(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{}

	rec, err := New(s, exec).First(context.Background())
	require.ErrorIs(t, err, fastorm.ErrNotFound)
	assert.Nil(t, rec)
}

func TestCountIgnoresOrderingAndLimit(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{rows: []fastorm.Row{{"COUNT(*)": int64(3)}}}

	n, err := New(s, exec).
		Where("name = ?", "Ana").
		OrderBy("name").
		Limit(5).
		Count(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), n)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE name = ?`, exec.stmts[0])
	assert.Equal(t, []any{"Ana"}, exec.args[0])
}

func TestExists(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{rows: []fastorm.Row{{"COUNT(*)": int64(0)}}}

	ok, err := New(s, exec).Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJoins(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{}

	_, err := New(s, exec).
		Join("posts", "posts.user_id = users.id").
		LeftJoin("comments", "comments.user_id = users.id").
		RightJoin("orgs", "orgs.id = users.org_id").
		All(context.Background())
	require.NoError(t, err)

	assert.Contains(t, exec.stmts[0], "INNER JOIN posts ON posts.user_id = users.id")
	assert.Contains(t, exec.stmts[0], "LEFT JOIN comments ON comments.user_id = users.id")
	assert.Contains(t, exec.stmts[0], "RIGHT JOIN orgs ON orgs.id = users.org_id")
}

func TestArgumentErrorsAreDeferred(t *testing.T) {
	s := usersSchema(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func(b *Builder) *Builder
	}{
		{
			name:  "invalid order direction",
			build: func(b *Builder) *Builder { return b.OrderBy("name", "sideways") },
		},
		{
			name:  "negative limit",
			build: func(b *Builder) *Builder { return b.Limit(-1) },
		},
		{
			name:  "negative offset",
			build: func(b *Builder) *Builder { return b.Offset(-3) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			b := tt.build(New(s, exec))

			_, err := b.All(ctx)
			require.ErrorIs(t, err, fastorm.ErrInvalidArgument)

			_, err = b.Count(ctx)
			require.ErrorIs(t, err, fastorm.ErrInvalidArgument)

			assert.Empty(t, exec.stmts, "nothing may reach the executor")
		})
	}
}

func TestOrderByDefaultsToAscending(t *testing.T) {
	s := usersSchema(t)
	exec := &fakeExecutor{}

	_, err := New(s, exec).OrderBy("name").OrderBy("id", "desc").All(context.Background())
	require.NoError(t, err)

	assert.Contains(t, exec.stmts[0], "ORDER BY name ASC, id DESC")
}
