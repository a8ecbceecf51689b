package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntrospectorListTables(t *testing.T) {
	s := newTestServer(t)

	tables, err := s.inspector.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
}

func TestIntrospectorSnapshot(t *testing.T) {
	s := newTestServer(t)

	snapshot, err := s.inspector.Snapshot(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, "users", snapshot.Name)
	assert.Equal(t, []string{"id", "name", "age", "email"}, snapshot.ColumnNames())
	assert.True(t, snapshot.HasColumn("name"))
	assert.True(t, snapshot.HasColumn("NAME"), "column lookup is case-insensitive")
	assert.False(t, snapshot.HasColumn("salary"))

	require.Len(t, snapshot.Columns, 4)
	assert.True(t, snapshot.Columns[0].PrimaryKey)
	assert.True(t, snapshot.Columns[1].NotNull)
	assert.Equal(t, "TEXT", snapshot.Columns[1].Type)
}

func TestIntrospectorUnknownTable(t *testing.T) {
	s := newTestServer(t)

	_, err := s.inspector.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = s.inspector.Columns(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvalidTable)
}

func TestIntrospectorRejectsMalformedNames(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"", `users"); DROP TABLE users; --`, "a b", "users;"} {
		_, err := s.inspector.Snapshot(context.Background(), name)
		assert.ErrorIs(t, err, ErrInvalidTable, "name %q", name)
	}
}

func TestIntrospectorSeesSchemaChanges(t *testing.T) {
	s := newTestServer(t)

	before, err := s.inspector.Snapshot(context.Background(), "users")
	require.NoError(t, err)
	require.False(t, before.HasColumn("nickname"))

	mustExec(t, s, `ALTER TABLE users ADD COLUMN nickname TEXT`)

	// a new snapshot reflects the change: nothing is cached across calls
	after, err := s.inspector.Snapshot(context.Background(), "users")
	require.NoError(t, err)
	assert.True(t, after.HasColumn("nickname"))
}
