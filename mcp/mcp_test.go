package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a server over a fresh in-memory store seeded with a
// users table.
func newTestServer(t *testing.T) *SqliteMCP {
	t.Helper()

	s, err := NewMcpServer(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mustExec(t, s, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER,
		email TEXT UNIQUE
	)`)
	mustExec(t, s, `CREATE TABLE orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id),
		total REAL
	)`)

	return s
}

func mustExec(t *testing.T, s *SqliteMCP, sql string, args ...interface{}) *Result {
	t.Helper()
	result, err := s.gateway.Exec(context.Background(), Statement{SQL: sql, Args: args})
	require.NoError(t, err)
	return result
}

func mustQuery(t *testing.T, s *SqliteMCP, sql string, args ...interface{}) *Result {
	t.Helper()
	result, err := s.gateway.Query(context.Background(), Statement{SQL: sql, Args: args})
	require.NoError(t, err)
	return result
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// envelope decodes the JSON payload of a tool result.
func envelope(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

// errorKindOf asserts the result is a structured error and returns its kind.
func errorKindOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError, "expected an error result")

	payload := envelope(t, result)
	kind, _ := payload["error_kind"].(string)
	require.NotEmpty(t, kind, "error result missing error_kind")
	return kind
}
