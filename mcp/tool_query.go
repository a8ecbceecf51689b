package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *SqliteMCP) toolExecuteSQLQuery() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name: "execute_sql_query",
		Description: "Execute a single raw SQL statement, for complex queries the dedicated tools cannot express. " +
			"Use ? placeholders with params for literal values. Identifier validation is bypassed here; " +
			"multiple semicolon-separated statements are rejected.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "SQL statement to execute",
				},
				"params": map[string]interface{}{
					"type":        "array",
					"description": "Bind values for ? placeholders (optional)",
				},
			},
			Required: []string{"sql"},
		},
	}, s.handleExecuteSQLQuery
}

func (s *SqliteMCP) handleExecuteSQLQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args executeSQLArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	stmt, err := BuildRaw(args.SQL, args.Params)
	if err != nil {
		slog.Warn("raw statement rejected", "error", err)
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	slog.Info("executing raw sql", "sql", stmt.SQL)

	if returnsRows(stmt.SQL) {
		result, err := s.gateway.Query(ctx, stmt)
		if err != nil {
			slog.Warn("raw query failed", "error", err)
			return toolError(err), nil
		}

		rows := result.Rows
		if rows == nil {
			rows = []map[string]interface{}{}
		}

		return toolJSON(map[string]interface{}{
			"rows":      rows,
			"row_count": len(rows),
			"columns":   result.Columns,
		}), nil
	}

	result, err := s.gateway.Exec(ctx, stmt)
	if err != nil {
		slog.Warn("raw statement failed", "error", err)
		return toolError(err), nil
	}

	return toolJSON(map[string]interface{}{
		"affected_row_count": result.AffectedRows,
	}), nil
}
