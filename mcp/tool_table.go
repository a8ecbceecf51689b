package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *SqliteMCP) toolListTables() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "list_tables",
		Description: "List all table names in the database.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListTables
}

func (s *SqliteMCP) handleListTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, ShortQueryTimeout)
	defer cancel()

	tables, err := s.inspector.ListTables(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if tables == nil {
		tables = []string{}
	}

	return toolJSON(map[string]interface{}{
		"tables": tables,
		"count":  len(tables),
	}), nil
}

func (s *SqliteMCP) toolDescribeTable() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "describe_table",
		Description: "Returns the structure of a table: column names, types, nullability, defaults and primary key.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
			},
			Required: []string{"table"},
		},
	}, s.handleDescribeTable
}

func (s *SqliteMCP) handleDescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args describeTableArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, ShortQueryTimeout)
	defer cancel()

	columns, err := s.inspector.Columns(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	described := make([]map[string]interface{}, 0, len(columns))
	for _, col := range columns {
		entry := map[string]interface{}{
			"name":        col.Name,
			"type":        col.Type,
			"nullable":    !col.NotNull,
			"primary_key": col.PrimaryKey,
		}
		if col.Default != nil {
			entry["default"] = col.Default
		}
		described = append(described, entry)
	}

	return toolJSON(map[string]interface{}{
		"table":   args.Table,
		"columns": described,
	}), nil
}

func (s *SqliteMCP) toolAddColumn() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name: "add_column",
		Description: "Add a new column to an existing table. Existing rows get NULL for the new column. " +
			"Allowed types: TEXT, INTEGER, REAL, NUMERIC, BLOB, DATE, DATETIME.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the new column",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Column type (e.g. TEXT, INTEGER, REAL)",
				},
			},
			Required: []string{"table", "name", "type"},
		},
	}, s.handleAddColumn
}

func (s *SqliteMCP) handleAddColumn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args addColumnArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	table, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	stmt, err := BuildAddColumn(table, args.Name, args.Type)
	if err != nil {
		return toolError(err), nil
	}

	if _, err = s.gateway.Exec(ctx, stmt); err != nil {
		slog.Warn("add_column failed", "table", args.Table, "column", args.Name, "error", err)
		return toolError(err), nil
	}

	// Verify against a fresh snapshot
	altered, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}
	if !altered.HasColumn(args.Name) {
		return toolError(fmt.Errorf("%w: column %s not present after ALTER", ErrExecution, args.Name)), nil
	}

	return toolJSON(map[string]interface{}{
		"success": true,
		"table":   args.Table,
		"column":  args.Name,
		"type":    strings.ToUpper(strings.TrimSpace(args.Type)),
	}), nil
}
