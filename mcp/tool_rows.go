package mcp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// whereProperty is the shared input-schema fragment for predicates.
var whereProperty = map[string]interface{}{
	"type": "object",
	"description": "Predicate as column -> {operator: value} (operators: eq, neq, gt, gte, lt, lte, like, in, is_null, is_not_null). " +
		"A scalar value is shorthand for eq, e.g. {\"id\": 5}.",
}

func (s *SqliteMCP) toolSelectRows() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "select_rows",
		Description: "Select rows from a table, with optional predicate, join, ordering and limit.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
				"columns": map[string]interface{}{
					"type":        "array",
					"description": "Columns to return (default: all). With a join, names may be qualified as table.column.",
					"items":       map[string]interface{}{"type": "string"},
				},
				"where": whereProperty,
				"join": map[string]interface{}{
					"type":        "object",
					"description": "Join another table, e.g. {\"table\": \"orders\", \"kind\": \"inner\", \"on\": {\"left\": \"id\", \"right\": \"user_id\"}}",
					"properties": map[string]interface{}{
						"table": map[string]interface{}{
							"type":        "string",
							"description": "Table to join",
						},
						"kind": map[string]interface{}{
							"type":        "string",
							"description": "Join kind: inner or left (default: inner)",
							"enum":        []string{"inner", "left"},
						},
						"on": map[string]interface{}{
							"type":        "object",
							"description": "Join condition: left column (base table) = right column (joined table)",
							"properties": map[string]interface{}{
								"left":  map[string]interface{}{"type": "string"},
								"right": map[string]interface{}{"type": "string"},
							},
							"required": []string{"left", "right"},
						},
					},
					"required": []string{"table", "on"},
				},
				"order_by": map[string]interface{}{
					"type":        "string",
					"description": "Column for sorting (optional)",
				},
				"order_direction": map[string]interface{}{
					"type":        "string",
					"description": "Sorting direction: ASC or DESC (default: ASC)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of rows to return (default: 1000)",
				},
			},
			Required: []string{"table"},
		},
	}, s.handleSelectRows
}

func (s *SqliteMCP) handleSelectRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args selectRowsArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	table, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	var joined *TableSchema
	var joinSpec *JoinSpec
	if args.Join != nil {
		if joined, err = s.inspector.Snapshot(ctx, args.Join.Table); err != nil {
			return toolError(err), nil
		}
		joinSpec = &JoinSpec{
			Table:       args.Join.Table,
			Kind:        args.Join.Kind,
			LeftColumn:  args.Join.On.Left,
			RightColumn: args.Join.On.Right,
		}
	}

	limit := args.Limit
	if limit == 0 {
		limit = DefaultMaxRows
	}

	stmt, err := BuildSelect(table, joined, SelectSpec{
		Columns:   args.Columns,
		Where:     parseWhere(args.Where),
		Join:      joinSpec,
		OrderBy:   args.OrderBy,
		OrderDesc: strings.EqualFold(args.OrderDirection, "DESC"),
		Limit:     limit,
	})
	if err != nil {
		return toolError(err), nil
	}

	result, err := s.gateway.Query(ctx, stmt)
	if err != nil {
		slog.Warn("select failed", "table", args.Table, "error", err)
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

func (s *SqliteMCP) toolInsertRow() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "insert_row",
		Description: "Insert a single row into a table.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
				"values": map[string]interface{}{
					"type":        "object",
					"description": "Column values, e.g. {\"name\": \"Ann\", \"age\": 30}",
				},
			},
			Required: []string{"table", "values"},
		},
	}, s.handleInsertRow
}

func (s *SqliteMCP) handleInsertRow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args insertRowArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	table, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	stmt, err := BuildInsert(table, args.Values)
	if err != nil {
		return toolError(err), nil
	}

	result, err := s.gateway.Exec(ctx, stmt)
	if err != nil {
		slog.Warn("insert failed", "table", args.Table, "error", err)
		return toolError(err), nil
	}

	return toolJSON(map[string]interface{}{
		"affected_row_count": result.AffectedRows,
		"inserted_id":        result.LastInsertID,
	}), nil
}

func (s *SqliteMCP) toolUpdateRows() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "update_rows",
		Description: "Update rows matching a predicate. Refuses an empty predicate unless all_rows is true.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
				"set": map[string]interface{}{
					"type":        "object",
					"description": "New column values, e.g. {\"age\": 31}",
				},
				"where": whereProperty,
				"all_rows": map[string]interface{}{
					"type":        "boolean",
					"description": "Set to true to update every row when no predicate is given",
				},
			},
			Required: []string{"table", "set"},
		},
	}, s.handleUpdateRows
}

func (s *SqliteMCP) handleUpdateRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args updateRowsArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	table, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	stmt, err := BuildUpdate(table, args.Set, parseWhere(args.Where), args.AllRows)
	if err != nil {
		return toolError(err), nil
	}

	result, err := s.gateway.Exec(ctx, stmt)
	if err != nil {
		slog.Warn("update failed", "table", args.Table, "error", err)
		return toolError(err), nil
	}

	return toolJSON(map[string]interface{}{
		"affected_row_count": result.AffectedRows,
	}), nil
}

func (s *SqliteMCP) toolDeleteRows() (mcp.Tool, server.ToolHandlerFunc) {
	return mcp.Tool{
		Name:        "delete_rows",
		Description: "Delete rows matching a predicate. Refuses an empty predicate unless all_rows is true.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table name",
				},
				"where": whereProperty,
				"all_rows": map[string]interface{}{
					"type":        "boolean",
					"description": "Set to true to delete every row when no predicate is given",
				},
			},
			Required: []string{"table"},
		},
	}, s.handleDeleteRows
}

func (s *SqliteMCP) handleDeleteRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args deleteRowsArgs
	if err := s.decodeArgs(request.Params.Arguments, &args); err != nil {
		return toolError(err), nil
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	table, err := s.inspector.Snapshot(ctx, args.Table)
	if err != nil {
		return toolError(err), nil
	}

	stmt, err := BuildDelete(table, parseWhere(args.Where), args.AllRows)
	if err != nil {
		return toolError(err), nil
	}

	result, err := s.gateway.Exec(ctx, stmt)
	if err != nil {
		slog.Warn("delete failed", "table", args.Table, "error", err)
		return toolError(err), nil
	}

	return toolJSON(map[string]interface{}{
		"affected_row_count": result.AffectedRows,
	}), nil
}
