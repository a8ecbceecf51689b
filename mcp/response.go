package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolError wraps a failure into the structured error surface: callers get
// a stable kind plus a human-readable message, never a raw driver fault.
func toolError(err error) *mcp.CallToolResult {
	payload := map[string]interface{}{
		"error_kind": errorKind(err),
		"message":    err.Error(),
	}

	data, merr := json.Marshal(payload)
	if merr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

// toolJSON serializes a response envelope
func toolJSON(envelope interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return toolError(fmt.Errorf("%w: %v", ErrSerializingJSON, err))
	}
	return mcp.NewToolResultText(string(data))
}
