package mcp

import (
	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/server"
)

type SqliteMCP struct {
	server    *server.MCPServer
	gateway   *Gateway
	inspector *Introspector
	validate  *validator.Validate
}
