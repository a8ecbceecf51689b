package mcp

import (
	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/server"
)

// NewMcpServer creates a new MCP server bound to the SQLite store at dbPath.
func NewMcpServer(dbPath string) (*SqliteMCP, error) {
	db, err := newDbConnection(dbPath)
	if err != nil {
		return nil, err
	}

	gateway := NewGateway(db)

	sqliteMCPServer := &SqliteMCP{
		server: server.NewMCPServer(
			"SQLite MCP",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		gateway:   gateway,
		inspector: NewIntrospector(gateway),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	// Register tools
	sqliteMCPServer.registerTools()

	return sqliteMCPServer, nil
}

// Start starts the MCP server in stdio mode
func (s *SqliteMCP) Start() error {
	return server.ServeStdio(s.server)
}

// Close closes the database connection
func (s *SqliteMCP) Close() error {
	return s.gateway.Close()
}
