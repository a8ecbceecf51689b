package mcp

func (s *SqliteMCP) registerTools() {
	// Select Rows
	s.server.AddTool(s.toolSelectRows())

	// Insert Row
	s.server.AddTool(s.toolInsertRow())

	// Update Rows
	s.server.AddTool(s.toolUpdateRows())

	// Delete Rows
	s.server.AddTool(s.toolDeleteRows())

	// Add Column
	s.server.AddTool(s.toolAddColumn())

	// Execute Raw SQL
	s.server.AddTool(s.toolExecuteSQLQuery())

	// List Tables
	s.server.AddTool(s.toolListTables())

	// Describe Table
	s.server.AddTool(s.toolDescribeTable())
}
