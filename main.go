package main

import (
	"errors"
	"log/slog"
	"os"

	"sqlite-mcp/mcp"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var dbPath string

func main() {
	root := &cobra.Command{
		Use:          "sqlite-mcp",
		Short:        "MCP server exposing SQL tools over a single SQLite database",
		SilenceUsage: true,
		RunE:         run,
	}
	root.Flags().StringVar(&dbPath, "db", os.Getenv("SQLITE_MCP_DB"), "path to the SQLite database file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the MCP framing, so all logging goes to stderr
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelInfo,
	})))

	if dbPath == "" {
		return errors.New("no database configured: set --db or SQLITE_MCP_DB")
	}

	mcpServer, err := mcp.NewMcpServer(dbPath)
	if err != nil {
		slog.Error("Error setting up MCP server", "error", err)
		return err
	}
	defer mcpServer.Close()

	slog.Info("sqlite-mcp server starting", "db", dbPath)

	if err = mcpServer.Start(); err != nil {
		slog.Error("Error running server", "error", err)
		return err
	}
	return nil
}
