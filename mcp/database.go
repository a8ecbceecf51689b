package mcp

import (
	"context"
	"database/sql"
	"fmt"
)

// newDbConnection opens the SQLite store at the given path.
// The pool is pinned to a single connection: the gateway serializes every
// statement onto one session, and for in-memory databases each connection
// would otherwise see its own store.
func newDbConnection(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", path, DBBusyTimeout)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnecting, err)
	}

	db.SetMaxOpenConns(1)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), DBPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrTestingConnection, err)
	}

	return db, nil
}
