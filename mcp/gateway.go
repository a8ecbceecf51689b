package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/mattn/go-sqlite3"
)

// Gateway owns the single store session. Every statement, including the
// introspector's catalog reads, runs under its mutex: the transport may
// dispatch tool calls concurrently, and SQLite does not tolerate concurrent
// writes on a shared session.
type Gateway struct {
	mu sync.Mutex
	db *sql.DB
}

// Result is the uniform envelope returned for every statement execution.
type Result struct {
	Columns      []string
	Rows         []map[string]interface{}
	AffectedRows int64
	LastInsertID int64
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

// Query executes a read statement and materializes every row into the
// envelope before returning. No partial or streaming results.
func (g *Gateway) Query(ctx context.Context, stmt Statement) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, err := g.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, classifyStoreError(err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err = rows.Scan(valuePtrs...); err != nil {
			return nil, classifyStoreError(err)
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			row[col] = formatValue(values[i])
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return nil, classifyStoreError(err)
	}

	return &Result{Columns: columns, Rows: results}, nil
}

// Exec executes a mutating statement as a unit: begin, execute, commit on
// success, rollback on any failure. Mutations reach the store file on
// commit only.
func (g *Gateway) Exec(ctx context.Context, stmt Statement) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifyStoreError(err)
	}

	res, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		tx.Rollback()
		return nil, classifyStoreError(err)
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return nil, classifyStoreError(err)
	}

	affected, _ := res.RowsAffected()
	lastID, _ := res.LastInsertId()

	return &Result{AffectedRows: affected, LastInsertID: lastID}, nil
}

// locked runs fn with the session lock held. The introspector uses it so
// catalog reads serialize with statement execution and always see the most
// recent committed state.
func (g *Gateway) locked(fn func(db *sql.DB) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.db)
}

func (g *Gateway) Close() error {
	return g.db.Close()
}

// classifyStoreError maps driver errors onto the error taxonomy. The
// session stays usable after any of these.
func classifyStoreError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		case sqlite3.ErrError:
			// SQLITE_ERROR covers syntax errors and references to
			// missing objects in raw SQL
			return fmt.Errorf("%w: %v", ErrSyntax, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrExecution, err)
}
