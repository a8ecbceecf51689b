package mcp

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnInfo describes one column as reported by PRAGMA table_info.
type ColumnInfo struct {
	Name       string
	Type       string
	NotNull    bool
	Default    interface{}
	PrimaryKey bool
}

// TableSchema is a per-call snapshot of one table. It is the allow-list
// the statement builder checks identifiers against before any of them is
// interpolated into SQL text.
type TableSchema struct {
	Name    string
	Columns []ColumnInfo
}

// HasColumn reports whether the snapshot contains the column. SQLite
// identifiers are case-insensitive.
func (t *TableSchema) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

// ColumnNames returns the column names in declaration order.
func (t *TableSchema) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Introspector answers catalog queries against the live store. It never
// caches: the tool set includes schema-changing operations, so every call
// takes a fresh snapshot through the gateway's session.
type Introspector struct {
	gateway *Gateway
}

func NewIntrospector(gateway *Gateway) *Introspector {
	return &Introspector{gateway: gateway}
}

// ListTables returns the names of all user tables, sorted.
func (in *Introspector) ListTables(ctx context.Context) ([]string, error) {
	var tables []string

	err := in.gateway.locked(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT name
			FROM sqlite_master
			WHERE type = 'table'
				AND name NOT LIKE 'sqlite_%'
			ORDER BY name`)
		if err != nil {
			return classifyStoreError(err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err = rows.Scan(&name); err != nil {
				return classifyStoreError(err)
			}
			tables = append(tables, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return tables, nil
}

// Snapshot takes a fresh schema snapshot of one table, failing with
// ErrInvalidTable when it does not exist.
func (in *Introspector) Snapshot(ctx context.Context, table string) (*TableSchema, error) {
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, table)
	}

	snapshot := &TableSchema{Name: table}

	err := in.gateway.locked(func(db *sql.DB) error {
		var count int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
			table).Scan(&count)
		if err != nil {
			return classifyStoreError(err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTable, table)
		}

		// The table name passed PRAGMA-safe validation and matched a
		// catalog entry above; PRAGMA does not accept bind parameters
		rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(table)))
		if err != nil {
			return classifyStoreError(err)
		}
		defer rows.Close()

		for rows.Next() {
			var cid, notNull, pk int
			var name, dataType string
			var dfltValue sql.NullString

			if err = rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
				return classifyStoreError(err)
			}

			col := ColumnInfo{
				Name:       name,
				Type:       dataType,
				NotNull:    notNull != 0,
				PrimaryKey: pk > 0,
			}
			if dfltValue.Valid {
				col.Default = dfltValue.String
			}
			snapshot.Columns = append(snapshot.Columns, col)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Columns returns the ordered column definitions of a table.
func (in *Introspector) Columns(ctx context.Context, table string) ([]ColumnInfo, error) {
	snapshot, err := in.Snapshot(ctx, table)
	if err != nil {
		return nil, err
	}
	return snapshot.Columns, nil
}
