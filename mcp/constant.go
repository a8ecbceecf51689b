package mcp

import "time"

// Database connection configuration constants
const (
	DBPingTimeout = 5 * time.Second
	DBBusyTimeout = 5000 // milliseconds, passed to the driver DSN
)

// Query limits
const (
	DefaultMaxRows = 1000
	MaxRawSQLBytes = 10000 // 10KB
)

// Query timeout constants
const (
	DefaultQueryTimeout = 30 * time.Second
	ShortQueryTimeout   = 10 * time.Second
)

// Predicate comparison operators accepted by the statement builder.
// Anything outside this set fails closed before reaching the store.
const (
	OpEq        = "eq"
	OpNeq       = "neq"
	OpGt        = "gt"
	OpGte       = "gte"
	OpLt        = "lt"
	OpLte       = "lte"
	OpLike      = "like"
	OpIn        = "in"
	OpIsNull    = "is_null"
	OpIsNotNull = "is_not_null"
)

// Column types accepted by add_column
var allowedColumnTypes = map[string]bool{
	"TEXT":     true,
	"INTEGER":  true,
	"REAL":     true,
	"NUMERIC":  true,
	"BLOB":     true,
	"DATE":     true,
	"DATETIME": true,
}
