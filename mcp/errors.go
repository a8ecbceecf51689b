package mcp

import "errors"

// Connection errors
var (
	ErrConnecting        = errors.New("error connecting to database")
	ErrTestingConnection = errors.New("error testing connection")
)

// Argument errors
var (
	ErrInvalidArguments   = errors.New("invalid arguments")
	ErrInvalidTable       = errors.New("invalid table")
	ErrInvalidColumn      = errors.New("invalid column")
	ErrInvalidOperator    = errors.New("invalid operator")
	ErrInvalidJoin        = errors.New("invalid join")
	ErrEmptyColumnSet     = errors.New("no columns provided")
	ErrEmptyPredicate     = errors.New("empty predicate: pass a where condition or set all_rows to true")
	ErrDuplicateColumn    = errors.New("column already exists")
	ErrInvalidColumnType  = errors.New("invalid column type")
	ErrEmptyInList        = errors.New("'in' operator requires a non-empty array value")
	ErrLikeRequiresString = errors.New("'like' operator requires a string value")
)

// Raw SQL errors
var (
	ErrQueryRequired      = errors.New("sql is required")
	ErrQueryTooLong       = errors.New("sql text too long")
	ErrMultipleStatements = errors.New("multiple statements not allowed")
)

// Store errors
var (
	ErrConstraintViolation = errors.New("constraint violation")
	ErrSyntax              = errors.New("syntax error")
	ErrExecution           = errors.New("execution failure")
)

// Serialization errors
var (
	ErrSerializingJSON = errors.New("error serializing JSON")
)

// errorKind maps an error to the stable kind identifier returned to callers.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTable):
		return "InvalidTable"
	case errors.Is(err, ErrInvalidColumn):
		return "InvalidColumn"
	case errors.Is(err, ErrInvalidOperator), errors.Is(err, ErrEmptyInList), errors.Is(err, ErrLikeRequiresString):
		return "InvalidOperator"
	case errors.Is(err, ErrInvalidJoin):
		return "InvalidJoin"
	case errors.Is(err, ErrEmptyColumnSet):
		return "EmptyColumnSet"
	case errors.Is(err, ErrEmptyPredicate):
		return "EmptyPredicate"
	case errors.Is(err, ErrDuplicateColumn):
		return "DuplicateColumn"
	case errors.Is(err, ErrInvalidColumnType):
		return "InvalidColumnType"
	case errors.Is(err, ErrMultipleStatements):
		return "MultipleStatements"
	case errors.Is(err, ErrConstraintViolation):
		return "ConstraintViolation"
	case errors.Is(err, ErrSyntax):
		return "SyntaxError"
	case errors.Is(err, ErrInvalidArguments), errors.Is(err, ErrQueryRequired), errors.Is(err, ErrQueryTooLong):
		return "InvalidArguments"
	default:
		return "ExecutionFailure"
	}
}
