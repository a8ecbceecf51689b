package mcp

import (
	"fmt"
	"sort"
	"strings"
)

// Statement is a parameterized, ready-to-execute SQL text plus its bound
// values. Built once per call and discarded after execution.
//
// Caller-supplied literal values always travel through Args. The only text
// interpolated into SQL is identifiers that passed the snapshot allow-list
// check, quoted.
type Statement struct {
	SQL  string
	Args []interface{}
}

// Condition is one WHERE-clause comparison: column, operator, value.
type Condition struct {
	Column   string
	Operator string
	Value    interface{}
}

// JoinSpec describes a two-table join. Kind is "inner" or "left".
type JoinSpec struct {
	Table       string
	Kind        string
	LeftColumn  string
	RightColumn string
}

// SelectSpec carries the optional parts of a select operation.
type SelectSpec struct {
	Columns   []string
	Where     []Condition
	Join      *JoinSpec
	OrderBy   string
	OrderDesc bool
	Limit     int
}

// BuildSelect builds a parameterized SELECT against the snapshot. When
// spec.Join is set, joined must be the snapshot of the joined table and
// every column reference is qualified with its table.
func BuildSelect(table *TableSchema, joined *TableSchema, spec SelectSpec) (Statement, error) {
	resolve := columnResolver(table)

	joinClause := ""
	if spec.Join != nil {
		if joined == nil || !strings.EqualFold(joined.Name, spec.Join.Table) {
			return Statement{}, fmt.Errorf("%w: no snapshot for joined table %s", ErrInvalidJoin, spec.Join.Table)
		}

		var joinKeyword string
		switch spec.Join.Kind {
		case "", "inner":
			joinKeyword = "INNER JOIN"
		case "left":
			joinKeyword = "LEFT JOIN"
		default:
			return Statement{}, fmt.Errorf("%w: unsupported kind %q", ErrInvalidJoin, spec.Join.Kind)
		}

		if !table.HasColumn(spec.Join.LeftColumn) {
			return Statement{}, fmt.Errorf("%w: %s.%s", ErrInvalidColumn, table.Name, spec.Join.LeftColumn)
		}
		if !joined.HasColumn(spec.Join.RightColumn) {
			return Statement{}, fmt.Errorf("%w: %s.%s", ErrInvalidColumn, joined.Name, spec.Join.RightColumn)
		}

		joinClause = fmt.Sprintf(" %s %s ON %s.%s = %s.%s",
			joinKeyword,
			quoteIdentifier(joined.Name),
			quoteIdentifier(table.Name), quoteIdentifier(spec.Join.LeftColumn),
			quoteIdentifier(joined.Name), quoteIdentifier(spec.Join.RightColumn))

		resolve = joinedColumnResolver(table, joined)
	}

	columnsStr := "*"
	if len(spec.Columns) > 0 {
		resolved := make([]string, 0, len(spec.Columns))
		for _, col := range spec.Columns {
			ref, err := resolve(col)
			if err != nil {
				return Statement{}, err
			}
			resolved = append(resolved, ref)
		}
		columnsStr = strings.Join(resolved, ", ")
	}

	whereClause, whereArgs, err := buildWhereClause(resolve, spec.Where)
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s%s", columnsStr, quoteIdentifier(table.Name), joinClause, whereClause)

	if spec.OrderBy != "" {
		ref, err := resolve(spec.OrderBy)
		if err != nil {
			return Statement{}, err
		}
		direction := "ASC"
		if spec.OrderDesc {
			direction = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", ref, direction)
	}

	if spec.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", spec.Limit)
	}

	return Statement{SQL: query, Args: whereArgs}, nil
}

// BuildInsert builds a parameterized single-row INSERT with one bind value
// per column. Columns are emitted in sorted order so the same arguments
// always yield the same statement text.
func BuildInsert(table *TableSchema, values map[string]interface{}) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, ErrEmptyColumnSet
	}

	columns, args, err := sortedColumnValues(table, values)
	if err != nil {
		return Statement{}, err
	}

	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdentifier(col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(table.Name),
		strings.Join(quoted, ", "),
		placeholders(len(columns)))

	return Statement{SQL: query, Args: args}, nil
}

// BuildUpdate builds a parameterized UPDATE. SET bind values come first,
// then WHERE bind values, matching placeholder order in the text. An empty
// predicate is rejected unless allRows is set.
func BuildUpdate(table *TableSchema, set map[string]interface{}, where []Condition, allRows bool) (Statement, error) {
	if len(set) == 0 {
		return Statement{}, ErrEmptyColumnSet
	}
	if len(where) == 0 && !allRows {
		return Statement{}, ErrEmptyPredicate
	}

	columns, args, err := sortedColumnValues(table, set)
	if err != nil {
		return Statement{}, err
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = quoteIdentifier(col) + " = ?"
	}

	whereClause, whereArgs, err := buildWhereClause(columnResolver(table), where)
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s",
		quoteIdentifier(table.Name),
		strings.Join(assignments, ", "),
		whereClause)

	return Statement{SQL: query, Args: append(args, whereArgs...)}, nil
}

// BuildDelete builds a parameterized DELETE under the same empty-predicate
// rule as BuildUpdate.
func BuildDelete(table *TableSchema, where []Condition, allRows bool) (Statement, error) {
	if len(where) == 0 && !allRows {
		return Statement{}, ErrEmptyPredicate
	}

	whereClause, whereArgs, err := buildWhereClause(columnResolver(table), where)
	if err != nil {
		return Statement{}, err
	}

	query := fmt.Sprintf("DELETE FROM %s%s", quoteIdentifier(table.Name), whereClause)

	return Statement{SQL: query, Args: whereArgs}, nil
}

// BuildAddColumn builds an ALTER TABLE ... ADD COLUMN statement. DDL takes
// no bind values, so both identifiers and the type are validated before
// being placed into the text.
func BuildAddColumn(table *TableSchema, column, columnType string) (Statement, error) {
	if !isValidIdentifier(column) {
		return Statement{}, fmt.Errorf("%w: %s", ErrInvalidColumn, column)
	}
	if table.HasColumn(column) {
		return Statement{}, fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, table.Name, column)
	}

	normalized := strings.ToUpper(strings.TrimSpace(columnType))
	if !allowedColumnTypes[normalized] {
		return Statement{}, fmt.Errorf("%w: %s", ErrInvalidColumnType, columnType)
	}

	query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
		quoteIdentifier(table.Name), quoteIdentifier(column), normalized)

	return Statement{SQL: query, Args: nil}, nil
}

// BuildRaw passes caller-supplied SQL through with optional bind values.
// Identifier validation is intentionally bypassed here: the contract is a
// single literal statement from the caller, never text assembled from
// smaller untrusted fragments by this layer. Multi-statement input is
// rejected before execution.
func BuildRaw(sqlText string, params []interface{}) (Statement, error) {
	trimmed := strings.TrimSpace(sqlText)
	if trimmed == "" {
		return Statement{}, ErrQueryRequired
	}
	if len(trimmed) > MaxRawSQLBytes {
		return Statement{}, ErrQueryTooLong
	}

	stripped := stripLiteralsAndComments(trimmed)
	if idx := strings.Index(stripped, ";"); idx >= 0 && strings.TrimSpace(stripped[idx+1:]) != "" {
		return Statement{}, ErrMultipleStatements
	}

	return Statement{SQL: trimmed, Args: params}, nil
}

// returnsRows reports whether a raw statement should be executed as a read.
func returnsRows(sqlText string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sqlText))
	for _, prefix := range []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN"} {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// buildWhereClause turns conditions into a WHERE clause plus its bind
// values. Unknown operators fail closed rather than being forwarded to the
// store.
func buildWhereClause(resolve func(string) (string, error), conditions []Condition) (string, []interface{}, error) {
	if len(conditions) == 0 {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}

	for _, cond := range conditions {
		ref, err := resolve(cond.Column)
		if err != nil {
			return "", nil, err
		}

		switch cond.Operator {
		case OpEq:
			clauses = append(clauses, ref+" = ?")
			args = append(args, cond.Value)
		case OpNeq:
			clauses = append(clauses, ref+" != ?")
			args = append(args, cond.Value)
		case OpGt:
			clauses = append(clauses, ref+" > ?")
			args = append(args, cond.Value)
		case OpGte:
			clauses = append(clauses, ref+" >= ?")
			args = append(args, cond.Value)
		case OpLt:
			clauses = append(clauses, ref+" < ?")
			args = append(args, cond.Value)
		case OpLte:
			clauses = append(clauses, ref+" <= ?")
			args = append(args, cond.Value)
		case OpLike:
			pattern, ok := cond.Value.(string)
			if !ok {
				return "", nil, ErrLikeRequiresString
			}
			clauses = append(clauses, ref+" LIKE ?")
			args = append(args, pattern)
		case OpIn:
			list, ok := cond.Value.([]interface{})
			if !ok || len(list) == 0 {
				return "", nil, ErrEmptyInList
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", ref, placeholders(len(list))))
			args = append(args, list...)
		case OpIsNull:
			clauses = append(clauses, ref+" IS NULL")
		case OpIsNotNull:
			clauses = append(clauses, ref+" IS NOT NULL")
		default:
			return "", nil, fmt.Errorf("%w: %s", ErrInvalidOperator, cond.Operator)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// columnResolver validates a column against a single-table snapshot and
// returns its quoted reference.
func columnResolver(table *TableSchema) func(string) (string, error) {
	return func(name string) (string, error) {
		if !table.HasColumn(name) {
			return "", fmt.Errorf("%w: %s", ErrInvalidColumn, name)
		}
		return quoteIdentifier(name), nil
	}
}

// joinedColumnResolver resolves "table.column" or bare column references
// against the two snapshots of a join. Bare names resolve against the base
// table first. Every reference comes back table-qualified.
func joinedColumnResolver(base, joined *TableSchema) func(string) (string, error) {
	return func(name string) (string, error) {
		if tableName, column, found := strings.Cut(name, "."); found {
			for _, t := range []*TableSchema{base, joined} {
				if strings.EqualFold(t.Name, tableName) {
					if !t.HasColumn(column) {
						return "", fmt.Errorf("%w: %s", ErrInvalidColumn, name)
					}
					return quoteIdentifier(t.Name) + "." + quoteIdentifier(column), nil
				}
			}
			return "", fmt.Errorf("%w: %s references a table outside the join", ErrInvalidColumn, name)
		}

		for _, t := range []*TableSchema{base, joined} {
			if t.HasColumn(name) {
				return quoteIdentifier(t.Name) + "." + quoteIdentifier(name), nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidColumn, name)
	}
}

// sortedColumnValues validates every column key against the snapshot and
// returns columns plus values in sorted-key order.
func sortedColumnValues(table *TableSchema, values map[string]interface{}) ([]string, []interface{}, error) {
	columns := make([]string, 0, len(values))
	for col := range values {
		if !table.HasColumn(col) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidColumn, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	args := make([]interface{}, len(columns))
	for i, col := range columns {
		args[i] = values[col]
	}
	return columns, args, nil
}

func placeholders(count int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}

// stripLiteralsAndComments blanks out string literals, quoted identifiers
// and comments so statement separators can be detected safely.
func stripLiteralsAndComments(sqlText string) string {
	var out strings.Builder
	out.Grow(len(sqlText))

	const (
		stateNone = iota
		stateSingleQuote
		stateDoubleQuote
		stateLineComment
		stateBlockComment
	)

	state := stateNone
	for i := 0; i < len(sqlText); i++ {
		c := sqlText[i]

		switch state {
		case stateNone:
			switch {
			case c == '\'':
				state = stateSingleQuote
				out.WriteByte(' ')
			case c == '"':
				state = stateDoubleQuote
				out.WriteByte(' ')
			case c == '-' && i+1 < len(sqlText) && sqlText[i+1] == '-':
				state = stateLineComment
				out.WriteByte(' ')
				i++
			case c == '/' && i+1 < len(sqlText) && sqlText[i+1] == '*':
				state = stateBlockComment
				out.WriteByte(' ')
				i++
			default:
				out.WriteByte(c)
			}
		case stateSingleQuote:
			if c == '\'' {
				state = stateNone
			}
			out.WriteByte(' ')
		case stateDoubleQuote:
			if c == '"' {
				state = stateNone
			}
			out.WriteByte(' ')
		case stateLineComment:
			if c == '\n' {
				state = stateNone
				out.WriteByte('\n')
			} else {
				out.WriteByte(' ')
			}
		case stateBlockComment:
			if c == '*' && i+1 < len(sqlText) && sqlText[i+1] == '/' {
				state = stateNone
				i++
			}
			out.WriteByte(' ')
		}
	}

	return out.String()
}
