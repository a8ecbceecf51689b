package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Typed argument objects, one per operation. The transport hands over an
// untyped map; each handler decodes it into one of these and validates it
// once at the boundary, then only the typed value travels inward.

type selectRowsArgs struct {
	Table          string                 `json:"table" validate:"required"`
	Columns        []string               `json:"columns"`
	Where          map[string]interface{} `json:"where"`
	Join           *joinArgs              `json:"join"`
	OrderBy        string                 `json:"order_by"`
	OrderDirection string                 `json:"order_direction" validate:"omitempty,oneof=ASC DESC asc desc"`
	Limit          int                    `json:"limit" validate:"omitempty,gte=1,lte=100000"`
}

type joinArgs struct {
	Table string `json:"table" validate:"required"`
	Kind  string `json:"kind" validate:"omitempty,oneof=inner left"`
	On    joinOn `json:"on" validate:"required"`
}

type joinOn struct {
	Left  string `json:"left" validate:"required"`
	Right string `json:"right" validate:"required"`
}

type insertRowArgs struct {
	Table  string                 `json:"table" validate:"required"`
	Values map[string]interface{} `json:"values" validate:"required,min=1"`
}

type updateRowsArgs struct {
	Table   string                 `json:"table" validate:"required"`
	Set     map[string]interface{} `json:"set" validate:"required,min=1"`
	Where   map[string]interface{} `json:"where"`
	AllRows bool                   `json:"all_rows"`
}

type deleteRowsArgs struct {
	Table   string                 `json:"table" validate:"required"`
	Where   map[string]interface{} `json:"where"`
	AllRows bool                   `json:"all_rows"`
}

type addColumnArgs struct {
	Table string `json:"table" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Type  string `json:"type" validate:"required"`
}

type executeSQLArgs struct {
	SQL    string        `json:"sql" validate:"required"`
	Params []interface{} `json:"params"`
}

type describeTableArgs struct {
	Table string `json:"table" validate:"required"`
}

// decodeArgs decodes the raw argument map into a typed args struct and
// validates it.
func (s *SqliteMCP) decodeArgs(arguments interface{}, target interface{}) error {
	args, ok := getArgs(arguments)
	if !ok {
		return ErrInvalidArguments
	}

	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	if err = s.validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// parseWhere turns the wire predicate shape into ordered conditions.
//
// Each entry maps a column either to a scalar (shorthand for eq) or to an
// object mapping operators to values, e.g.
//
//	{"name": {"eq": "Ann"}, "age": {"gte": 18, "lt": 65}, "id": 5}
//
// Conditions come out sorted by column then operator so a given predicate
// always builds the same statement text.
func parseWhere(where map[string]interface{}) []Condition {
	var conditions []Condition

	columns := make([]string, 0, len(where))
	for col := range where {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	for _, col := range columns {
		switch spec := where[col].(type) {
		case map[string]interface{}:
			operators := make([]string, 0, len(spec))
			for op := range spec {
				operators = append(operators, op)
			}
			sort.Strings(operators)
			for _, op := range operators {
				conditions = append(conditions, Condition{Column: col, Operator: op, Value: spec[op]})
			}
		default:
			conditions = append(conditions, Condition{Column: col, Operator: OpEq, Value: spec})
		}
	}

	return conditions
}
