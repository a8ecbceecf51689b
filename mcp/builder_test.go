package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersSchema() *TableSchema {
	return &TableSchema{
		Name: "users",
		Columns: []ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "name", Type: "TEXT", NotNull: true},
			{Name: "age", Type: "INTEGER"},
		},
	}
}

func ordersSchema() *TableSchema {
	return &TableSchema{
		Name: "orders",
		Columns: []ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "user_id", Type: "INTEGER"},
			{Name: "total", Type: "REAL"},
		},
	}
}

func TestBuildSelectDefaults(t *testing.T) {
	stmt, err := BuildSelect(usersSchema(), nil, SelectSpec{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestBuildSelectFull(t *testing.T) {
	stmt, err := BuildSelect(usersSchema(), nil, SelectSpec{
		Columns:   []string{"name", "age"},
		Where:     []Condition{{Column: "age", Operator: OpGte, Value: 18}},
		OrderBy:   "age",
		OrderDesc: true,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "name", "age" FROM "users" WHERE "age" >= ? ORDER BY "age" DESC LIMIT 10`, stmt.SQL)
	assert.Equal(t, []interface{}{18}, stmt.Args)
}

func TestBuildSelectUnknownIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		spec SelectSpec
	}{
		{"projected column", SelectSpec{Columns: []string{"salary"}}},
		{"where column", SelectSpec{Where: []Condition{{Column: "salary", Operator: OpEq, Value: 1}}}},
		{"order by column", SelectSpec{OrderBy: "salary"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSelect(usersSchema(), nil, tc.spec)
			assert.ErrorIs(t, err, ErrInvalidColumn)
		})
	}
}

func TestBuildWhereOperators(t *testing.T) {
	tests := []struct {
		operator string
		value    interface{}
		clause   string
		args     []interface{}
	}{
		{OpEq, "Ann", `"name" = ?`, []interface{}{"Ann"}},
		{OpNeq, "Ann", `"name" != ?`, []interface{}{"Ann"}},
		{OpGt, 1, `"name" > ?`, []interface{}{1}},
		{OpGte, 1, `"name" >= ?`, []interface{}{1}},
		{OpLt, 1, `"name" < ?`, []interface{}{1}},
		{OpLte, 1, `"name" <= ?`, []interface{}{1}},
		{OpLike, "An%", `"name" LIKE ?`, []interface{}{"An%"}},
		{OpIn, []interface{}{"Ann", "Bob"}, `"name" IN (?, ?)`, []interface{}{"Ann", "Bob"}},
		{OpIsNull, nil, `"name" IS NULL`, nil},
		{OpIsNotNull, nil, `"name" IS NOT NULL`, nil},
	}

	for _, tc := range tests {
		t.Run(tc.operator, func(t *testing.T) {
			clause, args, err := buildWhereClause(columnResolver(usersSchema()), []Condition{
				{Column: "name", Operator: tc.operator, Value: tc.value},
			})
			require.NoError(t, err)
			assert.Equal(t, " WHERE "+tc.clause, clause)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestBuildWhereFailsClosed(t *testing.T) {
	_, _, err := buildWhereClause(columnResolver(usersSchema()), []Condition{
		{Column: "name", Operator: "between", Value: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidOperator)

	_, _, err = buildWhereClause(columnResolver(usersSchema()), []Condition{
		{Column: "name", Operator: OpIn, Value: []interface{}{}},
	})
	assert.ErrorIs(t, err, ErrEmptyInList)

	_, _, err = buildWhereClause(columnResolver(usersSchema()), []Condition{
		{Column: "name", Operator: OpLike, Value: 42},
	})
	assert.ErrorIs(t, err, ErrLikeRequiresString)
}

func TestBuildSelectJoin(t *testing.T) {
	stmt, err := BuildSelect(usersSchema(), ordersSchema(), SelectSpec{
		Columns: []string{"name", "orders.total"},
		Where:   []Condition{{Column: "total", Operator: OpGt, Value: 100}},
		Join: &JoinSpec{
			Table:       "orders",
			Kind:        "inner",
			LeftColumn:  "id",
			RightColumn: "user_id",
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "users"."name", "orders"."total" FROM "users"`+
			` INNER JOIN "orders" ON "users"."id" = "orders"."user_id"`+
			` WHERE "orders"."total" > ?`,
		stmt.SQL)
	assert.Equal(t, []interface{}{100}, stmt.Args)
}

func TestBuildSelectJoinValidation(t *testing.T) {
	join := &JoinSpec{Table: "orders", LeftColumn: "id", RightColumn: "user_id"}

	_, err := BuildSelect(usersSchema(), nil, SelectSpec{Join: join})
	assert.ErrorIs(t, err, ErrInvalidJoin)

	_, err = BuildSelect(usersSchema(), ordersSchema(), SelectSpec{
		Join: &JoinSpec{Table: "orders", Kind: "cross", LeftColumn: "id", RightColumn: "user_id"},
	})
	assert.ErrorIs(t, err, ErrInvalidJoin)

	_, err = BuildSelect(usersSchema(), ordersSchema(), SelectSpec{
		Join: &JoinSpec{Table: "orders", LeftColumn: "id", RightColumn: "customer_id"},
	})
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, err = BuildSelect(usersSchema(), ordersSchema(), SelectSpec{
		Columns: []string{"payments.total"},
		Join:    join,
	})
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestBuildInsert(t *testing.T) {
	stmt, err := BuildInsert(usersSchema(), map[string]interface{}{
		"name": "Ann",
		"age":  30,
	})
	require.NoError(t, err)
	// columns come out in sorted order
	assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES (?, ?)`, stmt.SQL)
	assert.Equal(t, []interface{}{30, "Ann"}, stmt.Args)
}

func TestBuildInsertValidation(t *testing.T) {
	_, err := BuildInsert(usersSchema(), map[string]interface{}{})
	assert.ErrorIs(t, err, ErrEmptyColumnSet)

	_, err = BuildInsert(usersSchema(), map[string]interface{}{"salary": 1})
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestBuildUpdateBindOrder(t *testing.T) {
	stmt, err := BuildUpdate(usersSchema(),
		map[string]interface{}{"age": 31, "name": "Anne"},
		[]Condition{{Column: "id", Operator: OpEq, Value: 5}},
		false)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "age" = ?, "name" = ? WHERE "id" = ?`, stmt.SQL)
	// SET values first, then WHERE values
	assert.Equal(t, []interface{}{31, "Anne", 5}, stmt.Args)
}

func TestBuildUpdateEmptyPredicate(t *testing.T) {
	_, err := BuildUpdate(usersSchema(), map[string]interface{}{"age": 31}, nil, false)
	assert.ErrorIs(t, err, ErrEmptyPredicate)

	stmt, err := BuildUpdate(usersSchema(), map[string]interface{}{"age": 31}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "age" = ?`, stmt.SQL)
}

func TestBuildDelete(t *testing.T) {
	stmt, err := BuildDelete(usersSchema(), []Condition{{Column: "name", Operator: OpEq, Value: "Ann"}}, false)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "name" = ?`, stmt.SQL)
	assert.Equal(t, []interface{}{"Ann"}, stmt.Args)

	_, err = BuildDelete(usersSchema(), nil, false)
	assert.ErrorIs(t, err, ErrEmptyPredicate)

	stmt, err = BuildDelete(usersSchema(), nil, true)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users"`, stmt.SQL)
}

func TestBuildAddColumn(t *testing.T) {
	stmt, err := BuildAddColumn(usersSchema(), "email", "text")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "email" TEXT`, stmt.SQL)
	assert.Empty(t, stmt.Args)

	_, err = BuildAddColumn(usersSchema(), "age", "INTEGER")
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = BuildAddColumn(usersSchema(), "email", "JSONB")
	assert.ErrorIs(t, err, ErrInvalidColumnType)

	_, err = BuildAddColumn(usersSchema(), "e;mail", "TEXT")
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestBuildRaw(t *testing.T) {
	stmt, err := BuildRaw("SELECT * FROM users WHERE id = ?", []interface{}{5})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE id = ?", stmt.SQL)
	assert.Equal(t, []interface{}{5}, stmt.Args)

	_, err = BuildRaw("   ", nil)
	assert.ErrorIs(t, err, ErrQueryRequired)
}

func TestBuildRawMultipleStatements(t *testing.T) {
	_, err := BuildRaw("SELECT 1; DROP TABLE users", nil)
	assert.ErrorIs(t, err, ErrMultipleStatements)

	// a trailing separator is not a second statement
	_, err = BuildRaw("SELECT 1;", nil)
	assert.NoError(t, err)

	// separators inside literals and comments do not count
	_, err = BuildRaw("SELECT 'a;b' -- trailing; comment", nil)
	assert.NoError(t, err)

	_, err = BuildRaw("SELECT 1 /* block; comment */", nil)
	assert.NoError(t, err)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, returnsRows("select * from users"))
	assert.True(t, returnsRows("WITH t AS (SELECT 1) SELECT * FROM t"))
	assert.False(t, returnsRows("INSERT INTO users (name) VALUES ('a')"))
	assert.False(t, returnsRows("DELETE FROM users"))
}

func TestParseWhere(t *testing.T) {
	conds := parseWhere(map[string]interface{}{
		"name": map[string]interface{}{"eq": "Ann"},
		"age":  map[string]interface{}{"lt": 65, "gte": 18},
		"id":   5,
	})
	assert.Equal(t, []Condition{
		{Column: "age", Operator: "gte", Value: 18},
		{Column: "age", Operator: "lt", Value: 65},
		{Column: "id", Operator: "eq", Value: 5},
		{Column: "name", Operator: "eq", Value: "Ann"},
	}, conds)
}
