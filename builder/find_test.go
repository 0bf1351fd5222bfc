package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/builder"
	"github.com/hakuorm/haku/clause"
)

func TestFindAll(t *testing.T) {
	results := []struct {
		Name   string
		Find   builder.Find
		Fields []string
		Where  []clause.Condition
		Orders []clause.Order
		Limit  int
		Offset int
		Result string
		Params map[string]any
	}{
		{
			Name:   "no conditions",
			Find:   builder.Find{Table: "todos"},
			Fields: []string{"title", "completed"},
			Result: "SELECT todos.title, todos.completed FROM todos LIMIT 0,25",
			Params: map[string]any{},
		},
		{
			Name:   "single condition",
			Find:   builder.Find{Table: "todos"},
			Fields: []string{"id"},
			Where:  []clause.Condition{clause.Is("completed", false)},
			Limit:  10,
			Offset: 20,
			Result: "SELECT todos.id FROM todos WHERE todos.completed = :var_todos_completed_0 LIMIT 20,10",
			Params: map[string]any{"var_todos_completed_0": false},
		},
		{
			Name:   "all columns ordered",
			Find:   builder.Find{Table: "todos"},
			Where:  []clause.Condition{clause.IsNull("deletedAt")},
			Orders: []clause.Order{clause.Desc("createdAt")},
			Result: "SELECT todos.* FROM todos WHERE todos.deleted_at IS NULL ORDER BY todos.created_at DESC LIMIT 0,25",
			Params: map[string]any{},
		},
		{
			Name:   "joined",
			Find:   builder.Find{Table: "todos", Joins: []builder.Join{{Table: "todos_search", On: "todos_search.todo_id = todos.id"}}},
			Fields: []string{"id", "ST_AsText(todos.location) AS location"},
			Limit:  -1,
			Offset: -5,
			Result: "SELECT todos.id, ST_AsText(todos.location) AS location FROM todos JOIN todos_search ON todos_search.todo_id = todos.id LIMIT 0,25",
			Params: map[string]any{},
		},
	}

	for _, result := range results {
		t.Run(result.Name, func(t *testing.T) {
			stmt, err := result.Find.All(result.Fields, result.Where, result.Orders, result.Limit, result.Offset)
			require.NoError(t, err)
			assert.Equal(t, result.Result, stmt.SQL)
			assert.Equal(t, result.Params, stmt.Params)
		})
	}
}

func TestFindOne(t *testing.T) {
	stmt, err := builder.Find{Table: "users"}.One([]string{"id", "email"}, []clause.Condition{clause.Is("id", 3)}, nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT users.id, users.email FROM users WHERE users.id = :var_users_id_0 LIMIT 0,1", stmt.SQL)
	assert.Equal(t, map[string]any{"var_users_id_0": 3}, stmt.Params)
}

func TestFindCount(t *testing.T) {
	stmt, err := builder.Find{Table: "todos"}.Count("", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM todos", stmt.SQL)

	stmt, err = builder.Find{Table: "todos"}.Count("id", []clause.Condition{clause.Is("userId", 1), clause.IsNull("deletedAt")})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(todos.id) FROM todos WHERE todos.user_id = :var_todos_user_id_0 AND todos.deleted_at IS NULL", stmt.SQL)
	assert.Equal(t, map[string]any{"var_todos_user_id_0": 1}, stmt.Params)
}

func TestFindInvalidRaw(t *testing.T) {
	_, err := builder.Find{Table: "todos"}.All(nil, []clause.Condition{clause.Raw("id = ?")}, nil, 0, 0)
	assert.ErrorIs(t, err, builder.ErrPlaceholderMismatch)
}
