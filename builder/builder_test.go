package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/builder"
)

func TestBuilder(t *testing.T) {
	stmt, err := builder.Select("users.id", "COUNT(posts.id) AS posts").
		From("users").
		LeftJoin("posts", "posts.user_id = users.id AND posts.status = ?", "published").
		Where("users.active = ?", true).
		OrWhere("users.role IN (?, ?)", "admin", "editor").
		GroupBy("users.id").
		Having("COUNT(posts.id) > ?", 3).
		OrderBy("posts DESC", "users.id").
		Limit(10).
		Offset(20).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "SELECT users.id, COUNT(posts.id) AS posts FROM users"+
		" LEFT JOIN posts ON posts.user_id = users.id AND posts.status = :param_0"+
		" WHERE users.active = :param_1 OR users.role IN (:param_2, :param_3)"+
		" GROUP BY users.id HAVING COUNT(posts.id) > :param_4"+
		" ORDER BY posts DESC, users.id LIMIT 20,10", stmt.SQL)
	assert.Equal(t, map[string]any{
		"param_0": "published", "param_1": true, "param_2": "admin", "param_3": "editor", "param_4": 3,
	}, stmt.Params)
}

func TestBuilderDefaults(t *testing.T) {
	stmt, err := builder.Select().From("todos").Limit(5).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM todos LIMIT 5", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilderErrors(t *testing.T) {
	_, err := builder.Select("id").Build()
	assert.ErrorIs(t, err, builder.ErrMissingTable)

	_, err = builder.Select("id").From("todos").Where("id = ? AND user_id = ?", 1).Build()
	assert.ErrorIs(t, err, builder.ErrPlaceholderMismatch)

	_, err = builder.Select("id").From("todos").Where("id = ?", 1, 2).Build()
	assert.ErrorIs(t, err, builder.ErrPlaceholderMismatch)
}
