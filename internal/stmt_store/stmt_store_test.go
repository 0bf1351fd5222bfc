package stmt_store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/internal/stmt_store"
)

func TestStorePrepare(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	query := "SELECT todos.* FROM todos WHERE todos.id = ?"
	mock.ExpectPrepare(query).WillBeClosed()

	store := stmt_store.New(0)
	first, err := store.Prepare(context.Background(), db, query)
	require.NoError(t, err)
	second, err := store.Prepare(context.Background(), db, query)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, []string{query}, store.Keys())

	store.Close()
	assert.Empty(t, store.Keys())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreExpiration(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	query := "DELETE FROM todos WHERE todos.id = ?"
	mock.ExpectPrepare(query).WillBeClosed()
	mock.ExpectPrepare(query)

	store := stmt_store.New(time.Millisecond)
	first, err := store.Prepare(context.Background(), db, query)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	second, err := store.Prepare(context.Background(), db, query)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}
