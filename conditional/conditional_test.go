package conditional_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/conditional"
	"github.com/hakuorm/haku/logger"
	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/utils/tests"
)

func todoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	registry := schema.NewRegistry(schema.NamingStrategy{})
	require.NoError(t, registry.Register(tests.Factories()...))
	s, err := registry.Schema("Todo")
	require.NoError(t, err)
	return s
}

func TestParseOperators(t *testing.T) {
	s := todoSchema(t)

	for _, tt := range []struct {
		key      string
		value    any
		expected clause.Condition
	}{
		{"title", "a", clause.Is("title", "a")},
		{"eqTitle", "a", clause.Is("title", "a")},
		{"neqId", 1, clause.Not("id", 1)},
		{"neq_id", 1, clause.Not("id", 1)},
		{"gtPriority", 3, clause.GreaterOrEqual("priority", 3)},
		{"lt_priority", 3, clause.LessOrEqual("priority", 3)},
		{"inId", []int{1, 2}, clause.AnyOf("id", 1, 2)},
		{"ninId", []int64{3}, clause.NoneOf("id", int64(3))},
		{"in_id", 4, clause.AnyOf("id", 4)},
		{"likeTitle", "%do%", clause.Contains("title", "%do%")},
		{"nlikeTitle", "%do%", clause.NotContains("title", "%do%")},
		{"createdAt", epoch, clause.Is("createdAt", epoch)},
	} {
		t.Run(tt.key, func(t *testing.T) {
			q, err := conditional.Parse(s, map[string]any{tt.key: tt.value}, conditional.Options{})
			require.NoError(t, err)
			assert.Equal(t, []clause.Condition{tt.expected}, q.Where)
		})
	}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseWindow(t *testing.T) {
	s := todoSchema(t)

	q, err := conditional.Parse(s, map[string]any{
		"page":     float64(3),
		"pagesize": "20",
		"orderKey": "desc_createdAt",
		"#sum":     []string{"priority"},
		"title":    "",
	}, conditional.Options{MaxPageSize: 50})
	require.NoError(t, err)
	assert.Empty(t, q.Where)
	assert.Equal(t, []clause.Order{clause.Desc("createdAt")}, q.OrderBy)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, haku.FindOptions{OrderBy: q.OrderBy, Limit: 20, Offset: 40}, q.FindOptions())

	q, err = conditional.Parse(s, map[string]any{"page_size": uint(500), "order_key": "asc_priority"}, conditional.Options{MaxPageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, q.Limit)
	assert.Equal(t, []clause.Order{clause.Asc("priority")}, q.OrderBy)

	q, err = conditional.Parse(s, map[string]any{"orderKey": "priority", "desc": true}, conditional.Options{})
	require.NoError(t, err)
	assert.Equal(t, []clause.Order{clause.Desc("priority")}, q.OrderBy)
	assert.Zero(t, q.Limit)
}

func TestParseEmptyString(t *testing.T) {
	q, err := conditional.Parse(todoSchema(t), map[string]any{"title": ""}, conditional.Options{IncludeEmptyString: true})
	require.NoError(t, err)
	assert.Equal(t, []clause.Condition{clause.Is("title", "")}, q.Where)
}

func TestParseUnknownField(t *testing.T) {
	s := todoSchema(t)

	_, err := conditional.Parse(s, map[string]any{"title; DROP TABLE todos": "x"}, conditional.Options{})
	assert.ErrorIs(t, err, haku.ErrUnknownField)

	_, err = conditional.Parse(s, map[string]any{"orderKey": "desc_rank"}, conditional.Options{})
	assert.ErrorIs(t, err, haku.ErrUnknownField)

	_, err = conditional.Parse(s, map[string]any{"page": "first"}, conditional.Options{})
	assert.Error(t, err)
}

type todoFilter struct {
	conditional.BaseCondition
	Completed  *bool
	GtPriority *int
	NinId      []int64
	Extra      map[string]any
	internal   string
}

func TestParseStruct(t *testing.T) {
	var (
		completed = true
		priority  = 2
		page      = 2
		orderKey  = "priority"
		desc      = true
	)

	q, err := conditional.ParseStruct(todoSchema(t), &todoFilter{
		BaseCondition: conditional.BaseCondition{Page: &page, OrderKey: &orderKey, Desc: &desc},
		Completed:     &completed,
		GtPriority:    &priority,
		Extra:         map[string]any{"likeTitle": "todo%"},
		internal:      "ignored",
	}, conditional.Options{MaxPageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []clause.Condition{
		clause.Is("completed", true),
		clause.GreaterOrEqual("priority", 2),
		clause.Contains("title", "todo%"),
	}, q.Where)
	assert.Equal(t, []clause.Order{clause.Desc("priority")}, q.OrderBy)
	assert.Equal(t, haku.PageOptions{Where: q.Where, OrderBy: q.OrderBy, Page: 2, Limit: 10}, q.PageOptions())
}

func TestPaginate(t *testing.T) {
	conn := tests.NewConn()
	db, err := haku.Open(conn, haku.WithLogger(logger.Discard))
	require.NoError(t, err)
	require.NoError(t, db.Register(tests.Factories()...))
	for i := 1; i <= 30; i++ {
		conn.Seed("todos", schema.Record{"title": fmt.Sprintf("todo %02d", i), "completed": i%2 == 0, "priority": int64(i)})
	}

	m, err := db.New("Todo")
	require.NoError(t, err)

	page, err := conditional.Paginate(context.Background(), m, map[string]any{
		"completed":  true,
		"gtPriority": 10,
		"ltPriority": 20,
		"orderKey":   "desc_priority",
		"pagesize":   4,
		"page":       1,
	}, conditional.Options{MaxPageSize: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Meta.TotalRecords)
	assert.Equal(t, 2, page.Pagination.PageCount)
	require.Len(t, page.Records, 4)
	assert.Equal(t, "todo 20", page.Records[0]["title"])
	assert.Equal(t, "todo 14", page.Records[3]["title"])

	_, err = conditional.Paginate(context.Background(), m, map[string]any{"rank": 1}, conditional.Options{})
	assert.ErrorIs(t, err, haku.ErrUnknownField)
}
