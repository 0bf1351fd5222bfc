package schema_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/schema"
)

type Todo struct {
	ID          int64
	Title       string
	Description *string
	Completed   bool
	UserID      int64
	Location    schema.Point
	Distance    float64
	Secret      string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}

func (t *Todo) Declare(d *schema.Declaration) {
	d.Entity("Todo", "todos")
	d.Field("id", &t.ID).PrimaryKey().ReadOnly()
	d.Field("title", &t.Title).Rules("required", "len:3..64").UpdateRules("len:3..64")
	d.Field("description", &t.Description).Include()
	d.Field("completed", &t.Completed).Rules("boolean")
	d.Field("userId", &t.UserID).Rules("required", "ValidatesOwner")
	d.Field("location", &t.Location).Spatial()
	d.Field("distance", &t.Distance).Aggregate("ST_Distance_Sphere(todos.location, POINT(0, 0))")
	d.Field("secret", &t.Secret).Omit()
	d.Field("createdAt", &t.CreatedAt).TimestampDefault()
	d.Field("updatedAt", &t.UpdatedAt).Timestamp()
	d.Field("deletedAt", &t.DeletedAt).Timestamp().Unfiltered()
	d.BelongsTo("", "User")
	d.HasMany("", "Comment")
	d.Searchable("", "title", "description")
}

type declareFunc func(d *schema.Declaration)

func (fn declareFunc) Declare(d *schema.Declaration) { fn(d) }

func TestParseTodo(t *testing.T) {
	s, bindings, err := schema.Parse(&Todo{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Todo", s.Name)
	assert.Equal(t, "todos", s.Table)
	assert.Equal(t, "id", s.PrimaryKey.Name)
	assert.Equal(t, schema.BigInt, s.PrimaryKey.Kind)
	assert.Len(t, s.Fields, 11)
	assert.Len(t, bindings, 11)

	title := s.LookUpField("title")
	require.NotNil(t, title)
	assert.Equal(t, schema.String, title.Kind)
	assert.Equal(t, []string{"required", "len:3..64"}, ruleNames(title.Rules.OnCreate))
	assert.Equal(t, []string{"len:3..64"}, ruleNames(title.Rules.OnUpdate))

	completed := s.Rules["completed"]
	assert.Equal(t, completed.OnCreate, completed.OnUpdate)

	owner, ok := s.Rules["userId"].Lookup("ValidatesOwner")
	require.True(t, ok)
	assert.True(t, owner.Custom)

	description := s.FieldsByDBName["description"]
	assert.True(t, description.Nullable)
	assert.True(t, description.Included)

	user := s.LookUpField("user_id")
	require.NotNil(t, user)
	assert.Equal(t, "userId", user.Name)

	location := s.FieldsByName["location"]
	assert.True(t, location.Included)
	assert.Equal(t, schema.Geometry, location.Kind)
	assert.Equal(t, "ST_AsText(todos.location)", location.Aggregate)
	assert.True(t, location.Stored())

	distance := s.FieldsByName["distance"]
	assert.False(t, distance.Stored())
	assert.Equal(t, map[string]string{
		"location": "ST_AsText(todos.location)",
		"distance": "ST_Distance_Sphere(todos.location, POINT(0, 0))",
	}, s.Aggregates)

	assert.Equal(t, []string{"secret"}, s.FieldNames(func(f *schema.Field) bool { return f.Omitted }))
	assert.Equal(t, []string{"createdAt", "updatedAt", "deletedAt"}, s.FieldNames(func(f *schema.Field) bool { return f.Timestamp }))
	assert.Equal(t, []string{"deletedAt"}, s.FieldNames(func(f *schema.Field) bool { return f.Timestamp && f.Unfiltered }))
	assert.True(t, s.FieldsByName["createdAt"].TimestampDefault)
	assert.NotNil(t, s.SoftDeleteField())

	assert.Equal(t, []string{
		"id", "title", "description", "completed", "userId",
		"ST_AsText(todos.location) AS location",
		"ST_Distance_Sphere(todos.location, POINT(0, 0)) AS distance",
		"secret", "createdAt", "updatedAt", "deletedAt",
	}, s.Selects())

	require.Len(t, s.Relations, 2)
	assert.Equal(t, &schema.Relationship{Name: "user", Type: schema.BelongsTo, Target: "User", ForeignKey: "userId"}, s.Relationships["user"])
	assert.Equal(t, &schema.Relationship{Name: "comments", Type: schema.HasMany, Target: "Comment", ForeignKey: "todoId"}, s.Relationships["comments"])
	assert.Equal(t, "todo_id", s.Relationships["comments"].ForeignKeyDBName())

	assert.Equal(t, &schema.Search{Table: "todos_search", CoupleKey: "todoId", Columns: []string{"title", "description"}}, s.Search)
}

func TestParseErrors(t *testing.T) {
	var id int64
	var name string

	tests := []struct {
		name    string
		declare declareFunc
		field   string
		err     error
	}{
		{
			name:    "missing table",
			declare: func(d *schema.Declaration) { d.Field("id", &id).PrimaryKey().ReadOnly() },
			err:     schema.ErrMissingTable,
		},
		{
			name:    "missing primary key",
			declare: func(d *schema.Declaration) { d.Entity("A", "as"); d.Field("name", &name) },
			err:     schema.ErrMissingPrimaryKey,
		},
		{
			name: "primary key not read only",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey()
			},
			field: "id",
			err:   schema.ErrPrimaryKeyNotReadOnly,
		},
		{
			name: "multiple primary keys",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Field("name", &name).PrimaryKey().ReadOnly()
			},
			field: "name",
			err:   schema.ErrMultiplePrimaryKeys,
		},
		{
			name: "accessor without setter",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Accessor("secret", func() any { return name })
			},
			field: "secret",
			err:   schema.ErrMissingSetter,
		},
		{
			name: "duplicate field",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Field("name", &name)
				d.Field("name", &name)
			},
			field: "name",
			err:   schema.ErrDuplicateField,
		},
		{
			name: "relation named like a column",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Field("owner", &name)
				d.HasOne("owner", "User")
			},
			field: "owner",
			err:   schema.ErrRelationColumnConflict,
		},
		{
			name: "belongs to without foreign key field",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.BelongsTo("", "User")
			},
			field: "userId",
			err:   schema.ErrMissingForeignKey,
		},
		{
			name: "invalid rule",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Field("name", &name).Rules("len:abc")
			},
			field: "name",
			err:   schema.ErrInvalidRule,
		},
		{
			name: "unsupported type",
			declare: func(d *schema.Declaration) {
				d.Entity("A", "as")
				d.Field("id", &id).PrimaryKey().ReadOnly()
				d.Field("name", &struct{}{})
			},
			field: "name",
			err:   schema.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := schema.Parse(tt.declare, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)

			var entityErr *schema.EntityError
			require.True(t, errors.As(err, &entityErr))
			assert.Equal(t, tt.field, entityErr.Field)
		})
	}
}

func TestRelationOwnForeignKey(t *testing.T) {
	var id, ownerID int64
	s, _, err := schema.Parse(declareFunc(func(d *schema.Declaration) {
		d.Entity("Pet", "pets")
		d.Field("id", &id).PrimaryKey().ReadOnly()
		d.Field("owner", &ownerID)
		d.BelongsTo("owner", "User").ForeignKey("owner")
	}), nil)
	require.NoError(t, err)
	assert.Equal(t, "owner", s.Relationships["owner"].ForeignKey)
}

func TestRelationDefaultForeignKey(t *testing.T) {
	var id, companyID int64
	s, _, err := schema.Parse(declareFunc(func(d *schema.Declaration) {
		d.Entity("User", "users")
		d.Field("id", &id).PrimaryKey().ReadOnly()
		d.Field("companyId", &companyID)
		d.BelongsTo("", "Company")
		d.HasOne("", "Account")
		d.HasMany("", "Pet")
	}), nil)
	require.NoError(t, err)
	assert.Equal(t, "companyId", s.Relationships["company"].ForeignKey)
	assert.Equal(t, "userId", s.Relationships["account"].ForeignKey)
	assert.Equal(t, "userId", s.Relationships["pets"].ForeignKey)
}

func TestAccessorField(t *testing.T) {
	var (
		id       int64
		password = "hash"
	)
	s, bindings, err := schema.Parse(declareFunc(func(d *schema.Declaration) {
		d.Entity("User", "users")
		d.Field("id", &id).PrimaryKey().ReadOnly()
		d.Accessor("password", func() any { return password }).
			Setter(func(v any) error { password = v.(string); return nil }).
			Kind(schema.String).
			Omit()
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, schema.String, s.FieldsByName["password"].Kind)
	b := bindings["password"]
	assert.Equal(t, "hash", b.Get())
	require.NoError(t, b.Set("other"))
	assert.Equal(t, "other", password)
}

func TestBindingConversions(t *testing.T) {
	todo := &Todo{}
	_, bindings, err := schema.Parse(todo, nil)
	require.NoError(t, err)

	require.NoError(t, bindings["id"].Set([]byte("42")))
	assert.Equal(t, int64(42), todo.ID)

	require.NoError(t, bindings["completed"].Set(int64(1)))
	assert.True(t, todo.Completed)

	require.NoError(t, bindings["title"].Set([]byte("Write specs")))
	assert.Equal(t, "Write specs", todo.Title)

	require.NoError(t, bindings["description"].Set("details"))
	require.NotNil(t, todo.Description)
	assert.Equal(t, "details", *todo.Description)
	require.NoError(t, bindings["description"].Set(nil))
	assert.Nil(t, todo.Description)
	assert.Nil(t, bindings["description"].Get())

	require.NoError(t, bindings["createdAt"].Set("2024-01-02 03:04:05"))
	require.NotNil(t, todo.CreatedAt)
	assert.Equal(t, 2024, todo.CreatedAt.Year())
	assert.Equal(t, time.Month(1), todo.CreatedAt.Month())
	assert.Equal(t, 5, todo.CreatedAt.Second())

	require.NoError(t, bindings["location"].Set("POINT(2.35 48.85)"))
	assert.Equal(t, schema.Point{Lat: 48.85, Lng: 2.35}, todo.Location)

	require.NoError(t, bindings["distance"].Set([]byte("12.5")))
	assert.Equal(t, 12.5, todo.Distance)

	assert.Error(t, bindings["id"].Set("abc"))
	assert.Error(t, bindings["location"].Set("LINESTRING(0 0, 1 1)"))
}

func TestBindingValue(t *testing.T) {
	var (
		id   int64
		tags []string
		pos  schema.Point
	)
	_, bindings, err := schema.Parse(declareFunc(func(d *schema.Declaration) {
		d.Entity("Place", "places")
		d.Field("id", &id).PrimaryKey().ReadOnly()
		d.Field("tags", &tags)
		d.Field("position", &pos).Mutate(func(v any) any {
			p := v.(schema.Point)
			p.Lat = 0
			return p
		})
	}), nil)
	require.NoError(t, err)

	value, err := bindings["tags"].Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, bindings["tags"].Set(`["a","b"]`))
	assert.Equal(t, []string{"a", "b"}, tags)
	value, err = bindings["tags"].Value()
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, value)

	pos = schema.Point{Lat: 1, Lng: 2}
	value, err = bindings["position"].Value()
	require.NoError(t, err)
	assert.Equal(t, pos, value)
	assert.Equal(t, schema.Point{Lng: 2}, bindings["position"].Mutate(value))
	assert.Equal(t, "POINT(2 1)", pos.String())
	assert.Equal(t, "ST_GeomFromText(:position)", pos.Placeholder("position"))
}

func TestRegistry(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(func() schema.Declarer { return &Todo{} }))

	s, err := registry.Schema("Todo")
	require.NoError(t, err)
	assert.Equal(t, "todos", s.Table)

	again, err := registry.Schema("Todo")
	require.NoError(t, err)
	assert.Same(t, s, again)

	v, err := registry.New("Todo")
	require.NoError(t, err)
	assert.IsType(t, &Todo{}, v)
	assert.Equal(t, []string{"Todo"}, registry.Names())

	_, err = registry.Resolve(s, s.Relationships["user"])
	assert.ErrorIs(t, err, schema.ErrUnknownModel)
	var entityErr *schema.EntityError
	require.ErrorAs(t, err, &entityErr)
	assert.Equal(t, "Todo", entityErr.Model)
	assert.Equal(t, "user", entityErr.Field)

	_, err = registry.New("Ghost")
	assert.ErrorIs(t, err, schema.ErrUnknownModel)
}

func ruleNames(rules []schema.Rule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.String())
	}
	return names
}
