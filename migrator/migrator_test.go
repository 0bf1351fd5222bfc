package migrator_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/migrator"
	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/utils/tests"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func newRegistry(t *testing.T) *schema.Registry {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(tests.Factories()...))
	return registry
}

func TestMigrationGeneratorCreateTable(t *testing.T) {
	registry := newRegistry(t)
	generator := migrator.NewMigrationGenerator(registry)
	g := newGolden(t)

	for _, table := range []struct {
		model string
		name  string
	}{
		{"Todo", "todos"},
		{"User", "users"},
		{"Pet", "pets"},
	} {
		t.Run(table.name, func(t *testing.T) {
			s, err := registry.Schema(table.model)
			require.NoError(t, err)

			sql, err := generator.CreateTable(s)
			require.NoError(t, err)
			g.Assert(t, table.name, []byte(sql+"\n"))
		})
	}
}

func TestSchemaGeneratorSpatial(t *testing.T) {
	s, _, err := schema.Parse(&tests.Place{}, nil)
	require.NoError(t, err)

	generator := migrator.SchemaGenerator{Engine: migrator.DefaultEngine}
	newGolden(t).Assert(t, "places", []byte(generator.CreateTable(s)+"\n"))
	assert.Equal(t, "DROP TABLE IF EXISTS places;", generator.DropTable(s))
}

func TestSchemaGeneratorColumns(t *testing.T) {
	s, _, err := schema.Parse(&tests.Todo{}, nil)
	require.NoError(t, err)

	tt := migrator.SchemaGenerator{}.Table(s)
	assert.Equal(t, "todos", tt.Name())
	assert.Equal(t, []string{"id"}, tt.PrimaryKeys)

	_, ok := tt.Engine()
	assert.False(t, ok)

	title, ok := tt.ColumnType("title")
	require.True(t, ok)
	assert.Equal(t, "title VARCHAR(255) NOT NULL", title.Definition(), "rules are ignored without migration generator")

	id, ok := tt.ColumnType("id")
	require.True(t, ok)
	assert.True(t, id.PrimaryKey())
	assert.True(t, id.AutoIncrement())

	deletedAt, ok := tt.ColumnType("deleted_at")
	require.True(t, ok)
	assert.True(t, deletedAt.Nullable())
	def, ok := deletedAt.DefaultValue()
	assert.True(t, ok)
	assert.Equal(t, "NULL", def)
}

type override struct {
	Code string
	Note *string
	Raw  []byte
}

func (o *override) Declare(d *schema.Declaration) {
	d.Entity("Override", "overrides")
	d.Field("code", &o.Code).PrimaryKey().ReadOnly().ColumnType("CHAR(8) NOT NULL")
	d.Field("note", &o.Note).Rules("len:10")
	d.Field("raw", &o.Raw)
}

func TestSchemaGeneratorOverrides(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(func() schema.Declarer { return &override{} }))
	s, err := registry.Schema("Override")
	require.NoError(t, err)

	tt, err := migrator.NewMigrationGenerator(registry).Table(s)
	require.NoError(t, err)

	code, _ := tt.ColumnType("code")
	assert.Equal(t, "code CHAR(8) NOT NULL", code.Definition())

	note, _ := tt.ColumnType("note")
	assert.Equal(t, "note VARCHAR(10) DEFAULT NULL", note.Definition())
	length, ok := note.Length()
	assert.True(t, ok)
	assert.Equal(t, int64(10), length)

	raw, _ := tt.ColumnType("raw")
	assert.Equal(t, "raw BLOB NOT NULL", raw.Definition())
}

func TestMigrationGeneratorUnknownTarget(t *testing.T) {
	registry := schema.NewRegistry(nil)
	require.NoError(t, registry.Register(func() schema.Declarer { return &tests.Pet{} }))

	s, err := registry.Schema("Pet")
	require.NoError(t, err)

	_, err = migrator.NewMigrationGenerator(registry).CreateTable(s)
	var entityErr *schema.EntityError
	require.ErrorAs(t, err, &entityErr)
	assert.ErrorIs(t, err, schema.ErrUnknownModel)
	assert.Equal(t, "owner", entityErr.Field)
}

func TestGenerate(t *testing.T) {
	migration, err := migrator.NewMigrationGenerator(newRegistry(t)).Generate(&tests.Pet{})
	require.NoError(t, err)

	assert.Equal(t, "CreatePetsTable", migration.Name())
	assert.Contains(t, migration.UpSQL(), "FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE")
	assert.Contains(t, migration.UpSQL(), "CREATE TABLE IF NOT EXISTS pets_search (")
	assert.Equal(t, "DROP TABLE IF EXISTS pets_search;\nDROP TABLE IF EXISTS pets;", migration.DownSQL())

	migration, err = migrator.NewMigrationGenerator(newRegistry(t)).Generate(&tests.Todo{})
	require.NoError(t, err)
	assert.Equal(t, "CreateTodosTable", migration.Name())
	assert.Equal(t, "DROP TABLE IF EXISTS todos;", migration.DownSQL())
}

func TestSearchTable(t *testing.T) {
	registry := newRegistry(t)
	generator := migrator.NewMigrationGenerator(registry)

	pets, err := registry.Schema("Pet")
	require.NoError(t, err)
	tt, ok := generator.SearchTable(pets)
	require.True(t, ok)
	newGolden(t).Assert(t, "pets_search", []byte(tt.CreateSQL()+"\n"))
	assert.Equal(t, "FULLTEXT", tt.Indexes[0].Class())

	todos, err := registry.Schema("Todo")
	require.NoError(t, err)
	_, ok = generator.SearchTable(todos)
	assert.False(t, ok)
}

func TestDataType(t *testing.T) {
	for kind, expected := range map[schema.Kind]string{
		schema.Int:      "INT",
		schema.BigInt:   "BIGINT",
		schema.Uint:     "INT UNSIGNED",
		schema.BigUint:  "BIGINT UNSIGNED",
		schema.Float:    "DOUBLE",
		schema.Bool:     "TINYINT(1)",
		schema.String:   "VARCHAR(255)",
		schema.Time:     "DATETIME",
		schema.Geometry: "POINT",
		schema.Binary:   "BLOB",
		schema.JSON:     "JSON",
		schema.Unknown:  "TEXT",
	} {
		assert.Equal(t, expected, migrator.DataType(kind), string(kind))
	}
}
