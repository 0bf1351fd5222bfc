package migrator

import (
	"database/sql"
	"strconv"

	"github.com/hakuorm/haku/schema"
)

const (
	DefaultEngine  = "InnoDB"
	DefaultCharset = "utf8mb4"
	cascade        = "CASCADE"
)

// SchemaGenerator CREATE and DROP TABLE statements from entity schemas
type SchemaGenerator struct {
	Engine  string
	Charset string
	Namer   schema.Namer
}

func (g SchemaGenerator) namer() schema.Namer {
	if g.Namer == nil {
		return schema.NamingStrategy{}
	}
	return g.Namer
}

// Table table definition of s
func (g SchemaGenerator) Table(s *schema.Schema) TableType {
	tt := TableType{NameValue: s.Table}
	if g.Engine != "" {
		tt.EngineValue = sql.NullString{String: g.Engine, Valid: true}
	}
	if g.Charset != "" {
		tt.CharsetValue = sql.NullString{String: g.Charset, Valid: true}
	}

	for _, field := range s.Fields {
		if !field.Stored() {
			continue
		}
		tt.Columns = append(tt.Columns, g.Column(field))
		if field.PrimaryKey {
			tt.PrimaryKeys = append(tt.PrimaryKeys, field.DBName)
		}
	}
	return tt
}

// Column column definition of field
func (g SchemaGenerator) Column(field *schema.Field) ColumnType {
	ct := ColumnType{NameValue: field.DBName, PrimaryKeyValue: field.PrimaryKey}

	switch {
	case field.ColumnType != "":
		ct.ColumnTypeValue = sql.NullString{String: field.ColumnType, Valid: true}
	case field.PrimaryKey && field.Kind.Integer():
		ct.DataTypeValue = "INT UNSIGNED"
		if field.Kind == schema.BigInt || field.Kind == schema.BigUint {
			ct.DataTypeValue = "BIGINT UNSIGNED"
		}
		ct.AutoIncrementValue = true
	case field.TimestampDefault:
		ct.DataTypeValue = "TIMESTAMP"
		ct.DefaultValueValue = sql.NullString{String: "CURRENT_TIMESTAMP", Valid: true}
	case field.Timestamp:
		ct.DataTypeValue = "TIMESTAMP"
		ct.NullableValue = true
		ct.DefaultValueValue = sql.NullString{String: "NULL", Valid: true}
	default:
		ct.DataTypeValue = DataType(field.Kind)
		if field.Nullable && !field.PrimaryKey {
			ct.NullableValue = true
			ct.DefaultValueValue = sql.NullString{String: "NULL", Valid: true}
		}
	}
	return ct
}

// CreateTable `CREATE TABLE` statement of s
func (g SchemaGenerator) CreateTable(s *schema.Schema) string {
	return g.Table(s).CreateSQL()
}

// DropTable `DROP TABLE` statement of s
func (g SchemaGenerator) DropTable(s *schema.Schema) string {
	return g.Table(s).DropSQL()
}

// DataType MySQL data type of a field kind
func DataType(kind schema.Kind) string {
	switch kind {
	case schema.Int:
		return "INT"
	case schema.BigInt:
		return "BIGINT"
	case schema.Uint:
		return "INT UNSIGNED"
	case schema.BigUint:
		return "BIGINT UNSIGNED"
	case schema.Float:
		return "DOUBLE"
	case schema.Bool:
		return "TINYINT(1)"
	case schema.String:
		return "VARCHAR(255)"
	case schema.Time:
		return "DATETIME"
	case schema.Geometry:
		return "POINT"
	case schema.Binary:
		return "BLOB"
	case schema.JSON:
		return "JSON"
	}
	return "TEXT"
}

// MigrationGenerator schema generator also resolving validation rule constraints and foreign keys
type MigrationGenerator struct {
	SchemaGenerator
	Registry *schema.Registry
}

// NewMigrationGenerator generator with InnoDB and utf8mb4 defaults
func NewMigrationGenerator(registry *schema.Registry) MigrationGenerator {
	return MigrationGenerator{
		SchemaGenerator: SchemaGenerator{Engine: DefaultEngine, Charset: DefaultCharset, Namer: registry.Namer()},
		Registry:        registry,
	}
}

// Table table definition of s: `len` bounds become VARCHAR lengths, `unique` rules unique keys
// and BelongsTo relations cascading foreign keys
func (g MigrationGenerator) Table(s *schema.Schema) (TableType, error) {
	tt := g.SchemaGenerator.Table(s)
	namer := g.namer()

	for idx, column := range tt.Columns {
		field := s.FieldsByDBName[column.NameValue]
		if _, overridden := column.ColumnType(); overridden || field.PrimaryKey {
			continue
		}

		if rule, ok := field.Rules.Lookup("len"); ok && field.Kind == schema.String && rule.Length != nil {
			if size := varcharSize(rule.Length); size > 0 {
				column.DataTypeValue = "VARCHAR(" + strconv.Itoa(size) + ")"
				column.LengthValue = sql.NullInt64{Int64: int64(size), Valid: true}
			}
		}
		if _, ok := field.Rules.Lookup("unique"); ok {
			column.UniqueValue = true
			tt.Indexes = append(tt.Indexes, Index{
				TableName:   s.Table,
				NameValue:   namer.UniqueName(s.Table, field.Name),
				ColumnList:  []string{column.NameValue},
				UniqueValue: true,
			})
		}
		tt.Columns[idx] = column
	}

	for _, rel := range s.Relations {
		if rel.Type != schema.BelongsTo {
			continue
		}

		target, err := g.Registry.Resolve(s, rel)
		if err != nil {
			return TableType{}, err
		}

		fk := rel.ForeignKeyDBName()
		if field := s.LookUpField(rel.ForeignKey); field != nil {
			fk = field.DBName
		}
		tt.Constraints = append(tt.Constraints, Constraint{
			NameValue:       namer.RelationshipFKName(s.Table, fk),
			Column:          fk,
			ReferenceTable:  target.Table,
			ReferenceColumn: target.PrimaryKey.DBName,
			OnDelete:        cascade,
			OnUpdate:        cascade,
		})

		// referencing columns share the type of the referenced key
		for idx, column := range tt.Columns {
			if column.NameValue != fk {
				continue
			}
			if _, overridden := column.ColumnType(); overridden {
				break
			}
			referenced := g.SchemaGenerator.Column(target.PrimaryKey)
			if _, ok := referenced.ColumnType(); !ok {
				column.DataTypeValue = referenced.DataTypeValue
			}
			tt.Columns[idx] = column
		}
	}
	return tt, nil
}

// CreateTable `CREATE TABLE` statement of s with its keys and constraints
func (g MigrationGenerator) CreateTable(s *schema.Schema) (string, error) {
	tt, err := g.Table(s)
	if err != nil {
		return "", err
	}
	return tt.CreateSQL(), nil
}

// Generate table migration of a declared model
func (g MigrationGenerator) Generate(model schema.Declarer) (*TableMigration, error) {
	s, _, err := schema.Parse(model, g.namer())
	if err != nil {
		return nil, err
	}

	tt, err := g.Table(s)
	if err != nil {
		return nil, err
	}
	migration := &TableMigration{
		name: schema.ToStudly("create_" + s.Table + "_table"),
		up:   []string{tt.CreateSQL()},
		down: []string{tt.DropSQL()},
	}
	if search, ok := g.SearchTable(s); ok {
		migration.up = append(migration.up, search.CreateSQL())
		migration.down = append([]string{search.DropSQL()}, migration.down...)
	}
	return migration, nil
}

// SearchTable full text side table of a searchable schema, keyed by the couple key
// and removed along with its owner row
func (g MigrationGenerator) SearchTable(s *schema.Schema) (TableType, bool) {
	if s.Search == nil || s.PrimaryKey == nil {
		return TableType{}, false
	}

	namer := g.namer()
	search := s.Search
	tt := g.SchemaGenerator.Table(&schema.Schema{Table: search.Table})

	key := g.SchemaGenerator.Column(s.PrimaryKey)
	key.NameValue = namer.ColumnName(search.CoupleKey)
	key.AutoIncrementValue = false
	tt.Columns = append(tt.Columns, key)
	tt.PrimaryKeys = []string{key.NameValue}

	columns := make([]string, 0, len(search.Columns))
	for _, name := range search.Columns {
		column := ColumnType{
			NameValue:         namer.ColumnName(name),
			DataTypeValue:     "TEXT",
			NullableValue:     true,
			DefaultValueValue: sql.NullString{String: "NULL", Valid: true},
		}
		tt.Columns = append(tt.Columns, column)
		columns = append(columns, column.NameValue)
	}

	tt.Indexes = append(tt.Indexes, Index{
		TableName:  search.Table,
		NameValue:  "ft_" + search.Table,
		ColumnList: columns,
		ClassValue: "FULLTEXT",
	})
	tt.Constraints = append(tt.Constraints, Constraint{
		NameValue:       namer.RelationshipFKName(search.Table, key.NameValue),
		Column:          key.NameValue,
		ReferenceTable:  s.Table,
		ReferenceColumn: s.PrimaryKey.DBName,
		OnDelete:        cascade,
		OnUpdate:        cascade,
	})
	return tt, true
}

func varcharSize(length *schema.LengthRange) int {
	if length.Max != nil {
		return *length.Max
	}
	return 0
}
