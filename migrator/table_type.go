package migrator

import (
	"database/sql"
	"strings"
)

// TableType table definition derived from an entity schema
type TableType struct {
	NameValue    string
	EngineValue  sql.NullString
	CharsetValue sql.NullString
	Columns      []ColumnType
	PrimaryKeys  []string
	Indexes      []Index
	Constraints  []Constraint
}

// Name returns the name of the table.
func (tt TableType) Name() string {
	return tt.NameValue
}

// Engine returns the engine of current table.
func (tt TableType) Engine() (engine string, ok bool) {
	return tt.EngineValue.String, tt.EngineValue.Valid
}

// Charset returns the default charset of current table.
func (tt TableType) Charset() (charset string, ok bool) {
	return tt.CharsetValue.String, tt.CharsetValue.Valid
}

// ColumnType column by name
func (tt TableType) ColumnType(name string) (ColumnType, bool) {
	for _, column := range tt.Columns {
		if column.NameValue == name {
			return column, true
		}
	}
	return ColumnType{}, false
}

// CreateSQL `CREATE TABLE IF NOT EXISTS` statement
func (tt TableType) CreateSQL() string {
	definitions := make([]string, 0, len(tt.Columns)+len(tt.Indexes)+len(tt.Constraints)+1)
	for _, column := range tt.Columns {
		definitions = append(definitions, column.Definition())
	}
	if len(tt.PrimaryKeys) > 0 {
		definitions = append(definitions, "PRIMARY KEY ("+strings.Join(tt.PrimaryKeys, ", ")+")")
	}
	for _, idx := range tt.Indexes {
		definitions = append(definitions, idx.Definition())
	}
	for _, constraint := range tt.Constraints {
		definitions = append(definitions, constraint.Definition())
	}

	var buf strings.Builder
	buf.WriteString("CREATE TABLE IF NOT EXISTS " + tt.NameValue + " (\n  ")
	buf.WriteString(strings.Join(definitions, ",\n  "))
	buf.WriteString("\n)")
	if engine, ok := tt.Engine(); ok {
		buf.WriteString(" ENGINE=" + engine)
	}
	if charset, ok := tt.Charset(); ok {
		buf.WriteString(" DEFAULT CHARSET=" + charset)
	}
	buf.WriteString(";")
	return buf.String()
}

// DropSQL `DROP TABLE IF EXISTS` statement
func (tt TableType) DropSQL() string {
	return "DROP TABLE IF EXISTS " + tt.NameValue + ";"
}
