package migrator

import (
	"database/sql"
	"strings"
)

// ColumnType column definition derived from a model field
type ColumnType struct {
	NameValue          string
	DataTypeValue      string
	ColumnTypeValue    sql.NullString
	PrimaryKeyValue    bool
	AutoIncrementValue bool
	UniqueValue        bool
	LengthValue        sql.NullInt64
	NullableValue      bool
	DefaultValueValue  sql.NullString
}

// Name returns the name of the column.
func (ct ColumnType) Name() string {
	return ct.NameValue
}

// DatabaseTypeName returns the data type without nullability, e.g. `INT UNSIGNED`
func (ct ColumnType) DatabaseTypeName() string {
	return ct.DataTypeValue
}

// ColumnType returns the declared column definition override.
func (ct ColumnType) ColumnType() (columnType string, ok bool) {
	return ct.ColumnTypeValue.String, ct.ColumnTypeValue.Valid
}

// PrimaryKey returns the column is primary key or not.
func (ct ColumnType) PrimaryKey() bool {
	return ct.PrimaryKeyValue
}

// AutoIncrement returns the column is auto increment or not.
func (ct ColumnType) AutoIncrement() bool {
	return ct.AutoIncrementValue
}

// Length returns the column type length for variable length column types
func (ct ColumnType) Length() (length int64, ok bool) {
	return ct.LengthValue.Int64, ct.LengthValue.Valid
}

// Nullable reports whether the column may be null.
func (ct ColumnType) Nullable() bool {
	return ct.NullableValue
}

// Unique reports whether the column is unique.
func (ct ColumnType) Unique() bool {
	return ct.UniqueValue
}

// DefaultValue returns the default value of current column.
func (ct ColumnType) DefaultValue() (value string, ok bool) {
	return ct.DefaultValueValue.String, ct.DefaultValueValue.Valid
}

// Definition column definition of a CREATE TABLE statement
func (ct ColumnType) Definition() string {
	if override, ok := ct.ColumnType(); ok {
		return ct.NameValue + " " + override
	}

	parts := []string{ct.NameValue, ct.DataTypeValue}
	switch {
	case !ct.NullableValue:
		parts = append(parts, "NOT NULL")
	case ct.DataTypeValue == "TIMESTAMP":
		// MySQL TIMESTAMP columns are NOT NULL unless NULL is explicit
		parts = append(parts, "NULL")
	}
	if def, ok := ct.DefaultValue(); ok {
		parts = append(parts, "DEFAULT "+def)
	}
	if ct.AutoIncrementValue {
		parts = append(parts, "AUTO_INCREMENT")
	}
	return strings.Join(parts, " ")
}
