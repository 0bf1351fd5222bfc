package migrator

import "strings"

// Index key of a generated table
type Index struct {
	TableName   string
	NameValue   string
	ColumnList  []string
	UniqueValue bool
	// ClassValue FULLTEXT or SPATIAL, empty for plain keys
	ClassValue string
}

// Table return the table name of the index.
func (idx Index) Table() string {
	return idx.TableName
}

// Name return the name of the index.
func (idx Index) Name() string {
	return idx.NameValue
}

// Columns return the columns of the index
func (idx Index) Columns() []string {
	return idx.ColumnList
}

// Unique returns whether the index is unique or not.
func (idx Index) Unique() bool {
	return idx.UniqueValue
}

// Class returns the index class, FULLTEXT or SPATIAL
func (idx Index) Class() string {
	return idx.ClassValue
}

// Definition index definition of a CREATE TABLE statement
func (idx Index) Definition() string {
	keyword := "KEY"
	switch {
	case idx.UniqueValue:
		keyword = "UNIQUE KEY"
	case idx.ClassValue != "":
		keyword = idx.ClassValue + " KEY"
	}
	return keyword + " " + idx.NameValue + " (" + strings.Join(idx.ColumnList, ", ") + ")"
}

// Constraint foreign key of a generated table
type Constraint struct {
	NameValue       string
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string
	OnUpdate        string
}

// Name return the name of the constraint.
func (c Constraint) Name() string {
	return c.NameValue
}

// Definition constraint definition of a CREATE TABLE statement
func (c Constraint) Definition() string {
	sql := "CONSTRAINT " + c.NameValue + " FOREIGN KEY (" + c.Column + ") REFERENCES " + c.ReferenceTable + "(" + c.ReferenceColumn + ")"
	if c.OnDelete != "" {
		sql += " ON DELETE " + c.OnDelete
	}
	if c.OnUpdate != "" {
		sql += " ON UPDATE " + c.OnUpdate
	}
	return sql
}
