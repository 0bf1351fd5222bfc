package builder

import (
	"strings"

	"github.com/hakuorm/haku/clause"
)

// DefaultLimit page size when none is requested
const DefaultLimit = 25

// Join joined table of a select
type Join struct {
	Type  string
	Table string
	On    string
}

func (join Join) String() string {
	typ := join.Type
	if typ == "" {
		typ = "JOIN"
	}
	return typ + " " + join.Table + " ON " + join.On
}

// Find select statements of a table
type Find struct {
	Table string
	Joins []Join
}

// All `SELECT <fields> FROM <table> [JOIN] [WHERE] [ORDER BY] LIMIT <offset>,<limit>`
func (f Find) All(fields []string, where []clause.Condition, orders []clause.Order, limit, offset int) (clause.Statement, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	w := clause.NewWriter()
	w.WriteString("SELECT ")
	if len(fields) == 0 {
		w.WriteString(f.Table + ".*")
	} else {
		w.WriteString(Fields(f.Table, fields))
	}

	if err := f.from(w, where); err != nil {
		return clause.Statement{}, err
	}
	if len(orders) > 0 {
		w.WriteString(" ORDER BY " + clause.OrderBy(f.Table, orders))
	}
	w.WriteString(" LIMIT " + itoa(offset) + "," + itoa(limit))
	return w.Statement(), nil
}

// One first matching row
func (f Find) One(fields []string, where []clause.Condition, orders []clause.Order) (clause.Statement, error) {
	return f.All(fields, where, orders, 1, 0)
}

// Count `SELECT COUNT(<field or *>) FROM <table> [WHERE]`
func (f Find) Count(field string, where []clause.Condition) (clause.Statement, error) {
	column := "*"
	if field != "" && field != "*" {
		column = clause.Column(f.Table, field)
	}

	w := clause.NewWriter()
	w.WriteString("SELECT COUNT(" + column + ")")
	if err := f.from(w, where); err != nil {
		return clause.Statement{}, err
	}
	return w.Statement(), nil
}

func (f Find) from(w *clause.Writer, where []clause.Condition) error {
	w.WriteString(" FROM " + f.Table)
	for _, join := range f.Joins {
		w.WriteString(" " + join.String())
	}
	return writeWhere(w, f.Table, where)
}

func writeWhere(w *clause.Writer, table string, where []clause.Condition) error {
	if len(where) == 0 {
		return nil
	}
	w.WriteString(" WHERE ")
	return clause.BuildWhere(w, table, where)
}

// Fields normalized select list of table
func Fields(table string, fields []string) string {
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, clause.Column(table, field))
	}
	return strings.Join(columns, ", ")
}
