package clause

import (
	"strings"

	"github.com/hakuorm/haku/schema"
)

// Placeholder values controlling the sql wrapping their bound parameter
type Placeholder interface {
	Placeholder(param string) string
}

// Assignment column assignment of a SET clause
type Assignment struct {
	Column string
	Value  any
}

// Set ordered assignments
type Set []Assignment

// SetFromRecord assignments of record in sorted key order
func SetFromRecord(record schema.Record) Set {
	set := make(Set, 0, len(record))
	for _, key := range record.Keys() {
		set = append(set, Assignment{Column: key, Value: record[key]})
	}
	return set
}

// Without assignments whose column is not in columns; nil values too when skipNull
func (set Set) Without(skipNull bool, columns ...string) Set {
	result := make(Set, 0, len(set))
	for _, assignment := range set {
		if skipNull && assignment.Value == nil {
			continue
		}
		excluded := false
		for _, column := range columns {
			if schema.ToDBName(assignment.Column) == schema.ToDBName(column) {
				excluded = true
				break
			}
		}
		if !excluded {
			result = append(result, assignment)
		}
	}
	return result
}

// SetParamName parameter of a SET column; WHERE parameters always start with `var_`
func SetParamName(column string) string {
	name := ParamName(schema.ToDBName(column))
	if strings.HasPrefix(name, "var_") {
		return "set_" + name
	}
	return name
}

// BuildSet write assignments without the SET keyword
func BuildSet(w *Writer, table string, set Set) {
	for idx, assignment := range set {
		if idx > 0 {
			w.WriteString(", ")
		}
		param := SetParamName(assignment.Column)
		w.WriteString(Column(table, assignment.Column) + " = ")
		if p, ok := assignment.Value.(Placeholder); ok {
			w.WriteString(p.Placeholder(strings.TrimPrefix(w.AddVar(param, assignment.Value), ":")))
		} else {
			w.WriteString(w.AddVar(param, assignment.Value))
		}
	}
}
