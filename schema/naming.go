package schema

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Namer namer interface
type Namer interface {
	ColumnName(field string) string
	RelationshipFKName(table, column string) string
	UniqueName(table, column string) string
	SearchTableName(table string) string
	RelationName(kind RelationshipType, target string) string
	ForeignKeyName(model string) string
}

// NamingStrategy tables, columns naming strategy
type NamingStrategy struct {
	SearchTableSuffix string
}

// ColumnName convert field name to column name
func (ns NamingStrategy) ColumnName(field string) string {
	return ToDBName(field)
}

// RelationshipFKName generate fk name for relation
func (ns NamingStrategy) RelationshipFKName(table, column string) string {
	return fmt.Sprintf("fk_%s_%s", table, ToDBName(column))
}

// UniqueName generate unique key name
func (ns NamingStrategy) UniqueName(table, column string) string {
	return fmt.Sprintf("uq_%s_%s", table, ToDBName(column))
}

// SearchTableName name of the side table holding full-text columns
func (ns NamingStrategy) SearchTableName(table string) string {
	if ns.SearchTableSuffix == "" {
		return table + "_search"
	}
	return table + ns.SearchTableSuffix
}

// RelationName default name of a relation declared without one
func (ns NamingStrategy) RelationName(kind RelationshipType, target string) string {
	if kind == HasMany {
		return ToCamel(inflection.Plural(ToDBName(target)))
	}
	return ToCamel(target)
}

// ForeignKeyName default foreign key field pointing at model
func (ns NamingStrategy) ForeignKeyName(model string) string {
	return ToCamel(model) + "Id"
}

var (
	dbNames    sync.Map
	camelNames sync.Map
)

// ToDBName convert camelCase name to snake_case
func ToDBName(name string) string {
	if name == "" {
		return ""
	} else if v, ok := dbNames.Load(name); ok {
		return v.(string)
	}

	var (
		buf  strings.Builder
		prev rune
	)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && prev != '_' {
				buf.WriteByte('_')
			}
			buf.WriteRune(unicode.ToLower(r))
		} else {
			buf.WriteRune(r)
		}
		prev = r
	}

	result := buf.String()
	dbNames.Store(name, result)
	return result
}

// ToCamel convert snake_case name to lowerCamel
func ToCamel(name string) string {
	if name == "" {
		return ""
	} else if v, ok := camelNames.Load(name); ok {
		return v.(string)
	}

	var (
		value = []rune(ToDBName(name))
		buf   strings.Builder
		upper bool
	)
	for i, r := range value {
		if r == '_' && i > 0 && value[i-1] != '_' && i+1 < len(value) && capitalizable(value[i+1]) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		buf.WriteRune(r)
	}

	result := buf.String()
	camelNames.Store(name, result)
	return result
}

func capitalizable(r rune) bool {
	return unicode.IsLower(r) && unicode.ToLower(unicode.ToUpper(r)) == r && unicode.ToUpper(r) != r
}

// ToStudly convert name to StudlyCase, e.g. create_todos_table -> CreateTodosTable
func ToStudly(name string) string {
	var (
		buf    strings.Builder
		titler = cases.Title(language.Und)
	)
	for _, word := range strings.Split(ToDBName(name), "_") {
		buf.WriteString(titler.String(word))
	}
	return buf.String()
}

// MarshalRecord convert storage record keys (snake_case) to field names (camelCase)
func MarshalRecord(record Record) Record {
	if record == nil {
		return nil
	}
	result := make(Record, len(record))
	for k, v := range record {
		result[ToCamel(k)] = v
	}
	return result
}

// UnmarshalRecord convert field names (camelCase) to storage keys (snake_case)
func UnmarshalRecord(record Record) Record {
	if record == nil {
		return nil
	}
	result := make(Record, len(record))
	for k, v := range record {
		result[ToDBName(k)] = v
	}
	return result
}
