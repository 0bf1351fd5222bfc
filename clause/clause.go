package clause

import (
	"errors"
	"strconv"
	"strings"

	"github.com/hakuorm/haku/schema"
)

// ErrPlaceholderMismatch number of `?` placeholders differs from the number of arguments
var ErrPlaceholderMismatch = errors.New("placeholder count does not match arguments")

// Statement sql text with named parameters
type Statement struct {
	SQL    string
	Params map[string]any
}

func (stmt Statement) String() string {
	return stmt.SQL
}

// Writer accumulates sql text and its named parameters
type Writer struct {
	strings.Builder
	Params map[string]any
}

// NewWriter create writer
func NewWriter() *Writer {
	return &Writer{Params: map[string]any{}}
}

// AddVar bind value under name, returns its placeholder; a name already bound
// gets the first free `_<n>` suffix
func (w *Writer) AddVar(name string, value any) string {
	base := name
	for n := 1; w.bound(name); n++ {
		name = base + "_" + itoa(n)
	}
	w.Params[name] = value
	return ":" + name
}

func (w *Writer) bound(name string) bool {
	_, ok := w.Params[name]
	return ok
}

// Statement snapshot of the writer
func (w *Writer) Statement() Statement {
	return Statement{SQL: w.String(), Params: w.Params}
}

// Column normalize field to `table.column`; expressions are returned as is
func Column(table, field string) string {
	if IsExpression(field) || table == "" {
		return field
	}
	return table + "." + schema.ToDBName(field)
}

// IsExpression reports whether field is raw sql rather than a field name
func IsExpression(field string) bool {
	return field == "" || strings.ContainsAny(field, ".(* ")
}

// ParamName parameter-safe identifier built from parts
func ParamName(parts ...string) string {
	var buf strings.Builder
	for idx, part := range parts {
		if idx > 0 {
			buf.WriteByte('_')
		}
		for _, r := range part {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				buf.WriteRune(r)
			} else {
				buf.WriteByte('_')
			}
		}
	}
	return buf.String()
}

// Bind replace each `?` outside quoted literals with a named parameter from name(j)
func Bind(sql string, args []any, name func(j int) string, w *Writer) error {
	var (
		quote byte
		j     int
	)
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			if j >= len(args) {
				return ErrPlaceholderMismatch
			}
			w.WriteString(w.AddVar(name(j), args[j]))
			j++
			continue
		}
		w.WriteByte(c)
	}
	if j != len(args) {
		return ErrPlaceholderMismatch
	}
	return nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
