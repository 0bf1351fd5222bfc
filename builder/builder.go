package builder

import (
	"errors"
	"fmt"

	"github.com/hakuorm/haku/clause"
)

var (
	// ErrPlaceholderMismatch number of `?` placeholders differs from the number of arguments
	ErrPlaceholderMismatch = clause.ErrPlaceholderMismatch
	// ErrMissingTable select built without FROM
	ErrMissingTable = errors.New("missing table")
)

type fragment struct {
	glue string
	sql  string
	args []any
}

// Builder fluent select builder for ad hoc queries; `?` placeholders become `:param_<n>`
type Builder struct {
	selects []string
	from    string
	joins   []fragment
	wheres  []fragment
	groupBy []string
	having  []fragment
	orderBy []string
	limit   int
	offset  int
}

// Select start a builder selecting columns, `*` when none
func Select(columns ...string) *Builder {
	return &Builder{selects: columns}
}

func (b *Builder) Select(columns ...string) *Builder {
	b.selects = append(b.selects, columns...)
	return b
}

func (b *Builder) From(table string) *Builder {
	b.from = table
	return b
}

func (b *Builder) Join(table, on string, args ...any) *Builder {
	return b.join("JOIN", table, on, args)
}

func (b *Builder) LeftJoin(table, on string, args ...any) *Builder {
	return b.join("LEFT JOIN", table, on, args)
}

func (b *Builder) RightJoin(table, on string, args ...any) *Builder {
	return b.join("RIGHT JOIN", table, on, args)
}

func (b *Builder) join(typ, table, on string, args []any) *Builder {
	b.joins = append(b.joins, fragment{glue: typ + " " + table + " ON ", sql: on, args: args})
	return b
}

func (b *Builder) Where(sql string, args ...any) *Builder {
	b.wheres = append(b.wheres, fragment{glue: "AND", sql: sql, args: args})
	return b
}

func (b *Builder) OrWhere(sql string, args ...any) *Builder {
	b.wheres = append(b.wheres, fragment{glue: "OR", sql: sql, args: args})
	return b
}

func (b *Builder) GroupBy(columns ...string) *Builder {
	b.groupBy = append(b.groupBy, columns...)
	return b
}

func (b *Builder) Having(sql string, args ...any) *Builder {
	b.having = append(b.having, fragment{glue: "AND", sql: sql, args: args})
	return b
}

// OrderBy raw ordering expressions, e.g. `created_at DESC`
func (b *Builder) OrderBy(exprs ...string) *Builder {
	b.orderBy = append(b.orderBy, exprs...)
	return b
}

func (b *Builder) Limit(limit int) *Builder {
	b.limit = limit
	return b
}

func (b *Builder) Offset(offset int) *Builder {
	b.offset = offset
	return b
}

// Build assemble the statement
func (b *Builder) Build() (clause.Statement, error) {
	if b.from == "" {
		return clause.Statement{}, ErrMissingTable
	}

	var (
		w     = clause.NewWriter()
		n     int
		param = func(int) string {
			name := "param_" + itoa(n)
			n++
			return name
		}
		bind = func(f fragment) error {
			if err := clause.Bind(f.sql, f.args, param, w); err != nil {
				return fmt.Errorf("%q: %w", f.sql, err)
			}
			return nil
		}
	)

	w.WriteString("SELECT ")
	if len(b.selects) == 0 {
		w.WriteString("*")
	}
	for idx, column := range b.selects {
		if idx > 0 {
			w.WriteString(", ")
		}
		w.WriteString(column)
	}
	w.WriteString(" FROM " + b.from)

	for _, join := range b.joins {
		w.WriteString(" " + join.glue)
		if err := bind(join); err != nil {
			return clause.Statement{}, err
		}
	}

	for idx, where := range b.wheres {
		if idx == 0 {
			w.WriteString(" WHERE ")
		} else {
			w.WriteString(" " + where.glue + " ")
		}
		if err := bind(where); err != nil {
			return clause.Statement{}, err
		}
	}

	for idx, column := range b.groupBy {
		if idx == 0 {
			w.WriteString(" GROUP BY ")
		} else {
			w.WriteString(", ")
		}
		w.WriteString(column)
	}

	for idx, having := range b.having {
		if idx == 0 {
			w.WriteString(" HAVING ")
		} else {
			w.WriteString(" AND ")
		}
		if err := bind(having); err != nil {
			return clause.Statement{}, err
		}
	}

	for idx, order := range b.orderBy {
		if idx == 0 {
			w.WriteString(" ORDER BY ")
		} else {
			w.WriteString(", ")
		}
		w.WriteString(order)
	}

	if b.limit > 0 {
		w.WriteString(" LIMIT ")
		if b.offset > 0 {
			w.WriteString(itoa(b.offset) + ",")
		}
		w.WriteString(itoa(b.limit))
	}
	return w.Statement(), nil
}
