package clause

import (
	"fmt"
	"strings"

	"github.com/hakuorm/haku/schema"
)

// Operator comparison operator of a condition
type Operator string

const (
	Eq      Operator = "="
	Neq     Operator = "!="
	Gt      Operator = ">"
	Gte     Operator = ">="
	Lt      Operator = "<"
	Lte     Operator = "<="
	Like    Operator = "LIKE"
	NotLike Operator = "NOT LIKE"
	In      Operator = "IN"
	NotIn   Operator = "NOT IN"
)

// Glue boolean connective placed before a condition
type Glue string

const (
	AndGlue Glue = "AND"
	OrGlue  Glue = "OR"
)

// Condition where condition; raw conditions carry a sql fragment with `?` placeholders
type Condition struct {
	Field    string
	Value    any
	Operator Operator
	Glue     Glue
	IsRaw    bool
	Raw      string
	Args     []any
	Group    []Condition
}

// Is field = value, IS NULL when value is nil
func Is(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Eq, Glue: AndGlue}
}

// Not field != value, IS NOT NULL when value is nil
func Not(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Neq, Glue: AndGlue}
}

func IsNull(field string) Condition  { return Is(field, nil) }
func NotNull(field string) Condition { return Not(field, nil) }

func Greater(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Gt, Glue: AndGlue}
}

func GreaterOrEqual(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Gte, Glue: AndGlue}
}

func Less(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Lt, Glue: AndGlue}
}

func LessOrEqual(field string, value any) Condition {
	return Condition{Field: field, Value: value, Operator: Lte, Glue: AndGlue}
}

func Contains(field string, pattern string) Condition {
	return Condition{Field: field, Value: pattern, Operator: Like, Glue: AndGlue}
}

func NotContains(field string, pattern string) Condition {
	return Condition{Field: field, Value: pattern, Operator: NotLike, Glue: AndGlue}
}

func AnyOf(field string, values ...any) Condition {
	return Condition{Field: field, Value: values, Operator: In, Glue: AndGlue}
}

func NoneOf(field string, values ...any) Condition {
	return Condition{Field: field, Value: values, Operator: NotIn, Glue: AndGlue}
}

// Raw pre-formatted fragment, `?` placeholders are bound left to right
func Raw(sql string, args ...any) Condition {
	return Condition{IsRaw: true, Raw: sql, Args: args, Glue: AndGlue}
}

// Match full-text boolean mode match over columns
func Match(columns []string, query string) Condition {
	return Raw("MATCH("+strings.Join(columns, ", ")+") AGAINST(? IN BOOLEAN MODE)", query)
}

// Group nest conds in parentheses; an empty group is always true
func Group(conds ...Condition) Condition {
	return Condition{Group: conds, Glue: AndGlue}
}

// Or join the condition with OR
func Or(cond Condition) Condition {
	cond.Glue = OrGlue
	return cond
}

// And join the condition with AND
func And(cond Condition) Condition {
	cond.Glue = AndGlue
	return cond
}

// Where build the conditions of table; an empty slice gives an empty clause
func Where(table string, conds []Condition) (Statement, error) {
	w := NewWriter()
	if err := BuildWhere(w, table, conds); err != nil {
		return Statement{}, err
	}
	return w.Statement(), nil
}

// BuildWhere write conditions without the WHERE keyword
func BuildWhere(w *Writer, table string, conds []Condition) error {
	for i, cond := range conds {
		if i > 0 {
			glue := cond.Glue
			if glue == "" {
				glue = AndGlue
			}
			w.WriteString(" " + string(glue) + " ")
		}

		if cond.Group != nil {
			if len(cond.Group) == 0 {
				w.WriteString("1 = 1")
				continue
			}
			w.WriteByte('(')
			if err := BuildWhere(w, table, cond.Group); err != nil {
				return err
			}
			w.WriteByte(')')
			continue
		}

		if cond.IsRaw {
			err := Bind(cond.Raw, cond.Args, func(j int) string {
				return ParamName("var", table, "raw", itoa(i), itoa(j))
			}, w)
			if err != nil {
				return fmt.Errorf("condition %d %q: %w", i, cond.Raw, err)
			}
			continue
		}

		column := Column(table, cond.Field)
		param := ParamName("var", table, schema.ToDBName(cond.Field), itoa(i))
		op := cond.Operator
		if op == "" {
			op = Eq
		}

		switch {
		case cond.Value == nil && (op == Neq || op == NotIn || op == NotLike):
			w.WriteString(column + " IS NOT NULL")
		case cond.Value == nil:
			w.WriteString(column + " IS NULL")
		case op == In || op == NotIn:
			values, ok := cond.Value.([]any)
			if !ok {
				values = []any{cond.Value}
			}
			if len(values) == 0 {
				if op == In {
					w.WriteString("1 = 0")
				} else {
					w.WriteString("1 = 1")
				}
				continue
			}
			w.WriteString(column + " " + string(op) + " (")
			for j, value := range values {
				if j > 0 {
					w.WriteString(", ")
				}
				w.WriteString(w.AddVar(param+"_"+itoa(j), value))
			}
			w.WriteByte(')')
		default:
			w.WriteString(column + " " + string(op) + " " + w.AddVar(param, cond.Value))
		}
	}
	return nil
}
