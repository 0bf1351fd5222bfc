package clause

import "strings"

// Order ordering on a field
type Order struct {
	Field string
	Desc  bool
}

func Asc(field string) Order  { return Order{Field: field} }
func Desc(field string) Order { return Order{Field: field, Desc: true} }

// OrderBy build orderings without the ORDER BY keyword
func OrderBy(table string, orders []Order) string {
	columns := make([]string, 0, len(orders))
	for _, order := range orders {
		if order.Desc {
			columns = append(columns, Column(table, order.Field)+" DESC")
		} else {
			columns = append(columns, Column(table, order.Field)+" ASC")
		}
	}
	return strings.Join(columns, ", ")
}
