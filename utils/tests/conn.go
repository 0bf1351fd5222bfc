package tests

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hakuorm/haku/schema"
)

// ErrUnsupportedStatement statement shape the memory connection does not understand
var ErrUnsupportedStatement = errors.New("unsupported statement")

var (
	insertRe = regexp.MustCompile(`^INSERT INTO (\w+) SET (.+)$`)
	updateRe = regexp.MustCompile(`^UPDATE (\w+) SET (.+?)(?: WHERE (.+))?$`)
	deleteRe = regexp.MustCompile(`^DELETE FROM (\w+)(?: WHERE (.+))?$`)
	selectRe = regexp.MustCompile(`^SELECT (.+?) FROM (\w+)((?: (?:LEFT |RIGHT )?JOIN \w+ ON [\w.]+ = [\w.]+)*)(?: WHERE (.+?))?(?: ORDER BY (.+?))?(?: LIMIT (\d+),(\d+))?$`)
	joinRe   = regexp.MustCompile(`(?:LEFT |RIGHT )?JOIN (\w+) ON ([\w.]+) = ([\w.]+)`)
	createRe = regexp.MustCompile(`(?s)^CREATE TABLE (?:IF NOT EXISTS )?(\w+)`)
	dropRe   = regexp.MustCompile(`^DROP TABLE (?:IF EXISTS )?(\w+)`)
	paramRe  = regexp.MustCompile(`:(\w+)`)
	columnRe = regexp.MustCompile(`(\w+)\.(\w+)`)
	matchRe  = regexp.MustCompile(`^MATCH\((.+)\) AGAINST\(:(\w+) IN BOOLEAN MODE\)$`)
	compRe   = regexp.MustCompile(`^([\w.]+) (=|!=|>=|<=|>|<|LIKE|NOT LIKE) :(\w+)$`)
	nullRe   = regexp.MustCompile(`^([\w.]+) IS (NOT )?NULL$`)
	inRe     = regexp.MustCompile(`^([\w.]+) (IN|NOT IN) \((.+)\)$`)
)

// Statement executed statement
type Statement struct {
	SQL    string
	Params map[string]any
}

// Conn in-memory connection interpreting the statements built by the engine
type Conn struct {
	// PrimaryKeys auto increment column per table, `id` when absent
	PrimaryKeys map[string]string
	// FailOn returns an error for statements that should fail
	FailOn func(sql string) error

	mu         sync.Mutex
	tables     map[string][]schema.Record
	sequences  map[string]int64
	lastID     int64
	snapshot   map[string][]schema.Record
	inTx       bool
	statements []Statement
}

// NewConn empty memory connection
func NewConn() *Conn {
	return &Conn{
		PrimaryKeys: map[string]string{},
		tables:      map[string][]schema.Record{},
		sequences:   map[string]int64{},
	}
}

// Statements executed statements, in order
func (c *Conn) Statements() []Statement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Statement(nil), c.statements...)
}

// Rows stored rows of table
func (c *Conn) Rows(table string) []schema.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyRows(c.tables[table])
}

// Seed store rows without running statements, assigning missing primary keys
func (c *Conn) Seed(table string, rows ...schema.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range rows {
		c.store(table, copyRow(row))
	}
}

func (c *Conn) Execute(ctx context.Context, sql string, params map[string]any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(sql, params); err != nil {
		return 0, err
	}

	switch {
	case insertRe.MatchString(sql):
		m := insertRe.FindStringSubmatch(sql)
		row, err := assignments(m[2], params)
		if err != nil {
			return 0, err
		}
		c.lastID = c.store(m[1], row)
		return 1, nil
	case updateRe.MatchString(sql):
		m := updateRe.FindStringSubmatch(sql)
		set, err := assignments(m[2], params)
		if err != nil {
			return 0, err
		}
		var affected int64
		for _, row := range c.tables[m[1]] {
			ok, err := evaluate(m[3], c.qualify(m[1], row, nil), params)
			if err != nil {
				return 0, err
			}
			if ok {
				for k, v := range set {
					row[k] = v
				}
				affected++
			}
		}
		return affected, nil
	case deleteRe.MatchString(sql):
		m := deleteRe.FindStringSubmatch(sql)
		var (
			kept     []schema.Record
			affected int64
		)
		for _, row := range c.tables[m[1]] {
			ok, err := evaluate(m[2], c.qualify(m[1], row, nil), params)
			if err != nil {
				return 0, err
			}
			if ok {
				affected++
			} else {
				kept = append(kept, row)
			}
		}
		c.tables[m[1]] = kept
		return affected, nil
	case createRe.MatchString(sql):
		name := createRe.FindStringSubmatch(sql)[1]
		if _, ok := c.tables[name]; !ok {
			c.tables[name] = nil
		}
		return 0, nil
	case dropRe.MatchString(sql):
		delete(c.tables, dropRe.FindStringSubmatch(sql)[1])
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedStatement, sql)
}

func (c *Conn) Fetch(ctx context.Context, sql string, params map[string]any) (schema.Record, error) {
	rows, err := c.FetchAll(ctx, sql, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (c *Conn) FetchAll(ctx context.Context, sql string, params map[string]any) ([]schema.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(sql, params); err != nil {
		return nil, err
	}
	return c.query(sql, params)
}

func (c *Conn) FetchColumn(ctx context.Context, sql string, params map[string]any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.record(sql, params); err != nil {
		return nil, err
	}

	rows, err := c.query(sql, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	if keys := rows[0].Keys(); len(keys) > 0 {
		return rows[0][keys[0]], nil
	}
	return nil, nil
}

func (c *Conn) LastInsertID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastID, nil
}

func (c *Conn) BeginTransaction(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inTx {
		return errors.New("transaction already started")
	}
	c.snapshot = map[string][]schema.Record{}
	for name, rows := range c.tables {
		c.snapshot[name] = copyRows(rows)
	}
	c.inTx = true
	return nil
}

func (c *Conn) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inTx {
		return errors.New("no transaction")
	}
	c.snapshot, c.inTx = nil, false
	return nil
}

func (c *Conn) RollBack(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inTx {
		return errors.New("no transaction")
	}
	c.tables, c.snapshot, c.inTx = c.snapshot, nil, false
	return nil
}

func (c *Conn) InTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inTx
}

func (c *Conn) record(sql string, params map[string]any) error {
	c.statements = append(c.statements, Statement{SQL: sql, Params: params})
	if c.FailOn != nil {
		return c.FailOn(sql)
	}
	return nil
}

func (c *Conn) store(table string, row schema.Record) int64 {
	pk := c.PrimaryKeys[table]
	if pk == "" {
		pk = "id"
	}
	if id, ok := row[pk].(int64); ok && id > c.sequences[table] {
		c.sequences[table] = id
	} else if row[pk] == nil {
		c.sequences[table]++
		row[pk] = c.sequences[table]
	}
	c.tables[table] = append(c.tables[table], row)
	id, _ := row[pk].(int64)
	return id
}

// qualify key row values by `table.column`, merging the matching row of each join
func (c *Conn) qualify(table string, row schema.Record, joins [][]string) map[string]any {
	values := map[string]any{}
	for k, v := range row {
		values[table+"."+k] = v
	}
	for _, join := range joins {
		joined, left, right := join[1], join[2], join[3]
		if !strings.HasPrefix(left, joined+".") {
			left, right = right, left
		}
		for _, other := range c.tables[joined] {
			if fmt.Sprint(other[strings.TrimPrefix(left, joined+".")]) == fmt.Sprint(values[right]) {
				for k, v := range other {
					values[joined+"."+k] = v
				}
				break
			}
		}
	}
	return values
}

func (c *Conn) query(sql string, params map[string]any) ([]schema.Record, error) {
	m := selectRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStatement, sql)
	}
	selects, table, joins, where, orderBy := m[1], m[2], joinRe.FindAllStringSubmatch(m[3], -1), m[4], m[5]

	var matched []map[string]any
	for _, row := range c.tables[table] {
		values := c.qualify(table, row, joins)
		ok, err := evaluate(where, values, params)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, values)
		}
	}

	if strings.HasPrefix(selects, "COUNT(") {
		return []schema.Record{{"count": int64(len(matched))}}, nil
	}

	if orderBy != "" {
		orders := strings.Split(orderBy, ", ")
		sort.SliceStable(matched, func(i, j int) bool {
			for _, order := range orders {
				column, desc := strings.TrimSuffix(strings.TrimSuffix(order, " ASC"), " DESC"), strings.HasSuffix(order, " DESC")
				cmp, _ := compare(matched[i][column], matched[j][column])
				if cmp != 0 {
					return (cmp < 0) != desc
				}
			}
			return false
		})
	}

	if m[6] != "" {
		offset, _ := strconv.Atoi(m[6])
		limit, _ := strconv.Atoi(m[7])
		if offset > len(matched) {
			offset = len(matched)
		}
		matched = matched[offset:min(offset+limit, len(matched))]
	}

	records := make([]schema.Record, 0, len(matched))
	for _, values := range matched {
		records = append(records, project(selects, table, values))
	}
	return records, nil
}

func project(selects, table string, values map[string]any) schema.Record {
	record := schema.Record{}
	if selects == table+".*" || selects == "*" {
		for k, v := range values {
			if strings.HasPrefix(k, table+".") {
				record[strings.TrimPrefix(k, table+".")] = v
			}
		}
		return record
	}

	for _, item := range splitList(selects) {
		if expr, alias, ok := strings.Cut(item, " AS "); ok {
			record[alias] = nil
			if col := columnRe.FindString(expr); col != "" && strings.HasPrefix(expr, "ST_AsText(") {
				if s, ok := values[col].(fmt.Stringer); ok {
					record[alias] = s.String()
				} else {
					record[alias] = values[col]
				}
			}
			continue
		}
		if _, column, ok := strings.Cut(item, "."); ok {
			record[column] = values[item]
		}
	}
	return record
}

// splitList split a comma separated list outside parentheses
func splitList(list string) []string {
	var (
		items []string
		depth int
		start int
	)
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(items, strings.TrimSpace(list[start:]))
}

func assignments(set string, params map[string]any) (schema.Record, error) {
	row := schema.Record{}
	for _, assignment := range splitList(set) {
		column, expr, ok := strings.Cut(assignment, " = ")
		param := paramRe.FindStringSubmatch(expr)
		if !ok || param == nil {
			return nil, fmt.Errorf("%w: assignment %q", ErrUnsupportedStatement, assignment)
		}
		if _, name, ok := strings.Cut(column, "."); ok {
			column = name
		}
		row[column] = params[param[1]]
	}
	return row, nil
}

// evaluate where clause; AND binds tighter than OR, parentheses group
func evaluate(where string, values map[string]any, params map[string]any) (bool, error) {
	if where == "" {
		return true, nil
	}
	for _, disjunct := range splitTop(where, " OR ") {
		matched := true
		for _, cond := range splitTop(disjunct, " AND ") {
			var (
				ok  bool
				err error
			)
			if inner, grouped := unwrap(cond); grouped {
				ok, err = evaluate(inner, values, params)
			} else {
				ok, err = condition(cond, values, params)
			}
			if err != nil {
				return false, err
			}
			if !ok {
				matched = false
				break
			}
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// splitTop split s on sep outside of parentheses
func splitTop(s, sep string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[start:i])
				start = i + len(sep)
				i += len(sep) - 1
			}
		}
	}
	return append(parts, s[start:])
}

// unwrap strip parentheses enclosing the whole of s
func unwrap(s string) (string, bool) {
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return s, false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(s)-1 {
				return s, false
			}
		}
	}
	return s[1 : len(s)-1], true
}

func condition(cond string, values map[string]any, params map[string]any) (bool, error) {
	switch cond {
	case "1 = 1":
		return true, nil
	case "1 = 0":
		return false, nil
	}

	if m := nullRe.FindStringSubmatch(cond); m != nil {
		return (values[m[1]] == nil) == (m[2] == ""), nil
	}

	if m := inRe.FindStringSubmatch(cond); m != nil {
		found := false
		for _, param := range paramRe.FindAllStringSubmatch(m[3], -1) {
			if cmp, ok := compare(values[m[1]], params[param[1]]); ok && cmp == 0 {
				found = true
				break
			}
		}
		return found == (m[2] == "IN"), nil
	}

	if m := matchRe.FindStringSubmatch(cond); m != nil {
		query, _ := params[m[2]].(string)
		for _, term := range strings.Fields(query) {
			term = strings.ToLower(strings.Trim(term, `+-*~<>()"`))
			for _, column := range strings.Split(m[1], ", ") {
				if text, ok := values[column].(string); ok && term != "" && strings.Contains(strings.ToLower(text), term) {
					return true, nil
				}
			}
		}
		return false, nil
	}

	if m := compRe.FindStringSubmatch(cond); m != nil {
		value, param := values[m[1]], params[m[3]]
		switch m[2] {
		case "LIKE", "NOT LIKE":
			pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(fmt.Sprint(param)), "%", ".*") + "$"
			like, err := regexp.MatchString("(?i)"+pattern, fmt.Sprint(value))
			return err == nil && like == (m[2] == "LIKE"), err
		}

		if value == nil {
			return false, nil
		}
		cmp, ok := compare(value, param)
		if !ok {
			return false, nil
		}
		switch m[2] {
		case "=":
			return cmp == 0, nil
		case "!=":
			return cmp != 0, nil
		case ">":
			return cmp > 0, nil
		case ">=":
			return cmp >= 0, nil
		case "<":
			return cmp < 0, nil
		case "<=":
			return cmp <= 0, nil
		}
	}
	return false, fmt.Errorf("%w: condition %q", ErrUnsupportedStatement, cond)
}

// compare order a and b as numbers, times or strings
func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), true
		}
	}

	fa, errA := strconv.ParseFloat(fmt.Sprint(a), 64)
	fb, errB := strconv.ParseFloat(fmt.Sprint(b), 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	if ba, ok := a.(bool); ok {
		a = map[bool]string{true: "1", false: "0"}[ba]
	}
	if bb, ok := b.(bool); ok {
		b = map[bool]string{true: "1", false: "0"}[bb]
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b)), true
}

func copyRow(row schema.Record) schema.Record {
	result := make(schema.Record, len(row))
	for k, v := range row {
		result[k] = v
	}
	return result
}

func copyRows(rows []schema.Record) []schema.Record {
	if rows == nil {
		return nil
	}
	result := make([]schema.Record, 0, len(rows))
	for _, row := range rows {
		result = append(result, copyRow(row))
	}
	return result
}
