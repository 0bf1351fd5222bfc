package conditional

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hakuorm/haku"
	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// keys starting with SkipPrefix are ignored
const SkipPrefix = "#"

const (
	pageKey     = "page"
	pageSizeKey = "page_size"
	orderKey    = "order_key"
	descKey     = "desc"
)

var timeType = reflect.TypeOf(time.Time{})

// BaseCondition paging and ordering part of a filter struct
type BaseCondition struct {
	Page     *int    `json:"page" form:"page"`
	Pagesize *int    `json:"pagesize" form:"pagesize"`
	OrderKey *string `json:"orderKey" form:"orderKey"`
	Desc     *bool   `json:"desc" form:"desc"`
}

// Options parse options
type Options struct {
	// MaxPageSize caps the page size, zero leaves it to the model default
	MaxPageSize int
	// IncludeEmptyString keep empty string values as conditions
	IncludeEmptyString bool
}

// Query conditions and window parsed from a filter
type Query struct {
	Where   []clause.Condition
	OrderBy []clause.Order
	Page    int
	Limit   int
}

// PageOptions query as paginate options
func (q Query) PageOptions() haku.PageOptions {
	return haku.PageOptions{Where: q.Where, OrderBy: q.OrderBy, Page: q.Page, Limit: q.Limit}
}

// FindOptions query as find options, the page becomes an offset
func (q Query) FindOptions() haku.FindOptions {
	opts := haku.FindOptions{Where: q.Where, OrderBy: q.OrderBy, Limit: q.Limit}
	if q.Page > 1 && q.Limit > 0 {
		opts.Offset = (q.Page - 1) * q.Limit
	}
	return opts
}

type parser struct {
	schema *schema.Schema
	opts   Options
	query  Query
	order  string
	desc   bool
}

// Parse build a query of s from a key/value filter.
//
// Keys are field names, camelCase or snake_case, optionally prefixed by an operator:
// neq_, gt_ (>=), lt_ (<=), in_, nin_, like_, nlike_ and eq_. The keys page, pagesize,
// orderKey and desc select the window; an orderKey value may be prefixed by asc_ or desc_.
func Parse(s *schema.Schema, search map[string]any, opts Options) (Query, error) {
	p := &parser{schema: s, opts: opts}
	keys := make([]string, 0, len(search))
	for key := range search {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if err := p.where(key, search[key]); err != nil {
			return Query{}, err
		}
	}
	return p.finish()
}

// ParseStruct build a query of s from the exported fields of a filter struct, nil pointers are skipped
func ParseStruct(s *schema.Schema, search any, opts Options) (Query, error) {
	p := &parser{schema: s, opts: opts}
	if search != nil {
		if err := p.deepWhere("", reflect.ValueOf(search)); err != nil {
			return Query{}, err
		}
	}
	return p.finish()
}

// Paginate parse search against the schema of m and fetch the page
func Paginate(ctx context.Context, m *haku.Model, search map[string]any, opts Options) (*haku.Page, error) {
	q, err := Parse(m.Schema(), search, opts)
	if err != nil {
		return nil, err
	}
	return m.Paginate(ctx, q.PageOptions())
}

func (p *parser) finish() (Query, error) {
	if p.order != "" {
		field, err := p.field(p.order)
		if err != nil {
			return Query{}, err
		}
		p.query.OrderBy = append(p.query.OrderBy, clause.Order{Field: field, Desc: p.desc})
	}
	if limit := p.opts.MaxPageSize; limit > 0 && (p.query.Limit <= 0 || p.query.Limit > limit) {
		p.query.Limit = limit
	}
	return p.query, nil
}

func (p *parser) deepWhere(key string, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return p.deepWhere(key, v.Elem())
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		return p.where(key, v.Interface())
	case reflect.Struct:
		if v.Type() == timeType {
			return p.where(key, v.Interface())
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := p.deepWhere(t.Field(i).Name, v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("conditional: unsupported filter map %s", v.Type())
		}
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
		for _, k := range keys {
			if err := p.deepWhere(k.String(), v.MapIndex(k)); err != nil {
				return err
			}
		}
	default:
		return p.where(key, v.Interface())
	}
	return nil
}

func (p *parser) where(key string, val any) error {
	if key == "" || strings.HasPrefix(key, SkipPrefix) {
		return nil
	}
	if s, ok := val.(string); ok && s == "" && !p.opts.IncludeEmptyString {
		return nil
	}

	switch key = schema.ToDBName(key); key {
	case pageKey:
		page, err := toInt(key, val)
		p.query.Page = page
		return err
	case "pagesize", pageSizeKey:
		limit, err := toInt(key, val)
		p.query.Limit = limit
		return err
	case orderKey:
		order, ok := val.(string)
		if !ok {
			return fmt.Errorf("conditional: %s must be a string, got %T", key, val)
		}
		order = schema.ToDBName(order)
		if name, ok := strings.CutPrefix(order, "desc_"); ok {
			p.order, p.desc = name, true
		} else {
			p.order = strings.TrimPrefix(order, "asc_")
		}
		return nil
	case descKey:
		desc, ok := val.(bool)
		if !ok {
			return fmt.Errorf("conditional: %s must be a bool, got %T", key, val)
		}
		p.desc = p.desc || desc
		return nil
	}

	cond, err := p.condition(key, val)
	if err != nil {
		return err
	}
	p.query.Where = append(p.query.Where, cond)
	return nil
}

func (p *parser) condition(key string, val any) (clause.Condition, error) {
	op, name := clause.Eq, key
	for _, prefix := range []struct {
		value string
		op    clause.Operator
	}{
		{"neq_", clause.Neq},
		{"nin_", clause.NotIn},
		{"nlike_", clause.NotLike},
		{"like_", clause.Like},
		{"gt_", clause.Gte},
		{"lt_", clause.Lte},
		{"in_", clause.In},
		{"eq_", clause.Eq},
	} {
		if rest, ok := strings.CutPrefix(key, prefix.value); ok && p.schema.LookUpField(rest) != nil {
			op, name = prefix.op, rest
			break
		}
	}

	field, err := p.field(name)
	if err != nil {
		return clause.Condition{}, err
	}
	if op == clause.In || op == clause.NotIn {
		val = toSlice(val)
	}
	return clause.Condition{Field: field, Value: val, Operator: op, Glue: clause.AndGlue}, nil
}

// field declared field name of a column or field name
func (p *parser) field(name string) (string, error) {
	field := p.schema.LookUpField(name)
	if field == nil {
		field = p.schema.LookUpField(schema.ToCamel(name))
	}
	if field == nil || !field.Stored() {
		return "", &haku.ModelError{Model: p.schema.Name, Op: "filter " + name, Err: haku.ErrUnknownField}
	}
	return field.Name, nil
}

func toSlice(val any) []any {
	v := reflect.ValueOf(val)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return []any{val}
	}
	values := make([]any, v.Len())
	for i := range values {
		values[i] = v.Index(i).Interface()
	}
	return values
}

func toInt(key string, val any) (int, error) {
	v := reflect.ValueOf(val)
	switch {
	case v.CanInt():
		return int(v.Int()), nil
	case v.CanUint():
		return int(v.Uint()), nil
	case v.CanFloat():
		return int(v.Float()), nil
	case v.Kind() == reflect.String:
		i, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("conditional: %s: %w", key, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("conditional: %s must be a number, got %T", key, val)
}
