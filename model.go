package haku

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hakuorm/haku/clause"
	"github.com/hakuorm/haku/schema"
)

// Model runtime wrapper of a declared model value, backing one row
type Model struct {
	db        *DB
	value     schema.Declarer
	schema    *schema.Schema
	bindings  schema.Bindings
	valid     bool
	errors    map[string][]string
	relations map[string]any
}

// Value the wrapped model value
func (m *Model) Value() schema.Declarer {
	return m.value
}

// Schema entity schema of the model
func (m *Model) Schema() *schema.Schema {
	return m.schema
}

// DB the db the model was created with
func (m *Model) DB() *DB {
	return m.db
}

// PrimaryKey current primary key value
func (m *Model) PrimaryKey() any {
	return m.bindings[m.schema.PrimaryKey.Name].Get()
}

// IsPersistent reports whether the primary key is set
func (m *Model) IsPersistent() bool {
	return isKey(m.PrimaryKey())
}

// IsSoftDeleteable reports whether the model declares a deletedAt field
func (m *Model) IsSoftDeleteable() bool {
	return m.schema.SoftDeleteField() != nil
}

// IsValid result of the last Validate call
func (m *Model) IsValid() bool {
	return m.valid
}

// Errors field errors of the last Validate call
func (m *Model) Errors() map[string][]string {
	return m.errors
}

// Get in-memory value of a field, by field or column name
func (m *Model) Get(name string) (any, bool) {
	field := m.schema.LookUpField(name)
	if field == nil {
		return nil, false
	}
	return m.bindings[field.Name].Get(), true
}

// Set assign a field, by field or column name
func (m *Model) Set(name string, value any) error {
	field := m.schema.LookUpField(name)
	if field == nil {
		return &schema.EntityError{Model: m.schema.Name, Field: name, Err: ErrUnknownField}
	}
	return m.bindings[field.Name].Set(value)
}

// Fill assign writable fields from record, unknown keys are ignored
func (m *Model) Fill(record schema.Record) error {
	for _, key := range record.Keys() {
		field := m.schema.LookUpField(key)
		if field == nil || field.ReadOnly || !field.Stored() {
			continue
		}
		binding := m.bindings[field.Name]
		if !binding.CanSet() {
			continue
		}
		if err := binding.Set(record[key]); err != nil {
			return err
		}
	}
	m.valid = false
	return nil
}

// hydrate assign a storage row, read-only fields included
func (m *Model) hydrate(row schema.Record) error {
	for key, value := range row {
		field := m.schema.LookUpField(key)
		if field == nil {
			continue
		}
		if binding := m.bindings[field.Name]; binding.CanSet() {
			if err := binding.Set(value); err != nil {
				return &schema.EntityError{Model: m.schema.Name, Field: field.Name, Err: err}
			}
		}
	}
	return nil
}

// Record in-memory values of every field, keyed by field name
func (m *Model) Record() schema.Record {
	record := make(schema.Record, len(m.schema.Fields))
	for _, field := range m.schema.Fields {
		record[field.Name] = m.bindings[field.Name].Get()
	}
	return record
}

// JSON serialized projection: primary key, ruled, included, timestamp and aggregate fields
// plus loaded relations, minus omitted fields
func (m *Model) JSON() schema.Record {
	record := schema.Record{}
	for _, field := range m.schema.Fields {
		if field.Omitted {
			continue
		}
		if field.PrimaryKey || !field.Rules.Empty() || field.Included || field.Timestamp || field.Aggregate != "" {
			record[field.Name] = m.bindings[field.Name].Get()
		}
	}

	for _, rel := range m.schema.Relations {
		loaded, ok := m.relations[rel.Name]
		if !ok {
			continue
		}
		switch v := loaded.(type) {
		case *Model:
			record[rel.Name] = v.JSON()
		case []*Model:
			records := make([]schema.Record, 0, len(v))
			for _, related := range v {
				records = append(records, related.JSON())
			}
			record[rel.Name] = records
		default:
			record[rel.Name] = nil
		}
	}
	return record
}

// MarshalJSON implements json.Marshaler
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.JSON())
}

// Validate run the rules of every field, on update rules once persistent;
// returns the failing fields and sets IsValid
func (m *Model) Validate() map[string][]string {
	var (
		record = m.Record()
		update = m.IsPersistent()
		errs   = map[string][]string{}
	)

	for _, field := range m.schema.Fields {
		rules := field.Rules.For(update)
		if len(rules) == 0 {
			continue
		}
		if result := m.db.Validator.ValidateAll(rules, field.Name, record); !result.Success {
			errs[field.Name] = result.Errors
		}
	}

	m.valid = len(errs) == 0
	m.errors = errs
	return errs
}

// Related loaded relation: a *Model, nil when nothing was found, or []*Model
func (m *Model) Related(name string) (any, bool) {
	v, ok := m.relations[name]
	return v, ok
}

func (m *Model) String() string {
	return m.schema.Name + "#" + fmt.Sprint(m.PrimaryKey())
}

func (m *Model) fresh() (*Model, error) {
	value, err := m.db.Registry.New(m.schema.Name)
	if err != nil {
		return nil, m.error("new", ErrNotRegistered)
	}
	return m.db.Model(value)
}

func (m *Model) error(op string, err error) error {
	return &ModelError{Model: m.schema.Name, Op: op, Err: err}
}

func (m *Model) primaryKeyCondition(pk any) []clause.Condition {
	return []clause.Condition{clause.Is(m.schema.PrimaryKey.Name, pk)}
}

// scope prepend `deletedAt IS NULL` for soft deleteable models, the caller
// conditions grouped so an OR among them stays inside the scope
func (m *Model) scope(where []clause.Condition, includeDeleted bool) []clause.Condition {
	if includeDeleted || !m.IsSoftDeleteable() {
		return where
	}
	scoped := []clause.Condition{clause.IsNull(schema.SoftDeleteFieldName)}
	if len(where) > 0 {
		scoped = append(scoped, clause.Group(where...))
	}
	return scoped
}

// isKey reports whether v is a set key: positive number or non-empty string
func isKey(v any) bool {
	switch k := v.(type) {
	case nil:
		return false
	case int:
		return k > 0
	case int32:
		return k > 0
	case int64:
		return k > 0
	case uint:
		return k > 0
	case uint32:
		return k > 0
	case uint64:
		return k > 0
	case float64:
		return k > 0
	case string:
		return k != ""
	case []byte:
		return len(k) > 0
	}
	return true
}

func sameKey(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %T to int64", v)
}
