package schema

import (
	"fmt"
	"sort"
)

// Record storage or in-memory row keyed by column or field name
type Record map[string]any

// Keys sorted keys of the record
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Schema entity schema of a declared model
type Schema struct {
	Name           string
	Table          string
	PrimaryKey     *Field
	Fields         []*Field
	FieldsByName   map[string]*Field
	FieldsByDBName map[string]*Field
	Rules          map[string]RuleSet
	Aggregates     map[string]string
	Relationships  map[string]*Relationship
	Relations      []*Relationship
	Search         *Search
}

func (schema *Schema) String() string {
	return schema.Name + "(" + schema.Table + ")"
}

// LookUpField find field by column or field name
func (schema *Schema) LookUpField(name string) *Field {
	if field, ok := schema.FieldsByDBName[name]; ok {
		return field
	}
	if field, ok := schema.FieldsByName[name]; ok {
		return field
	}
	return nil
}

// SoftDeleteField the `deletedAt` field, nil when the model is not soft deleteable
func (schema *Schema) SoftDeleteField() *Field {
	return schema.FieldsByName[SoftDeleteFieldName]
}

// Selects select list: plain columns by field name, computed fields as `expr AS column`
func (schema *Schema) Selects() []string {
	selects := make([]string, 0, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Aggregate != "" {
			selects = append(selects, field.Aggregate+" AS "+field.DBName)
		} else {
			selects = append(selects, field.Name)
		}
	}
	return selects
}

// FieldNames names of fields matching fn, in declaration order
func (schema *Schema) FieldNames(fn func(*Field) bool) []string {
	var names []string
	for _, field := range schema.Fields {
		if fn(field) {
			names = append(names, field.Name)
		}
	}
	return names
}

const (
	SoftDeleteFieldName = "deletedAt"
	CreatedAtFieldName  = "createdAt"
	UpdatedAtFieldName  = "updatedAt"
)

// Bindings field registry of a model instance
type Bindings map[string]*Binding

// Parse run the model's declarations and build its entity schema and field registry
func Parse(dest Declarer, namer Namer) (*Schema, Bindings, error) {
	if namer == nil {
		namer = NamingStrategy{}
	}

	d := &Declaration{}
	dest.Declare(d)

	model := d.name
	if model == "" {
		model = fmt.Sprintf("%T", dest)
	}
	if d.table == "" {
		return nil, nil, &EntityError{Model: model, Err: ErrMissingTable}
	}

	schema := &Schema{
		Name:           model,
		Table:          d.table,
		FieldsByName:   map[string]*Field{},
		FieldsByDBName: map[string]*Field{},
		Rules:          map[string]RuleSet{},
		Aggregates:     map[string]string{},
		Relationships:  map[string]*Relationship{},
	}
	bindings := Bindings{}

	for _, decl := range d.fields {
		field, binding, err := schema.parseField(decl, namer)
		if err != nil {
			return nil, nil, &EntityError{Model: model, Field: decl.name, Err: err}
		}
		if _, ok := schema.FieldsByName[field.Name]; ok {
			return nil, nil, &EntityError{Model: model, Field: field.Name, Err: ErrDuplicateField}
		}
		if _, ok := schema.FieldsByDBName[field.DBName]; ok {
			return nil, nil, &EntityError{Model: model, Field: field.Name, Err: ErrDuplicateField}
		}

		if field.PrimaryKey {
			if schema.PrimaryKey != nil {
				return nil, nil, &EntityError{Model: model, Field: field.Name, Err: ErrMultiplePrimaryKeys}
			}
			schema.PrimaryKey = field
		}

		schema.Fields = append(schema.Fields, field)
		schema.FieldsByName[field.Name] = field
		schema.FieldsByDBName[field.DBName] = field
		if !field.Rules.Empty() {
			schema.Rules[field.Name] = field.Rules
		}
		if field.Aggregate != "" {
			schema.Aggregates[field.Name] = field.Aggregate
		}
		bindings[field.Name] = binding
	}

	if schema.PrimaryKey == nil {
		return nil, nil, &EntityError{Model: model, Err: ErrMissingPrimaryKey}
	}

	for _, decl := range d.relations {
		rel := &Relationship{Name: decl.name, Type: decl.typ, Target: decl.target, ForeignKey: decl.foreignKey}
		if rel.Name == "" {
			rel.Name = namer.RelationName(rel.Type, rel.Target)
		}
		if rel.ForeignKey == "" {
			if rel.OwnsForeignKey() {
				rel.ForeignKey = namer.ForeignKeyName(rel.Target)
			} else {
				rel.ForeignKey = namer.ForeignKeyName(model)
			}
		}

		if _, ok := schema.Relationships[rel.Name]; ok {
			return nil, nil, &EntityError{Model: model, Field: rel.Name, Err: ErrDuplicateField}
		}
		if _, ok := schema.FieldsByName[rel.Name]; ok && rel.ForeignKey != rel.Name {
			return nil, nil, &EntityError{Model: model, Field: rel.Name, Err: ErrRelationColumnConflict}
		}
		if rel.OwnsForeignKey() && schema.LookUpField(rel.ForeignKey) == nil {
			return nil, nil, &EntityError{Model: model, Field: rel.ForeignKey, Err: ErrMissingForeignKey}
		}

		schema.Relationships[rel.Name] = rel
		schema.Relations = append(schema.Relations, rel)
	}

	if s := d.search; s != nil {
		search := &Search{Table: s.table, CoupleKey: s.coupleKey, Columns: s.columns}
		if search.Table == "" {
			search.Table = namer.SearchTableName(schema.Table)
		}
		if search.CoupleKey == "" {
			search.CoupleKey = namer.ForeignKeyName(model)
		}
		schema.Search = search
	}

	return schema, bindings, nil
}

func (schema *Schema) parseField(decl *FieldDeclaration, namer Namer) (*Field, *Binding, error) {
	field := &Field{
		Name:             decl.name,
		DBName:           namer.ColumnName(decl.name),
		Kind:             decl.kind,
		PrimaryKey:       decl.primaryKey,
		ReadOnly:         decl.readOnly,
		Nullable:         decl.nullable,
		ColumnType:       decl.columnType,
		Timestamp:        decl.timestamp,
		TimestampDefault: decl.timestampDefault,
		Unfiltered:       decl.unfiltered,
		Omitted:          decl.omitted,
		Included:         decl.included,
		Aggregate:        decl.aggregate,
		Spatial:          decl.spatial,
	}

	var binding *Binding
	if decl.ptr != nil {
		b, nullable, err := bind(decl.name, decl.ptr)
		if err != nil {
			return nil, nil, err
		}
		binding = b
		if field.Kind == Unknown {
			field.Kind = b.Kind
		}
		field.Nullable = field.Nullable || nullable
	} else {
		if decl.get == nil || decl.set == nil {
			return nil, nil, ErrMissingSetter
		}
		binding = &Binding{Name: decl.name, Kind: field.Kind, get: decl.get, set: decl.set}
	}
	binding.Kind = field.Kind
	binding.mutate = decl.mutate

	if field.PrimaryKey && !field.ReadOnly {
		return nil, nil, ErrPrimaryKeyNotReadOnly
	}

	onCreate, err := ParseRules(decl.rules)
	if err != nil {
		return nil, nil, err
	}
	onUpdate := onCreate
	if decl.hasUpdateRules {
		if onUpdate, err = ParseRules(decl.updateRules); err != nil {
			return nil, nil, err
		}
	}
	field.Rules = RuleSet{OnCreate: onCreate, OnUpdate: onUpdate}

	if field.Spatial {
		field.Included = true
		field.Kind = Geometry
		binding.Kind = Geometry
		field.Aggregate = "ST_AsText(" + schema.Table + "." + field.DBName + ")"
	}
	return field, binding, nil
}
