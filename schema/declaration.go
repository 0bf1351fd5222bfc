package schema

// Declarer models declare their entity, fields and relations explicitly
type Declarer interface {
	Declare(d *Declaration)
}

// Declaration collects a model's declarations in order
type Declaration struct {
	name      string
	table     string
	fields    []*FieldDeclaration
	relations []*RelationDeclaration
	search    *SearchDeclaration
}

// Entity declares the model name and its table
func (d *Declaration) Entity(name, table string) {
	d.name, d.table = name, table
}

// Field declares a field bound to a pointer of the model
func (d *Declaration) Field(name string, ptr any) *FieldDeclaration {
	f := &FieldDeclaration{name: name, ptr: ptr}
	d.fields = append(d.fields, f)
	return f
}

// Accessor declares a restricted field exposed through a getter; a setter must follow
func (d *Declaration) Accessor(name string, get func() any) *FieldDeclaration {
	f := &FieldDeclaration{name: name, get: get}
	d.fields = append(d.fields, f)
	return f
}

// BelongsTo declares a relation whose foreign key lives on this model; empty name uses the default
func (d *Declaration) BelongsTo(name, target string) *RelationDeclaration {
	return d.relation(name, BelongsTo, target)
}

// HasOne declares a single-row relation whose foreign key lives on the target.
// The default foreign key is named after this model ("User" gives "userId"),
// unlike BelongsTo whose default is named after the target.
func (d *Declaration) HasOne(name, target string) *RelationDeclaration {
	return d.relation(name, HasOne, target)
}

// HasMany declares a multi-row relation whose foreign key lives on the target;
// the default foreign key is named after this model, as for HasOne
func (d *Declaration) HasMany(name, target string) *RelationDeclaration {
	return d.relation(name, HasMany, target)
}

func (d *Declaration) relation(name string, typ RelationshipType, target string) *RelationDeclaration {
	r := &RelationDeclaration{name: name, typ: typ, target: target}
	d.relations = append(d.relations, r)
	return r
}

// Searchable declares a full-text side table joined on coupleKey
func (d *Declaration) Searchable(coupleKey string, columns ...string) *SearchDeclaration {
	d.search = &SearchDeclaration{coupleKey: coupleKey, columns: columns}
	return d.search
}

// FieldDeclaration markers of a single field
type FieldDeclaration struct {
	name             string
	ptr              any
	get              func() any
	set              func(any) error
	kind             Kind
	primaryKey       bool
	readOnly         bool
	nullable         bool
	columnType       string
	timestamp        bool
	timestampDefault bool
	unfiltered       bool
	omitted          bool
	included         bool
	aggregate        string
	spatial          bool
	rules            []string
	updateRules      []string
	hasUpdateRules   bool
	mutate           func(any) any
}

func (f *FieldDeclaration) PrimaryKey() *FieldDeclaration {
	f.primaryKey = true
	return f
}

func (f *FieldDeclaration) ReadOnly() *FieldDeclaration {
	f.readOnly = true
	return f
}

func (f *FieldDeclaration) Nullable() *FieldDeclaration {
	f.nullable = true
	return f
}

// ColumnType overrides the generated column definition
func (f *FieldDeclaration) ColumnType(sql string) *FieldDeclaration {
	f.columnType = sql
	return f
}

// Kind sets the storage kind of accessor fields
func (f *FieldDeclaration) Kind(kind Kind) *FieldDeclaration {
	f.kind = kind
	return f
}

// Timestamp managed timestamp, excluded from persisted records unless Unfiltered
func (f *FieldDeclaration) Timestamp() *FieldDeclaration {
	f.timestamp = true
	return f
}

// TimestampDefault timestamp whose column defaults to the current time
func (f *FieldDeclaration) TimestampDefault() *FieldDeclaration {
	f.timestamp, f.timestampDefault = true, true
	return f
}

func (f *FieldDeclaration) Unfiltered() *FieldDeclaration {
	f.unfiltered = true
	return f
}

// Rules validation rules; they apply on update too unless UpdateRules is declared
func (f *FieldDeclaration) Rules(rules ...string) *FieldDeclaration {
	f.rules = append(f.rules, rules...)
	return f
}

func (f *FieldDeclaration) UpdateRules(rules ...string) *FieldDeclaration {
	f.updateRules = append(f.updateRules, rules...)
	f.hasUpdateRules = true
	return f
}

// Omit hides the field from serialized records
func (f *FieldDeclaration) Omit() *FieldDeclaration {
	f.omitted = true
	return f
}

// Include always exposes the field in serialized records
func (f *FieldDeclaration) Include() *FieldDeclaration {
	f.included = true
	return f
}

// Aggregate computed column selected as expr
func (f *FieldDeclaration) Aggregate(expr string) *FieldDeclaration {
	f.aggregate = expr
	return f
}

// Spatial point column selected as WKT text
func (f *FieldDeclaration) Spatial() *FieldDeclaration {
	f.spatial = true
	return f
}

// Mutate hook applied to the value before it is written
func (f *FieldDeclaration) Mutate(fn func(any) any) *FieldDeclaration {
	f.mutate = fn
	return f
}

// Setter of an accessor field
func (f *FieldDeclaration) Setter(set func(any) error) *FieldDeclaration {
	f.set = set
	return f
}

// RelationDeclaration relation markers
type RelationDeclaration struct {
	name       string
	typ        RelationshipType
	target     string
	foreignKey string
}

// ForeignKey overrides the default foreign key field
func (r *RelationDeclaration) ForeignKey(field string) *RelationDeclaration {
	r.foreignKey = field
	return r
}

// SearchDeclaration full-text markers
type SearchDeclaration struct {
	table     string
	coupleKey string
	columns   []string
}

// Table overrides the default side table name
func (s *SearchDeclaration) Table(name string) *SearchDeclaration {
	s.table = name
	return s
}
