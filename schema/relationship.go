package schema

// RelationshipType relationship type
type RelationshipType string

const (
	HasOne    RelationshipType = "has_one"    // HasOne the target holds a foreign key to this model, single match
	HasMany   RelationshipType = "has_many"   // HasMany the target holds a foreign key to this model, limit bounded
	BelongsTo RelationshipType = "belongs_to" // BelongsTo this model holds the foreign key to the target
)

// Relationship relation descriptor declared on a model
type Relationship struct {
	Name       string
	Type       RelationshipType
	Target     string
	ForeignKey string
}

// ForeignKeyDBName column holding the foreign key
func (rel *Relationship) ForeignKeyDBName() string {
	return ToDBName(rel.ForeignKey)
}

// OwnsForeignKey reports whether the foreign key lives on the declaring model
func (rel *Relationship) OwnsForeignKey() bool {
	return rel.Type == BelongsTo
}

// Search full-text side table joined on a couple key
type Search struct {
	Table     string
	CoupleKey string
	Columns   []string
}
