package cli

import (
	"fmt"
	"strings"

	"github.com/hakuorm/haku/schema"
)

// RelationInfo relation of a generated model, `name:Target:type`
type RelationInfo struct {
	Name   string
	Target string
	Type   schema.RelationshipType
}

// Declaration declaration statement of the relation
func (r RelationInfo) Declaration() string {
	var method string
	switch r.Type {
	case schema.BelongsTo:
		method = "BelongsTo"
	case schema.HasOne:
		method = "HasOne"
	default:
		method = "HasMany"
	}
	return fmt.Sprintf("d.%s(%q, %q)", method, r.Name, r.Target)
}

// ParseRelations parse `name:Target:type` relations; an empty name takes the default relation name
func ParseRelations(rel string) ([]RelationInfo, error) {
	var rels []RelationInfo
	for _, r := range strings.Split(rel, ",") {
		parts := strings.Split(strings.TrimSpace(r), ":")
		if len(parts) != 3 || parts[1] == "" {
			return nil, fmt.Errorf("relation format is invalid: %q", r)
		}

		var typ schema.RelationshipType
		switch parts[2] {
		case "belongsTo":
			typ = schema.BelongsTo
		case "hasOne":
			typ = schema.HasOne
		case "hasMany":
			typ = schema.HasMany
		default:
			return nil, fmt.Errorf("unknown relation type %q", parts[2])
		}
		rels = append(rels, RelationInfo{Name: parts[0], Target: schema.ToStudly(parts[1]), Type: typ})
	}
	return rels, nil
}
