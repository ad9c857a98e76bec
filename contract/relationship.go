package contract

import "reflect"

// Kind is a relationship's cardinality.
type Kind int

const (
	// BelongsTo is a zero-or-one relationship.
	BelongsTo Kind = iota
	// HasMany is a zero-or-more relationship.
	HasMany
)

func (k Kind) String() string {
	if k == HasMany {
		return "HasMany"
	}
	return "BelongsTo"
}

// Relationship is a specialized field: it binds to the peer entity either
// through a navigation Field (the full related object(s)) or a ViaField
// (the scalar foreign key), or both. At least one must be present.
type Relationship struct {
	// Name is the in-memory relationship identifier, camelCase.
	Name string

	Kind Kind

	// RelatedTo is the peer entity's runtime type.
	RelatedTo reflect.Type

	// Field exposes the full related object(s); nil if absent.
	Field *Field

	// ViaField exposes the scalar foreign key; nil if absent. For HasMany
	// relationships this is conventionally nil and ignored on deserialize.
	ViaField *Field

	// URITemplate, if non-empty, causes a "related" link to be emitted.
	URITemplate string
}

// Effective returns the field used to decide whether the relationship's
// data member is eligible for serialization: Field if present, else
// ViaField.
func (r *Relationship) Effective() *Field {
	if r.Field != nil {
		return r.Field
	}
	return r.ViaField
}

// ShouldDeserialize reports whether either accessor accepts wire input.
func (r *Relationship) ShouldDeserialize() bool {
	return r.ViaField.CanDeserialize() || r.Field.CanDeserialize()
}
