package contract

import (
	"reflect"
	"strings"
)

// Contract is the runtime description of one resource type.
type Contract struct {
	// Name is the wire tag, e.g. "posts".
	Name string

	// RuntimeType is the handle for the domain struct (never a pointer
	// type; pointers are normalized away by the resolver).
	RuntimeType reflect.Type

	// NewInstance is the factory for an empty entity. It always returns a
	// pointer to a freshly allocated RuntimeType value.
	NewInstance func() interface{}

	// Fields is the ordered sequence of non-relationship fields.
	Fields []*Field

	// Relationships is the ordered sequence of relationships.
	Relationships []*Relationship
}

// IDField returns the contract's Id-tagged field, or nil if the contract
// has none (value types are serialized without an "id").
func (c *Contract) IDField() *Field {
	for _, f := range c.Fields {
		if f.IsID() {
			return f
		}
	}
	return nil
}

// RelationshipBackedFieldNames returns the set of in-memory field names
// referenced by some relationship's Field or ViaField, used to keep
// attributes and relationship back-fields disjoint (spec invariant 2).
func (c *Contract) RelationshipBackedFieldNames() map[string]bool {
	names := make(map[string]bool, len(c.Relationships)*2)
	for _, rel := range c.Relationships {
		if rel.Field != nil {
			names[rel.Field.Name] = true
		}
		if rel.ViaField != nil {
			names[rel.ViaField.Name] = true
		}
	}
	return names
}

// findField returns the first field whose name matches (case-insensitive),
// skipping relationship-backed and Id fields and any field the supplied
// predicate rejects.
func (c *Contract) findField(name string, relBacked map[string]bool, want func(*Field) bool) *Field {
	for _, f := range c.Fields {
		if f.IsID() || relBacked[f.Name] {
			continue
		}
		if !want(f) {
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

// FindDeserializableField locates the contract field matching name
// (case-insensitive) eligible for ShouldDeserialize.
func (c *Contract) FindDeserializableField(name string) *Field {
	relBacked := c.RelationshipBackedFieldNames()
	return c.findField(name, relBacked, (*Field).CanDeserialize)
}

// FindRelationship locates a relationship by name (case-insensitive) that
// passes ShouldDeserialize.
func (c *Contract) FindRelationship(name string) *Relationship {
	for _, r := range c.Relationships {
		if !r.ShouldDeserialize() {
			continue
		}
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return nil
}
