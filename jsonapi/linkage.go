package jsonapi

import (
	"bytes"
	"encoding/json"
)

// Linkage is a relationship's "data" member: either a single
// ResourceIdentifier (BelongsTo) or an array of them (HasMany), dispatched
// on the wire by object-vs-array shape, the same pattern the pieoneers
// jsonapi-go document package uses for its relationshipData type.
type Linkage struct {
	many bool
	one  *ResourceIdentifier
	list []*ResourceIdentifier
}

// SingleLinkage wraps one identifier as a BelongsTo linkage.
func SingleLinkage(id *ResourceIdentifier) *Linkage {
	return &Linkage{one: id}
}

// ManyLinkage wraps a list of identifiers as a HasMany linkage.
func ManyLinkage(ids []*ResourceIdentifier) *Linkage {
	return &Linkage{many: true, list: ids}
}

// IsMany reports whether the linkage is the array (HasMany) form.
func (l *Linkage) IsMany() bool {
	return l != nil && l.many
}

// One returns the single identifier, or nil if absent or this is a many
// linkage.
func (l *Linkage) One() *ResourceIdentifier {
	if l == nil || l.many {
		return nil
	}
	return l.one
}

// Many returns the identifier list, empty if this is a single linkage.
func (l *Linkage) Many() []*ResourceIdentifier {
	if l == nil || !l.many {
		return nil
	}
	return l.list
}

// MarshalJSON implements json.Marshaler.
func (l *Linkage) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	if l.many {
		if l.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(l.list)
	}
	return json.Marshal(l.one)
}

// UnmarshalJSON implements json.Unmarshaler, dispatching on array-vs-object
// shape.
func (l *Linkage) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = Linkage{}
		return nil
	}
	if trimmed[0] == '[' {
		var list []*ResourceIdentifier
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = Linkage{many: true, list: list}
		return nil
	}
	var one ResourceIdentifier
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = Linkage{one: &one}
	return nil
}
