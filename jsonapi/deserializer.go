package jsonapi

import (
	"github.com/ilkerispir/jsonapi-codec/contract"
)

// DeserializerOption configures a Deserializer.
type DeserializerOption func(*Deserializer)

// WithDeserializerScalarCodec overrides the default scalar codec.
func WithDeserializerScalarCodec(c ScalarCodec) DeserializerOption {
	return func(d *Deserializer) {
		if c != nil {
			d.scalarCodec = c
		}
	}
}

// Deserializer reconstructs domain entities from a JSON:API envelope,
// preserving identity sharing across data and included.
type Deserializer struct {
	resolver    *contract.Resolver
	scalarCodec ScalarCodec
}

// NewDeserializer returns a Deserializer backed by the given resolver.
func NewDeserializer(resolver *contract.Resolver, opts ...DeserializerOption) *Deserializer {
	d := &Deserializer{resolver: resolver, scalarCodec: DefaultScalarCodec{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DeserializeEntity implements deserialize_entity: requires a singular
// data member.
func (d *Deserializer) DeserializeEntity(doc *Document) (interface{}, error) {
	res, ok := doc.Data.(*Resource)
	if !ok {
		return nil, &CodecError{Kind: ShapeMismatch, Message: "data must be a single resource object"}
	}
	m := d.newMaterializer(doc)
	return m.materialize(res)
}

// DeserializeMany implements deserialize_many: requires an array data
// member.
func (d *Deserializer) DeserializeMany(doc *Document) ([]interface{}, error) {
	resources, ok := doc.Data.([]*Resource)
	if !ok {
		return nil, &CodecError{Kind: ShapeMismatch, Message: "data must be an array of resource objects"}
	}
	m := d.newMaterializer(doc)
	out := make([]interface{}, 0, len(resources))
	for _, res := range resources {
		inst, err := m.materialize(res)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// materializer is the per-envelope identity cache and resolution scope
// (§4.3): it never outlives one DeserializeEntity/DeserializeMany call.
type materializer struct {
	d        *Deserializer
	cache    map[Identity]interface{}
	included map[Identity]*Resource
	primary  map[Identity]*Resource
}

func (d *Deserializer) newMaterializer(doc *Document) *materializer {
	m := &materializer{
		d:        d,
		cache:    make(map[Identity]interface{}),
		included: make(map[Identity]*Resource),
		primary:  make(map[Identity]*Resource),
	}
	for _, r := range doc.Included {
		if id, ok := identityOf(r); ok {
			m.included[id] = r
		}
	}
	switch data := doc.Data.(type) {
	case *Resource:
		if id, ok := identityOf(data); ok {
			m.primary[id] = data
		}
	case []*Resource:
		for _, r := range data {
			if id, ok := identityOf(r); ok {
				m.primary[id] = r
			}
		}
	}
	return m
}

func (m *materializer) materialize(res *Resource) (interface{}, error) {
	if res == nil {
		return nil, nil
	}
	id, hasID := identityOf(res)
	if hasID {
		if cached, ok := m.cache[id]; ok {
			return cached, nil
		}
	}

	c, ok := m.d.resolver.ResolveName(res.Type)
	if !ok {
		return nil, &CodecError{Kind: UnknownType, Message: "unknown resource type " + res.Type}
	}

	instance := c.NewInstance()
	if hasID {
		m.cache[id] = instance
	}

	if res.ID != "" {
		if idField := c.IDField(); idField != nil && idField.CanDeserialize() {
			v, err := m.d.scalarCodec.DeserializeValue(idField.DeclaredType, res.ID)
			if err != nil {
				return nil, err
			}
			if err := idField.Accessor.Set(instance, v); err != nil {
				return nil, err
			}
		}
	}

	if err := m.populateAttributes(instance, c, res); err != nil {
		return nil, err
	}
	if err := m.populateRelationships(instance, c, res); err != nil {
		return nil, err
	}

	return instance, nil
}

func (m *materializer) populateAttributes(instance interface{}, c *contract.Contract, res *Resource) error {
	if res.Attributes == nil {
		return nil
	}
	for _, key := range res.Attributes.Keys() {
		raw, _ := res.Attributes.Get(key)
		if raw == nil {
			continue
		}
		name := contract.DashedToCamel(key)
		field := c.FindDeserializableField(name)
		if field == nil {
			continue // unknown attribute, ignored per §6
		}
		v, err := m.d.scalarCodec.DeserializeValue(field.DeclaredType, raw)
		if err != nil {
			return err
		}
		if err := field.Accessor.Set(instance, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *materializer) populateRelationships(instance interface{}, c *contract.Contract, res *Resource) error {
	if res.Relationships == nil {
		return nil
	}
	for _, key := range res.Relationships.Keys() {
		ro, _ := res.Relationships.Get(key)
		if ro == nil || ro.Data == nil {
			continue // links-only member, ignored
		}
		name := contract.DashedToCamel(key)
		rel := c.FindRelationship(name)
		if rel == nil {
			continue // unknown relationship, ignored per §6
		}
		if err := m.applyRelationship(instance, rel, ro); err != nil {
			return err
		}
	}
	return nil
}

func (m *materializer) applyRelationship(instance interface{}, rel *contract.Relationship, ro *RelationshipObject) error {
	if rel.Kind == contract.HasMany {
		return m.applyHasMany(instance, rel, ro)
	}
	return m.applyBelongsTo(instance, rel, ro)
}

func (m *materializer) applyBelongsTo(instance interface{}, rel *contract.Relationship, ro *RelationshipObject) error {
	if ro.Data.IsMany() {
		return &CodecError{Kind: ShapeMismatch, Message: "relationship " + rel.Name + " expected single linkage, got array"}
	}
	one := ro.Data.One()
	if one == nil {
		return nil
	}

	if rel.ViaField.CanDeserialize() {
		v, err := m.d.scalarCodec.DeserializeValue(rel.ViaField.DeclaredType, one.ID)
		if err != nil {
			return err
		}
		if err := rel.ViaField.Accessor.Set(instance, v); err != nil {
			return err
		}
	}

	if rel.Field.CanDeserialize() {
		resolved, err := m.resolveLinkage(one)
		if err != nil {
			return err
		}
		if resolved != nil {
			if err := rel.Field.Accessor.Set(instance, resolved); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *materializer) applyHasMany(instance interface{}, rel *contract.Relationship, ro *RelationshipObject) error {
	if !ro.Data.IsMany() {
		return &CodecError{Kind: ShapeMismatch, Message: "relationship " + rel.Name + " expected array linkage, got single"}
	}
	if !rel.Field.CanDeserialize() {
		return nil
	}
	ids := ro.Data.Many()
	coll, err := newCollection(rel.Field.DeclaredType, len(ids))
	if err != nil {
		return err
	}
	for _, id := range ids {
		resolved, err := m.resolveLinkage(id)
		if err != nil {
			return err
		}
		if resolved != nil {
			coll.Append(resolved)
		}
	}
	return rel.Field.Accessor.Set(instance, coll.Value())
}

// resolveLinkage implements the §4.3 resolution policy: cache, then
// included, then primary data. An unresolved linkage is not an error.
func (m *materializer) resolveLinkage(ref *ResourceIdentifier) (interface{}, error) {
	id, ok := identityOfRef(ref)
	if !ok {
		return nil, nil
	}
	if cached, ok := m.cache[id]; ok {
		return cached, nil
	}
	if res, ok := m.included[id]; ok {
		return m.materialize(res)
	}
	if res, ok := m.primary[id]; ok {
		return m.materialize(res)
	}
	return nil, nil
}
