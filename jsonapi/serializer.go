package jsonapi

import (
	"fmt"
	"reflect"

	"github.com/ilkerispir/jsonapi-codec/contract"
)

// Option configures a Serializer, in the teacher's functional-options idiom.
type Option func(*Serializer)

// WithScalarCodec overrides the default scalar codec.
func WithScalarCodec(c ScalarCodec) Option {
	return func(s *Serializer) {
		if c != nil {
			s.scalarCodec = c
		}
	}
}

// WithBinder installs a URI template binder, enabling relationship "related"
// links.
func WithBinder(b Binder) Option {
	return func(s *Serializer) {
		s.binder = b
	}
}

// Serializer walks domain entities into a JSON:API envelope.
type Serializer struct {
	resolver    *contract.Resolver
	scalarCodec ScalarCodec
	binder      Binder
}

// NewSerializer returns a Serializer backed by the given resolver.
func NewSerializer(resolver *contract.Resolver, opts ...Option) *Serializer {
	s := &Serializer{resolver: resolver, scalarCodec: DefaultScalarCodec{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// relatedChild is a relationship's navigated value(s), queued for the
// cycle-safe included walk.
type relatedChild struct {
	many   bool
	values []interface{}
}

type walk struct {
	s        *Serializer
	visited  map[Identity]struct{}
	included []*Resource
}

func (s *Serializer) newWalk() *walk {
	return &walk{s: s, visited: make(map[Identity]struct{})}
}

// SerializeEntity implements serialize_entity: an envelope with a singular
// data member.
func (s *Serializer) SerializeEntity(entity interface{}) (*Document, error) {
	if isNilValue(entity) {
		return nil, &CodecError{Kind: InvalidArgument, Message: "entity must not be nil"}
	}
	w := s.newWalk()
	res, children, err := w.buildResource(entity)
	if err != nil {
		return nil, err
	}
	if id, ok := identityOf(res); ok {
		w.visited[id] = struct{}{}
	}
	if err := w.walkChildren(children); err != nil {
		return nil, err
	}
	doc := &Document{JSONAPI: &JSONAPIObject{Version: "1.0"}, Data: res}
	if len(w.included) > 0 {
		doc.Included = w.included
	}
	return doc, nil
}

// SerializeMany implements serialize_many: an envelope with an array data
// member. entities must be a slice.
func (s *Serializer) SerializeMany(entities interface{}) (*Document, error) {
	v := reflect.ValueOf(entities)
	if entities == nil || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, &CodecError{Kind: ShapeMismatch, Message: "SerializeMany requires a slice of entities"}
	}

	w := s.newWalk()
	resources := make([]*Resource, 0, v.Len())
	items := make([]interface{}, 0, v.Len())
	allChildren := make([][]relatedChild, 0, v.Len())

	for i := 0; i < v.Len(); i++ {
		item := v.Index(i).Interface()
		res, children, err := w.buildResource(item)
		if err != nil {
			return nil, err
		}
		if id, ok := identityOf(res); ok {
			w.visited[id] = struct{}{}
		}
		resources = append(resources, res)
		items = append(items, item)
		allChildren = append(allChildren, children)
	}
	for _, children := range allChildren {
		if err := w.walkChildren(children); err != nil {
			return nil, err
		}
	}

	doc := &Document{Data: resources}
	if len(w.included) > 0 {
		doc.Included = w.included
	}
	return doc, nil
}

func (w *walk) walkChildren(children []relatedChild) error {
	for _, ch := range children {
		for _, v := range ch.values {
			if isNilValue(v) {
				continue
			}
			if err := w.includeRelated(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// includeRelated materializes a related entity; if new, it is appended to
// included and its own relationships are recursed into (§4.2 included
// computation).
func (w *walk) includeRelated(entity interface{}) error {
	res, children, err := w.buildResource(entity)
	if err != nil {
		return err
	}
	if id, ok := identityOf(res); ok {
		if _, seen := w.visited[id]; seen {
			return nil
		}
		w.visited[id] = struct{}{}
	}
	w.included = append(w.included, res)
	return w.walkChildren(children)
}

// buildResource materializes the resource object for entity and returns
// the navigated relationship children (for the caller to recurse into),
// without consulting or mutating the visited set.
func (w *walk) buildResource(entity interface{}) (*Resource, []relatedChild, error) {
	rt := underlyingType(entity)
	c, ok := w.s.resolver.ResolveType(rt)
	if !ok {
		return nil, nil, &CodecError{Kind: UnknownType, Message: fmt.Sprintf("no contract registered for type %s", rt)}
	}

	res := &Resource{Type: c.Name}

	if idField := c.IDField(); idField != nil && idField.CanSerialize() {
		v, err := idField.Accessor.Get(entity)
		if err != nil {
			return nil, nil, err
		}
		sv, err := w.s.scalarCodec.SerializeValue(v)
		if err != nil {
			return nil, nil, err
		}
		if sv != nil {
			res.ID = fmt.Sprintf("%v", sv)
		}
	}

	relBacked := c.RelationshipBackedFieldNames()

	attrs := NewOrderedMap[interface{}]()
	for _, f := range c.Fields {
		if f.IsID() || !f.CanSerialize() || relBacked[f.Name] {
			continue
		}
		raw, err := f.Accessor.Get(entity)
		if err != nil {
			return nil, nil, err
		}
		sv, err := w.s.scalarCodec.SerializeValue(raw)
		if err != nil {
			return nil, nil, err
		}
		if sv == nil {
			continue
		}
		attrs.Set(contract.CamelToDashed(f.Name), sv)
	}
	if attrs.Len() > 0 {
		res.Attributes = attrs
	}

	var children []relatedChild
	rels := NewOrderedMap[*RelationshipObject]()
	for _, rel := range c.Relationships {
		ro, child, err := w.buildRelationship(entity, rel)
		if err != nil {
			return nil, nil, err
		}
		if ro != nil {
			rels.Set(contract.CamelToDashed(rel.Name), ro)
		}
		if child != nil {
			children = append(children, *child)
		}
	}
	if rels.Len() > 0 {
		res.Relationships = rels
	}

	return res, children, nil
}

func (w *walk) buildRelationship(entity interface{}, rel *contract.Relationship) (*RelationshipObject, *relatedChild, error) {
	effective := rel.Effective()
	if effective == nil || effective.IsID() || !effective.CanSerialize() {
		return nil, nil, nil
	}

	ro := &RelationshipObject{}
	if rel.URITemplate != "" && w.s.binder != nil {
		link, err := w.s.binder.Bind(rel.URITemplate, entity)
		if err != nil {
			return nil, nil, err
		}
		if link != "" {
			ro.Links = &Links{Related: link}
		}
	}

	switch rel.Kind {
	case contract.HasMany:
		return w.buildHasMany(entity, rel, ro)
	default:
		return w.buildBelongsTo(entity, rel, ro)
	}
}

func (w *walk) buildBelongsTo(entity interface{}, rel *contract.Relationship, ro *RelationshipObject) (*RelationshipObject, *relatedChild, error) {
	if rel.Field != nil && rel.Field.CanSerialize() {
		v, err := rel.Field.Accessor.Get(entity)
		if err != nil {
			return nil, nil, err
		}
		if !isNilValue(v) {
			id, err := w.identifierFor(v)
			if err != nil {
				return nil, nil, err
			}
			ro.Data = SingleLinkage(id)
			return ro, &relatedChild{values: []interface{}{v}}, nil
		}
	}
	if rel.ViaField != nil && rel.ViaField.CanSerialize() {
		fk, err := rel.ViaField.Accessor.Get(entity)
		if err != nil {
			return nil, nil, err
		}
		if !isNilValue(fk) {
			peer, ok := w.s.resolver.ResolveType(rel.RelatedTo)
			if !ok {
				return nil, nil, &CodecError{Kind: UnknownType, Message: fmt.Sprintf("no contract for related type %s", rel.RelatedTo)}
			}
			sv, err := w.s.scalarCodec.SerializeValue(fk)
			if err != nil {
				return nil, nil, err
			}
			if sv != nil {
				ro.Data = SingleLinkage(&ResourceIdentifier{Type: peer.Name, ID: fmt.Sprintf("%v", sv)})
				return ro, nil, nil
			}
		}
	}
	if ro.Links == nil {
		return nil, nil, nil
	}
	return ro, nil, nil
}

func (w *walk) buildHasMany(entity interface{}, rel *contract.Relationship, ro *RelationshipObject) (*RelationshipObject, *relatedChild, error) {
	if rel.Field == nil || !rel.Field.CanSerialize() {
		if ro.Links == nil {
			return nil, nil, nil
		}
		return ro, nil, nil
	}
	v, err := rel.Field.Accessor.Get(entity)
	if err != nil {
		return nil, nil, err
	}
	items, err := toSlice(v)
	if err != nil {
		return nil, nil, &CodecError{Kind: NonIterableHasMany, Message: fmt.Sprintf("relationship %q: %v", rel.Name, err)}
	}

	identifiers := make([]*ResourceIdentifier, 0, len(items))
	children := make([]interface{}, 0, len(items))
	for _, item := range items {
		if isNilValue(item) {
			continue
		}
		id, err := w.identifierFor(item)
		if err != nil {
			return nil, nil, err
		}
		identifiers = append(identifiers, id)
		children = append(children, item)
	}
	ro.Data = ManyLinkage(identifiers)
	return ro, &relatedChild{many: true, values: children}, nil
}

// identifierFor resolves the peer contract for related and extracts its
// linkage identifier: either the peer's Id field, or related itself if it
// is already a primitive scalar.
func (w *walk) identifierFor(related interface{}) (*ResourceIdentifier, error) {
	if isPrimitiveScalar(related) {
		sv, err := w.s.scalarCodec.SerializeValue(related)
		if err != nil {
			return nil, err
		}
		return &ResourceIdentifier{ID: fmt.Sprintf("%v", sv)}, nil
	}
	peer, ok := w.s.resolver.ResolveType(underlyingType(related))
	if !ok {
		return nil, &CodecError{Kind: UnknownType, Message: fmt.Sprintf("no contract for related type %s", underlyingType(related))}
	}
	idField := peer.IDField()
	if idField == nil {
		return nil, &CodecError{Kind: ShapeMismatch, Message: fmt.Sprintf("contract %q has no Id field", peer.Name)}
	}
	v, err := idField.Accessor.Get(related)
	if err != nil {
		return nil, err
	}
	sv, err := w.s.scalarCodec.SerializeValue(v)
	if err != nil {
		return nil, err
	}
	return &ResourceIdentifier{Type: peer.Name, ID: fmt.Sprintf("%v", sv)}, nil
}
