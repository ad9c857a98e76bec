package contract

import "reflect"

// Resolver is a bidirectional mapping between runtime types and wire type
// names, built once and shared read-only across every Serializer and
// Deserializer operation.
type Resolver struct {
	byType map[reflect.Type]*Contract
	byName map[string]*Contract
}

// NewResolver returns an empty resolver ready for Register calls.
func NewResolver() *Resolver {
	return &Resolver{
		byType: make(map[reflect.Type]*Contract),
		byName: make(map[string]*Contract),
	}
}

// Register adds a contract to the resolver, indexed by both its runtime
// type and its wire name.
func (r *Resolver) Register(c *Contract) {
	r.byType[c.RuntimeType] = c
	r.byName[c.Name] = c
}

// ResolveType performs try_resolve(runtime_type). t is normalized by
// dereferencing pointer types, since domain entities are conventionally
// passed and stored as pointers.
func (r *Resolver) ResolveType(t reflect.Type) (*Contract, bool) {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	c, ok := r.byType[t]
	return c, ok
}

// ResolveName performs try_resolve(wire_name).
func (r *Resolver) ResolveName(name string) (*Contract, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// ResolveInstance resolves the contract for a concrete instance value.
func (r *Resolver) ResolveInstance(instance interface{}) (*Contract, bool) {
	if instance == nil {
		return nil, false
	}
	return r.ResolveType(reflect.TypeOf(instance))
}
