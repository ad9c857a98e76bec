package jsonapi

import (
	"fmt"
	"reflect"
)

// collection builds a concrete HasMany collection value matching a field's
// declared type, per the §4.4 construction policy. Go's idiomatic HasMany
// field is a concrete slice ([]T or []*T); that is the "concrete list"
// branch. A declared interface type has no element-type metadata to
// reflect a slice out of, so it is the "anything else → error" branch
// (see SPEC_FULL.md §4.4 for why Go has no IList<T>/ICollection<T> equivalent).
type collection struct {
	slice reflect.Value
	elem  reflect.Type
}

func newCollection(declaredType reflect.Type, hint int) (*collection, error) {
	if declaredType == nil {
		return nil, &CodecError{Kind: UnconstructibleCollection, Message: "relationship field has no declared type"}
	}
	t := declaredType
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Slice {
		return nil, &CodecError{Kind: UnconstructibleCollection, Message: fmt.Sprintf("cannot materialize collection for type %s", declaredType)}
	}
	return &collection{slice: reflect.MakeSlice(t, 0, hint), elem: t.Elem()}, nil
}

// Append adds a materialized instance to the collection, adapting pointer
// vs value element types as needed.
func (c *collection) Append(v interface{}) {
	if v == nil {
		return
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(c.elem):
		c.slice = reflect.Append(c.slice, rv)
	case c.elem.Kind() == reflect.Ptr && rv.Type().AssignableTo(c.elem.Elem()):
		p := reflect.New(c.elem.Elem())
		p.Elem().Set(rv)
		c.slice = reflect.Append(c.slice, p)
	case rv.Kind() == reflect.Ptr && rv.Elem().IsValid() && rv.Elem().Type().AssignableTo(c.elem):
		c.slice = reflect.Append(c.slice, rv.Elem())
	}
}

// Value returns the built slice as its declared (non-pointer-to-slice)
// type.
func (c *collection) Value() interface{} {
	return c.slice.Interface()
}
