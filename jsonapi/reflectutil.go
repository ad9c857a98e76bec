package jsonapi

import (
	"fmt"
	"reflect"
)

// underlyingType returns the struct type backing entity, dereferencing every
// pointer level.
func underlyingType(entity interface{}) reflect.Type {
	t := reflect.TypeOf(entity)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// isNilValue reports whether v is a nil interface, or a nil pointer/slice/
// map/chan/func wrapped in a non-nil interface.
func isNilValue(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// toSlice iterates a HasMany field's runtime value. A nil slice/pointer
// yields an empty result, not an error; a non-iterable value is an error
// (NonIterableHasMany, per §7).
func toSlice(v interface{}) ([]interface{}, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value of kind %s is not iterable", rv.Kind())
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, nil
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// isPrimitiveScalar reports whether v is already a bare id value (not an
// entity struct) — e.g. a string or int FK value stored directly in a
// relationship's field, as opposed to a pointer to a domain struct.
func isPrimitiveScalar(v interface{}) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	return rv.Kind() != reflect.Struct
}
