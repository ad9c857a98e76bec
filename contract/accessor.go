package contract

import (
	"fmt"
	"reflect"
)

// Accessor reads and writes a named member on an opaque instance. An
// Accessor is installed once per field, at contract-build time (see
// SPEC_FULL.md §9 "Dynamic field dispatch"); ReflectAccessor still looks its
// struct field up by name on every Get/Set call.
type Accessor interface {
	Get(instance interface{}) (interface{}, error)
	Set(instance interface{}, value interface{}) error
}

// ReflectAccessor accesses a single struct field by name via reflection. It
// is built once per Field and reused for every Get/Set call thereafter.
type ReflectAccessor struct {
	FieldName string
}

// NewReflectAccessor returns an Accessor bound to the named struct field.
func NewReflectAccessor(fieldName string) *ReflectAccessor {
	return &ReflectAccessor{FieldName: fieldName}
}

func structValue(instance interface{}) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("contract: nil instance")
	}
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("contract: nil pointer instance")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("contract: expected struct, got %s", v.Kind())
	}
	return v, nil
}

// Get implements Accessor.
func (a *ReflectAccessor) Get(instance interface{}) (interface{}, error) {
	v, err := structValue(instance)
	if err != nil {
		return nil, err
	}
	f := v.FieldByName(a.FieldName)
	if !f.IsValid() {
		return nil, fmt.Errorf("contract: no such field %q on %s", a.FieldName, v.Type())
	}
	return f.Interface(), nil
}

// Set implements Accessor.
func (a *ReflectAccessor) Set(instance interface{}, value interface{}) error {
	v, err := structValue(instance)
	if err != nil {
		return err
	}
	f := v.FieldByName(a.FieldName)
	if !f.IsValid() || !f.CanSet() {
		return fmt.Errorf("contract: cannot set field %q on %s", a.FieldName, v.Type())
	}
	if value == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
	case rv.Type().ConvertibleTo(f.Type()):
		f.Set(rv.Convert(f.Type()))
	case f.Kind() == reflect.Ptr && rv.Type().AssignableTo(f.Type().Elem()):
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(rv)
		f.Set(p)
	case rv.Kind() == reflect.Ptr && rv.Elem().IsValid() && rv.Elem().Type().AssignableTo(f.Type()):
		f.Set(rv.Elem())
	default:
		return fmt.Errorf("contract: cannot assign %s to field %q of type %s", rv.Type(), a.FieldName, f.Type())
	}
	return nil
}
