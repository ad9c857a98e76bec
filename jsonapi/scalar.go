package jsonapi

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ScalarCodec is the external "generic scalar JSON serializer" the spec
// treats as a black box. Implementations handle leaf values: primitives,
// dates, and simple wrapper types; numeric coercion between compatible
// kinds is their responsibility.
type ScalarCodec interface {
	SerializeValue(v interface{}) (interface{}, error)
	DeserializeValue(declaredType reflect.Type, raw interface{}) (interface{}, error)
}

// DefaultScalarCodec handles strings, booleans, numeric kinds, time.Time
// (RFC3339) and uuid.UUID, plus single-level pointer wrapping.
type DefaultScalarCodec struct{}

var timeType = reflect.TypeOf(time.Time{})
var uuidType = reflect.TypeOf(uuid.UUID{})

// SerializeValue implements ScalarCodec.
func (DefaultScalarCodec) SerializeValue(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		return DefaultScalarCodec{}.SerializeValue(rv.Elem().Interface())
	}

	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil, nil
		}
		return t.Format(time.RFC3339), nil
	case uuid.UUID:
		if t == uuid.Nil {
			return nil, nil
		}
		return t.String(), nil
	}

	switch rv.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: cannot serialize value of type %T: %w", v, err)
		}
		var out interface{}
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// DeserializeValue implements ScalarCodec.
func (DefaultScalarCodec) DeserializeValue(declaredType reflect.Type, raw interface{}) (interface{}, error) {
	if declaredType == nil {
		return raw, nil
	}
	ptr := declaredType.Kind() == reflect.Ptr
	target := declaredType
	if ptr {
		target = target.Elem()
	}
	if raw == nil {
		return reflect.Zero(declaredType).Interface(), nil
	}

	switch target {
	case timeType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("jsonapi: expected string for time.Time, got %T", raw)
		}
		tv, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: invalid time %q: %w", s, err)
		}
		return wrapPtr(reflect.ValueOf(tv), ptr), nil
	case uuidType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("jsonapi: expected string for uuid.UUID, got %T", raw)
		}
		uv, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("jsonapi: invalid uuid %q: %w", s, err)
		}
		return wrapPtr(reflect.ValueOf(uv), ptr), nil
	}

	if f, ok := raw.(float64); ok {
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			rv := reflect.New(target).Elem()
			rv.SetInt(int64(f))
			return wrapPtr(rv, ptr), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			rv := reflect.New(target).Elem()
			rv.SetUint(uint64(f))
			return wrapPtr(rv, ptr), nil
		case reflect.Float32, reflect.Float64:
			rv := reflect.New(target).Elem()
			rv.SetFloat(f)
			return wrapPtr(rv, ptr), nil
		}
	}

	// Resource ids (jsonapi/document.go's Resource.ID / ResourceIdentifier.ID)
	// are always wire strings, even when the contract's Id field declares a
	// numeric Go type (e.g. an int primary key). Parse those here, since
	// neither AssignableTo nor ConvertibleTo below can turn a string into a
	// number.
	if s, ok := raw.(string); ok {
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("jsonapi: invalid integer %q for %s: %w", s, declaredType, err)
			}
			rv := reflect.New(target).Elem()
			rv.SetInt(n)
			return wrapPtr(rv, ptr), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("jsonapi: invalid unsigned integer %q for %s: %w", s, declaredType, err)
			}
			rv := reflect.New(target).Elem()
			rv.SetUint(n)
			return wrapPtr(rv, ptr), nil
		case reflect.Float32, reflect.Float64:
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("jsonapi: invalid float %q for %s: %w", s, declaredType, err)
			}
			rv := reflect.New(target).Elem()
			rv.SetFloat(n)
			return wrapPtr(rv, ptr), nil
		}
	}

	rv := reflect.ValueOf(raw)
	switch {
	case rv.Type().AssignableTo(target):
		return wrapPtr(rv, ptr), nil
	case rv.Type().ConvertibleTo(target):
		return wrapPtr(rv.Convert(target), ptr), nil
	default:
		return nil, fmt.Errorf("jsonapi: cannot deserialize %T into %s", raw, declaredType)
	}
}

func wrapPtr(v reflect.Value, ptr bool) interface{} {
	if !ptr {
		return v.Interface()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface()
}
