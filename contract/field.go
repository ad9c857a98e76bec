// Package contract describes the runtime metadata model a JSON:API codec
// dispatches through: fields, relationships, contracts and the resolver
// that maps between wire type names and runtime types.
package contract

import "reflect"

// Options is a bit set of capabilities a Field or Relationship carries.
type Options uint8

const (
	None Options = 0

	// Id marks the primary-key field of a contract.
	Id Options = 1 << 0

	// CanSerialize allows the field to be read for wire output.
	CanSerialize Options = 1 << 1

	// CanDeserialize allows the field to be written from wire input.
	CanDeserialize Options = 1 << 2
)

// Default is the common case: readable and writable, not an id.
const Default = CanSerialize | CanDeserialize

// Has reports whether all bits of flag are set in o.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// Field is a named, typed member of a contract with an accessor pair.
type Field struct {
	// Name is the in-memory identifier, camelCase (e.g. "firstName").
	Name string

	// DeclaredType is the static type of the value: scalar, struct, pointer
	// to struct, or the slice type itself (e.g. []*User) for a HasMany
	// navigation field.
	DeclaredType reflect.Type

	Options Options

	Accessor Accessor
}

// IsID reports whether this field is the contract's primary key.
func (f *Field) IsID() bool {
	return f != nil && f.Options.Has(Id)
}

// CanSerialize reports whether the field should be read for wire output.
func (f *Field) CanSerialize() bool {
	return f != nil && f.Options.Has(CanSerialize)
}

// CanDeserialize reports whether the field should be written from wire input.
func (f *Field) CanDeserialize() bool {
	return f != nil && f.Options.Has(CanDeserialize)
}
