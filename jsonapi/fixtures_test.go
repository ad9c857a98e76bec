package jsonapi_test

import (
	"reflect"

	"github.com/ilkerispir/jsonapi-codec/contract"
)

// post / user (and note, below) are the fixtures used across S1-S6.

func strPtr(s string) *string { return &s }

type post struct {
	ID      int
	Title   string
	Owner   *user
	OwnerID *string
}

type user struct {
	ID      string
	Name    string
	Bio     *string
	Friends []*user
}

func buildResolver() *contract.Resolver {
	r := contract.NewResolver()

	userContract := &contract.Contract{
		Name:        "users",
		RuntimeType: reflect.TypeOf(user{}),
		NewInstance: func() interface{} { return &user{} },
		Fields: []*contract.Field{
			{Name: "ID", DeclaredType: reflect.TypeOf(""), Options: contract.Id | contract.Default, Accessor: contract.NewReflectAccessor("ID")},
			{Name: "Name", DeclaredType: reflect.TypeOf(""), Options: contract.Default, Accessor: contract.NewReflectAccessor("Name")},
			{Name: "Bio", DeclaredType: reflect.TypeOf((*string)(nil)), Options: contract.Default, Accessor: contract.NewReflectAccessor("Bio")},
		},
		Relationships: []*contract.Relationship{
			{
				Name:      "friends",
				Kind:      contract.HasMany,
				RelatedTo: reflect.TypeOf(user{}),
				Field:     &contract.Field{Name: "Friends", DeclaredType: reflect.TypeOf([]*user{}), Options: contract.Default, Accessor: contract.NewReflectAccessor("Friends")},
			},
		},
	}

	postContract := &contract.Contract{
		Name:        "posts",
		RuntimeType: reflect.TypeOf(post{}),
		NewInstance: func() interface{} { return &post{} },
		Fields: []*contract.Field{
			{Name: "ID", DeclaredType: reflect.TypeOf(0), Options: contract.Id | contract.Default, Accessor: contract.NewReflectAccessor("ID")},
			{Name: "Title", DeclaredType: reflect.TypeOf(""), Options: contract.Default, Accessor: contract.NewReflectAccessor("Title")},
			{Name: "OwnerID", DeclaredType: reflect.TypeOf((*string)(nil)), Options: contract.Default, Accessor: contract.NewReflectAccessor("OwnerID")},
		},
		Relationships: []*contract.Relationship{
			{
				Name:      "owner",
				Kind:      contract.BelongsTo,
				RelatedTo: reflect.TypeOf(user{}),
				Field:     &contract.Field{Name: "Owner", DeclaredType: reflect.TypeOf(&user{}), Options: contract.Default, Accessor: contract.NewReflectAccessor("Owner")},
				ViaField:  &contract.Field{Name: "OwnerID", DeclaredType: reflect.TypeOf((*string)(nil)), Options: contract.Default, Accessor: contract.NewReflectAccessor("OwnerID")},
			},
		},
	}

	r.Register(userContract)
	r.Register(postContract)
	return r
}

// note is a fixture with only nullable, non-id attributes, used to exercise
// the case where the attributes member is omitted entirely.
type note struct {
	ID   string
	Body *string
}

func buildNoteResolver() *contract.Resolver {
	r := contract.NewResolver()
	r.Register(&contract.Contract{
		Name:        "notes",
		RuntimeType: reflect.TypeOf(note{}),
		NewInstance: func() interface{} { return &note{} },
		Fields: []*contract.Field{
			{Name: "ID", DeclaredType: reflect.TypeOf(""), Options: contract.Id | contract.Default, Accessor: contract.NewReflectAccessor("ID")},
			{Name: "Body", DeclaredType: reflect.TypeOf((*string)(nil)), Options: contract.Default, Accessor: contract.NewReflectAccessor("Body")},
		},
	})
	return r
}
