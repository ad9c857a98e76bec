package contract_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkerispir/jsonapi-codec/contract"
)

type testPost struct {
	ID    string
	Title string
	Owner *testUser
}

type testUser struct {
	ID   string
	Name string
}

func buildPostContract() *contract.Contract {
	return &contract.Contract{
		Name:        "posts",
		RuntimeType: reflect.TypeOf(testPost{}),
		NewInstance: func() interface{} { return &testPost{} },
		Fields: []*contract.Field{
			{Name: "ID", DeclaredType: reflect.TypeOf(""), Options: contract.Id | contract.Default, Accessor: contract.NewReflectAccessor("ID")},
			{Name: "Title", DeclaredType: reflect.TypeOf(""), Options: contract.Default, Accessor: contract.NewReflectAccessor("Title")},
		},
		Relationships: []*contract.Relationship{
			{
				Name:      "owner",
				Kind:      contract.BelongsTo,
				RelatedTo: reflect.TypeOf(testUser{}),
				Field:     &contract.Field{Name: "Owner", DeclaredType: reflect.TypeOf(&testUser{}), Options: contract.Default, Accessor: contract.NewReflectAccessor("Owner")},
			},
		},
	}
}

func TestReflectAccessorGetSet(t *testing.T) {
	p := &testPost{ID: "7", Title: "Hello"}
	a := contract.NewReflectAccessor("Title")

	v, err := a.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)

	require.NoError(t, a.Set(p, "World"))
	assert.Equal(t, "World", p.Title)
}

func TestReflectAccessorSetNil(t *testing.T) {
	p := &testPost{Owner: &testUser{ID: "1"}}
	a := contract.NewReflectAccessor("Owner")
	require.NoError(t, a.Set(p, nil))
	assert.Nil(t, p.Owner)
}

func TestContractIDField(t *testing.T) {
	c := buildPostContract()
	f := c.IDField()
	require.NotNil(t, f)
	assert.Equal(t, "ID", f.Name)
}

func TestRelationshipBackedFieldNames(t *testing.T) {
	c := buildPostContract()
	names := c.RelationshipBackedFieldNames()
	assert.True(t, names["Owner"])
	assert.False(t, names["Title"])
}

func TestResolverRoundTrip(t *testing.T) {
	r := contract.NewResolver()
	c := buildPostContract()
	r.Register(c)

	byType, ok := r.ResolveType(reflect.TypeOf(testPost{}))
	require.True(t, ok)
	assert.Same(t, c, byType)

	byPtrType, ok := r.ResolveType(reflect.TypeOf(&testPost{}))
	require.True(t, ok)
	assert.Same(t, c, byPtrType)

	byName, ok := r.ResolveName("posts")
	require.True(t, ok)
	assert.Same(t, c, byName)

	_, ok = r.ResolveName("comments")
	assert.False(t, ok)
}

func TestFindDeserializableFieldSkipsIDAndRelationshipBacked(t *testing.T) {
	c := buildPostContract()
	assert.Nil(t, c.FindDeserializableField("ID"))
	assert.Nil(t, c.FindDeserializableField("Owner"))
	assert.NotNil(t, c.FindDeserializableField("Title"))
}

func TestFindRelationship(t *testing.T) {
	c := buildPostContract()
	rel := c.FindRelationship("owner")
	require.NotNil(t, rel)
	assert.Equal(t, contract.BelongsTo, rel.Kind)
	assert.Nil(t, c.FindRelationship("nope"))
}
