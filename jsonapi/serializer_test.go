package jsonapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkerispir/jsonapi-codec/jsonapi"
)

// S1 — single resource, scalars only.
func TestSerializeEntityScalarsOnly(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	p := &post{ID: 7, Title: "Hello"}

	doc, err := s.SerializeEntity(p)
	require.NoError(t, err)

	res, ok := doc.Data.(*jsonapi.Resource)
	require.True(t, ok)
	assert.Equal(t, "posts", res.Type)
	assert.Equal(t, "7", res.ID)
	require.NotNil(t, res.Attributes)
	title, ok := res.Attributes.Get("title")
	require.True(t, ok)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, "1.0", doc.JSONAPI.Version)
	assert.Empty(t, doc.Included)
}

// S2 — BelongsTo with included.
func TestSerializeEntityBelongsToIncluded(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	owner := &user{ID: "9", Name: "A"}
	p := &post{ID: 1, Title: "x", Owner: owner, OwnerID: strPtr("9")}

	doc, err := s.SerializeEntity(p)
	require.NoError(t, err)

	res := doc.Data.(*jsonapi.Resource)
	require.NotNil(t, res.Relationships)
	ro, ok := res.Relationships.Get("owner")
	require.True(t, ok)
	require.NotNil(t, ro.Data)
	assert.False(t, ro.Data.IsMany())
	assert.Equal(t, &jsonapi.ResourceIdentifier{Type: "users", ID: "9"}, ro.Data.One())

	require.Len(t, doc.Included, 1)
	assert.Equal(t, "users", doc.Included[0].Type)
	assert.Equal(t, "9", doc.Included[0].ID)
	name, _ := doc.Included[0].Attributes.Get("name")
	assert.Equal(t, "A", name)
}

// S3 — HasMany cycle via serialize_many.
func TestSerializeManyHasManyCycle(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	u1 := &user{ID: "1", Name: "U1"}
	u2 := &user{ID: "2", Name: "U2"}
	u1.Friends = []*user{u2}
	u2.Friends = []*user{u1}

	doc, err := s.SerializeMany([]*user{u1, u2})
	require.NoError(t, err)
	assert.Nil(t, doc.JSONAPI, "plural envelope carries no jsonapi member")

	resources := doc.Data.([]*jsonapi.Resource)
	require.Len(t, resources, 2)
	assert.Equal(t, "1", resources[0].ID)
	assert.Equal(t, "2", resources[1].ID)
	assert.Empty(t, doc.Included, "primaries are never duplicated into included")

	rel0, _ := resources[0].Relationships.Get("friends")
	require.NotNil(t, rel0)
	assert.True(t, rel0.Data.IsMany())
	assert.Equal(t, []*jsonapi.ResourceIdentifier{{Type: "users", ID: "2"}}, rel0.Data.Many())

	rel1, _ := resources[1].Relationships.Get("friends")
	assert.Equal(t, []*jsonapi.ResourceIdentifier{{Type: "users", ID: "1"}}, rel1.Data.Many())
}

// S6 — a nil-valued attribute is suppressed from the attributes member.
func TestSerializeEntityNullAttributeSuppressed(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	u := &user{ID: "1", Name: "U1"} // Bio left nil

	doc, err := s.SerializeEntity(u)
	require.NoError(t, err)
	res := doc.Data.(*jsonapi.Resource)
	require.NotNil(t, res.Attributes)

	_, ok := res.Attributes.Get("bio")
	assert.False(t, ok, "a nil-valued attribute is omitted, not emitted as null")
	name, ok := res.Attributes.Get("name")
	require.True(t, ok)
	assert.Equal(t, "U1", name)
}

// S6 (all-nil case) — if every attribute on a resource is nil, the
// attributes member itself is omitted entirely.
func TestSerializeEntityAllNullAttributesOmitsMember(t *testing.T) {
	s := jsonapi.NewSerializer(buildNoteResolver())

	doc, err := s.SerializeEntity(&note{ID: "1"})
	require.NoError(t, err)
	res := doc.Data.(*jsonapi.Resource)
	assert.Nil(t, res.Attributes, "attributes member omitted when every attribute is nil")
}

// Boundary 12 — BelongsTo relationship with nil field and empty via_field
// omits the relationship entirely (no links configured in this fixture).
func TestSerializeEntityBelongsToNullOmitsRelationship(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	p := &post{ID: 1, Title: "x"}

	doc, err := s.SerializeEntity(p)
	require.NoError(t, err)
	res := doc.Data.(*jsonapi.Resource)
	if res.Relationships != nil {
		_, ok := res.Relationships.Get("owner")
		assert.False(t, ok)
	}
}

// Boundary 11 — serializing an entity whose type is unknown is an error.
func TestSerializeEntityUnknownType(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	type unregistered struct{ ID string }

	_, err := s.SerializeEntity(&unregistered{ID: "1"})
	require.Error(t, err)
	var codecErr *jsonapi.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, jsonapi.UnknownType, codecErr.Kind)
}

// InvalidArgument — nil entity passed to SerializeEntity.
func TestSerializeEntityNilIsInvalidArgument(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	var p *post

	_, err := s.SerializeEntity(p)
	require.Error(t, err)
	var codecErr *jsonapi.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, jsonapi.InvalidArgument, codecErr.Kind)
}

// Invariant 1 — no duplicate identities across data ∪ included.
func TestNoDuplicateIdentitiesSharedOwner(t *testing.T) {
	s := jsonapi.NewSerializer(buildResolver())
	owner := &user{ID: "9", Name: "A"}
	p1 := &post{ID: 1, Title: "x", Owner: owner}
	p2 := &post{ID: 2, Title: "y", Owner: owner}

	doc, err := s.SerializeMany([]*post{p1, p2})
	require.NoError(t, err)
	require.Len(t, doc.Included, 1, "shared owner included exactly once")
}
