package jsonapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkerispir/jsonapi-codec/jsonapi"
)

func decode(t *testing.T, raw string) *jsonapi.Document {
	t.Helper()
	var doc jsonapi.Document
	require.NoError(t, doc.UnmarshalJSON([]byte(raw)))
	return &doc
}

// Boundary 9 — DeserializeEntity on an array data member is a shape
// mismatch.
func TestDeserializeEntityRejectsArrayData(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":[{"type":"users","id":"1"}]}`)

	_, err := d.DeserializeEntity(doc)
	require.Error(t, err)
	var codecErr *jsonapi.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, jsonapi.ShapeMismatch, codecErr.Kind)
}

// Boundary 10 — DeserializeMany on a singular data member is a shape
// mismatch.
func TestDeserializeManyRejectsObjectData(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":{"type":"users","id":"1"}}`)

	_, err := d.DeserializeMany(doc)
	require.Error(t, err)
	var codecErr *jsonapi.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, jsonapi.ShapeMismatch, codecErr.Kind)
}

// S4 — shared reference: two posts in data both pointing at the same
// included user deserialize to the same Go instance.
func TestDeserializeManySharedIncludedReference(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{
		"data": [
			{"type":"posts","id":"1","attributes":{"title":"a"},
			 "relationships":{"owner":{"data":{"type":"users","id":"9"}}}},
			{"type":"posts","id":"2","attributes":{"title":"b"},
			 "relationships":{"owner":{"data":{"type":"users","id":"9"}}}}
		],
		"included": [
			{"type":"users","id":"9","attributes":{"name":"A"}}
		]
	}`)

	instances, err := d.DeserializeMany(doc)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	p1 := instances[0].(*post)
	p2 := instances[1].(*post)
	require.NotNil(t, p1.Owner)
	require.NotNil(t, p2.Owner)
	assert.Same(t, p1.Owner, p2.Owner, "both posts share one materialized owner instance")
	assert.Equal(t, "A", p1.Owner.Name)
}

// S5 — an attribute not present on the contract is silently ignored.
func TestDeserializeEntityUnknownAttributeIgnored(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":{"type":"posts","id":"1","attributes":{"title":"x","bogus":"y"}}}`)

	inst, err := d.DeserializeEntity(doc)
	require.NoError(t, err)
	p := inst.(*post)
	assert.Equal(t, "x", p.Title)
}

// An unknown relationship is likewise silently ignored.
func TestDeserializeEntityUnknownRelationshipIgnored(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":{"type":"posts","id":"1","attributes":{"title":"x"},
		"relationships":{"bogus":{"data":{"type":"nope","id":"1"}}}}}`)

	inst, err := d.DeserializeEntity(doc)
	require.NoError(t, err)
	p := inst.(*post)
	assert.Equal(t, "x", p.Title)
}

// Round-trip law — serialize then deserialize a scalar-only entity
// reproduces equal field values.
func TestRoundTripScalarFields(t *testing.T) {
	resolver := buildResolver()
	s := jsonapi.NewSerializer(resolver)
	d := jsonapi.NewDeserializer(resolver)

	original := &post{ID: 42, Title: "round trip"}
	doc, err := s.SerializeEntity(original)
	require.NoError(t, err)

	inst, err := d.DeserializeEntity(doc)
	require.NoError(t, err)
	got := inst.(*post)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Title, got.Title)
}

// Round-trip law — identity sharing survives a full serialize/deserialize
// cycle for a direct cycle (mirrors S3 on the deserialize side).
func TestRoundTripCycleIdentity(t *testing.T) {
	resolver := buildResolver()
	s := jsonapi.NewSerializer(resolver)
	d := jsonapi.NewDeserializer(resolver)

	u1 := &user{ID: "1", Name: "U1"}
	u2 := &user{ID: "2", Name: "U2"}
	u1.Friends = []*user{u2}
	u2.Friends = []*user{u1}

	doc, err := s.SerializeMany([]*user{u1, u2})
	require.NoError(t, err)

	instances, err := d.DeserializeMany(doc)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	got1 := instances[0].(*user)
	got2 := instances[1].(*user)
	require.Len(t, got1.Friends, 1)
	require.Len(t, got2.Friends, 1)
	assert.Same(t, got2, got1.Friends[0], "cycle resolves back to the same shared instance")
	assert.Same(t, got1, got2.Friends[0])
}

// Round-trip law — idempotence: re-serializing a deserialized document
// reproduces the original resource's type, id and title attribute.
func TestRoundTripIdempotentReserialize(t *testing.T) {
	resolver := buildResolver()
	s := jsonapi.NewSerializer(resolver)
	d := jsonapi.NewDeserializer(resolver)

	owner := &user{ID: "9", Name: "A"}
	original := &post{ID: 1, Title: "x", Owner: owner, OwnerID: strPtr("9")}

	doc1, err := s.SerializeEntity(original)
	require.NoError(t, err)
	inst, err := d.DeserializeEntity(doc1)
	require.NoError(t, err)

	doc2, err := s.SerializeEntity(inst)
	require.NoError(t, err)

	res1 := doc1.Data.(*jsonapi.Resource)
	res2 := doc2.Data.(*jsonapi.Resource)
	assert.Equal(t, res1.Type, res2.Type)
	assert.Equal(t, res1.ID, res2.ID)
	title1, _ := res1.Attributes.Get("title")
	title2, _ := res2.Attributes.Get("title")
	assert.Equal(t, title1, title2)
}

// An unresolved relationship linkage (absent from both data and included)
// is left at its factory default rather than erroring.
func TestDeserializeEntityUnresolvedLinkageIsNotError(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":{"type":"posts","id":"1","attributes":{"title":"x"},
		"relationships":{"owner":{"data":{"type":"users","id":"missing"}}}}}`)

	inst, err := d.DeserializeEntity(doc)
	require.NoError(t, err)
	p := inst.(*post)
	assert.Nil(t, p.Owner)
}

// Boundary — an unknown resource type in data is an error.
func TestDeserializeEntityUnknownTypeErrors(t *testing.T) {
	d := jsonapi.NewDeserializer(buildResolver())
	doc := decode(t, `{"data":{"type":"ghosts","id":"1"}}`)

	_, err := d.DeserializeEntity(doc)
	require.Error(t, err)
	var codecErr *jsonapi.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, jsonapi.UnknownType, codecErr.Kind)
}
