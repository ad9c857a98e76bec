package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkerispir/jsonapi-codec/internal/api/registry"
)

func TestParseIDDispatchesByDeclaredType(t *testing.T) {
	h := &JSONAPIHandler{resolver: registry.BuildResolver()}

	id, err := h.parseID("jobs", "42")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	u := uuid.New()
	id, err = h.parseID("organizations", u.String())
	require.NoError(t, err)
	assert.Equal(t, u, id)

	_, err = h.parseID("organizations", "not-a-uuid")
	assert.Error(t, err)

	_, err = h.parseID("nonexistent", "1")
	assert.Error(t, err)
}

func TestToTypedSliceFallsBackToRawSliceForUnknownType(t *testing.T) {
	resolver := registry.BuildResolver()
	instances := []interface{}{&struct{}{}}

	result := toTypedSlice("nonexistent", resolver, instances)
	assert.Equal(t, instances, result, "unknown type falls back to the raw slice")
}

func TestWriteErrorProducesJSONAPIErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "resource not found")

	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"404"`)
	assert.Contains(t, rec.Body.String(), `"detail":"resource not found"`)
}
