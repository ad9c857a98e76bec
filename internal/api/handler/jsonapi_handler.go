package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ilkerispir/jsonapi-codec/contract"
	"github.com/ilkerispir/jsonapi-codec/internal/api/registry"
	"github.com/ilkerispir/jsonapi-codec/internal/api/repository"
	"github.com/ilkerispir/jsonapi-codec/jsonapi"
)

// JSONAPIHandler serves the demo's generic JSON:API routes, wiring the
// repository (persistence) and the jsonapi/contract core (codec) together.
type JSONAPIHandler struct {
	repo         *repository.GenericRepository
	resolver     *contract.Resolver
	serializer   *jsonapi.Serializer
	deserializer *jsonapi.Deserializer
	parents      map[string]map[string]registry.ParentRelation
	children     map[string]map[string]registry.ChildRelation
}

// NewJSONAPIHandler builds a handler over repo and resolver.
func NewJSONAPIHandler(repo *repository.GenericRepository, resolver *contract.Resolver) *JSONAPIHandler {
	return &JSONAPIHandler{
		repo:         repo,
		resolver:     resolver,
		serializer:   jsonapi.NewSerializer(resolver),
		deserializer: jsonapi.NewDeserializer(resolver),
		parents:      registry.ParentRelations(),
		children:     registry.ChildRelations(),
	}
}

// ServeHTTP handles all JSON:API routes under /api/v1/.
func (h *JSONAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.api+json")

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	path = strings.TrimSuffix(path, "/")
	segments := strings.Split(path, "/")

	if len(segments) == 0 || segments[0] == "" {
		writeError(w, http.StatusNotFound, "resource type required")
		return
	}

	switch {
	case len(segments) == 1:
		h.handleCollection(w, r, segments[0])
	case len(segments) == 2:
		h.handleResource(w, r, segments[0], segments[1])
	case len(segments) == 3:
		h.handleRelated(w, r, segments[0], segments[1], segments[2])
	case len(segments) == 4 && segments[2] == "relationships":
		h.handleRelationshipLink(w, r, segments[0], segments[1], segments[3])
	default:
		writeError(w, http.StatusNotFound, "invalid path")
	}
}

func (h *JSONAPIHandler) handleCollection(w http.ResponseWriter, r *http.Request, resourceType string) {
	if _, ok := h.resolver.ResolveName(resourceType); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource type: %s", resourceType))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.listResources(w, r, resourceType, repository.ListParams{})
	case http.MethodPost:
		h.createResource(w, r, resourceType)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *JSONAPIHandler) handleResource(w http.ResponseWriter, r *http.Request, resourceType, idStr string) {
	id, err := h.parseID(resourceType, idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getResource(w, r, resourceType, id)
	case http.MethodPatch:
		h.updateResource(w, r, resourceType, id)
	case http.MethodDelete:
		h.deleteResource(w, r, resourceType, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRelated serves GET /{type}/{id}/{relationship}: the related
// resource(s) themselves (not just linkage).
func (h *JSONAPIHandler) handleRelated(w http.ResponseWriter, r *http.Request, parentType, parentIDStr, relName string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	parentID, err := h.parseID(parentType, parentIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if child, ok := h.children[parentType][relName]; ok {
		h.listResources(w, r, child.TargetType, repository.ListParams{ParentFK: child.FKColumn, ParentID: parentID})
		return
	}
	if parent, ok := h.parents[parentType][relName]; ok {
		parentInstance, err := h.repo.FindByID(r.Context(), parentType, parentID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if parentInstance == nil {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		fk := reflect.ValueOf(parentInstance).Elem().FieldByName(parent.FKField)
		if isZero(fk) {
			writeJSON(w, http.StatusOK, &jsonapi.Document{Data: nil})
			return
		}
		h.getResource(w, r, parent.TargetType, fk.Interface())
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown relationship: %s", relName))
}

// handleRelationshipLink serves GET /{type}/{id}/relationships/{rel}: the
// linkage object alone, without the related resource's attributes.
func (h *JSONAPIHandler) handleRelationshipLink(w http.ResponseWriter, r *http.Request, resourceType, idStr, relName string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := h.parseID(resourceType, idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if child, ok := h.children[resourceType][relName]; ok {
		instances, err := h.repo.List(r.Context(), child.TargetType, repository.ListParams{ParentFK: child.FKColumn, ParentID: id})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		identifiers := make([]*jsonapi.ResourceIdentifier, 0, len(instances))
		for _, inst := range instances {
			c, _ := h.resolver.ResolveInstance(inst)
			idVal, _ := c.IDField().Accessor.Get(inst)
			identifiers = append(identifiers, &jsonapi.ResourceIdentifier{Type: c.Name, ID: fmt.Sprintf("%v", idVal)})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": identifiers})
		return
	}
	if parent, ok := h.parents[resourceType][relName]; ok {
		instance, err := h.repo.FindByID(r.Context(), resourceType, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if instance == nil {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		fk := reflect.ValueOf(instance).Elem().FieldByName(parent.FKField)
		var data interface{}
		if !isZero(fk) {
			data = &jsonapi.ResourceIdentifier{Type: parent.TargetType, ID: fmt.Sprintf("%v", fk.Interface())}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown relationship: %s", relName))
}

func (h *JSONAPIHandler) listResources(w http.ResponseWriter, r *http.Request, resourceType string, params repository.ListParams) {
	q := r.URL.Query()
	if sort := q.Get("sort"); sort != "" {
		params.Sort = sort
	}
	if sizeStr := q.Get("page[size]"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil {
			params.PageSize = size
		}
	}
	if numStr := q.Get("page[number]"); numStr != "" {
		if num, err := strconv.Atoi(numStr); err == nil && params.PageSize > 0 {
			params.PageOffset = (num - 1) * params.PageSize
		}
	}

	instances, err := h.repo.List(r.Context(), resourceType, params)
	if err != nil {
		log.Printf("handler: list %s: %v", resourceType, err)
		writeError(w, http.StatusInternalServerError, "failed to list resources")
		return
	}

	if includes := q.Get("include"); includes != "" {
		for _, inst := range instances {
			h.hydrateIncludes(r.Context(), resourceType, inst, strings.Split(includes, ","))
		}
	}

	doc, err := h.serializer.SerializeMany(toTypedSlice(resourceType, h.resolver, instances))
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *JSONAPIHandler) getResource(w http.ResponseWriter, r *http.Request, resourceType string, id interface{}) {
	instance, err := h.repo.FindByID(r.Context(), resourceType, id)
	if err != nil {
		log.Printf("handler: get %s/%v: %v", resourceType, id, err)
		writeError(w, http.StatusInternalServerError, "failed to get resource")
		return
	}
	if instance == nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}

	if includes := r.URL.Query().Get("include"); includes != "" {
		h.hydrateIncludes(r.Context(), resourceType, instance, strings.Split(includes, ","))
	}

	doc, err := h.serializer.SerializeEntity(instance)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *JSONAPIHandler) createResource(w http.ResponseWriter, r *http.Request, resourceType string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	defer r.Body.Close()

	var doc jsonapi.Document
	if err := doc.UnmarshalJSON(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON:API document")
		return
	}

	instance, err := h.deserializer.DeserializeEntity(&doc)
	if err != nil {
		writeCodecError(w, err)
		return
	}

	created, err := h.repo.Create(r.Context(), resourceType, instance)
	if err != nil {
		log.Printf("handler: create %s: %v", resourceType, err)
		writeError(w, http.StatusInternalServerError, "failed to create resource")
		return
	}

	outDoc, err := h.serializer.SerializeEntity(created)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, outDoc)
}

func (h *JSONAPIHandler) updateResource(w http.ResponseWriter, r *http.Request, resourceType string, id interface{}) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	defer r.Body.Close()

	var doc jsonapi.Document
	if err := doc.UnmarshalJSON(body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON:API document")
		return
	}

	instance, err := h.deserializer.DeserializeEntity(&doc)
	if err != nil {
		writeCodecError(w, err)
		return
	}

	updated, err := h.repo.Update(r.Context(), resourceType, id, instance)
	if err != nil {
		log.Printf("handler: update %s/%v: %v", resourceType, id, err)
		writeError(w, http.StatusInternalServerError, "failed to update resource")
		return
	}

	outDoc, err := h.serializer.SerializeEntity(updated)
	if err != nil {
		writeCodecError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outDoc)
}

func (h *JSONAPIHandler) deleteResource(w http.ResponseWriter, r *http.Request, resourceType string, id interface{}) {
	if err := h.repo.Delete(r.Context(), resourceType, id); err != nil {
		log.Printf("handler: delete %s/%v: %v", resourceType, id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete resource")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// hydrateIncludes populates navigation fields on instance for each
// requested relationship name, loading related rows through the
// repository. Unknown or unsupported names are silently skipped, matching
// the codec's own tolerant stance on unrecognized members.
func (h *JSONAPIHandler) hydrateIncludes(ctx context.Context, resourceType string, instance interface{}, includes []string) {
	c, ok := h.resolver.ResolveName(resourceType)
	if !ok {
		return
	}
	for _, name := range includes {
		name = strings.TrimSpace(name)
		rel := c.FindRelationship(name)
		if rel == nil || rel.Field == nil {
			continue
		}
		switch rel.Kind {
		case contract.BelongsTo:
			parent, ok := h.parents[resourceType][name]
			if !ok {
				continue
			}
			fk := reflect.ValueOf(instance).Elem().FieldByName(parent.FKField)
			if isZero(fk) {
				continue
			}
			related, err := h.repo.FindByID(ctx, parent.TargetType, fk.Interface())
			if err != nil || related == nil {
				continue
			}
			rel.Field.Accessor.Set(instance, related)
		case contract.HasMany:
			child, ok := h.children[resourceType][name]
			if !ok {
				continue
			}
			idField := c.IDField()
			idVal, _ := idField.Accessor.Get(instance)
			related, err := h.repo.List(ctx, child.TargetType, repository.ListParams{ParentFK: child.FKColumn, ParentID: idVal})
			if err != nil {
				continue
			}
			slice := reflect.MakeSlice(rel.Field.DeclaredType, 0, len(related))
			for _, item := range related {
				slice = reflect.Append(slice, reflect.ValueOf(item))
			}
			rel.Field.Accessor.Set(instance, slice.Interface())
		}
	}
}

func (h *JSONAPIHandler) parseID(resourceType, idStr string) (interface{}, error) {
	c, ok := h.resolver.ResolveName(resourceType)
	if !ok {
		return nil, fmt.Errorf("unknown resource type: %s", resourceType)
	}
	idField := c.IDField()
	if idField == nil {
		return idStr, nil
	}
	switch idField.DeclaredType {
	case reflect.TypeOf(uuid.UUID{}):
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID: %s", idStr)
		}
		return id, nil
	case reflect.TypeOf(0):
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid integer id: %s", idStr)
		}
		return id, nil
	default:
		return idStr, nil
	}
}

// toTypedSlice converts []interface{} into the concrete []*T SerializeMany
// expects, T being the resource's runtime type.
func toTypedSlice(resourceType string, resolver *contract.Resolver, instances []interface{}) interface{} {
	c, ok := resolver.ResolveName(resourceType)
	if !ok || len(instances) == 0 {
		return instances
	}
	elemType := reflect.PointerTo(c.RuntimeType)
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(instances))
	for _, inst := range instances {
		slice = reflect.Append(slice, reflect.ValueOf(inst))
	}
	return slice.Interface()
}

func isZero(v reflect.Value) bool {
	return !v.IsValid() || v.IsZero()
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("handler: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, detail string) {
	w.WriteHeader(statusCode)
	errDoc := jsonapi.ErrorDocument{
		Errors: []jsonapi.APIError{
			{Status: strconv.Itoa(statusCode), Title: http.StatusText(statusCode), Detail: detail},
		},
	}
	json.NewEncoder(w).Encode(errDoc)
}

// writeCodecError maps a *jsonapi.CodecError's Kind to an HTTP status: a
// misconfigured contract (NonIterableHasMany, UnconstructibleCollection) is
// a 500, everything else reflects a bad request or missing type.
func writeCodecError(w http.ResponseWriter, err error) {
	var codecErr *jsonapi.CodecError
	if !errors.As(err, &codecErr) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	switch codecErr.Kind {
	case jsonapi.UnknownType:
		writeError(w, http.StatusNotFound, codecErr.Message)
	case jsonapi.ShapeMismatch, jsonapi.InvalidArgument:
		writeError(w, http.StatusBadRequest, codecErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, codecErr.Message)
	}
}
