package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AttributeMap is the ordered bag of a resource's attribute values.
type AttributeMap = OrderedMap[interface{}]

// RelationshipMap is the ordered bag of a resource's relationship objects.
type RelationshipMap = OrderedMap[*RelationshipObject]

// JSONAPIObject is the top-level "jsonapi" envelope member.
type JSONAPIObject struct {
	Version string `json:"version"`
}

// Document is a JSON:API top-level envelope. Data holds either *Resource
// (singular form) or []*Resource (plural form); only the singular form
// carries a JSONAPI member, per the wire format in §6.
type Document struct {
	JSONAPI  *JSONAPIObject `json:"jsonapi,omitempty"`
	Data     interface{}    `json:"data"`
	Included []*Resource    `json:"included,omitempty"`
}

// Resource is a single JSON:API resource object.
type Resource struct {
	Type          string           `json:"type"`
	ID            string           `json:"id,omitempty"`
	Attributes    *AttributeMap    `json:"attributes,omitempty"`
	Relationships *RelationshipMap `json:"relationships,omitempty"`
}

// Links holds the produced-only "related" link of a relationship object.
type Links struct {
	Related string `json:"related,omitempty"`
}

// RelationshipObject is one member of a resource's "relationships" bag.
type RelationshipObject struct {
	Links *Links   `json:"links,omitempty"`
	Data  *Linkage `json:"data,omitempty"`
}

// ResourceIdentifier is the {type, id} pair inside a Linkage.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// UnmarshalJSON decodes the envelope, resolving Data to either *Resource or
// []*Resource depending on whether the wire value is a JSON object or
// array — encoding/json can't do this dispatch for an interface{} field on
// its own.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		JSONAPI  *JSONAPIObject  `json:"jsonapi"`
		Data     json.RawMessage `json:"data"`
		Included []*Resource     `json:"included"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.JSONAPI = raw.JSONAPI
	d.Included = raw.Included

	trimmed := bytes.TrimSpace(raw.Data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		d.Data = nil
	case trimmed[0] == '[':
		var many []*Resource
		if err := json.Unmarshal(raw.Data, &many); err != nil {
			return err
		}
		d.Data = many
	case trimmed[0] == '{':
		var one Resource
		if err := json.Unmarshal(raw.Data, &one); err != nil {
			return err
		}
		d.Data = &one
	default:
		return fmt.Errorf("jsonapi: data member must be an object, array, or null")
	}
	return nil
}
