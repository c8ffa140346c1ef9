package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ResourceIdentifier is the (type, id) pair identifying a wire resource.
// ID is empty before the resource has been persisted.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

func (ri ResourceIdentifier) String() string {
	if ri.ID == "" {
		return ri.Type
	}
	return ri.Type + "/" + ri.ID
}

// UnmarshalJSON accepts numeric ids, which some servers emit despite the format requiring strings.
func (ri *ResourceIdentifier) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type string          `json:"type"`
		ID   json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	ri.Type = raw.Type
	ri.ID = id
	return nil
}

// Linkage is the decoded `data` member of a relationship object.
type Linkage struct {
	// Present is false when the relationship object carried no `data` member at all.
	Present bool
	ToMany  bool
	One     *ResourceIdentifier
	Many    []ResourceIdentifier
}

// Identifiers returns the linked identifiers in declared order.
func (l Linkage) Identifiers() []ResourceIdentifier {
	if l.ToMany {
		return l.Many
	}
	if l.One != nil {
		return []ResourceIdentifier{*l.One}
	}
	return nil
}

// Relationship is a relationship object of a resource.
type Relationship struct {
	Data  Linkage
	Links map[string]any
	Meta  map[string]any
}

func (r *Relationship) UnmarshalJSON(b []byte) error {
	var raw struct {
		Data  json.RawMessage `json:"data"`
		Links map[string]any  `json:"links"`
		Meta  map[string]any  `json:"meta"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Links = raw.Links
	r.Meta = raw.Meta
	r.Data = Linkage{}

	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 {
		return nil
	}
	r.Data.Present = true

	switch data[0] {
	case 'n':
		return nil
	case '[':
		r.Data.ToMany = true
		r.Data.Many = []ResourceIdentifier{}
		return json.Unmarshal(data, &r.Data.Many)
	case '{':
		var one ResourceIdentifier
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		r.Data.One = &one
		return nil
	default:
		return fmt.Errorf("relationship data must be an object, array or null: %w", ErrUnsupportedDatatype)
	}
}

func (r Relationship) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.Data.Present {
		switch {
		case r.Data.ToMany:
			many := r.Data.Many
			if many == nil {
				many = []ResourceIdentifier{}
			}
			out["data"] = many
		case r.Data.One != nil:
			out["data"] = r.Data.One
		default:
			out["data"] = nil
		}
	}
	if len(r.Links) > 0 {
		out["links"] = r.Links
	}
	if len(r.Meta) > 0 {
		out["meta"] = r.Meta
	}
	return json.Marshal(out)
}

// Resource is a single JSON:API resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         map[string]any          `json:"links,omitempty"`
	Meta          map[string]any          `json:"meta,omitempty"`
}

func (r Resource) Identifier() ResourceIdentifier {
	return ResourceIdentifier{Type: r.Type, ID: r.ID}
}

func (r *Resource) UnmarshalJSON(b []byte) error {
	type plain Resource
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	id, err := decodeID(raw.ID)
	if err != nil {
		return err
	}
	*r = Resource(raw.plain)
	r.ID = id
	return nil
}

// ErrorObject is a single JSON:API error object.
type ErrorObject struct {
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Code   string         `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source map[string]any `json:"source,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

func (e ErrorObject) String() string {
	msg := e.Title
	if e.Detail != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Detail
	}
	if msg == "" {
		msg = e.Code
	}
	if e.Status != "" {
		msg = fmt.Sprintf("[%s] %s", e.Status, msg)
	}
	return strings.TrimSpace(msg)
}

// DataShape is the structural classification of a payload's primary data.
type DataShape string

const (
	ShapeAbsent     DataShape = "absent"
	ShapeResource   DataShape = "resource"
	ShapeCollection DataShape = "collection"
	ShapeOther      DataShape = "other"
)

// Payload is a top-level JSON:API document. Data stays raw until its shape is known.
type Payload struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Included []Resource      `json:"included,omitempty"`
	Errors   ErrorObjects    `json:"errors,omitempty"`
	Meta     map[string]any  `json:"meta,omitempty"`
	Links    map[string]any  `json:"links,omitempty"`
	JSONAPI  map[string]any  `json:"jsonapi,omitempty"`
}

// Shape reports whether Data is a single resource, a collection, or something else.
func (p Payload) Shape() DataShape {
	data := bytes.TrimSpace(p.Data)
	if len(data) == 0 {
		return ShapeAbsent
	}
	switch data[0] {
	case '{':
		return ShapeResource
	case '[':
		return ShapeCollection
	default:
		return ShapeOther
	}
}

// HasErrors reports whether the payload carried a top-level errors array.
func (p Payload) HasErrors() bool {
	return p.Errors != nil
}

// DecodeResource decodes Data as a single resource object.
func (p Payload) DecodeResource() (Resource, error) {
	var r Resource
	if err := json.Unmarshal(p.Data, &r); err != nil {
		return Resource{}, err
	}
	return r, nil
}

// DecodeCollection decodes Data as an array of resource objects.
func (p Payload) DecodeCollection() ([]Resource, error) {
	out := []Resource{}
	if err := json.Unmarshal(p.Data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewResourcePayload builds a single-resource envelope sharing the given included pool.
func NewResourcePayload(r Resource, included []Resource) (Payload, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Data: data, Included: included}, nil
}

// DecodePayload converts a generic decoded JSON value (map/slice tree) into a Payload.
func DecodePayload(v any) (Payload, error) {
	if v == nil {
		return Payload{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Payload{}, err
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("resource id must be a string or number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
