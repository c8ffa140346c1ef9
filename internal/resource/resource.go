// Package resource binds an attribute schema to documents of one JSON:API type,
// giving typed reads and serialized writes over the document's working attributes.
package resource

import (
	"context"
	"math/big"
	"time"

	"github.com/aalvaropc/munson/internal/attribute"
	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/registry"
)

// Definition declares a resource type and its attributes.
type Definition struct {
	Type   string
	Schema *attribute.Schema
}

// Register stores a factory for d.Type that maps resources to *Model.
func (d *Definition) Register(reg *registry.Registry) {
	reg.RegisterFunc(d.Type, func(res domain.Resource, included []domain.Resource, errs domain.ErrorObjects) (any, error) {
		return d.Wrap(document.New(res, included, document.WithErrors(errs))), nil
	})
}

// Wrap binds an existing document to the definition.
func (d *Definition) Wrap(doc *document.Document) *Model {
	return &Model{def: d, doc: doc}
}

// New builds an unsaved model. Values are serialized and declared attributes that
// are missing get their defaults.
func (d *Definition) New(values map[string]any) *Model {
	attrs := map[string]any{}
	for _, name := range d.Schema.Names() {
		a, _ := d.Schema.Attribute(name)
		if v := a.DefaultValue(); v != nil {
			attrs[name] = a.Serialize(v)
		}
	}
	for k, v := range d.serialize(values) {
		attrs[k] = v
	}
	return d.Wrap(document.New(domain.Resource{Type: d.Type, Attributes: attrs}, nil))
}

func (d *Definition) serialize(values map[string]any) map[string]any {
	if d.Schema == nil {
		return values
	}
	return d.Schema.Serialize(values)
}

// Model is a document read and written through a schema.
type Model struct {
	def *Definition
	doc *document.Document
}

func (m *Model) Document() *document.Document          { return m.doc }
func (m *Model) ID() string                            { return m.doc.ID() }
func (m *Model) Type() string                          { return m.doc.Type() }
func (m *Model) Errors() domain.ErrorObjects           { return m.doc.Errors() }
func (m *Model) Dirty() bool                           { return m.doc.Dirty() }
func (m *Model) Changed() map[string]any               { return m.doc.Changed() }
func (m *Model) Definition() *Definition               { return m.def }
func (m *Model) Included() []domain.Resource           { return m.doc.Included() }
func (m *Model) Links() map[string]any                 { return m.doc.Links() }
func (m *Model) Meta() map[string]any                  { return m.doc.Meta() }
func (m *Model) Identifier() domain.ResourceIdentifier { return m.doc.Identifier() }

// Get returns the processed value of a declared attribute, or the raw working value
// of an undeclared one.
func (m *Model) Get(name string) any {
	raw, _ := m.doc.Attribute(name)
	if a, ok := m.def.Schema.Attribute(name); ok {
		return a.Process(raw)
	}
	return raw
}

// Attributes returns every declared attribute, processed.
func (m *Model) Attributes() map[string]any {
	if m.def.Schema == nil {
		return m.doc.Attributes()
	}
	return m.def.Schema.Process(m.doc.Attributes())
}

func (m *Model) String(name string) string {
	s, _ := m.Get(name).(string)
	return s
}

func (m *Model) Int(name string) int64 {
	switch v := m.Get(name).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (m *Model) Float(name string) float64 {
	switch v := m.Get(name).(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (m *Model) Decimal(name string) *big.Rat {
	r, _ := m.Get(name).(*big.Rat)
	return r
}

func (m *Model) Time(name string) time.Time {
	t, _ := m.Get(name).(time.Time)
	return t
}

func (m *Model) Bool(name string) bool {
	b, _ := m.Get(name).(bool)
	return b
}

// Strings returns an array-valued attribute as strings; non-string elements are skipped.
func (m *Model) Strings(name string) []string {
	switch v := m.Get(name).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Set serializes v through the declared attribute and stores it in the document.
func (m *Model) Set(name string, v any) *Model {
	m.doc.SetAttributes(m.def.serialize(map[string]any{name: v}))
	return m
}

// SetAll is Set for several attributes.
func (m *Model) SetAll(values map[string]any) *Model {
	m.doc.SetAttributes(m.def.serialize(values))
	return m
}

func (m *Model) Relationship(name string) (document.Related, error) {
	return m.doc.Relationship(name)
}

// Save persists the model and returns a new model built from the response.
func (m *Model) Save(ctx context.Context, t ports.Transport) (*Model, error) {
	saved, err := m.doc.Save(ctx, t)
	if err != nil {
		return nil, err
	}
	return m.def.Wrap(saved), nil
}
