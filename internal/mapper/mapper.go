// Package mapper turns JSON:API payloads into domain objects, using the factories of
// a type registry and falling back to bare documents.
package mapper

import (
	"fmt"

	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/registry"
)

// Collection is a mapped collection response. Top-level members of the payload
// travel with the items.
type Collection struct {
	Items   []any
	Meta    map[string]any
	Links   map[string]any
	JSONAPI map[string]any
	Errors  domain.ErrorObjects
}

func (c *Collection) Len() int { return len(c.Items) }

// Documents returns the document behind every item: bare documents as they are,
// registered objects through their Document method. Items with neither are skipped.
func (c *Collection) Documents() []*document.Document {
	out := make([]*document.Document, 0, len(c.Items))
	for _, it := range c.Items {
		if d, ok := DocumentOf(it); ok {
			out = append(out, d)
		}
	}
	return out
}

// Documenter is implemented by mapped objects that wrap a document.
type Documenter interface {
	Document() *document.Document
}

// DocumentOf returns the document behind a mapped item.
func DocumentOf(item any) (*document.Document, bool) {
	switch t := item.(type) {
	case *document.Document:
		return t, t != nil
	case Documenter:
		d := t.Document()
		return d, d != nil
	default:
		return nil, false
	}
}

type Mapper struct {
	payload  domain.Payload
	registry *registry.Registry
}

type Option func(*Mapper)

// WithRegistry overrides the process-wide registry.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Mapper) {
		if r != nil {
			m.registry = r
		}
	}
}

func New(p domain.Payload, opts ...Option) *Mapper {
	m := &Mapper{payload: p, registry: registry.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resource maps a single-resource payload.
func (m *Mapper) Resource() (any, error) {
	switch m.payload.Shape() {
	case domain.ShapeResource:
	case domain.ShapeCollection:
		return nil, shapeMismatch("mapper.resource", "called Resource on a collection response; use Collection")
	default:
		return nil, m.unsupported("mapper.resource")
	}

	res, err := m.payload.DecodeResource()
	if err != nil {
		return nil, decodeErr("mapper.resource", err)
	}
	return m.Build(res, m.payload.Included, m.payload.Errors)
}

// Collection maps a collection payload. Every item is built against the shared
// included pool and resolves its relationships on its own.
func (m *Mapper) Collection() (*Collection, error) {
	switch m.payload.Shape() {
	case domain.ShapeCollection:
	case domain.ShapeResource:
		return nil, shapeMismatch("mapper.collection", "called Collection on a single resource response; use Resource")
	default:
		return nil, m.unsupported("mapper.collection")
	}

	resources, err := m.payload.DecodeCollection()
	if err != nil {
		return nil, decodeErr("mapper.collection", err)
	}

	items := make([]any, 0, len(resources))
	for _, res := range resources {
		item, err := m.Build(res, m.payload.Included, m.payload.Errors)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &Collection{
		Items:   items,
		Meta:    m.payload.Meta,
		Links:   m.payload.Links,
		JSONAPI: m.payload.JSONAPI,
		Errors:  m.payload.Errors,
	}, nil
}

// Build maps one resource through the factory registered for its type, or wraps it
// in a document when none is registered.
func (m *Mapper) Build(res domain.Resource, included []domain.Resource, errs domain.ErrorObjects) (any, error) {
	if f, ok := m.registry.Lookup(res.Type); ok && f.Map != nil {
		out, err := f.Map(res, included, errs)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "mapper.build",
				Kind: domain.KindExecution,
				Path: res.Identifier().String(),
				Err:  err,
			}
		}
		return out, nil
	}
	return document.New(res, included, document.WithErrors(errs)), nil
}

// Resources returns the primary data followed by the included resources.
func (m *Mapper) Resources() ([]domain.Resource, error) {
	var primary []domain.Resource
	switch m.payload.Shape() {
	case domain.ShapeCollection:
		list, err := m.payload.DecodeCollection()
		if err != nil {
			return nil, decodeErr("mapper.resources", err)
		}
		primary = list
	case domain.ShapeResource:
		res, err := m.payload.DecodeResource()
		if err != nil {
			return nil, decodeErr("mapper.resources", err)
		}
		primary = []domain.Resource{res}
	default:
		return nil, m.unsupported("mapper.resources")
	}

	out := make([]domain.Resource, 0, len(primary)+len(m.payload.Included))
	out = append(out, primary...)
	return append(out, m.payload.Included...), nil
}

// ResourceAs maps a single resource and asserts its Go type.
func ResourceAs[T any](m *Mapper) (T, error) {
	var zero T
	v, err := m.Resource()
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, typeMismatch("mapper.resource_as", zero, v)
	}
	return out, nil
}

// CollectionAs maps a collection and asserts the Go type of every item.
func CollectionAs[T any](m *Mapper) ([]T, error) {
	c, err := m.Collection()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(c.Items))
	for _, it := range c.Items {
		v, ok := it.(T)
		if !ok {
			var zero T
			return nil, typeMismatch("mapper.collection_as", zero, it)
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *Mapper) unsupported(op string) error {
	err := error(domain.ErrUnsupportedDatatype)
	if m.payload.HasErrors() {
		err = fmt.Errorf("%w: %w", domain.ErrUnsupportedDatatype, m.payload.Errors)
	}
	return &domain.OpError{Op: op, Kind: domain.KindUnsupportedDatatype, Err: err}
}

func shapeMismatch(op, msg string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindShapeMismatch,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrShapeMismatch),
	}
}

func decodeErr(op string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindUnsupportedDatatype,
		Err:  fmt.Errorf("%w: %v", domain.ErrUnsupportedDatatype, err),
	}
}

func typeMismatch(op string, want, got any) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindShapeMismatch,
		Err:  fmt.Errorf("mapped %T, want %T: %w", got, want, domain.ErrShapeMismatch),
	}
}
