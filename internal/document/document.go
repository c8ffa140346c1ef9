// Package document wraps a single JSON:API resource: it tracks attribute changes
// against the snapshot taken at construction and resolves relationships against the
// included pool shipped with the same response.
package document

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/ports"
)

// Document is single-owner; it is not safe for concurrent mutation.
type Document struct {
	ident         domain.ResourceIdentifier
	original      map[string]any
	working       map[string]any
	relationships map[string]domain.Relationship
	links         map[string]any
	meta          map[string]any
	errors        domain.ErrorObjects
	pool          *pool
}

type Option func(*Document)

// WithErrors attaches the top-level errors of the response the resource came from.
func WithErrors(errs domain.ErrorObjects) Option {
	return func(d *Document) { d.errors = errs }
}

// New builds a document for res; included is the side-loaded pool of the same response.
func New(res domain.Resource, included []domain.Resource, opts ...Option) *Document {
	return newWithPool(res, newPool(included), opts...)
}

func newWithPool(res domain.Resource, p *pool, opts ...Option) *Document {
	d := &Document{
		ident:         res.Identifier(),
		original:      domain.CloneMap(res.Attributes),
		working:       domain.CloneMap(res.Attributes),
		relationships: res.Relationships,
		links:         res.Links,
		meta:          res.Meta,
		pool:          p,
	}
	if d.relationships == nil {
		d.relationships = map[string]domain.Relationship{}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FromPayload builds a document from a single-resource envelope.
func FromPayload(p domain.Payload) (*Document, error) {
	switch p.Shape() {
	case domain.ShapeResource:
	case domain.ShapeCollection:
		return nil, &domain.OpError{
			Op:   "document.from_payload",
			Kind: domain.KindShapeMismatch,
			Err:  fmt.Errorf("expected a single resource, got a collection: %w", domain.ErrShapeMismatch),
		}
	default:
		err := error(domain.ErrUnsupportedDatatype)
		if p.HasErrors() {
			err = fmt.Errorf("%w: %w", domain.ErrUnsupportedDatatype, p.Errors)
		}
		return nil, &domain.OpError{
			Op:   "document.from_payload",
			Kind: domain.KindUnsupportedDatatype,
			Err:  err,
		}
	}

	res, err := p.DecodeResource()
	if err != nil {
		return nil, &domain.OpError{
			Op:   "document.from_payload",
			Kind: domain.KindUnsupportedDatatype,
			Err:  err,
		}
	}
	return New(res, p.Included, WithErrors(p.Errors)), nil
}

func (d *Document) Identifier() domain.ResourceIdentifier { return d.ident }
func (d *Document) ID() string                            { return d.ident.ID }
func (d *Document) Type() string                          { return d.ident.Type }
func (d *Document) Links() map[string]any                 { return d.links }
func (d *Document) Meta() map[string]any                  { return d.meta }
func (d *Document) Errors() domain.ErrorObjects           { return d.errors }

// Included returns the shared included pool.
func (d *Document) Included() []domain.Resource { return d.pool.resources }

// Path is the canonical endpoint of the resource: "type" before persist, "type/id" after.
func (d *Document) Path() string {
	return d.ident.String()
}

// Attributes returns a copy of the working attributes.
func (d *Document) Attributes() map[string]any {
	return domain.CloneMap(d.working)
}

// Attribute returns the working value of one attribute.
func (d *Document) Attribute(name string) (any, bool) {
	v, ok := d.working[name]
	return v, ok
}

// SetAttributes merges patch into the working attributes.
func (d *Document) SetAttributes(patch map[string]any) {
	for k, v := range patch {
		d.working[k] = domain.Clone(v)
	}
}

// Change is an [original, working] pair.
type Change [2]any

// Changes returns every working attribute that differs from the original snapshot.
func (d *Document) Changes() map[string]Change {
	out := map[string]Change{}
	for k, v := range d.working {
		orig, ok := d.original[k]
		if ok && reflect.DeepEqual(orig, v) {
			continue
		}
		out[k] = Change{orig, v}
	}
	return out
}

// Changed returns the working values of Changes; it is the minimal update payload.
func (d *Document) Changed() map[string]any {
	out := map[string]any{}
	for k, c := range d.Changes() {
		out[k] = domain.Clone(c[1])
	}
	return out
}

// Dirty reports whether any attribute differs from the snapshot.
func (d *Document) Dirty() bool {
	return len(d.Changes()) > 0
}

// Payload returns the resource object for a write: a partial update when the
// document has an id, the full attribute set otherwise.
func (d *Document) Payload() map[string]any {
	if d.ident.ID != "" {
		return map[string]any{
			"type":       d.ident.Type,
			"id":         d.ident.ID,
			"attributes": d.Changed(),
		}
	}
	return map[string]any{
		"type":       d.ident.Type,
		"attributes": d.Attributes(),
	}
}

// RelationshipNames returns declared relationship names, sorted.
func (d *Document) RelationshipNames() []string {
	names := make([]string, 0, len(d.relationships))
	for k := range d.relationships {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Related is the resolved target of a relationship.
type Related struct {
	Name   string
	ToMany bool
	One    *Document
	Many   []*Document
}

// Documents returns the resolved documents in declared order.
func (r Related) Documents() []*Document {
	if r.ToMany {
		return r.Many
	}
	if r.One != nil {
		return []*Document{r.One}
	}
	return nil
}

// Relationship resolves name against the included pool. The error kind tells apart
// an undeclared relationship (KindRelationshipNotFound) from a declared one whose
// targets were not side-loaded (KindRelationshipNotIncluded).
func (d *Document) Relationship(name string) (Related, error) {
	rel, ok := d.relationships[name]
	if !ok {
		available := strings.Join(d.RelationshipNames(), ",")
		if available == "" {
			available = "(none)"
		}
		return Related{}, &domain.OpError{
			Op:   "document.relationship",
			Kind: domain.KindRelationshipNotFound,
			Err: fmt.Errorf("relationship `%s` does not exist on %s; available: %s: %w",
				name, d.ident, available, domain.ErrRelationshipNotFound),
		}
	}

	if !rel.Data.Present {
		return Related{}, notIncluded(name, d.ident.Type+"."+name)
	}

	out := Related{Name: name, ToMany: rel.Data.ToMany}
	if rel.Data.ToMany {
		out.Many = make([]*Document, 0, len(rel.Data.Many))
		for _, ri := range rel.Data.Many {
			doc, err := d.resolve(name, ri)
			if err != nil {
				return Related{}, err
			}
			out.Many = append(out.Many, doc)
		}
		return out, nil
	}

	if rel.Data.One == nil {
		return out, nil
	}
	doc, err := d.resolve(name, *rel.Data.One)
	if err != nil {
		return Related{}, err
	}
	out.One = doc
	return out, nil
}

func (d *Document) resolve(name string, ri domain.ResourceIdentifier) (*Document, error) {
	res, ok := d.pool.find(ri)
	if !ok {
		return nil, notIncluded(name, ri.String())
	}
	return newWithPool(res, d.pool), nil
}

func notIncluded(name, target string) error {
	return &domain.OpError{
		Op:   "document.relationship",
		Kind: domain.KindRelationshipNotIncluded,
		Err: fmt.Errorf("relationship `%s` was not included (missing %s); add `include=%s`: %w",
			name, target, name, domain.ErrRelationshipNotIncluded),
	}
}

// Save writes the document through t and returns the document built from the
// response. The receiver is left untouched.
func (d *Document) Save(ctx context.Context, t ports.Transport) (*Document, error) {
	return d.SaveTo(ctx, t, d.Path())
}

// SaveTo is Save against an explicit endpoint path.
func (d *Document) SaveTo(ctx context.Context, t ports.Transport, path string) (*Document, error) {
	if t == nil {
		return nil, &domain.OpError{
			Op:   "document.save",
			Kind: domain.KindConfiguration,
			Err:  domain.ErrClientNotSet,
		}
	}

	body := map[string]any{"data": d.Payload()}

	var (
		resp domain.Response
		err  error
	)
	if d.ident.ID != "" {
		resp, err = t.Patch(ctx, path, body, nil)
	} else {
		resp, err = t.Post(ctx, path, body, nil)
	}
	if err != nil {
		return nil, err
	}

	return d.fromSaveResponse(path, resp.Body)
}

func (d *Document) fromSaveResponse(path string, p domain.Payload) (*Document, error) {
	if p.Shape() == domain.ShapeAbsent {
		if len(p.Errors) > 0 {
			return nil, &domain.OpError{
				Op:   "document.save",
				Kind: domain.KindAPI,
				Path: path,
				Err:  p.Errors,
			}
		}
		// No content: the server accepted the document as sent.
		res := domain.Resource{
			Type:          d.ident.Type,
			ID:            d.ident.ID,
			Attributes:    d.working,
			Relationships: d.relationships,
			Links:         d.links,
			Meta:          d.meta,
		}
		return newWithPool(res, d.pool), nil
	}
	return FromPayload(p)
}
