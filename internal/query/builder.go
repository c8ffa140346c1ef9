// Package query accumulates JSON:API query directives (include, sort, fields,
// filter, page) and serializes them into canonical request parameters.
package query

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/mapper"
	"github.com/aalvaropc/munson/internal/paginator"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/registry"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is one explicit sort entry.
type SortSpec struct {
	Field     string
	Direction Direction
}

func Asc(field string) SortSpec  { return SortSpec{Field: field, Direction: Ascending} }
func Desc(field string) SortSpec { return SortSpec{Field: field, Direction: Descending} }

// keyed keeps per-key value lists in first-seen key order.
type keyed struct {
	keys   []string
	values map[string][]string
}

func (k *keyed) add(key string, vals ...string) {
	if k.values == nil {
		k.values = map[string][]string{}
	}
	existing, seen := k.values[key]
	if !seen && len(vals) == 0 {
		return
	}
	if !seen {
		k.keys = append(k.keys, key)
	}
	for _, v := range vals {
		if !contains(existing, v) {
			existing = append(existing, v)
		}
	}
	if existing == nil {
		existing = []string{}
	}
	k.values[key] = existing
}

func (k *keyed) empty() bool { return len(k.keys) == 0 }

func (k *keyed) joined() map[string]string {
	out := make(map[string]string, len(k.keys))
	for _, key := range k.keys {
		out[key] = strings.Join(k.values[key], ",")
	}
	return out
}

// Builder is single-owner; build one per request.
type Builder struct {
	include []string
	sort    []string
	fields  keyed
	filter  keyed
	page    map[string]string
	headers domain.Headers

	paginator paginator.Paginator
	transport ports.Transport
	path      string
	registry  *registry.Registry
}

type Option func(*Builder)

// WithTransport binds the builder to a transport and the collection path of a type.
func WithTransport(t ports.Transport, path string) Option {
	return func(b *Builder) {
		b.transport = t
		b.path = strings.Trim(path, "/")
	}
}

// WithPaginator routes Page options through p.
func WithPaginator(p paginator.Paginator) Option {
	return func(b *Builder) { b.paginator = p }
}

// WithRegistry selects the registry used to map fetched payloads.
func WithRegistry(r *registry.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithHeaders seeds request headers.
func WithHeaders(h domain.Headers) Option {
	return func(b *Builder) { b.Headers(h) }
}

func New(opts ...Option) *Builder {
	b := &Builder{
		page:    map[string]string{},
		headers: domain.Headers{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Includes appends relationship paths such as "user" or "user.addresses".
func (b *Builder) Includes(paths ...string) *Builder {
	b.include = append(b.include, paths...)
	return b
}

// Sort appends sort entries. An entry is a field name (ascending, or "-field" for
// descending), a SortSpec, or a map of field to "asc"/"desc" applied in key order.
// Entries are validated before anything is appended.
func (b *Builder) Sort(entries ...any) (*Builder, error) {
	var tokens []string
	for _, e := range entries {
		switch t := e.(type) {
		case string:
			tokens = append(tokens, t)
		case SortSpec:
			tok, err := sortToken(t.Field, string(t.Direction))
			if err != nil {
				return b, err
			}
			tokens = append(tokens, tok)
		case map[string]string:
			fields := make([]string, 0, len(t))
			for f := range t {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				tok, err := sortToken(f, t[f])
				if err != nil {
					return b, err
				}
				tokens = append(tokens, tok)
			}
		default:
			return b, unsupportedSort(fmt.Sprintf("unsupported sort entry %T", e))
		}
	}
	b.sort = append(b.sort, tokens...)
	return b, nil
}

func sortToken(field, dir string) (string, error) {
	switch Direction(dir) {
	case Ascending:
		return field, nil
	case Descending:
		return "-" + field, nil
	default:
		return "", unsupportedSort(fmt.Sprintf("unknown direction %q for %q; use asc or desc", dir, field))
	}
}

func unsupportedSort(msg string) error {
	return &domain.OpError{
		Op:   "query.sort",
		Kind: domain.KindUnsupportedSortDirection,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrUnsupportedSortDirection),
	}
}

// Fields restricts the attributes returned for typ. Repeated names are dropped.
func (b *Builder) Fields(typ string, names ...string) *Builder {
	b.fields.add(typ, names...)
	return b
}

// Filter adds values for field. Slices are flattened and values are deduplicated by
// their wire form.
func (b *Builder) Filter(field string, values ...any) *Builder {
	b.filter.add(field, flatten(values)...)
	return b
}

// Page sets page options, through the paginator when one is attached.
func (b *Builder) Page(opts map[string]int) *Builder {
	if b.paginator != nil {
		b.paginator.Set(opts)
		return b
	}
	for k, v := range opts {
		b.page[k] = wireString(v)
	}
	return b
}

// Headers merges request headers; later values win.
func (b *Builder) Headers(h domain.Headers) *Builder {
	for k, v := range h {
		b.headers[k] = v
	}
	return b
}

// RequestHeaders returns a copy of the accumulated headers.
func (b *Builder) RequestHeaders() domain.Headers {
	out := make(domain.Headers, len(b.headers))
	for k, v := range b.headers {
		out[k] = v
	}
	return out
}

// Params returns the canonical parameters. A key is present only when its
// directive was used, except page which a paginator always emits.
func (b *Builder) Params() domain.Params {
	p := domain.Params{}
	if !b.filter.empty() {
		p["filter"] = b.filter.joined()
	}
	if !b.fields.empty() {
		p["fields"] = b.fields.joined()
	}
	if len(b.include) > 0 {
		inc := append([]string(nil), b.include...)
		sort.Strings(inc)
		p["include"] = strings.Join(inc, ",")
	}
	if len(b.sort) > 0 {
		p["sort"] = strings.Join(b.sort, ",")
	}
	if b.paginator != nil {
		for k, v := range b.paginator.Params() {
			p[k] = v
		}
	} else if len(b.page) > 0 {
		page := make(map[string]string, len(b.page))
		for k, v := range b.page {
			page[k] = v
		}
		p["page"] = page
	}
	return p
}

func (b *Builder) QueryString() string { return Encode(b.Params()) }

func (b *Builder) String() string { return b.QueryString() }

// Fetch requests the collection endpoint and maps the response as a collection.
func (b *Builder) Fetch(ctx context.Context) (*mapper.Collection, error) {
	p, err := b.get(ctx, "query.fetch", b.path)
	if err != nil {
		return nil, err
	}
	return b.mapper(p).Collection()
}

// Find requests path/id and maps the response as a single resource.
func (b *Builder) Find(ctx context.Context, id string) (any, error) {
	p, err := b.get(ctx, "query.find", joinPath(b.path, url.PathEscape(id)))
	if err != nil {
		return nil, err
	}
	return b.mapper(p).Resource()
}

// FetchFrom requests a custom endpoint below the collection path. The result is a
// *mapper.Collection when collection is true, a single mapped resource otherwise.
func (b *Builder) FetchFrom(ctx context.Context, endpoint string, collection bool) (any, error) {
	p, err := b.get(ctx, "query.fetch_from", joinPath(b.path, strings.TrimLeft(endpoint, "/")))
	if err != nil {
		return nil, err
	}
	if collection {
		return b.mapper(p).Collection()
	}
	return b.mapper(p).Resource()
}

func (b *Builder) get(ctx context.Context, op, path string) (domain.Payload, error) {
	if b.transport == nil {
		return domain.Payload{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindConfiguration,
			Err:  fmt.Errorf("bind a transport with query.WithTransport: %w", domain.ErrClientNotSet),
		}
	}
	resp, err := b.transport.Get(ctx, path, b.Params(), b.RequestHeaders())
	if err != nil {
		return domain.Payload{}, err
	}
	return resp.Body, nil
}

func (b *Builder) mapper(p domain.Payload) *mapper.Mapper {
	return mapper.New(p, mapper.WithRegistry(b.registry))
}

func joinPath(base, rest string) string {
	switch {
	case base == "":
		return rest
	case rest == "":
		return base
	default:
		return base + "/" + rest
	}
}

func flatten(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case []any:
			out = append(out, flatten(t)...)
		case []string:
			out = append(out, t...)
		case []int:
			for _, n := range t {
				out = append(out, wireString(n))
			}
		default:
			out = append(out, wireString(v))
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
