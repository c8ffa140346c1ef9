// Package client is the per-type entry point: it knows a resource type's endpoint
// and hands out queries and writes bound to one transport.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/mapper"
	"github.com/aalvaropc/munson/internal/paginator"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/query"
	"github.com/aalvaropc/munson/internal/registry"
)

type Client struct {
	typ       string
	path      string
	transport ports.Transport
	registry  *registry.Registry
	paginator paginator.Factory
	headers   domain.Headers
	logger    *slog.Logger
}

type Option func(*Client)

// WithPath overrides the endpoint path, which defaults to the type name.
func WithPath(path string) Option {
	return func(c *Client) { c.path = strings.Trim(path, "/") }
}

func WithTransport(t ports.Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithRegistry(r *registry.Registry) Option {
	return func(c *Client) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithPaginator attaches a fresh paginator from f to every query.
func WithPaginator(f paginator.Factory) Option {
	return func(c *Client) { c.paginator = f }
}

// WithHeaders sets headers sent with every request of this client.
func WithHeaders(h domain.Headers) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(typ string, opts ...Option) *Client {
	c := &Client{
		typ:      typ,
		registry: registry.Default(),
		headers:  domain.Headers{},
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Type() string { return c.typ }

// Path is the collection endpoint of the type.
func (c *Client) Path() string {
	if c.path != "" {
		return c.path
	}
	return c.typ
}

// NegotiatePath picks the request path: an explicit path wins, then path/id, then
// the collection path.
func (c *Client) NegotiatePath(path, id string) string {
	switch {
	case path != "":
		return strings.TrimLeft(path, "/")
	case id != "":
		return c.Path() + "/" + url.PathEscape(id)
	default:
		return c.Path()
	}
}

// Query returns a fresh builder bound to this client.
func (c *Client) Query() *query.Builder {
	opts := []query.Option{
		query.WithTransport(c.transport, c.Path()),
		query.WithRegistry(c.registry),
		query.WithHeaders(c.headers),
	}
	if c.paginator != nil {
		opts = append(opts, query.WithPaginator(c.paginator()))
	}
	return query.New(opts...)
}

func (c *Client) Find(ctx context.Context, id string) (any, error) {
	c.logger.Debug("client.find", "type", c.typ, "id", id)
	return c.Query().Find(ctx, id)
}

func (c *Client) Fetch(ctx context.Context) (*mapper.Collection, error) {
	c.logger.Debug("client.fetch", "type", c.typ)
	return c.Query().Fetch(ctx)
}

// Save writes doc to this client's endpoint and returns the document built from the
// response.
func (c *Client) Save(ctx context.Context, doc *document.Document) (*document.Document, error) {
	if c.transport == nil {
		return nil, notSet("client.save")
	}
	path := c.NegotiatePath("", doc.ID())
	c.logger.Debug("client.save", "type", c.typ, "path", path, "dirty", doc.Dirty())
	return doc.SaveTo(ctx, headerTransport{c.transport, c.headers}, path)
}

// Destroy deletes the resource with the given id. Error objects in the response are
// returned as an API error.
func (c *Client) Destroy(ctx context.Context, id string) error {
	if c.transport == nil {
		return notSet("client.destroy")
	}
	path := c.NegotiatePath("", id)
	c.logger.Debug("client.destroy", "type", c.typ, "path", path)

	resp, err := c.transport.Delete(ctx, path, c.headers)
	if err != nil {
		return err
	}
	if len(resp.Body.Errors) > 0 {
		return &domain.OpError{
			Op:   "client.destroy",
			Kind: domain.KindAPI,
			Path: path,
			Err:  resp.Body.Errors,
		}
	}
	return nil
}

func notSet(op string) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindConfiguration,
		Err:  fmt.Errorf("bind a transport with client.WithTransport: %w", domain.ErrClientNotSet),
	}
}

// headerTransport adds the client's headers to writes issued by a document.
type headerTransport struct {
	ports.Transport
	headers domain.Headers
}

func (h headerTransport) Post(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	return h.Transport.Post(ctx, path, body, h.merge(headers))
}

func (h headerTransport) Patch(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	return h.Transport.Patch(ctx, path, body, h.merge(headers))
}

func (h headerTransport) merge(extra domain.Headers) domain.Headers {
	out := make(domain.Headers, len(h.headers)+len(extra))
	for k, v := range h.headers {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
