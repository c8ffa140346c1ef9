package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/keyformat"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/query"
)

// Connection is the JSON:API transport over HTTP. Paths are resolved against the
// base URL; outbound keys are externalized and inbound keys internalized by the
// optional key formatter.
type Connection struct {
	base      *url.URL
	exec      *Executor
	formatter *keyformat.Formatter
	headers   domain.Headers
	logger    *slog.Logger
	requestID func() string
}

var _ ports.Transport = (*Connection)(nil)

type ConnectionOption func(*Connection)

func WithExecutor(e *Executor) ConnectionOption {
	return func(c *Connection) {
		if e != nil {
			c.exec = e
		}
	}
}

func WithFormatter(f *keyformat.Formatter) ConnectionOption {
	return func(c *Connection) { c.formatter = f }
}

// WithDefaultHeaders sets headers sent on every request; per-call headers win.
func WithDefaultHeaders(h domain.Headers) ConnectionOption {
	return func(c *Connection) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

func WithLogger(l *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestID replaces the X-Request-Id generator.
func WithRequestID(fn func() string) ConnectionOption {
	return func(c *Connection) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

func NewConnection(baseURL string, opts ...ConnectionOption) (*Connection, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		if err == nil {
			err = fmt.Errorf("base url %q must be absolute", baseURL)
		}
		return nil, &domain.OpError{
			Op:   "httpclient.connection",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err),
		}
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Connection{
		base:      u,
		exec:      NewExecutor(),
		headers:   domain.Headers{},
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		requestID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Dial builds a connection from the loaded configuration.
func Dial(cfg domain.Config, logger *slog.Logger) (*Connection, error) {
	opts := []ConnectionOption{
		WithExecutor(NewExecutorFromConfig(ConfigFrom(cfg))),
		WithDefaultHeaders(cfg.Headers),
		WithLogger(logger),
	}
	if strings.TrimSpace(cfg.KeyFormat) != "" {
		f, err := keyformat.New(cfg.KeyFormat)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFormatter(f))
	}
	return NewConnection(cfg.BaseURL, opts...)
}

func (c *Connection) BaseURL() string { return c.base.String() }

func (c *Connection) Get(ctx context.Context, path string, params domain.Params, headers domain.Headers) (domain.Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, headers)
}

func (c *Connection) Post(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, c.outbound(body), headers)
}

func (c *Connection) Patch(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, c.outbound(body), headers)
}

func (c *Connection) Delete(ctx context.Context, path string, headers domain.Headers) (domain.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, headers)
}

func (c *Connection) outbound(body any) any {
	if body == nil {
		return map[string]any{}
	}
	if c.formatter == nil {
		return body
	}
	return c.formatter.Externalize(body)
}

// URL resolves path and params against the base URL.
func (c *Connection) URL(path string, params domain.Params) string {
	rel := strings.TrimLeft(path, "/")
	ref, err := url.Parse(rel)
	if err != nil || ref.Scheme != "" {
		ref = &url.URL{Path: rel}
	}
	u := c.base.ResolveReference(ref)
	if len(params) > 0 {
		if c.formatter != nil {
			params, _ = c.formatter.Externalize(params).(domain.Params)
		}
		u.RawQuery = query.Encode(params)
	}
	return u.String()
}

func (c *Connection) do(ctx context.Context, method, path string, params domain.Params, body any, headers domain.Headers) (domain.Response, error) {
	op := "httpclient." + strings.ToLower(method)
	target := c.URL(path, params)
	id := c.requestID()

	merged := make(domain.Headers, len(c.headers)+len(headers)+1)
	for k, v := range c.headers {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	merged["X-Request-Id"] = id

	req, err := BuildRequest(ctx, RequestSpec{Method: method, URL: target, Headers: merged, Body: body})
	if err != nil {
		return domain.Response{}, err
	}

	c.logger.Debug("http.request", "method", method, "url", target, "request_id", id)

	data, err := c.exec.Do(ctx, req)
	if err != nil {
		c.logger.Error("http.response", "method", method, "url", target, "request_id", id,
			"duration_ms", data.Duration.Milliseconds(), "err", err)
		return domain.Response{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Path: path,
			Err:  fmt.Errorf("%w: %v", domain.ErrExecution, err),
		}
	}

	c.logger.Info("http.response", "method", method, "url", target, "request_id", id,
		"status", data.Status, "duration_ms", data.Duration.Milliseconds(), "bytes", len(data.BodyBytes))

	payload, err := c.decode(data.BodyBytes)
	if err != nil {
		return domain.Response{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindExecution,
			Path: path,
			Err:  fmt.Errorf("%w: status %d: invalid JSON:API body: %v", domain.ErrExecution, data.Status, err),
		}
	}

	return domain.Response{
		Status:  data.Status,
		Headers: map[string][]string(data.Headers),
		Body:    payload,
		Raw:     data.BodyBytes,
	}, nil
}

// decode parses a response body. An empty body is an empty payload.
func (c *Connection) decode(b []byte) (domain.Payload, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return domain.Payload{}, nil
	}
	if c.formatter == nil {
		var p domain.Payload
		if err := json.Unmarshal(b, &p); err != nil {
			return domain.Payload{}, err
		}
		return p, nil
	}

	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return domain.Payload{}, err
	}
	if _, ok := generic.(map[string]any); !ok {
		return domain.Payload{}, fmt.Errorf("top level is %T, want an object", generic)
	}
	return domain.DecodePayload(c.formatter.Internalize(generic))
}
