package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/paginator"
	"github.com/aalvaropc/munson/internal/registry"
)

type call struct {
	method  string
	path    string
	params  domain.Params
	headers domain.Headers
	body    any
}

type stubTransport struct {
	calls []call
	reply string
}

func (s *stubTransport) respond() domain.Response {
	var p domain.Payload
	if s.reply != "" {
		_ = json.Unmarshal([]byte(s.reply), &p)
	}
	return domain.Response{Status: 200, Body: p}
}

func (s *stubTransport) Get(_ context.Context, path string, params domain.Params, headers domain.Headers) (domain.Response, error) {
	s.calls = append(s.calls, call{method: "GET", path: path, params: params, headers: headers})
	return s.respond(), nil
}

func (s *stubTransport) Post(_ context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	s.calls = append(s.calls, call{method: "POST", path: path, headers: headers, body: body})
	return s.respond(), nil
}

func (s *stubTransport) Patch(_ context.Context, path string, body any, headers domain.Headers) (domain.Response, error) {
	s.calls = append(s.calls, call{method: "PATCH", path: path, headers: headers, body: body})
	return s.respond(), nil
}

func (s *stubTransport) Delete(_ context.Context, path string, headers domain.Headers) (domain.Response, error) {
	s.calls = append(s.calls, call{method: "DELETE", path: path, headers: headers})
	return s.respond(), nil
}

func TestPath(t *testing.T) {
	assert.Equal(t, "articles", New("articles").Path())
	assert.Equal(t, "v1/posts", New("articles", WithPath("/v1/posts/")).Path())
}

func TestNegotiatePath(t *testing.T) {
	c := New("articles")
	assert.Equal(t, "custom/endpoint", c.NegotiatePath("/custom/endpoint", "1"))
	assert.Equal(t, "articles/1", c.NegotiatePath("", "1"))
	assert.Equal(t, "articles", c.NegotiatePath("", ""))
	assert.Equal(t, "articles/a%2Fb", c.NegotiatePath("", "a/b"))
}

func TestQueryIsFreshAndPaginated(t *testing.T) {
	f, err := paginator.NewFactory(domain.PaginatorConfig{Strategy: "offset", Max: 50, Default: 20})
	require.NoError(t, err)
	c := New("articles", WithPaginator(f))

	first := c.Query().Page(map[string]int{"offset": 40})
	assert.Equal(t, "page%5Blimit%5D=20&page%5Boffset%5D=40", first.QueryString())
	assert.Equal(t, "page%5Blimit%5D=20", c.Query().QueryString())
}

func TestFetchUsesHeadersAndRegistry(t *testing.T) {
	tr := &stubTransport{reply: `{"data":[{"type":"articles","id":"1"}]}`}
	reg := registry.New()
	reg.RegisterFunc("articles", func(res domain.Resource, _ []domain.Resource, _ domain.ErrorObjects) (any, error) {
		return "article " + res.ID, nil
	})

	c := New("articles", WithTransport(tr), WithRegistry(reg), WithHeaders(domain.Headers{"X-Tenant": "acme"}))
	col, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []any{"article 1"}, col.Items)
	require.Len(t, tr.calls, 1)
	assert.Equal(t, "articles", tr.calls[0].path)
	assert.Equal(t, "acme", tr.calls[0].headers["X-Tenant"])
}

func TestFind(t *testing.T) {
	tr := &stubTransport{reply: `{"data":{"type":"articles","id":"3"}}`}
	got, err := New("articles", WithTransport(tr), WithRegistry(registry.New()), WithPath("posts")).Find(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "posts/3", tr.calls[0].path)
	assert.Equal(t, "3", got.(*document.Document).ID())
}

func TestSave(t *testing.T) {
	tr := &stubTransport{reply: `{"data":{"type":"articles","id":"3","attributes":{"title":"new"}}}`}
	c := New("articles", WithTransport(tr), WithPath("posts"), WithHeaders(domain.Headers{"X-Tenant": "acme"}))

	doc := document.New(domain.Resource{Type: "articles", ID: "3", Attributes: map[string]any{"title": "old"}}, nil)
	doc.SetAttributes(map[string]any{"title": "new"})

	saved, err := c.Save(context.Background(), doc)
	require.NoError(t, err)
	assert.False(t, saved.Dirty())

	require.Len(t, tr.calls, 1)
	assert.Equal(t, "PATCH", tr.calls[0].method)
	assert.Equal(t, "posts/3", tr.calls[0].path)
	assert.Equal(t, "acme", tr.calls[0].headers["X-Tenant"])
}

func TestDestroy(t *testing.T) {
	tr := &stubTransport{}
	var logs bytes.Buffer
	c := New("articles", WithTransport(tr), WithLogger(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	require.NoError(t, c.Destroy(context.Background(), "4"))
	assert.Equal(t, "DELETE", tr.calls[0].method)
	assert.Equal(t, "articles/4", tr.calls[0].path)
	assert.Contains(t, logs.String(), "client.destroy")

	tr.reply = `{"errors":[{"status":"403","title":"Forbidden"}]}`
	err := c.Destroy(context.Background(), "4")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAPI))
	assert.Contains(t, err.Error(), "Forbidden")
}

func TestWithoutTransport(t *testing.T) {
	c := New("articles")

	_, err := c.Fetch(context.Background())
	assert.True(t, errors.Is(err, domain.ErrClientNotSet))

	_, err = c.Save(context.Background(), document.New(domain.Resource{Type: "articles"}, nil))
	assert.True(t, errors.Is(err, domain.ErrClientNotSet))

	assert.True(t, errors.Is(c.Destroy(context.Background(), "1"), domain.ErrClientNotSet))
}
