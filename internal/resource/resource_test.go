package resource

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/munson/internal/attribute"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/mapper"
	"github.com/aalvaropc/munson/internal/registry"
)

var articles = &Definition{
	Type: "articles",
	Schema: attribute.MustSchema(
		attribute.New("title", attribute.String),
		attribute.New("views", attribute.Integer, attribute.Default(int64(0))),
		attribute.New("rating", attribute.Decimal),
		attribute.New("published_at", attribute.Time, attribute.SerializeAs("iso8601")),
		attribute.New("tags", attribute.String, attribute.Array()),
		attribute.New("featured", attribute.Raw),
	),
}

const articlePayload = `{
  "data": {
    "type": "articles",
    "id": "1",
    "attributes": {
      "title": "JSON:API paints my bikeshed!",
      "views": "42",
      "rating": "4.50",
      "published_at": "2016-03-04T10:11:12Z",
      "tags": ["api", 7],
      "featured": true,
      "legacy": "kept"
    },
    "relationships": {
      "author": { "data": { "type": "people", "id": "9" } }
    }
  },
  "included": [
    { "type": "people", "id": "9", "attributes": { "name": "Dan" } }
  ]
}`

func mapArticle(t *testing.T) *Model {
	t.Helper()
	var p domain.Payload
	require.NoError(t, json.Unmarshal([]byte(articlePayload), &p))

	reg := registry.New()
	articles.Register(reg)

	m, err := mapper.ResourceAs[*Model](mapper.New(p, mapper.WithRegistry(reg)))
	require.NoError(t, err)
	return m
}

func TestTypedAccessors(t *testing.T) {
	m := mapArticle(t)

	assert.Equal(t, "1", m.ID())
	assert.Equal(t, "articles", m.Type())
	assert.Equal(t, "JSON:API paints my bikeshed!", m.String("title"))
	assert.Equal(t, int64(42), m.Int("views"))
	assert.Equal(t, "4.5", m.Decimal("rating").FloatString(1))
	assert.Equal(t, 4.5, mustFloat(m.Decimal("rating")))
	assert.Equal(t, time.Date(2016, 3, 4, 10, 11, 12, 0, time.UTC), m.Time("published_at"))
	assert.Equal(t, []string{"api", "7"}, m.Strings("tags"))
	assert.True(t, m.Bool("featured"))
	assert.Equal(t, "kept", m.Get("legacy"))
}

func mustFloat(r interface{ Float64() (float64, bool) }) float64 {
	f, _ := r.Float64()
	return f
}

func TestAttributesProcessesDeclaredOnly(t *testing.T) {
	attrs := mapArticle(t).Attributes()
	assert.Len(t, attrs, 6)
	assert.NotContains(t, attrs, "legacy")
}

func TestSetSerializes(t *testing.T) {
	m := mapArticle(t)
	at := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)

	m.Set("published_at", at).Set("title", "Renamed")

	assert.Equal(t, map[string]any{
		"published_at": "2020-01-02T03:04:05Z",
		"title":        "Renamed",
	}, m.Changed())
	assert.Equal(t, at, m.Time("published_at"))
}

func TestRelationship(t *testing.T) {
	author, err := mapArticle(t).Relationship("author")
	require.NoError(t, err)
	name, _ := author.One.Attribute("name")
	assert.Equal(t, "Dan", name)
}

func TestNewAppliesDefaults(t *testing.T) {
	m := articles.New(map[string]any{"title": "Draft"})

	assert.Equal(t, "", m.ID())
	assert.Equal(t, int64(0), m.Int("views"))
	assert.Equal(t, []string{}, m.Strings("tags"))
	assert.Equal(t, map[string]any{
		"type": "articles",
		"attributes": map[string]any{
			"title": "Draft",
			"views": int64(0),
			"tags":  []any{},
		},
	}, m.Document().Payload())
}

type recorder struct {
	method string
	body   any
}

func (r *recorder) Get(context.Context, string, domain.Params, domain.Headers) (domain.Response, error) {
	return domain.Response{}, nil
}

func (r *recorder) Post(_ context.Context, _ string, body any, _ domain.Headers) (domain.Response, error) {
	r.method, r.body = "POST", body
	return domain.Response{Status: 201, Body: domain.Payload{
		Data: json.RawMessage(`{"type":"articles","id":"5","attributes":{"title":"Draft","views":0}}`),
	}}, nil
}

func (r *recorder) Patch(context.Context, string, any, domain.Headers) (domain.Response, error) {
	r.method = "PATCH"
	return domain.Response{Status: 204}, nil
}

func (r *recorder) Delete(context.Context, string, domain.Headers) (domain.Response, error) {
	return domain.Response{}, nil
}

func TestSaveReturnsNewModel(t *testing.T) {
	rec := &recorder{}
	draft := articles.New(map[string]any{"title": "Draft"})

	saved, err := draft.Save(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, "POST", rec.method)
	assert.Equal(t, "5", saved.ID())
	assert.Equal(t, "", draft.ID())
	assert.Same(t, articles, saved.Definition())
}
