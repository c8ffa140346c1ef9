package document

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/munson/internal/domain"
)

func loadPayload(t *testing.T, name string) domain.Payload {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	require.NoError(t, err)

	var p domain.Payload
	require.NoError(t, json.Unmarshal(b, &p))
	return p
}

func loadArtist(t *testing.T) *Document {
	t.Helper()
	doc, err := FromPayload(loadPayload(t, "artist_9_include_albums_record_label"))
	require.NoError(t, err)
	return doc
}

func TestIdentity(t *testing.T) {
	doc := loadArtist(t)
	assert.Equal(t, "9", doc.ID())
	assert.Equal(t, "artists", doc.Type())
	assert.Equal(t, "artists/9", doc.Path())
	assert.Equal(t, "http://api.example.com/artists/9", doc.Links()["self"])
	assert.Len(t, doc.Included(), 3)
	assert.Equal(t, []string{"albums", "manager", "record_label", "venues"}, doc.RelationshipNames())
}

func TestChangesTrackWorkingCopy(t *testing.T) {
	doc := loadArtist(t)
	assert.Empty(t, doc.Changes())
	assert.False(t, doc.Dirty())

	doc.SetAttributes(map[string]any{
		"name":     "Elton John",
		"twitter":  "@decemberists",
		"hometown": "Portland",
		"genres":   []any{"indie", "folk"},
	})

	changes := doc.Changes()
	assert.Equal(t, Change{"The Decemberists", "Elton John"}, changes["name"])
	assert.Equal(t, Change{nil, "Portland"}, changes["hometown"])
	assert.NotContains(t, changes, "twitter")
	assert.NotContains(t, changes, "genres")

	changed := doc.Changed()
	assert.Equal(t, map[string]any{"name": "Elton John", "hometown": "Portland"}, changed)

	working := doc.Attributes()
	for k, c := range changes {
		assert.Equal(t, working[k], c[1], k)
	}
	for k := range changed {
		assert.Contains(t, working, k)
	}
}

func TestSnapshotIsolatedFromSource(t *testing.T) {
	attrs := map[string]any{"tags": []any{"a"}}
	doc := New(domain.Resource{Type: "posts", ID: "1", Attributes: attrs}, nil)

	attrs["tags"].([]any)[0] = "mutated"
	v, _ := doc.Attribute("tags")
	assert.Equal(t, []any{"a"}, v)

	got := doc.Attributes()
	got["tags"] = "changed outside"
	assert.False(t, doc.Dirty())
}

func TestPayload(t *testing.T) {
	t.Run("with id emits only changes", func(t *testing.T) {
		doc := loadArtist(t)
		doc.SetAttributes(map[string]any{"twitter": "@TheJohn"})

		assert.Equal(t, map[string]any{
			"type":       "artists",
			"id":         "9",
			"attributes": map[string]any{"twitter": "@TheJohn"},
		}, doc.Payload())
	})

	t.Run("without id emits every attribute", func(t *testing.T) {
		doc := New(domain.Resource{Type: "artists", Attributes: map[string]any{"name": "Bowie"}}, nil)
		doc.SetAttributes(map[string]any{"twitter": "@bowie"})

		assert.Equal(t, map[string]any{
			"type":       "artists",
			"attributes": map[string]any{"name": "Bowie", "twitter": "@bowie"},
		}, doc.Payload())
	})
}

func TestRelationshipToMany(t *testing.T) {
	doc := loadArtist(t)

	albums, err := doc.Relationship("albums")
	require.NoError(t, err)
	assert.True(t, albums.ToMany)
	require.Len(t, albums.Many, 2)
	assert.Equal(t, "2", albums.Many[0].ID())
	assert.Equal(t, "1", albums.Many[1].ID())

	title, _ := albums.Many[1].Attribute("title")
	assert.Equal(t, "The Crane Wife", title)
	assert.Len(t, albums.Documents(), 2)
}

func TestRelationshipToOne(t *testing.T) {
	doc := loadArtist(t)

	label, err := doc.Relationship("record_label")
	require.NoError(t, err)
	assert.False(t, label.ToMany)
	require.NotNil(t, label.One)
	assert.Equal(t, "record_labels", label.One.Type())
}

func TestRelationshipResolvesTransitively(t *testing.T) {
	doc := loadArtist(t)

	albums, err := doc.Relationship("albums")
	require.NoError(t, err)

	label, err := albums.Many[1].Relationship("record_label")
	require.NoError(t, err)
	name, _ := label.One.Attribute("name")
	assert.Equal(t, "Capitol", name)
}

func TestRelationshipNullToOne(t *testing.T) {
	doc := loadArtist(t)

	manager, err := doc.Relationship("manager")
	require.NoError(t, err)
	assert.Nil(t, manager.One)
	assert.Empty(t, manager.Documents())
}

func TestRelationshipNotFound(t *testing.T) {
	doc := loadArtist(t)

	_, err := doc.Relationship("foos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRelationshipNotFound))
	assert.True(t, domain.IsKind(err, domain.KindRelationshipNotFound))
	assert.Contains(t, err.Error(), "`foos`")
	assert.Contains(t, err.Error(), "albums,manager,record_label,venues")
}

func TestRelationshipNotIncluded(t *testing.T) {
	doc := New(domain.Resource{
		Type: "things",
		ID:   "1",
		Relationships: map[string]domain.Relationship{
			"foos": {Data: domain.Linkage{
				Present: true,
				ToMany:  true,
				Many:    []domain.ResourceIdentifier{{Type: "foos", ID: "1"}, {Type: "foos", ID: "2"}},
			}},
		},
	}, nil)

	_, err := doc.Relationship("foos")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRelationshipNotIncluded))
	assert.Contains(t, err.Error(), "add `include=foos`")
}

func TestRelationshipWithoutLinkageIsNotIncluded(t *testing.T) {
	doc := loadArtist(t)

	_, err := doc.Relationship("venues")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindRelationshipNotIncluded))
}

func TestFromPayloadShapes(t *testing.T) {
	_, err := FromPayload(domain.Payload{Data: json.RawMessage(`[]`)})
	assert.True(t, domain.IsKind(err, domain.KindShapeMismatch))

	_, err = FromPayload(domain.Payload{Data: json.RawMessage(`"nope"`)})
	assert.True(t, domain.IsKind(err, domain.KindUnsupportedDatatype))

	_, err = FromPayload(domain.Payload{Errors: domain.ErrorObjects{{Title: "Gone"}}})
	assert.True(t, errors.Is(err, domain.ErrUnsupportedDatatype))
	assert.Contains(t, err.Error(), "Gone")
}

type fakeTransport struct {
	method string
	path   string
	body   any
	resp   domain.Response
	err    error
}

func (f *fakeTransport) Get(context.Context, string, domain.Params, domain.Headers) (domain.Response, error) {
	return f.resp, f.err
}

func (f *fakeTransport) Post(_ context.Context, path string, body any, _ domain.Headers) (domain.Response, error) {
	f.method, f.path, f.body = "POST", path, body
	return f.resp, f.err
}

func (f *fakeTransport) Patch(_ context.Context, path string, body any, _ domain.Headers) (domain.Response, error) {
	f.method, f.path, f.body = "PATCH", path, body
	return f.resp, f.err
}

func (f *fakeTransport) Delete(_ context.Context, path string, _ domain.Headers) (domain.Response, error) {
	f.method, f.path = "DELETE", path
	return f.resp, f.err
}

func TestSavePatchesPersistedDocument(t *testing.T) {
	doc := loadArtist(t)
	doc.SetAttributes(map[string]any{"name": "Elton John"})

	tr := &fakeTransport{resp: domain.Response{Status: 200, Body: domain.Payload{
		Data: json.RawMessage(`{"type":"artists","id":"9","attributes":{"name":"Elton John","twitter":"@decemberists"}}`),
	}}}

	saved, err := doc.Save(context.Background(), tr)
	require.NoError(t, err)

	assert.Equal(t, "PATCH", tr.method)
	assert.Equal(t, "artists/9", tr.path)
	assert.Equal(t, map[string]any{"data": map[string]any{
		"type":       "artists",
		"id":         "9",
		"attributes": map[string]any{"name": "Elton John"},
	}}, tr.body)

	assert.NotSame(t, doc, saved)
	assert.False(t, saved.Dirty())
	assert.True(t, doc.Dirty(), "receiver must not be mutated")
}

func TestSavePostsNewDocument(t *testing.T) {
	doc := New(domain.Resource{Type: "artists", Attributes: map[string]any{"name": "Bowie"}}, nil)

	tr := &fakeTransport{resp: domain.Response{Status: 201, Body: domain.Payload{
		Data: json.RawMessage(`{"type":"artists","id":"10","attributes":{"name":"Bowie"}}`),
	}}}

	saved, err := doc.Save(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, "POST", tr.method)
	assert.Equal(t, "artists", tr.path)
	assert.Equal(t, "10", saved.ID())
	assert.Equal(t, "", doc.ID())
}

func TestSaveNoContentKeepsState(t *testing.T) {
	doc := loadArtist(t)
	doc.SetAttributes(map[string]any{"name": "Elton John"})

	saved, err := doc.Save(context.Background(), &fakeTransport{resp: domain.Response{Status: 204}})
	require.NoError(t, err)
	name, _ := saved.Attribute("name")
	assert.Equal(t, "Elton John", name)
	assert.False(t, saved.Dirty())
}

func TestSaveReturnsAPIErrors(t *testing.T) {
	doc := New(domain.Resource{Type: "artists"}, nil)

	tr := &fakeTransport{resp: domain.Response{Status: 422, Body: domain.Payload{
		Errors: domain.ErrorObjects{{Status: "422", Title: "Invalid Attribute"}},
	}}}

	_, err := doc.Save(context.Background(), tr)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAPI))
	assert.Contains(t, err.Error(), "Invalid Attribute")
}

func TestSaveWithoutTransport(t *testing.T) {
	_, err := New(domain.Resource{Type: "artists"}, nil).Save(context.Background(), nil)
	assert.True(t, errors.Is(err, domain.ErrClientNotSet))
}
