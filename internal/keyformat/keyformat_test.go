package keyformat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/munson/internal/domain"
)

func underscored() map[string]any {
	return map[string]any{
		"top_level": true,
		"more":      map[string]any{"second_level": true},
		"etc":       []any{map[string]any{"in_an_array": true}, "plain_string", float64(3)},
	}
}

func dashed() map[string]any {
	return map[string]any{
		"top-level": true,
		"more":      map[string]any{"second-level": true},
		"etc":       []any{map[string]any{"in-an-array": true}, "plain_string", float64(3)},
	}
}

func camelized() map[string]any {
	return map[string]any{
		"topLevel": true,
		"more":     map[string]any{"secondLevel": true},
		"etc":      []any{map[string]any{"inAnArray": true}, "plain_string", float64(3)},
	}
}

func TestDasherize(t *testing.T) {
	f, err := New("dasherize")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"top-level": true}, f.Externalize(map[string]any{"top_level": true}))
	assert.Equal(t, dashed(), f.Externalize(underscored()))
	assert.Equal(t, underscored(), f.Internalize(dashed()))
}

func TestCamelize(t *testing.T) {
	f, err := New("camelize")
	require.NoError(t, err)

	assert.Equal(t, camelized(), f.Externalize(underscored()))
	assert.Equal(t, underscored(), f.Internalize(camelized()))
}

func TestCamelizeCapitalizesSegments(t *testing.T) {
	f, err := New("camelize")
	require.NoError(t, err)

	assert.Equal(t, "fooBar", f.Key("foo_BAR"))
	assert.Equal(t, "userId", f.Key("user_ID"))
	assert.Equal(t, "firstName", f.Key("First_name"))
}

func TestRoundTrip(t *testing.T) {
	for _, name := range []string{"dash", "camel"} {
		f, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, underscored(), f.Internalize(f.Externalize(underscored())), name)
	}
}

func TestScalarsUntouched(t *testing.T) {
	f, err := New("dasherize")
	require.NoError(t, err)

	assert.Equal(t, "some_value", f.Externalize("some_value"))
	assert.Nil(t, f.Externalize(nil))
}

func TestParamsAreTransformed(t *testing.T) {
	f, err := New("dasherize")
	require.NoError(t, err)

	got := f.Externalize(domain.Params{
		"filter": map[string]string{"first_name": "jo"},
		"sort":   "-created_at",
	})
	assert.Equal(t, domain.Params{
		"filter": map[string]string{"first-name": "jo"},
		"sort":   "-created_at",
	}, got)
}

func TestUnderscoreRules(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"inAnArray", "in_an_array"},
		{"HTTPResponse", "http_response"},
		{"already_snake", "already_snake"},
		{"with-dash", "with_dash"},
		{"id", "id"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, underscore(tt.in))
		})
	}
}

func TestUnknownStrategy(t *testing.T) {
	_, err := New("kebab-ish")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownKeyFormat))
	assert.True(t, domain.IsKind(err, domain.KindConfiguration))
}
