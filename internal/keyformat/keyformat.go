// Package keyformat renames map keys between the canonical underscored form and the
// external convention a JSON:API server uses (dash-case or camelCase).
package keyformat

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aalvaropc/munson/internal/domain"
)

// Strategy names accepted by New.
const (
	Dasherize = "dasherize"
	Camelize  = "camelize"
)

var aliases = map[string]string{
	"dasherize": Dasherize,
	"dash":      Dasherize,
	"camelize":  Camelize,
	"camel":     Camelize,
}

// Formatter applies one key strategy and its inverse to nested maps and arrays.
type Formatter struct {
	strategy string
	format   func(string) string
	unformat func(string) string
}

// New returns a formatter for the named strategy.
func New(name string) (*Formatter, error) {
	strategy, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, &domain.OpError{
			Op:   "keyformat.new",
			Kind: domain.KindConfiguration,
			Err:  fmt.Errorf("no key formatter for %q (valid: dasherize, camelize): %w", name, domain.ErrUnknownKeyFormat),
		}
	}

	f := &Formatter{strategy: strategy}
	switch strategy {
	case Dasherize:
		f.format = dasherize
		f.unformat = undasherize
	case Camelize:
		f.format = camelize
		f.unformat = underscore
	}
	return f, nil
}

func (f *Formatter) Strategy() string { return f.strategy }

// Externalize renames every mapping key to the external convention.
func (f *Formatter) Externalize(v any) any {
	return transform(v, f.format)
}

// Internalize is the exact structural inverse of Externalize.
func (f *Formatter) Internalize(v any) any {
	return transform(v, f.unformat)
}

// Key formats a single key, e.g. a query parameter name.
func (f *Formatter) Key(k string) string {
	return f.format(k)
}

func transform(v any, fn func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fn(k)] = transform(val, fn)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[fn(k)] = val
		}
		return out
	case domain.Params:
		out := make(domain.Params, len(t))
		for k, val := range t {
			out[fn(k)] = transform(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = transform(val, fn)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = transform(val, fn)
		}
		return out
	default:
		return v
	}
}

func dasherize(k string) string {
	return strings.ReplaceAll(k, "_", "-")
}

func undasherize(k string) string {
	return strings.ReplaceAll(k, "-", "_")
}

// camelize turns "in_an_array" into "inAnArray". Later segments are capitalized
// ("foo_BAR" -> "fooBar"); the first keeps its case except for a leading upper-case
// letter, which is lowered.
func camelize(k string) string {
	parts := strings.Split(k, "_")
	// Casers are stateful and not safe to share between goroutines.
	title := cases.Title(language.Und)
	var b strings.Builder
	b.Grow(len(k))
	for i, p := range parts {
		if i == 0 {
			b.WriteString(lowerFirst(p))
			continue
		}
		b.WriteString(title.String(p))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var (
	acronymBoundary = regexp.MustCompile(`([A-Z\d]+)([A-Z][a-z])`)
	wordBoundary    = regexp.MustCompile(`([a-z\d])([A-Z])`)
)

// underscore turns "inAnArray" and "HTTPResponse" into "in_an_array" and "http_response".
func underscore(k string) string {
	if !strings.ContainsAny(k, "ABCDEFGHIJKLMNOPQRSTUVWXYZ-") {
		return k
	}
	s := acronymBoundary.ReplaceAllString(k, "${1}_${2}")
	s = wordBoundary.ReplaceAllString(s, "${1}_${2}")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ToLower(s)
}
