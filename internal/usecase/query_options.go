package usecase

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/query"
)

// Directive is one keyed query option, e.g. filter[state]=read,unread.
type Directive struct {
	Key    string
	Values []string
}

// ParseDirective reads "key=v1,v2".
func ParseDirective(s string) (Directive, error) {
	key, vals, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Directive{}, &domain.OpError{
			Op:   "usecase.parse_directive",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%q must look like key=value[,value]: %w", s, domain.ErrInvalidConfig),
		}
	}
	d := Directive{Key: key}
	for _, v := range strings.Split(vals, ",") {
		if v = strings.TrimSpace(v); v != "" {
			d.Values = append(d.Values, v)
		}
	}
	return d, nil
}

// QueryOptions are the builder calls requested on the command line.
type QueryOptions struct {
	Includes []string
	Sort     []string
	Filters  []Directive
	Fields   []Directive
	Page     map[string]int
}

// Apply replays the options on b in a fixed order: include, sort, fields, filter, page.
func (o QueryOptions) Apply(b *query.Builder) (*query.Builder, error) {
	if len(o.Includes) > 0 {
		b.Includes(o.Includes...)
	}
	if len(o.Sort) > 0 {
		entries := make([]any, len(o.Sort))
		for i, s := range o.Sort {
			// "field:desc" names the direction explicitly.
			if field, dir, ok := strings.Cut(s, ":"); ok {
				entries[i] = query.SortSpec{Field: field, Direction: query.Direction(strings.ToLower(dir))}
				continue
			}
			entries[i] = s
		}
		if _, err := b.Sort(entries...); err != nil {
			return nil, err
		}
	}
	for _, f := range o.Fields {
		b.Fields(f.Key, f.Values...)
	}
	for _, f := range o.Filters {
		vals := make([]any, len(f.Values))
		for i, v := range f.Values {
			vals[i] = v
		}
		b.Filter(f.Key, vals...)
	}
	if len(o.Page) > 0 {
		b.Page(o.Page)
	}
	return b, nil
}
