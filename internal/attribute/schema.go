package attribute

import (
	"fmt"

	"github.com/aalvaropc/munson/internal/domain"
)

// Schema is an ordered table of attributes for one resource type.
type Schema struct {
	attrs []*Attribute
	index map[string]int
}

// NewSchema builds a schema, rejecting duplicate attribute names.
func NewSchema(attrs ...*Attribute) (*Schema, error) {
	s := &Schema{
		attrs: make([]*Attribute, 0, len(attrs)),
		index: make(map[string]int, len(attrs)),
	}
	for _, a := range attrs {
		if err := s.add(a); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSchema is NewSchema for package-level definitions; it panics on duplicates.
func MustSchema(attrs ...*Attribute) *Schema {
	s, err := NewSchema(attrs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(a *Attribute) error {
	if _, dup := s.index[a.Name()]; dup {
		return &domain.OpError{
			Op:   "attribute.schema",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("attribute %q declared twice: %w", a.Name(), domain.ErrDuplicateAttribute),
		}
	}
	s.index[a.Name()] = len(s.attrs)
	s.attrs = append(s.attrs, a)
	return nil
}

// Attribute returns the attribute declared under name.
func (s *Schema) Attribute(name string) (*Attribute, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.attrs[i], true
}

// Names returns attribute names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		out[i] = a.Name()
	}
	return out
}

// Process casts every declared attribute from raw. Undeclared keys are dropped.
func (s *Schema) Process(raw map[string]any) map[string]any {
	out := make(map[string]any, len(s.attrs))
	for _, a := range s.attrs {
		out[a.Name()] = a.Process(raw[a.Name()])
	}
	return out
}

// Serialize converts values for a write payload. Undeclared keys pass through unchanged.
func (s *Schema) Serialize(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if a, ok := s.Attribute(k); ok {
			out[k] = a.Serialize(v)
			continue
		}
		out[k] = v
	}
	return out
}
