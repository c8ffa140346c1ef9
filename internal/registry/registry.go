// Package registry maps JSON:API resource type names to the factories that build
// domain objects for them.
package registry

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/aalvaropc/munson/internal/domain"
)

// MapFunc builds a domain object from a raw resource, the included pool of the
// response it came from, and the top-level errors of that response.
type MapFunc func(res domain.Resource, included []domain.Resource, errs domain.ErrorObjects) (any, error)

// Factory is the capability stored for a type. A nil Map means callers fall back
// to a bare document.
type Factory struct {
	Map MapFunc
}

// Registry is safe for concurrent registration and lookup.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]Factory
	logger *slog.Logger
}

type Option func(*Registry)

func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{
		types:  map[string]Factory{},
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var root = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return root
}

// Register stores f for typ. An existing registration is replaced (last write wins)
// and a warning is logged.
func (r *Registry) Register(typ string, f Factory) {
	r.mu.Lock()
	_, exists := r.types[typ]
	r.types[typ] = f
	r.mu.Unlock()

	if exists {
		r.logger.Warn("registry.overwrite", "type", typ)
	}
}

// RegisterFunc is shorthand for Register(typ, Factory{Map: fn}).
func (r *Registry) RegisterFunc(typ string, fn MapFunc) {
	r.Register(typ, Factory{Map: fn})
}

func (r *Registry) Lookup(typ string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.types[typ]
	return f, ok
}

// Flush drops every registration.
func (r *Registry) Flush() {
	r.mu.Lock()
	r.types = map[string]Factory{}
	r.mu.Unlock()
}

// Types returns registered type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
