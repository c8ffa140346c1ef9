package usecase

import (
	"context"
	"sync"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/ports"
)

// recorder keeps the last response read through the wrapped transport so callers
// can report the raw envelope next to the mapped result.
type recorder struct {
	ports.Transport

	mu   sync.Mutex
	last domain.Response
	path string
	seen bool
}

func (r *recorder) Get(ctx context.Context, path string, params domain.Params, headers domain.Headers) (domain.Response, error) {
	resp, err := r.Transport.Get(ctx, path, params, headers)
	if err == nil {
		r.mu.Lock()
		r.last, r.path, r.seen = resp, path, true
		r.mu.Unlock()
	}
	return resp, err
}

func (r *recorder) response() (domain.Response, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.path, r.seen
}
