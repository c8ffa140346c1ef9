package ports

import (
	"context"

	"github.com/aalvaropc/munson/internal/domain"
)

// Transport issues JSON:API requests and returns decoded payloads.
// Paths are relative to the transport's base URL.
type Transport interface {
	Get(ctx context.Context, path string, params domain.Params, headers domain.Headers) (domain.Response, error)
	Post(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error)
	Patch(ctx context.Context, path string, body any, headers domain.Headers) (domain.Response, error)
	Delete(ctx context.Context, path string, headers domain.Headers) (domain.Response, error)
}
